package gateway

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

type gatewayPayload struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func gatewayMessageFormat(event string, payload interface{}) gatewayPayload {
	return gatewayPayload{Type: event, Data: payload}
}

func (h *Hub) deliver(msg Message) {
	h.sio.Of(namespaceJournal, nil).Emit("message", gatewayMessageFormat(msg.Event, msg.Payload))
}

func (h *Hub) fanOut(ctx context.Context, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := h.rc.Publish(ctx, redisChanJournal, string(data)); err != nil {
		h.log.Warn("gateway publish failed", zap.String("event", msg.Event), zap.Error(err))
	}
}

// subscribeRedis listens for broadcasts from other server instances. Our
// own messages come back on the channel too; the origin tag filters them.
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rc.Subscribe(ctx, redisChanJournal)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case redisMsg, ok := <-ch:
			if !ok {
				return
			}
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			if msg.Origin == h.origin {
				continue
			}
			h.deliver(msg)
		}
	}
}
