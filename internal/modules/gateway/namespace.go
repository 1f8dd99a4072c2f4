package gateway

import (
	"encoding/json"
	"strings"

	socketio "github.com/zishang520/socket.io/v2/socket"
)

type inboundMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

func (h *Hub) registerNamespace() {
	ns := h.sio.Of(namespaceJournal, nil)
	_ = ns.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}
		sid := string(client.Id())
		h.register <- sid
		_ = client.Emit("message", gatewayMessageFormat(eventConnect, "WebSocket connected"))

		_ = client.On("message", func(eventArgs ...any) {
			msg, ok := parseInboundMessage(eventArgs...)
			if !ok {
				return
			}

			switch msg.Type {
			case messageQuery:
				q, present := msg.Payload["query"]
				if !present {
					return
				}
				h.pipe.SetQuery(strFromAny(q))
			}
		})

		_ = client.On("disconnect", func(_ ...any) {
			h.unregister <- sid
		})
	})
}

func parseInboundMessage(args ...any) (inboundMessage, bool) {
	if len(args) == 0 || args[0] == nil {
		return inboundMessage{}, false
	}

	var msg inboundMessage
	switch raw := args[0].(type) {
	case map[string]interface{}:
		msg.Type = strFromAny(raw["type"])
		msg.Payload = mapFromAny(raw["payload"])
	case string:
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return inboundMessage{}, false
		}
	case []byte:
		if err := json.Unmarshal(raw, &msg); err != nil {
			return inboundMessage{}, false
		}
	default:
		data, err := json.Marshal(raw)
		if err != nil {
			return inboundMessage{}, false
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return inboundMessage{}, false
		}
	}

	msg.Type = strings.TrimSpace(msg.Type)
	if msg.Type == "" {
		return inboundMessage{}, false
	}
	if msg.Payload == nil {
		msg.Payload = map[string]interface{}{}
	}
	return msg, true
}

func mapFromAny(v interface{}) map[string]interface{} {
	switch typed := v.(type) {
	case nil:
		return map[string]interface{}{}
	case map[string]interface{}:
		return typed
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return map[string]interface{}{}
		}
		out := map[string]interface{}{}
		if err := json.Unmarshal(data, &out); err != nil {
			return map[string]interface{}{}
		}
		return out
	}
}

func strFromAny(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
