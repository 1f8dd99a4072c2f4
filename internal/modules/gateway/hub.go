package gateway

import (
	"context"
	"net/http"

	"github.com/geojournal/core/internal/modules/pipeline"
	"github.com/geojournal/core/internal/pkg/events"
	pkgredis "github.com/geojournal/core/internal/pkg/redis"
	"github.com/google/uuid"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

func NewHub(rc *pkgredis.Client, pipe *pipeline.Pipeline, logger *zap.Logger) *Hub {
	sio := socketio.NewServer(nil, nil)
	h := &Hub{
		clients:    make(map[string]struct{}),
		broadcast:  make(chan Message, 256),
		register:   make(chan string, 256),
		unregister: make(chan string, 256),
		origin:     uuid.NewString(),
		rc:         rc,
		pipe:       pipe,
		log:        logger,
		sio:        sio,
	}
	h.registerNamespace()
	return h
}

// Run starts the hub loop, the store event watcher and the Redis subscriber.
func (h *Hub) Run(ctx context.Context, bus *events.Bus) {
	go h.subscribeRedis(ctx)

	busID, busCh := bus.Subscribe(0)
	defer bus.Unsubscribe(busID)

	for {
		select {
		case <-ctx.Done():
			h.sio.Close(nil)
			return

		case sid := <-h.register:
			h.addClient(sid)

		case sid := <-h.unregister:
			h.removeClient(sid)

		case ev := <-busCh:
			h.Broadcast(ev.Name, map[string]interface{}{"id": ev.EntryID})

		case msg := <-h.broadcast:
			h.deliver(msg)
			h.fanOut(ctx, msg)
		}
	}
}

func (h *Hub) addClient(sid string) {
	h.mu.Lock()
	h.clients[sid] = struct{}{}
	first := len(h.clients) == 1 && !h.attached
	if first {
		h.attached = true
	}
	h.mu.Unlock()

	if first {
		id, ch := h.pipe.Subscribe()
		h.mu.Lock()
		h.pipeSubID = id
		h.mu.Unlock()
		go h.pumpSnapshots(ch)
	}
}

func (h *Hub) removeClient(sid string) {
	h.mu.Lock()
	delete(h.clients, sid)
	last := len(h.clients) == 0 && h.attached
	id := h.pipeSubID
	if last {
		h.attached = false
	}
	h.mu.Unlock()

	if last {
		h.pipe.Unsubscribe(id)
	}
}

// pumpSnapshots forwards live pipeline snapshots to connected clients. The
// loop ends when the hub detaches from the pipeline or the pipeline fails.
func (h *Hub) pumpSnapshots(ch <-chan pipeline.Snapshot) {
	for snap := range ch {
		h.deliver(Message{Event: EventJournalUpdated, Payload: snapshotPayload(snap)})
	}
}

func snapshotPayload(snap pipeline.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		"query":      snap.Query,
		"entries":    snap.Entries,
		"totalWords": snap.TotalWords,
		"totalDays":  snap.TotalDays,
	}
}

// Broadcast queues an event for all connected clients, on this instance and
// every peer subscribed to the Redis channel.
func (h *Hub) Broadcast(event string, payload interface{}) {
	select {
	case h.broadcast <- Message{Event: event, Payload: payload, Origin: h.origin}:
	default:
		h.log.Warn("gateway broadcast queue full, dropping event", zap.String("event", event))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}
