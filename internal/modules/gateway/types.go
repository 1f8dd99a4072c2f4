package gateway

import (
	"sync"

	"github.com/geojournal/core/internal/modules/pipeline"
	pkgredis "github.com/geojournal/core/internal/pkg/redis"
	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

const (
	namespaceJournal = "/journal"
	redisChanJournal = "gj:gateway:journal"

	eventConnect        = "GATEWAY_CONNECT"
	EventJournalUpdated = "journal_updated"

	messageQuery = "query"
)

// Message is the envelope used by hub broadcasts and Redis fan-out. Origin
// identifies the publishing instance so it can skip its own echoes.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
	Origin  string      `json:"origin,omitempty"`
}

// Hub manages the /journal socket.io namespace: it pushes store change
// events and live snapshots to connected clients, and fans entry events out
// over Redis so every instance sees writes from every other.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]struct{}

	broadcast  chan Message
	register   chan string
	unregister chan string

	origin string
	rc     *pkgredis.Client
	pipe   *pipeline.Pipeline
	log    *zap.Logger
	sio    *socketio.Server

	pipeSubID int
	attached  bool
}
