package events

import "sync"

// Event names published on the journal bus.
const (
	EntryCreated = "entry_created"
	EntryUpdated = "entry_updated"
	EntryDeleted = "entry_deleted"
)

// Event is a single change notification.
type Event struct {
	Name    string
	EntryID uint
}

const defaultBufSize = 64

// Bus is an in-process publish/subscribe channel for store change
// notifications. Publishing never blocks; a subscriber that falls behind
// drops notifications, which is safe because consumers re-query the store
// rather than replaying events.
type Bus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber and returns its id and channel.
func (b *Bus) Subscribe(buffer int) (int, <-chan Event) {
	if buffer <= 0 {
		buffer = defaultBufSize
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
	}
	b.mu.Unlock()

	if ok {
		close(ch)
	}
}

// Publish pushes an event to all current subscribers without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount reports the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
