package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	id1, ch1 := bus.Subscribe(4)
	id2, ch2 := bus.Subscribe(4)
	defer bus.Unsubscribe(id1)
	defer bus.Unsubscribe(id2)

	bus.Publish(Event{Name: EntryCreated, EntryID: 7})

	ev1 := <-ch1
	ev2 := <-ch2
	assert.Equal(t, EntryCreated, ev1.Name)
	assert.Equal(t, uint(7), ev1.EntryID)
	assert.Equal(t, ev1, ev2)
}

func TestBusPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	bus := NewBus()
	id, ch := bus.Subscribe(1)
	defer bus.Unsubscribe(id)

	// Fill the buffer, then publish more than it can hold. Publish must
	// return instead of blocking.
	for i := 0; i < 10; i++ {
		bus.Publish(Event{Name: EntryUpdated, EntryID: uint(i)})
	}

	ev := <-ch
	assert.Equal(t, uint(0), ev.EntryID)
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	id, ch := bus.Subscribe(1)

	require.Equal(t, 1, bus.SubscriberCount())
	bus.Unsubscribe(id)
	require.Equal(t, 0, bus.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)

	// Unsubscribing twice is a no-op.
	bus.Unsubscribe(id)
}
