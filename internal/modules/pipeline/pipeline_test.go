package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/geojournal/core/internal/models"
	"github.com/geojournal/core/internal/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu      sync.Mutex
	entries []models.EntryModel
	err     error
	delays  map[string]time.Duration
}

func (f *fakeStore) All(ctx context.Context) ([]models.EntryModel, error) {
	return f.Search(ctx, "")
}

func (f *fakeStore) Search(ctx context.Context, q string) ([]models.EntryModel, error) {
	f.mu.Lock()
	err := f.err
	delay := f.delays[q]
	entries := make([]models.EntryModel, 0, len(f.entries))
	for _, e := range f.entries {
		if q == "" || strings.Contains(strings.ToLower(e.Title), strings.ToLower(q)) {
			entries = append(entries, e)
		}
	}
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (f *fakeStore) set(entries ...models.EntryModel) {
	f.mu.Lock()
	f.entries = entries
	f.mu.Unlock()
}

func waitFor(t *testing.T, ch <-chan Snapshot, match func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-ch:
			require.True(t, ok, "snapshot channel closed")
			if match(snap) {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func TestSubscribeDeliversSnapshot(t *testing.T) {
	store := &fakeStore{}
	store.set(
		models.EntryModel{ID: 1, Title: "trail run", Description: "six muddy miles", CreatedAt: 1000},
		models.EntryModel{ID: 2, Title: "ferry ride", Description: "calm water", CreatedAt: 2000},
	)
	p := New(store, events.NewBus(), time.Second, zap.NewNop())

	id, ch := p.Subscribe()
	defer p.Unsubscribe(id)

	snap := waitFor(t, ch, func(s Snapshot) bool { return len(s.Entries) == 2 })
	assert.Equal(t, 5, snap.TotalWords)
	assert.Equal(t, "", snap.Query)
}

func TestStoreChangeRefreshesSnapshot(t *testing.T) {
	store := &fakeStore{}
	bus := events.NewBus()
	p := New(store, bus, time.Second, zap.NewNop())

	id, ch := p.Subscribe()
	defer p.Unsubscribe(id)

	store.set(models.EntryModel{ID: 1, Title: "new entry", CreatedAt: 1000})
	bus.Publish(events.Event{Name: events.EntryCreated, EntryID: 1})

	snap := waitFor(t, ch, func(s Snapshot) bool { return len(s.Entries) == 1 })
	assert.Equal(t, "new entry", snap.Entries[0].Title)
}

func TestSetQueryFilters(t *testing.T) {
	store := &fakeStore{}
	store.set(
		models.EntryModel{ID: 1, Title: "alpine lake", CreatedAt: 2000},
		models.EntryModel{ID: 2, Title: "city market", CreatedAt: 1000},
	)
	p := New(store, events.NewBus(), time.Second, zap.NewNop())

	id, ch := p.Subscribe()
	defer p.Unsubscribe(id)

	p.SetQuery("alpine")

	snap := waitFor(t, ch, func(s Snapshot) bool { return s.Query == "alpine" })
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "alpine lake", snap.Entries[0].Title)
}

func TestNewerQuerySupersedesSlowerOne(t *testing.T) {
	store := &fakeStore{delays: map[string]time.Duration{"al": 200 * time.Millisecond}}
	store.set(
		models.EntryModel{ID: 1, Title: "alpine lake", CreatedAt: 2000},
		models.EntryModel{ID: 2, Title: "alley cats", CreatedAt: 1000},
	)
	p := New(store, events.NewBus(), time.Second, zap.NewNop())

	id, ch := p.Subscribe()
	defer p.Unsubscribe(id)

	p.SetQuery("al")
	p.SetQuery("alpine")

	waitFor(t, ch, func(s Snapshot) bool { return s.Query == "alpine" })

	// give the slow "al" refresh time to finish; its result must be dropped
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, "alpine", p.Current().Query)
	require.Len(t, p.Current().Entries, 1)
}

func TestStoreErrorClosesSubscribers(t *testing.T) {
	store := &fakeStore{err: errors.New("disk gone")}
	p := New(store, events.NewBus(), time.Second, zap.NewNop())

	_, ch := p.Subscribe()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel was not closed after store failure")
		}
	}
}

func TestIdlesAfterGracePeriod(t *testing.T) {
	store := &fakeStore{}
	bus := events.NewBus()
	p := New(store, bus, 20*time.Millisecond, zap.NewNop())

	id, _ := p.Subscribe()
	assert.Eventually(t, func() bool { return bus.SubscriberCount() == 1 },
		time.Second, 5*time.Millisecond)

	p.Unsubscribe(id)
	assert.Eventually(t, func() bool { return bus.SubscriberCount() == 0 },
		time.Second, 5*time.Millisecond)
}

func TestResubscribeWithinGraceStaysWarm(t *testing.T) {
	store := &fakeStore{}
	bus := events.NewBus()
	p := New(store, bus, 200*time.Millisecond, zap.NewNop())

	id, _ := p.Subscribe()
	p.Unsubscribe(id)

	id2, _ := p.Subscribe()
	defer p.Unsubscribe(id2)

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, bus.SubscriberCount())
}
