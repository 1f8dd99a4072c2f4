package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/geojournal/core/internal/models"
	"github.com/geojournal/core/internal/pkg/events"
	"go.uber.org/zap"
)

const queryTimeout = 10 * time.Second

// Store is the read surface the pipeline queries. Satisfied by the entry
// service.
type Store interface {
	All(ctx context.Context) ([]models.EntryModel, error)
	Search(ctx context.Context, q string) ([]models.EntryModel, error)
}

// Snapshot is one consistent view of the journal: the entries matching the
// active query plus statistics derived from them.
type Snapshot struct {
	Query      string              `json:"query"`
	Entries    []models.EntryModel `json:"entries"`
	TotalWords int                 `json:"totalWords"`
	TotalDays  int                 `json:"totalDays"`
}

// Pipeline maintains a live snapshot of the entry store. While at least one
// subscriber is attached it listens for store change notifications and
// re-queries; when the last subscriber leaves it keeps listening for a grace
// period before going idle. Changing the query cancels the result of any
// in-flight refresh (only the newest query's result is ever applied).
type Pipeline struct {
	store Store
	bus   *events.Bus
	grace time.Duration
	log   *zap.Logger

	mu      sync.Mutex
	query   string
	gen     uint64
	current Snapshot
	subs    map[int]chan Snapshot
	nextID  int

	running bool
	busID   int
	stopCh  chan struct{}
	idle    *time.Timer
}

func New(store Store, bus *events.Bus, grace time.Duration, log *zap.Logger) *Pipeline {
	if grace <= 0 {
		grace = 5 * time.Second
	}
	return &Pipeline{
		store:   store,
		bus:     bus,
		grace:   grace,
		log:     log,
		current: Snapshot{Entries: []models.EntryModel{}},
		subs:    make(map[int]chan Snapshot),
	}
}

// SetQuery changes the active search query. Blank means "all entries".
// Supersedes any refresh still in flight.
func (p *Pipeline) SetQuery(q string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.query = q
	if p.running {
		p.bumpLocked()
	}
}

// Query returns the active search query.
func (p *Pipeline) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Subscribe attaches a live reader. The current snapshot is delivered
// immediately; subsequent snapshots follow every store change or query
// change. The first subscriber wakes the pipeline.
func (p *Pipeline) Subscribe() (int, <-chan Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.idle != nil {
		p.idle.Stop()
		p.idle = nil
	}

	ch := make(chan Snapshot, 1)
	id := p.nextID
	p.nextID++
	p.subs[id] = ch
	ch <- p.current

	if !p.running {
		p.running = true
		busID, busCh := p.bus.Subscribe(0)
		p.busID = busID
		p.stopCh = make(chan struct{})
		go p.watch(busCh, p.stopCh)
		p.bumpLocked()
	}
	return id, ch
}

// Unsubscribe detaches a live reader and closes its channel. When the last
// reader leaves, the pipeline stays warm for the grace period and then stops
// watching the store. The last snapshot is retained for fast resubscribes.
func (p *Pipeline) Unsubscribe(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, ok := p.subs[id]
	if !ok {
		return
	}
	delete(p.subs, id)
	close(ch)

	if len(p.subs) == 0 && p.running {
		p.idle = time.AfterFunc(p.grace, p.sleep)
	}
}

// Current returns the latest computed snapshot.
func (p *Pipeline) Current() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Stats re-queries the store and returns fresh journal statistics,
// independent of the live snapshot and the active query.
func (p *Pipeline) Stats(ctx context.Context) (totalEntries, totalWords, totalDays int, err error) {
	entries, err := p.store.All(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	return len(entries), TotalWords(entries), DistinctDays(entries), nil
}

func (p *Pipeline) watch(busCh <-chan events.Event, stop chan struct{}) {
	for {
		select {
		case _, ok := <-busCh:
			if !ok {
				return
			}
			p.mu.Lock()
			if p.running {
				p.bumpLocked()
			}
			p.mu.Unlock()
		case <-stop:
			return
		}
	}
}

func (p *Pipeline) sleep() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.subs) > 0 || !p.running {
		return
	}
	p.stopLocked()
}

func (p *Pipeline) stopLocked() {
	p.running = false
	close(p.stopCh)
	p.bus.Unsubscribe(p.busID)
	p.idle = nil
}

// bumpLocked invalidates any in-flight refresh and starts a new one for the
// current query. Callers hold p.mu.
func (p *Pipeline) bumpLocked() {
	p.gen++
	go p.compute(p.gen, p.query)
}

func (p *Pipeline) compute(gen uint64, q string) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var entries []models.EntryModel
	var err error
	if strings.TrimSpace(q) == "" {
		entries, err = p.store.All(ctx)
	} else {
		entries, err = p.store.Search(ctx, q)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// superseded by a newer query or store change
		return
	}
	if err != nil {
		p.log.Error("journal pipeline refresh failed", zap.String("query", q), zap.Error(err))
		p.failLocked()
		return
	}
	if entries == nil {
		entries = []models.EntryModel{}
	}

	snap := Snapshot{
		Query:      q,
		Entries:    entries,
		TotalWords: TotalWords(entries),
		TotalDays:  DistinctDays(entries),
	}
	p.current = snap
	for _, ch := range p.subs {
		deliver(ch, snap)
	}
}

// failLocked tears down all subscriptions so readers observe the failure as
// a closed channel. A later Subscribe restarts the pipeline from scratch.
func (p *Pipeline) failLocked() {
	for id, ch := range p.subs {
		delete(p.subs, id)
		close(ch)
	}
	if p.running {
		p.stopLocked()
	}
}

// deliver pushes a snapshot without blocking. A reader that has not drained
// the previous snapshot loses it; only the newest matters.
func deliver(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
