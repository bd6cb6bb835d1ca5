package countdown

import (
	"context"
	"sync"
	"time"
)

// Group owns one Timer per rendered record. Sync starts timers for new
// records, restarts a timer whose creation time changed and stops timers of
// records that are no longer rendered, so no two timers ever run for the
// same row.
type Group struct {
	ctx      context.Context
	opts     Options
	onUpdate func(id string, w Window)

	mu      sync.Mutex
	timers  map[string]*Timer
	windows map[string]Window
	closed  bool
}

// NewGroup creates an empty group. onUpdate, if not nil, is called from the
// timer goroutines with every recomputed window.
func NewGroup(ctx context.Context, opts Options, onUpdate func(id string, w Window)) *Group {
	return &Group{
		ctx:      ctx,
		opts:     opts.withDefaults(),
		onUpdate: onUpdate,
		timers:   make(map[string]*Timer),
		windows:  make(map[string]Window),
	}
}

// Sync reconciles the running timers with the records currently rendered,
// given as id -> createdAt.
func (g *Group) Sync(records map[string]time.Time) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}

	var stale []*Timer
	for id, t := range g.timers {
		createdAt, ok := records[id]
		if ok && createdAt.Equal(t.CreatedAt()) {
			continue
		}
		stale = append(stale, t)
		delete(g.timers, id)
		delete(g.windows, id)
	}

	for id, createdAt := range records {
		if _, ok := g.timers[id]; ok {
			continue
		}
		g.windows[id] = Compute(createdAt, g.opts.Clock.Now())
		t := Start(g.ctx, createdAt, g.opts)
		g.timers[id] = t
		go g.consume(id, t)
	}
	g.mu.Unlock()

	for _, t := range stale {
		t.Stop()
	}
}

func (g *Group) consume(id string, t *Timer) {
	for w := range t.Updates() {
		g.mu.Lock()
		if g.timers[id] != t {
			g.mu.Unlock()
			continue
		}
		g.windows[id] = w
		g.mu.Unlock()

		if g.onUpdate != nil {
			g.onUpdate(id, w)
		}
	}
}

// Window returns the latest window published for id.
func (g *Group) Window(id string) (Window, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.windows[id]
	return w, ok
}

// Len is the number of records tracked.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timers)
}

// Close stops every timer. The group cannot be reused afterwards.
func (g *Group) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	timers := make([]*Timer, 0, len(g.timers))
	for _, t := range g.timers {
		timers = append(timers, t)
	}
	g.timers = map[string]*Timer{}
	g.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
}
