package countdown

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the recompute period.
const DefaultInterval = time.Second

type ticker interface {
	C() <-chan time.Time
	Stop()
}

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// newTicker is a test seam for time.NewTicker.
var newTicker = func(d time.Duration) ticker { return stdTicker{t: time.NewTicker(d)} }

// Options tune a Timer. Zero values select SystemClock and DefaultInterval.
type Options struct {
	Clock    Clock
	Interval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = SystemClock
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	return o
}

// Timer recomputes the Window of one record on every tick and publishes it
// on Updates. The channel keeps only the latest window, so a slow reader
// never stalls the ticker. Once the window expires the expired value is
// published and the timer stops by itself.
type Timer struct {
	createdAt time.Time
	updates   chan Window
	cancel    context.CancelFunc
	done      chan struct{}
	stopOnce  sync.Once
}

// Start launches a timer for a record created at createdAt. It runs until
// Stop is called, ctx is cancelled, or the window expires.
func Start(ctx context.Context, createdAt time.Time, opts Options) *Timer {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(ctx)

	t := &Timer{
		createdAt: createdAt,
		updates:   make(chan Window, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go t.run(ctx, opts)
	return t
}

// CreatedAt is the timestamp the timer counts from.
func (t *Timer) CreatedAt() time.Time { return t.createdAt }

// Updates delivers recomputed windows. It is closed when the timer stops.
func (t *Timer) Updates() <-chan Window { return t.updates }

// Done is closed once the timer goroutine has exited.
func (t *Timer) Done() <-chan struct{} { return t.done }

// Stop cancels the timer and waits for its goroutine to exit. Safe to call
// more than once.
func (t *Timer) Stop() {
	t.stopOnce.Do(t.cancel)
	<-t.done
}

func (t *Timer) run(ctx context.Context, opts Options) {
	defer close(t.done)
	defer close(t.updates)

	if !t.publish(Compute(t.createdAt, opts.Clock.Now())) {
		return
	}

	tk := newTicker(opts.Interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C():
			if !t.publish(Compute(t.createdAt, opts.Clock.Now())) {
				return
			}
		}
	}
}

// publish replaces any unread window with w and reports whether the timer
// should keep running.
func (t *Timer) publish(w Window) bool {
	select {
	case t.updates <- w:
	default:
		select {
		case <-t.updates:
		default:
		}
		t.updates <- w
	}
	return w.Editable
}
