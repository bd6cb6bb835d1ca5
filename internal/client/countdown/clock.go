package countdown

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// SkewedClock shifts a base clock by an offset that can be updated at any
// time, e.g. after estimating the server clock from a response Date header.
type SkewedClock struct {
	base   Clock
	offset atomic.Int64
}

func NewSkewedClock(base Clock) *SkewedClock {
	if base == nil {
		base = SystemClock
	}
	return &SkewedClock{base: base}
}

// SetOffset records server time minus local time.
func (c *SkewedClock) SetOffset(d time.Duration) { c.offset.Store(int64(d)) }

func (c *SkewedClock) Offset() time.Duration { return time.Duration(c.offset.Load()) }

func (c *SkewedClock) Now() time.Time {
	return c.base.Now().Add(c.Offset())
}
