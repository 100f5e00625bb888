// services/hal/linktimer/counter.go
package linktimer

import (
	"sync"
	"time"

	"woodenmirror-go/x/timex"
)

// Counter emulates a hardware up-counter in "up mode": it counts from 0 to
// Period-1 at Hz, wraps, and raises the compare interrupt on every wrap.
// The interrupt is delivered as a latched signal on Expired.
type Counter struct {
	mu      sync.Mutex
	hz      uint32
	period  uint16
	periodD time.Duration
	base    time.Time
	timer   *time.Timer
	gen     uint64
	expired chan struct{}
	now     func() time.Time
}

func New(hz uint32, period uint16) *Counter {
	if period == 0 {
		period = 1
	}
	if hz == 0 {
		hz = 1
	}
	return &Counter{
		hz:      hz,
		period:  period,
		periodD: timex.TicksToDuration(uint32(period), hz),
		expired: make(chan struct{}, 1),
		now:     time.Now,
	}
}

// PeriodDuration is the wall-clock length of one full period.
func (c *Counter) PeriodDuration() time.Duration { return c.periodD }

func (c *Counter) Period() uint16 { return c.period }

func (c *Counter) Expired() <-chan struct{} { return c.expired }

// Start begins counting from zero.
func (c *Counter) Start() { c.Reset() }

// Reset writes zero to the counter. The next expiry is one full period away.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.now()
	c.gen++
	c.armLocked()
}

// Read returns the current count in [0, Period).
func (c *Counter) Read() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.base.IsZero() {
		return 0
	}
	ticks := timex.DurationToTicks(c.now().Sub(c.base), c.hz)
	return uint16(ticks % uint64(c.period))
}

// Stop halts the counter; no further expiries are raised.
func (c *Counter) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Counter) armLocked() {
	gen := c.gen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.periodD, func() { c.fire(gen) })
}

func (c *Counter) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		// Superseded by a Reset or Stop.
		c.mu.Unlock()
		return
	}
	c.base = c.base.Add(c.periodD)
	c.armLocked()
	c.mu.Unlock()

	select {
	case c.expired <- struct{}{}:
	default:
		// Already pending.
	}
}
