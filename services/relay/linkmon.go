package relay

import (
	"sync/atomic"

	"woodenmirror-go/services/hal/halcore"
)

// LinkMonitor decides when the inbound link has gone quiet. The counter is
// zeroed on every byte; a full counter period without a byte raises the
// elapsed latch, which the poll path consumes once.
type LinkMonitor struct {
	counter halcore.Counter
	elapsed atomic.Bool
}

func NewLinkMonitor(c halcore.Counter) *LinkMonitor {
	return &LinkMonitor{counter: c}
}

// OnByteReceived zeroes the counter. O(1), safe from the byte handler.
func (l *LinkMonitor) OnByteReceived() { l.counter.Reset() }

// OnPeriodElapsed is the compare-interrupt path: it only sets the latch.
func (l *LinkMonitor) OnPeriodElapsed() { l.elapsed.Store(true) }

// CheckIdle reports whether a full period elapsed since the last check that
// returned true, clearing the latch.
func (l *LinkMonitor) CheckIdle() bool { return l.elapsed.Swap(false) }

// Pending reports the latch without consuming it.
func (l *LinkMonitor) Pending() bool { return l.elapsed.Load() }

// Ticks is the current counter value.
func (l *LinkMonitor) Ticks() uint16 { return l.counter.Read() }

func (l *LinkMonitor) Period() uint16 { return l.counter.Period() }
