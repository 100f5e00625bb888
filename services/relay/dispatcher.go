package relay

import (
	"context"
	"time"
)

// Dispatcher owns a Machine and serialises its inputs: received bytes, link
// counter expiries and the poll tick. Nothing else may call HandleByte or
// Poll while Run is active.
type Dispatcher struct {
	m       *Machine
	rx      <-chan byte
	expired <-chan struct{}
	poll    time.Duration
}

func NewDispatcher(m *Machine, rx <-chan byte, expired <-chan struct{}, poll time.Duration) *Dispatcher {
	if poll <= 0 {
		poll = time.Millisecond
	}
	return &Dispatcher{m: m, rx: rx, expired: expired, poll: poll}
}

// Run blocks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	tick := time.NewTicker(d.poll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b := <-d.rx:
			d.m.HandleByte(b)
		case <-d.expired:
			// The firmware loop spins, so an expiry is seen by the very
			// next iteration.
			d.m.p.Link.OnPeriodElapsed()
			d.m.Poll()
		case <-tick.C:
			d.m.Poll()
		}
	}
}
