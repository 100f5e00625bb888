package relay

import (
	"sync"
	"time"

	"tinygo.org/x/drivers/pixel"

	"woodenmirror-go/services/hal/halcore"
	"woodenmirror-go/types"
)

type fakeCounter struct {
	resets  int
	ticks   uint16
	period  uint16
	expired chan struct{}
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{period: 1200, expired: make(chan struct{}, 1)}
}

func (c *fakeCounter) Reset()                   { c.resets++; c.ticks = 0 }
func (c *fakeCounter) Read() uint16             { return c.ticks }
func (c *fakeCounter) Period() uint16           { return c.period }
func (c *fakeCounter) Expired() <-chan struct{} { return c.expired }

type fakePin struct {
	mu      sync.Mutex
	n       int
	level   bool
	toggles int
}

func (p *fakePin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = pull == halcore.PullUp
	return nil
}
func (p *fakePin) ConfigureOutput(initial bool) error { p.Set(initial); return nil }
func (p *fakePin) Set(l bool)                         { p.mu.Lock(); p.level = l; p.mu.Unlock() }
func (p *fakePin) Get() bool                          { p.mu.Lock(); defer p.mu.Unlock(); return p.level }
func (p *fakePin) Toggle() {
	p.mu.Lock()
	p.level = !p.level
	p.toggles++
	p.mu.Unlock()
}
func (p *fakePin) Number() int { return p.n }

type recServo struct{ ticks []uint16 }

func (s *recServo) SetDutyTicks(t uint16) { s.ticks = append(s.ticks, t) }

type recStrip struct{ fills []pixel.RGB888 }

func (s *recStrip) Fill(c pixel.RGB888) error { s.fills = append(s.fills, c); return nil }

type recTX struct{ sent []byte }

func (t *recTX) SendByte(b byte) error { t.sent = append(t.sent, b); return nil }

type recObserver struct {
	states []types.NodeState
	events []types.RelayEvent
}

func (o *recObserver) State(_ string, st types.NodeState)  { o.states = append(o.states, st) }
func (o *recObserver) Event(_ string, ev types.RelayEvent) { o.events = append(o.events, ev) }

type rig struct {
	m       *Machine
	counter *fakeCounter
	servo   *recServo
	strip   *recStrip
	tx      *recTX
	obs     *recObserver

	in0, in1, out0, out1, status *fakePin
	holds                        []int64
}

func newRig(cfg types.RelayConfig) *rig {
	r := &rig{
		counter: newFakeCounter(),
		servo:   &recServo{},
		strip:   &recStrip{},
		tx:      &recTX{},
		obs:     &recObserver{},
		in0:     &fakePin{n: 10},
		in1:     &fakePin{n: 11},
		out0:    &fakePin{n: 14},
		out1:    &fakePin{n: 15},
		status:  &fakePin{n: 25},
	}
	r.m = NewMachine("n0", cfg, Parts{
		Link:     NewLinkMonitor(r.counter),
		Servo:    r.servo,
		Strip:    r.strip,
		TX:       r.tx,
		ModeIn0:  r.in0,
		ModeIn1:  r.in1,
		ModeOut0: r.out0,
		ModeOut1: r.out1,
		Status:   r.status,
		Delay:    func(d time.Duration) { r.holds = append(r.holds, d.Microseconds()) },
	}, r.obs)
	return r
}

// setMode drives the mode-in pins as external wiring would.
func (r *rig) setMode(m Mode) {
	r.in0.Set(m&0b10 != 0)
	r.in1.Set(m&0b01 != 0)
}
