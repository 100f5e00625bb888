package relay

import (
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers/pixel"

	"woodenmirror-go/errcode"
	"woodenmirror-go/services/hal/halcore"
	"woodenmirror-go/types"
	"woodenmirror-go/x/conv"
	"woodenmirror-go/x/timex"
)

// ByteSender blocks until the byte is queued for transmission.
type ByteSender interface {
	SendByte(b byte) error
}

// Parts are the collaborators a Machine drives.
type Parts struct {
	Link  *LinkMonitor
	Servo halcore.PWMChannel
	Strip halcore.Strip
	TX    ByteSender

	ModeIn0, ModeIn1   halcore.GPIOPin
	ModeOut0, ModeOut1 halcore.GPIOPin
	Status             halcore.GPIOPin

	// Delay implements the hold after a forwarded byte.
	Delay func(time.Duration)
}

const modeUnknown = -1

// Machine is the relay state machine. HandleByte and Poll must be called
// from one goroutine; the fields they share are atomics so State can be read
// from anywhere.
type Machine struct {
	name string
	p    Parts

	policy string
	boot   pixel.RGB888
	hold   time.Duration

	awaiting atomic.Bool
	stored   atomic.Uint32
	mode     atomic.Int32
	status   atomic.Value // errcode.Code

	accepted   atomic.Uint32
	forwarded  atomic.Uint32
	idleResets atomic.Uint32

	obs Observer
}

func NewMachine(name string, cfg types.RelayConfig, p Parts, obs Observer) *Machine {
	if obs == nil {
		obs = Nop{}
	}
	if p.Delay == nil {
		p.Delay = time.Sleep
	}
	m := &Machine{
		name:   name,
		p:      p,
		policy: cfg.AcceptPolicy,
		boot:   pixel.NewRGB888(cfg.BootColor[0], cfg.BootColor[1], cfg.BootColor[2]),
		hold:   time.Duration(cfg.ForwardHoldUs) * time.Microsecond,
		obs:    obs,
	}
	m.awaiting.Store(true)
	m.mode.Store(modeUnknown)
	m.status.Store(errcode.OK)
	return m
}

func (m *Machine) Name() string { return m.name }

// Boot drives the outputs to their reset levels, paints the boot colour and
// starts the link counter.
func (m *Machine) Boot() {
	m.p.ModeOut0.Set(false)
	m.p.ModeOut1.Set(false)
	m.p.Status.Set(false)
	m.fill(m.boot)
	m.awaiting.Store(true)
	m.p.Link.OnByteReceived()
	println("[relay]", m.name, "boot, colour", conv.RGBHex(m.boot.R, m.boot.G, m.boot.B))
	m.obs.State(m.name, m.State())
}

// HandleByte is the receive path. The accept/forward decision uses the state
// at the moment b arrives.
func (m *Machine) HandleByte(b uint8) {
	if m.awaiting.Load() {
		m.accept(b)
	} else {
		m.forward(b)
	}
	m.p.Link.OnByteReceived()
}

func (m *Machine) accept(b uint8) {
	m.stored.Store(uint32(b))
	ticks := MapByteToServoTicks(b)
	m.p.Servo.SetDutyTicks(ticks)

	var last pixel.RGB888
	for _, c := range acceptFills(m.policy, b) {
		m.fill(c)
		last = c
	}
	m.p.Status.Set(false)

	m.awaiting.Store(false)
	m.status.Store(errcode.OK)
	m.accepted.Add(1)

	m.obs.Event(m.name, types.RelayEvent{
		Kind:  types.EventAccept,
		Byte:  b,
		Ticks: ticks,
		Color: rgb(last),
		TSms:  timex.NowMs(),
	})
	m.obs.State(m.name, m.State())
}

func (m *Machine) forward(b uint8) {
	if err := m.p.TX.SendByte(b); err != nil {
		println("[relay]", m.name, "forward", conv.U8Hex(b), "failed:", err.Error())
	}
	m.fill(ForwardColor)
	m.p.Status.Set(true)
	if m.hold > 0 {
		m.p.Delay(m.hold)
	}
	m.forwarded.Add(1)

	m.obs.Event(m.name, types.RelayEvent{
		Kind:  types.EventForward,
		Byte:  b,
		Color: rgb(ForwardColor),
		TSms:  timex.NowMs(),
	})
}

// Poll is one main-loop iteration: decode the mode, propagate it downstream
// and, in relay-idle mode, re-arm on link idle.
func (m *Machine) Poll() Mode {
	mode := DecodeMode(m.p.ModeIn0.Get(), m.p.ModeIn1.Get())
	prev := m.mode.Swap(int32(mode))

	o0, o1 := mode.OutputLevels()
	m.p.ModeOut0.Set(o0)
	m.p.ModeOut1.Set(o1)

	changed := prev != int32(mode)
	if mode == RelayIdle {
		if m.p.Link.CheckIdle() {
			if !m.awaiting.Swap(true) {
				m.idleResets.Add(1)
				m.status.Store(errcode.LinkIdle)
				changed = true
			}
			m.p.Status.Toggle()
		} else {
			m.p.Status.Set(false)
		}
	}

	if changed {
		if prev != int32(mode) {
			println("[relay]", m.name, "mode", mode.String())
		}
		m.obs.State(m.name, m.State())
	}
	return mode
}

// State snapshots the node for telemetry.
func (m *Machine) State() types.NodeState {
	st := types.NodeState{
		Awaiting:   m.awaiting.Load(),
		Stored:     uint8(m.stored.Load()),
		Accepted:   m.accepted.Load(),
		Forwarded:  m.forwarded.Load(),
		IdleResets: m.idleResets.Load(),
		TSms:       timex.NowMs(),
	}
	if md := m.mode.Load(); md != modeUnknown {
		st.Mode = Mode(md).Wire()
	}
	if c, _ := m.status.Load().(errcode.Code); c != errcode.OK {
		st.Status = string(c)
	}
	return st
}

// Awaiting reports whether the next byte will be accepted locally.
func (m *Machine) Awaiting() bool { return m.awaiting.Load() }

func (m *Machine) fill(c pixel.RGB888) {
	if err := m.p.Strip.Fill(c); err != nil {
		println("[relay]", m.name, "strip write failed:", err.Error())
	}
}
