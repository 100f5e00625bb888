// services/hal/platform/factories_host.go
//go:build !rp2040

package platform

import (
	"context"
	"image/color"
	"io"
	"sync"
	"time"

	"woodenmirror-go/errcode"
	"woodenmirror-go/services/hal/halcore"
	"woodenmirror-go/types"
)

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements GPIOPin for host builds. A pull-up input reads high
// until something drives it.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	toggles int
}

func (p *FakePin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	switch pull {
	case halcore.PullUp:
		p.level = true
	case halcore.PullDown:
		p.level = false
	}
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *FakePin) Toggle() {
	p.mu.Lock()
	p.level = !p.level
	p.toggles++
	p.mu.Unlock()
}

func (p *FakePin) Toggles() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.toggles
}

func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut
}

func (p *FakePin) Number() int { return p.number }

// MirrorPin is an input wired to another board's output: Get follows src.
type MirrorPin struct {
	number int
	src    halcore.GPIOPin
}

func (m *MirrorPin) ConfigureInput(halcore.Pull) error { return nil }
func (m *MirrorPin) ConfigureOutput(bool) error {
	return &errcode.E{C: errcode.Unsupported, Op: "pin.configure", Msg: "mirrored pin is input only"}
}
func (m *MirrorPin) Set(bool)    {}
func (m *MirrorPin) Get() bool   { return m.src.Get() }
func (m *MirrorPin) Toggle()     {}
func (m *MirrorPin) Number() int { return m.number }

// HostPinFactory returns stable pin instances per number.
type HostPinFactory struct {
	mu       sync.Mutex
	pins     map[int]*FakePin
	mirrored map[int]*MirrorPin
}

func NewHostPinFactory() *HostPinFactory {
	return &HostPinFactory{
		pins:     make(map[int]*FakePin),
		mirrored: make(map[int]*MirrorPin),
	}
}

func (f *HostPinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.mirrored[n]; ok {
		return m, true
	}
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n}
		f.pins[n] = p
	}
	return p, true
}

// Get exposes the underlying *FakePin for tests.
func (f *HostPinFactory) Get(n int) (*FakePin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	return p, ok
}

// Attach wires pin n to src. Must be called before the pin is handed out.
func (f *HostPinFactory) Attach(n int, src halcore.GPIOPin) {
	f.mu.Lock()
	f.mirrored[n] = &MirrorPin{number: n, src: src}
	f.mu.Unlock()
}

// ----------------------------- UART (host) -----------------------------------

// HostPort is an in-memory UART. Bytes written are recorded and, when the
// port is linked, delivered to the peer's receive side.
type HostPort struct {
	mu   sync.Mutex
	rx   []byte
	sent []byte
	peer *HostPort
	rd   chan struct{}
}

func NewHostPort() *HostPort {
	return &HostPort{rd: make(chan struct{}, 1)}
}

// Link connects a's transmit line to b's receive line.
func Link(a, b *HostPort) {
	a.mu.Lock()
	a.peer = b
	a.mu.Unlock()
}

// Inject places bytes on the receive line.
func (p *HostPort) Inject(b ...byte) {
	p.mu.Lock()
	p.rx = append(p.rx, b...)
	p.mu.Unlock()
	select {
	case p.rd <- struct{}{}:
	default:
	}
}

func (p *HostPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	p.sent = append(p.sent, b...)
	peer := p.peer
	p.mu.Unlock()
	if peer != nil {
		peer.Inject(b...)
	}
	return len(b), nil
}

func (p *HostPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.rx) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.rx)
	p.rx = p.rx[n:]
	return n, nil
}

func (p *HostPort) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rx)
}

// RecvSomeContext blocks until at least one byte is available.
func (p *HostPort) RecvSomeContext(ctx context.Context, b []byte) (int, error) {
	for {
		if n, err := p.Read(b); n > 0 {
			return n, err
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-p.rd:
		}
	}
}

// Sent returns a copy of everything written.
func (p *HostPort) Sent() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.sent...)
}

// ----------------------------- Servo / strip (host) --------------------------

// RecordingServo keeps the last pulse width.
type RecordingServo struct {
	mu sync.Mutex
	us int16
	n  int
}

func (s *RecordingServo) SetMicroseconds(us int16) {
	s.mu.Lock()
	s.us = us
	s.n++
	s.mu.Unlock()
}

func (s *RecordingServo) Microseconds() (us int16, writes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.us, s.n
}

// RecordingStrip keeps the last frame.
type RecordingStrip struct {
	mu     sync.Mutex
	frame  []color.RGBA
	frames int
}

func (s *RecordingStrip) WriteColors(buf []color.RGBA) error {
	s.mu.Lock()
	s.frame = append(s.frame[:0], buf...)
	s.frames++
	s.mu.Unlock()
	return nil
}

func (s *RecordingStrip) Last() (color.RGBA, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frame) == 0 {
		return color.RGBA{}, s.frames
	}
	return s.frame[0], s.frames
}

// ----------------------------- Board (host) ----------------------------------

// HostRig exposes the fakes behind a host board.
type HostRig struct {
	Pins  *HostPinFactory
	Port  *HostPort
	Servo *RecordingServo
	LEDs  *RecordingStrip
}

// OpenHost builds a board from fresh fakes.
func OpenHost(cfg types.RelayConfig) (*halcore.Board, *HostRig) {
	rig := &HostRig{
		Pins:  NewHostPinFactory(),
		Port:  NewHostPort(),
		Servo: &RecordingServo{},
		LEDs:  &RecordingStrip{},
	}
	return assemble(cfg, parts{
		pins:  rig.Pins,
		port:  rig.Port,
		servo: rig.Servo,
		leds:  rig.LEDs,
		delay: time.Sleep,
	}), rig
}

// Open returns a host board.
func Open(cfg types.RelayConfig) (*halcore.Board, error) {
	b, _ := OpenHost(cfg)
	return b, nil
}

// CheckClock always passes on the host.
func CheckClock() error { return nil }

// DeviceID names the embedded config used on this target.
func DeviceID() string { return "host" }
