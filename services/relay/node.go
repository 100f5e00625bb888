package relay

import (
	"context"
	"sync"
	"time"

	"tinygo.org/x/drivers/pixel"

	"woodenmirror-go/errcode"
	"woodenmirror-go/services/hal/halcore"
	"woodenmirror-go/services/hal/linktimer"
	"woodenmirror-go/services/hal/uartio"
	"woodenmirror-go/types"
)

// Node wires one relay to its board: UART receive latch and transmit queue,
// link counter, pins, servo and strip.
type Node struct {
	name    string
	cfg     types.RelayConfig
	m       *Machine
	rx      *uartio.Receiver
	tx      *uartio.Transmitter
	counter *linktimer.Counter
	disp    *Dispatcher
}

func NewNode(name string, cfg types.RelayConfig, b *halcore.Board, obs Observer) (*Node, error) {
	if b == nil || b.Port == nil {
		return nil, &errcode.E{C: errcode.MissingConfig, Op: "relay.node", Msg: "board has no uart"}
	}
	cfg = Normalize(cfg)

	in0, err := inputPin(b.Pins, cfg.Pins.ModeIn0)
	if err != nil {
		return nil, err
	}
	in1, err := inputPin(b.Pins, cfg.Pins.ModeIn1)
	if err != nil {
		return nil, err
	}
	out0, err := outputPin(b.Pins, cfg.Pins.ModeOut0)
	if err != nil {
		return nil, err
	}
	out1, err := outputPin(b.Pins, cfg.Pins.ModeOut1)
	if err != nil {
		return nil, err
	}
	status, err := outputPin(b.Pins, cfg.Pins.StatusLED)
	if err != nil {
		return nil, err
	}

	n := &Node{
		name:    name,
		cfg:     cfg,
		rx:      uartio.NewReceiver(b.Port, uartio.CharTime(cfg.UARTBaud)),
		tx:      uartio.NewTransmitter(b.Port, cfg.TXQueue),
		counter: linktimer.New(cfg.CounterHz, uint16(cfg.IdlePeriodTicks)),
	}

	var servo halcore.PWMChannel = nopServo{}
	if b.Servo != nil {
		servo = b.Servo
	}
	var strip halcore.Strip = nopStrip{}
	if b.Strip != nil {
		strip = b.Strip
	}

	n.m = NewMachine(name, cfg, Parts{
		Link:     NewLinkMonitor(n.counter),
		Servo:    servo,
		Strip:    strip,
		TX:       n.tx,
		ModeIn0:  in0,
		ModeIn1:  in1,
		ModeOut0: out0,
		ModeOut1: out1,
		Status:   status,
		Delay:    b.Delay,
	}, obs)
	n.disp = NewDispatcher(n.m, n.rx.Bytes(), n.counter.Expired(),
		time.Duration(cfg.PollIntervalUs)*time.Microsecond)
	return n, nil
}

func (n *Node) Name() string              { return n.name }
func (n *Node) Machine() *Machine         { return n.m }
func (n *Node) Config() types.RelayConfig { return n.cfg }

// Run boots the node and serves it until ctx is cancelled.
func (n *Node) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n.m.Boot()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = n.rx.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := n.tx.Run(ctx); err != nil && ctx.Err() == nil {
			println("[relay]", n.name, "transmitter stopped:", err.Error())
		}
	}()

	err := n.disp.Run(ctx)
	cancel()
	n.counter.Stop()
	n.tx.Close()
	wg.Wait()
	println("[relay]", n.name, "stopped")
	return err
}

func inputPin(f halcore.PinFactory, num int) (halcore.GPIOPin, error) {
	if num < 0 {
		return nopPin{level: true}, nil
	}
	p, err := lookupPin(f, num)
	if err != nil {
		return nil, err
	}
	if err := p.ConfigureInput(halcore.PullUp); err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "relay.pin", err)
	}
	return p, nil
}

func outputPin(f halcore.PinFactory, num int) (halcore.GPIOPin, error) {
	if num < 0 {
		return nopPin{}, nil
	}
	p, err := lookupPin(f, num)
	if err != nil {
		return nil, err
	}
	if err := p.ConfigureOutput(false); err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "relay.pin", err)
	}
	return p, nil
}

func lookupPin(f halcore.PinFactory, num int) (halcore.GPIOPin, error) {
	if f == nil {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "relay.pin", Msg: "no pin factory"}
	}
	p, ok := f.ByNumber(num)
	if !ok {
		return nil, errcode.UnknownPin
	}
	return p, nil
}

// nopPin stands in for an unwired pin. Inputs read as pulled up.
type nopPin struct{ level bool }

func (p nopPin) ConfigureInput(halcore.Pull) error { return nil }
func (p nopPin) ConfigureOutput(bool) error        { return nil }
func (p nopPin) Set(bool)                          {}
func (p nopPin) Get() bool                         { return p.level }
func (p nopPin) Toggle()                           {}
func (p nopPin) Number() int                       { return -1 }

type nopServo struct{}

func (nopServo) SetDutyTicks(uint16) {}

type nopStrip struct{}

func (nopStrip) Fill(pixel.RGB888) error { return nil }
