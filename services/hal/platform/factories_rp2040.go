// services/hal/platform/factories_rp2040.go
//go:build rp2040

package platform

import (
	"context"
	"machine"
	"runtime/interrupt"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/delay"
	"tinygo.org/x/drivers/servo"
	"tinygo.org/x/drivers/ws2812"

	"woodenmirror-go/errcode"
	"woodenmirror-go/services/hal/halcore"
	"woodenmirror-go/types"
)

// Open configures UART0, the servo PWM slice and the LED strip from cfg.Pins.
func Open(cfg types.RelayConfig) (*halcore.Board, error) {
	p := parts{
		pins:     rp2PinFactory{},
		critical: critical,
		delay:    delay.Sleep,
	}

	u := uartx.UART0
	if err := u.Configure(uartx.UARTConfig{
		BaudRate: cfg.UARTBaud,
		TX:       machine.Pin(cfg.Pins.UARTTX),
		RX:       machine.Pin(cfg.Pins.UARTRX),
	}); err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "uart0.configure", err)
	}
	p.port = &rp2Port{u: u}

	if cfg.Pins.Servo >= 0 {
		s, err := openServo(machine.Pin(cfg.Pins.Servo))
		if err != nil {
			return nil, errcode.Wrap(errcode.UnknownPin, "servo.open", err)
		}
		p.servo = s
	}

	if cfg.Pins.Strip >= 0 {
		pin := machine.Pin(cfg.Pins.Strip)
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.leds = ws2812.New(pin)
	}

	return assemble(cfg, p), nil
}

// CheckClock fails if the system clock was not brought up.
func CheckClock() error {
	if machine.CPUFrequency() == 0 {
		return errcode.ClockUncalibrated
	}
	return nil
}

func DeviceID() string { return "pico" }

func critical(f func()) {
	st := interrupt.Disable()
	f()
	interrupt.Restore(st)
}

// ---- Servo ----

var pwmSlices = [...]servo.PWM{
	machine.PWM0, machine.PWM1, machine.PWM2, machine.PWM3,
	machine.PWM4, machine.PWM5, machine.PWM6, machine.PWM7,
}

func openServo(pin machine.Pin) (servo.Servo, error) {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return servo.Servo{}, err
	}
	if int(slice) >= len(pwmSlices) {
		return servo.Servo{}, errcode.UnknownPin
	}
	return servo.New(pwmSlices[slice], pin)
}

// ---- UART ----

// rp2Port adapts uartx to halcore.Port with a blocking receive.
type rp2Port struct{ u *uartx.UART }

func (p *rp2Port) Write(b []byte) (int, error) { return p.u.Write(b) }
func (p *rp2Port) Read(b []byte) (int, error)  { return p.u.RecvSomeContext(context.Background(), b) }
func (p *rp2Port) Buffered() int               { return 0 }
func (p *rp2Port) RecvSomeContext(ctx context.Context, b []byte) (int, error) {
	return p.u.RecvSomeContext(ctx, b)
}

// ---- GPIO ----

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	// GP0..GP28 plus the on-board LED on GP25.
	if n < 0 || n > 28 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull halcore.Pull) error {
	var mode machine.PinMode
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }

func (r *rp2Pin) Toggle() {
	if r.p.Get() {
		r.p.Low()
	} else {
		r.p.High()
	}
}

func (r *rp2Pin) Number() int { return r.n }
