// services/hal/platform/platform.go
package platform

import (
	"time"

	"woodenmirror-go/services/hal/halcore"
	"woodenmirror-go/services/hal/servoout"
	"woodenmirror-go/services/hal/strip"
	"woodenmirror-go/types"
)

// parts are the raw peripherals a build target provides.
type parts struct {
	pins     halcore.PinFactory
	port     halcore.Port
	servo    servoout.MicrosecondSetter
	leds     strip.Writer
	critical func(func())
	delay    func(time.Duration)
}

func assemble(cfg types.RelayConfig, p parts) *halcore.Board {
	b := &halcore.Board{
		Pins:  p.pins,
		Port:  p.port,
		Delay: p.delay,
	}
	if p.servo != nil {
		b.Servo = servoout.New(p.servo, servoout.TickHz)
	}
	if p.leds != nil {
		var opts []strip.Option
		if p.critical != nil {
			opts = append(opts, strip.WithCritical(p.critical))
		}
		b.Strip = strip.New(p.leds, cfg.StripLen, opts...)
	}
	return b
}
