// services/hal/servoout/servoout.go
package servoout

import "sync/atomic"

// TickHz is the compare-register clock: SMCLK 16 MHz divided by 4.
const TickHz = 4_000_000

// MicrosecondSetter drives a servo pulse width (servo.Servo satisfies it).
type MicrosecondSetter interface {
	SetMicroseconds(microseconds int16)
}

// Channel exposes a servo as a compare register counted in TickHz ticks.
type Channel struct {
	s      MicrosecondSetter
	tickHz uint32
	last   atomic.Uint32
}

func New(s MicrosecondSetter, tickHz uint32) *Channel {
	if tickHz == 0 {
		tickHz = TickHz
	}
	return &Channel{s: s, tickHz: tickHz}
}

// SetDutyTicks converts ticks to a pulse width and applies it.
func (c *Channel) SetDutyTicks(ticks uint16) {
	c.last.Store(uint32(ticks))
	c.s.SetMicroseconds(TicksToMicros(ticks, c.tickHz))
}

// DutyTicks returns the last value written.
func (c *Channel) DutyTicks() uint16 { return uint16(c.last.Load()) }

// TicksToMicros converts compare ticks at tickHz to microseconds, saturating
// at the int16 range the servo driver accepts.
func TicksToMicros(ticks uint16, tickHz uint32) int16 {
	if tickHz == 0 {
		return 0
	}
	us := uint64(ticks) * 1_000_000 / uint64(tickHz)
	if us > 32767 {
		us = 32767
	}
	return int16(us)
}
