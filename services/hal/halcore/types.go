// services/hal/halcore/types.go
package halcore

import (
	"context"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/pixel"
)

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// PinFactory supplies GPIO pins by the board's number scheme.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// ---- Timers ----

// PWMChannel is a compare register in timer ticks. Writes take effect at the
// next period boundary.
type PWMChannel interface {
	SetDutyTicks(ticks uint16)
}

// Counter is a free-running up-counter that wraps at Period. Each wrap that
// happens without an intervening Reset raises one Expired signal; signals are
// latched (at most one pending), never queued.
type Counter interface {
	Reset()
	Read() uint16
	Period() uint16
	Expired() <-chan struct{}
}

// ---- LED strip ----

// Strip paints every LED the same colour. Fill returns once the whole strip
// has been shifted out.
type Strip interface {
	Fill(c pixel.RGB888) error
}

// ---------------- UART abstractions ----------------

// Port is the UART subset used by the link (io.Reader + io.Writer + Buffered).
type Port = drivers.UART

// ContextReceiver is implemented by ports that can block for RX data.
type ContextReceiver interface {
	RecvSomeContext(ctx context.Context, p []byte) (int, error)
}

// ---- Board ----

// Board bundles the peripherals one relay node is wired to.
type Board struct {
	Pins  PinFactory
	Port  Port
	Servo PWMChannel
	Strip Strip

	// Delay busy-waits on MCU targets; time.Sleep elsewhere.
	Delay func(time.Duration)
}
