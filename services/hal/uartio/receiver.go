// services/hal/uartio/receiver.go
package uartio

import (
	"context"
	"time"

	"woodenmirror-go/services/hal/halcore"
	"woodenmirror-go/services/hal/util"
)

// idlePoll bounds how long a non-blocking port is left unpolled.
const idlePoll = 200 * time.Microsecond

// Receiver moves bytes from a port into a single-byte holding register.
// A byte that arrives before the previous one was taken replaces it, the
// same way a UART RX buffer is overwritten on overrun.
type Receiver struct {
	port     halcore.Port
	slot     chan byte
	charTime time.Duration
}

// CharTime returns the on-wire time of one 8N1 character at baud.
func CharTime(baud uint32) time.Duration {
	if baud == 0 {
		return 0
	}
	return time.Duration(uint64(10*time.Second) / uint64(baud))
}

// NewReceiver paces delivery at one byte per charTime so bytes already
// buffered by the port arrive no faster than the line could carry them.
// charTime 0 disables pacing.
func NewReceiver(port halcore.Port, charTime time.Duration) *Receiver {
	return &Receiver{
		port:     port,
		slot:     make(chan byte, 1),
		charTime: charTime,
	}
}

// Bytes is the holding register. Reading from it consumes the byte.
func (r *Receiver) Bytes() <-chan byte { return r.slot }

// Latch stores b, discarding any byte not yet consumed.
func (r *Receiver) Latch(b byte) {
	for {
		select {
		case r.slot <- b:
			return
		default:
		}
		select {
		case <-r.slot:
		default:
		}
	}
}

// Run reads until ctx is cancelled.
func (r *Receiver) Run(ctx context.Context) error {
	buf := make([]byte, 32)
	pace := time.NewTimer(time.Hour)
	if !pace.Stop() {
		util.DrainTimer(pace)
	}
	defer pace.Stop()

	cr, blocking := r.port.(halcore.ContextReceiver)
	for {
		var n int
		if blocking {
			// Bound the blocking wait to assist shutdown.
			rctx, rcancel := context.WithTimeout(ctx, 250*time.Millisecond)
			n, _ = cr.RecvSomeContext(rctx, buf)
			rcancel()
		} else if r.port.Buffered() > 0 {
			n, _ = r.port.Read(buf)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if n <= 0 {
			if !blocking {
				util.ResetTimer(pace, idlePoll)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-pace.C:
				}
			}
			continue
		}
		for i := 0; i < n; i++ {
			r.Latch(buf[i])
			if r.charTime <= 0 {
				continue
			}
			util.ResetTimer(pace, r.charTime)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace.C:
			}
		}
	}
}
