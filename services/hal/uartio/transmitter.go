// services/hal/uartio/transmitter.go
package uartio

import (
	"context"
	"io"
	"sync"

	"woodenmirror-go/errcode"
)

// Transmitter queues outbound bytes for a single writer goroutine.
// SendByte blocks while the queue is full.
type Transmitter struct {
	w    io.Writer
	q    chan byte
	done chan struct{}
	once sync.Once
}

func NewTransmitter(w io.Writer, depth int) *Transmitter {
	if depth <= 0 {
		depth = 1
	}
	return &Transmitter{
		w:    w,
		q:    make(chan byte, depth),
		done: make(chan struct{}),
	}
}

// SendByte enqueues b, waiting for space. It fails with errcode.Closed once
// the transmitter has stopped.
func (t *Transmitter) SendByte(b byte) error {
	select {
	case <-t.done:
		return errcode.Closed
	default:
	}
	select {
	case t.q <- b:
		return nil
	case <-t.done:
		return errcode.Closed
	}
}

// Pending reports the number of queued bytes.
func (t *Transmitter) Pending() int { return len(t.q) }

// Close stops accepting bytes. Queued bytes are dropped.
func (t *Transmitter) Close() { t.once.Do(func() { close(t.done) }) }

// Run drains the queue into the writer until ctx is cancelled or Close is
// called. A write error stops the transmitter.
func (t *Transmitter) Run(ctx context.Context) error {
	defer t.Close()
	var one [1]byte
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.done:
			return nil
		case b := <-t.q:
			one[0] = b
			if _, err := t.w.Write(one[:]); err != nil {
				println("[uart] tx write failed:", err.Error())
				return errcode.Wrap(errcode.Closed, "uart.write", err)
			}
		}
	}
}
