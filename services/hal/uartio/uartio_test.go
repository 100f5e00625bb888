package uartio

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"woodenmirror-go/errcode"
)

// --- minimal fake UART implementing halcore.Port + ContextReceiver ---

type fakeUART struct {
	mu sync.Mutex
	rx []byte
	tx bytes.Buffer
	rd chan struct{}
}

func newFakeUART() *fakeUART { return &fakeUART{rd: make(chan struct{}, 1)} }

func (f *fakeUART) inject(b []byte) {
	f.mu.Lock()
	f.rx = append(f.rx, b...)
	f.mu.Unlock()
	select {
	case f.rd <- struct{}{}:
	default:
	}
}

func (f *fakeUART) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tx.Write(p)
}
func (f *fakeUART) Buffered() int { f.mu.Lock(); n := len(f.rx); f.mu.Unlock(); return n }
func (f *fakeUART) Read(p []byte) (int, error) {
	f.mu.Lock()
	n := copy(p, f.rx)
	f.rx = f.rx[n:]
	f.mu.Unlock()
	return n, nil
}
func (f *fakeUART) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	if n := f.Buffered(); n > 0 {
		return f.Read(p)
	}
	select {
	case <-f.rd:
		return f.Read(p)
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
func (f *fakeUART) written() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.tx.Bytes()...)
}

// pollUART has no RecvSomeContext, like a bare machine.UART.
type pollUART struct{ f *fakeUART }

func (p pollUART) Write(b []byte) (int, error) { return p.f.Write(b) }
func (p pollUART) Read(b []byte) (int, error)  { return p.f.Read(b) }
func (p pollUART) Buffered() int               { return p.f.Buffered() }

func recvByte(ch <-chan byte, d time.Duration) (byte, bool) {
	select {
	case b := <-ch:
		return b, true
	case <-time.After(d):
		return 0, false
	}
}

func TestReceiver_LatchOverwrites(t *testing.T) {
	r := NewReceiver(newFakeUART(), 0)
	r.Latch('A')
	r.Latch('B')

	b, ok := recvByte(r.Bytes(), 50*time.Millisecond)
	if !ok || b != 'B' {
		t.Fatalf("expected latest byte 'B', got %q ok=%v", b, ok)
	}
	if _, ok := recvByte(r.Bytes(), 20*time.Millisecond); ok {
		t.Fatal("holding register should be empty after one read")
	}
}

func TestReceiver_DeliversPacedBytes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := newFakeUART()
	r := NewReceiver(u, 2*time.Millisecond)
	go r.Run(ctx)

	u.inject([]byte{0x01, 0x02, 0x03})
	for _, want := range []byte{0x01, 0x02, 0x03} {
		b, ok := recvByte(r.Bytes(), time.Second)
		if !ok {
			t.Fatalf("timeout waiting for %#x", want)
		}
		if b != want {
			t.Fatalf("got %#x, want %#x", b, want)
		}
	}
}

func TestReceiver_PollingPort(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newFakeUART()
	r := NewReceiver(pollUART{f}, 0)
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	f.inject([]byte{0x7F})
	if b, ok := recvByte(r.Bytes(), time.Second); !ok || b != 0x7F {
		t.Fatalf("got %#x ok=%v", b, ok)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("receiver did not stop")
	}
}

func TestCharTime(t *testing.T) {
	if got := CharTime(115200); got != 86805*time.Nanosecond {
		t.Fatalf("CharTime(115200) = %v", got)
	}
	if CharTime(0) != 0 {
		t.Fatal("CharTime(0) should disable pacing")
	}
}

// blockingWriter holds every write until release is closed.
type blockingWriter struct {
	release chan struct{}
	mu      sync.Mutex
	got     []byte
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	<-w.release
	w.mu.Lock()
	w.got = append(w.got, p...)
	w.mu.Unlock()
	return len(p), nil
}

func TestTransmitter_BlocksWhenFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &blockingWriter{release: make(chan struct{})}
	tx := NewTransmitter(w, 1)
	go tx.Run(ctx)

	// First byte is taken by the writer (stuck in Write), second fills the queue.
	if err := tx.SendByte('a'); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	for tx.Pending() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if err := tx.SendByte('b'); err != nil {
		t.Fatal(err)
	}

	sent := make(chan error, 1)
	go func() { sent <- tx.SendByte('c') }()

	select {
	case <-sent:
		t.Fatal("SendByte returned while the queue was full")
	case <-time.After(30 * time.Millisecond):
	}

	close(w.release)
	select {
	case err := <-sent:
		if err != nil {
			t.Fatalf("SendByte: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("SendByte did not unblock after drain")
	}

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		w.mu.Lock()
		n := len(w.got)
		w.mu.Unlock()
		if n == 3 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if string(w.got) != "abc" {
		t.Fatalf("writer got %q, want %q", w.got, "abc")
	}
}

func TestTransmitter_ClosedAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	u := newFakeUART()
	tx := NewTransmitter(u, 4)
	done := make(chan struct{})
	go func() { tx.Run(ctx); close(done) }()

	if err := tx.SendByte(0x42); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	for len(u.written()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := u.written(); !bytes.Equal(got, []byte{0x42}) {
		t.Fatalf("written %x", got)
	}

	cancel()
	<-done
	if err := tx.SendByte(0x43); !errors.Is(err, errcode.Closed) {
		t.Fatalf("SendByte after stop = %v, want closed", err)
	}
}
