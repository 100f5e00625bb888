// chain-sim runs a daisy chain of relay nodes in memory and feeds bytes into
// the head.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"woodenmirror-go/bus"
	"woodenmirror-go/cmd/internal/seq"
	"woodenmirror-go/services/relay"
	"woodenmirror-go/types"
)

type options struct {
	Nodes  int           `short:"n" long:"nodes" description:"chain length" default:"3"`
	Mode   string        `short:"m" long:"mode" description:"head mode straps" choice:"00" choice:"01" choice:"10" choice:"11" default:"00"`
	Bytes  string        `short:"b" long:"bytes" description:"bytes to send, shell-split" default:"0x30 0x90 0x01"`
	Gap    time.Duration `short:"g" long:"gap" description:"gap between bytes" default:"10ms"`
	Settle time.Duration `long:"settle" description:"wait after the last byte" default:"300ms"`
	Policy string        `long:"policy" description:"accept colour policy" choice:"sentinel" choice:"palette" default:"sentinel"`
	Events bool          `short:"e" long:"events" description:"print relay events"`
}

var modes = map[string]relay.Mode{
	"00": relay.RelayIdle,
	"01": relay.ForwardA,
	"10": relay.ForwardB,
	"11": relay.ForwardBoth,
}

func simConfig(opts options) types.RelayConfig {
	cfg := relay.DefaultConfig()
	cfg.AcceptPolicy = opts.Policy
	cfg.Pins = types.PinMap{
		ModeIn0: 10, ModeIn1: 11,
		ModeOut0: 14, ModeOut1: 15,
		StatusLED: 25, Servo: 6, Strip: 16,
		UARTTX: -1, UARTRX: -1,
	}
	return relay.Normalize(cfg)
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	payload, err := seq.ParseBytes(opts.Bytes)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bytes:", err)
		os.Exit(2)
	}

	c, err := newChain(opts.Nodes, simConfig(opts), modes[opts.Mode])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)

	if opts.Events {
		sub := c.bus.NewConnection("printer").Subscribe(bus.T("relay", bus.Wildcard, "event"))
		go func() {
			for m := range sub.Channel() {
				js, _ := json.Marshal(m.Payload)
				fmt.Println(m.Topic.String(), string(js))
			}
		}()
	}

	wg := c.run(ctx)
	time.Sleep(50 * time.Millisecond) // first poll propagates the mode

	for _, b := range payload {
		c.send(b)
		time.Sleep(opts.Gap)
	}
	select {
	case <-ctx.Done():
	case <-time.After(opts.Settle):
	}

	for _, line := range c.report() {
		fmt.Println(line)
	}
	cancel()
	wg.Wait()
}
