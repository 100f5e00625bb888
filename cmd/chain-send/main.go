// chain-send drives the head node of a relay chain over a serial port.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/tarm/serial"

	"woodenmirror-go/cmd/internal/seq"
	"woodenmirror-go/x/conv"
)

type options struct {
	Port     string `short:"p" long:"port" description:"serial device" required:"true"`
	Baud     int    `short:"b" long:"baud" description:"baud rate" default:"115200"`
	Sequence string `short:"s" long:"seq" description:"sequence name (ab, rgbw or one from --file)" default:"ab"`
	File     string `short:"f" long:"file" description:"YAML file with extra sequences"`
	Rounds   int    `short:"n" long:"rounds" description:"times to play the sequence, 0 = until interrupted" default:"0"`
	Verbose  bool   `short:"v" long:"verbose" description:"print every byte sent"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	s, err := resolve(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	port, err := serial.OpenPort(&serial.Config{Name: opts.Port, Baud: opts.Baud})
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := &seq.Player{W: port}
	if opts.Verbose {
		p.Trace = func(b byte) { fmt.Println("sent", conv.U8Hex(b)) }
	}

	fmt.Printf("playing %q on %s @ %d\n", s.Name, opts.Port, opts.Baud)
	for i := 0; opts.Rounds == 0 || i < opts.Rounds; i++ {
		if err := p.Play(ctx, s); err != nil {
			if ctx.Err() == nil {
				fmt.Fprintln(os.Stderr, "write:", err)
			}
			break
		}
	}
	fmt.Println("exiting")
}

// resolve picks the sequence named in opts, looking in --file first.
func resolve(opts options) (seq.Sequence, error) {
	var fromFile map[string]seq.Sequence
	if opts.File != "" {
		all, err := seq.Load(opts.File)
		if err != nil {
			return seq.Sequence{}, fmt.Errorf("load %s: %w", opts.File, err)
		}
		if s, ok := all[opts.Sequence]; ok {
			return s, nil
		}
		fromFile = all
	}
	if s, ok := seq.Builtin(opts.Sequence); ok {
		return s, nil
	}

	names := []string{"ab", "rgbw"}
	for n := range fromFile {
		names = append(names, n)
	}
	sort.Strings(names)
	return seq.Sequence{}, fmt.Errorf("unknown sequence %q (have: %v)", opts.Sequence, names)
}
