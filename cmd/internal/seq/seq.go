// Package seq describes byte sequences sent into the head of a relay chain.
package seq

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Step is a group of bytes written one at a time, Gap apart, followed by
// Pause.
type Step struct {
	Bytes []byte
	Gap   time.Duration
	Pause time.Duration
}

type Sequence struct {
	Name  string
	Steps []Step
}

// ParseBytes splits s shell-style and parses each token as a byte: numbers
// in any Go base ("0x30", "48", "0b110000") or a single literal character.
func ParseBytes(s string) ([]byte, error) {
	toks, err := shlex.Split(s)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(toks))
	for _, tok := range toks {
		if v, err := strconv.ParseUint(tok, 0, 8); err == nil {
			out = append(out, byte(v))
			continue
		}
		if len(tok) == 1 {
			out = append(out, tok[0])
			continue
		}
		return nil, fmt.Errorf("bad byte %q", tok)
	}
	return out, nil
}

// ---- built-ins ----

const (
	interByte = 10 * time.Millisecond
	round     = time.Second
	level     = 0x30
)

var groups = map[string][]byte{
	"red":   {level, 0, 0},
	"green": {0, level, 0},
	"blue":  {0, 0, level},
	"white": {level, level, level},
}

// Builtin returns one of the stock sequences: "ab" alternates 'A' and 'B';
// "rgbw" sends three-byte colour groups in four rotating orders, one second
// apart.
func Builtin(name string) (Sequence, bool) {
	switch name {
	case "ab":
		return Sequence{Name: name, Steps: []Step{
			{Bytes: []byte{'A'}, Gap: interByte},
			{Bytes: []byte{'B'}, Gap: interByte},
		}}, true
	case "rgbw":
		order := []string{"red", "green", "blue", "white"}
		var steps []Step
		for r := 0; r < len(order); r++ {
			for i := range order {
				// r=1 gives white, red, green, blue.
				name := order[(i-r+len(order))%len(order)]
				steps = append(steps, Step{Bytes: groups[name], Gap: interByte})
			}
			steps[len(steps)-1].Pause = round
		}
		return Sequence{Name: name, Steps: steps}, true
	}
	return Sequence{}, false
}

// ---- YAML ----

type fileStep struct {
	Bytes string        `yaml:"bytes"`
	Gap   time.Duration `yaml:"gap"`
	Pause time.Duration `yaml:"pause"`
}

type fileSeq struct {
	Name  string        `yaml:"name"`
	Gap   time.Duration `yaml:"gap"`
	Steps []fileStep    `yaml:"steps"`
}

type file struct {
	Sequences []fileSeq `yaml:"sequences"`
}

// Decode reads sequences from YAML:
//
//	sequences:
//	  - name: sweep
//	    gap: 10ms
//	    steps:
//	      - bytes: "0x00 0x40 0x80"
//	        pause: 500ms
func Decode(r io.Reader) (map[string]Sequence, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, err
	}
	out := make(map[string]Sequence, len(f.Sequences))
	for _, fs := range f.Sequences {
		if fs.Name == "" {
			return nil, fmt.Errorf("sequence without a name")
		}
		s := Sequence{Name: fs.Name}
		for i, st := range fs.Steps {
			b, err := ParseBytes(st.Bytes)
			if err != nil {
				return nil, fmt.Errorf("%s step %d: %w", fs.Name, i, err)
			}
			gap := st.Gap
			if gap == 0 {
				gap = fs.Gap
			}
			s.Steps = append(s.Steps, Step{Bytes: b, Gap: gap, Pause: st.Pause})
		}
		out[fs.Name] = s
	}
	return out, nil
}

func Load(path string) (map[string]Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// ---- playback ----

// Player writes sequences byte by byte.
type Player struct {
	W     io.Writer
	Sleep func(ctx context.Context, d time.Duration) error
	Trace func(b byte)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Play sends every step of s once.
func (p *Player) Play(ctx context.Context, s Sequence) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	var one [1]byte
	for _, st := range s.Steps {
		for _, b := range st.Bytes {
			one[0] = b
			if _, err := p.W.Write(one[:]); err != nil {
				return err
			}
			if p.Trace != nil {
				p.Trace(b)
			}
			if err := sleep(ctx, st.Gap); err != nil {
				return err
			}
		}
		if err := sleep(ctx, st.Pause); err != nil {
			return err
		}
	}
	return nil
}
