// services/hal/strip/strip.go
package strip

import (
	"image/color"

	"tinygo.org/x/drivers/pixel"
)

// Writer shifts a full frame out to the LEDs (ws2812.Device satisfies it).
type Writer interface {
	WriteColors(buf []color.RGBA) error
}

type Option func(*Strip)

// WithCritical runs each frame write inside f, e.g. with interrupts masked.
func WithCritical(f func(func())) Option {
	return func(s *Strip) { s.critical = f }
}

// Strip drives every LED of a chain with one colour.
type Strip struct {
	w        Writer
	frame    []color.RGBA
	last     pixel.RGB888
	critical func(func())
}

func New(w Writer, n int, opts ...Option) *Strip {
	if n <= 0 {
		n = 1
	}
	s := &Strip{
		w:        w,
		frame:    make([]color.RGBA, n),
		critical: func(f func()) { f() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Strip) Len() int { return len(s.frame) }

// Fill sets all LEDs to c and writes the frame synchronously.
func (s *Strip) Fill(c pixel.RGB888) error {
	rgba := c.RGBA()
	for i := range s.frame {
		s.frame[i] = rgba
	}
	var err error
	s.critical(func() { err = s.w.WriteColors(s.frame) })
	if err == nil {
		s.last = c
	}
	return err
}

// Last is the most recently written colour.
func (s *Strip) Last() pixel.RGB888 { return s.last }
