package relay

import (
	"tinygo.org/x/drivers/pixel"

	"woodenmirror-go/types"
)

// Strip colours.
var (
	BootColor    = pixel.NewRGB888(0x00, 0x00, 0x17)
	AcceptColor  = pixel.NewRGB888(0x17, 0x17, 0x00) // amber
	ForwardColor = pixel.NewRGB888(0x00, 0x17, 0x17) // cyan
)

// SentinelColor returns the indicator for the four sentinel byte values.
func SentinelColor(b uint8) (pixel.RGB888, bool) {
	switch b {
	case 0x01:
		return pixel.NewRGB888(0x00, 0x00, 0x20), true // blue
	case 0x02:
		return pixel.NewRGB888(0x20, 0x00, 0x00), true // red
	case 0x03:
		return pixel.NewRGB888(0x00, 0x20, 0x00), true // green
	case 0xFF:
		return pixel.NewRGB888(0x20, 0x20, 0x20), true // white
	}
	return pixel.RGB888{}, false
}

// PaletteColor indexes the 256-entry colour map: red, green, blue, then a
// red-to-green ramp with blue cycling twice.
func PaletteColor(i uint8) pixel.RGB888 {
	switch i {
	case 0:
		return pixel.NewRGB888(255, 0, 0)
	case 1:
		return pixel.NewRGB888(0, 255, 0)
	case 2:
		return pixel.NewRGB888(0, 0, 255)
	}
	return pixel.NewRGB888(i, 255-i, i*2)
}

// acceptFills lists the strip writes made when b is accepted, in order.
func acceptFills(policy string, b uint8) []pixel.RGB888 {
	if policy == types.AcceptPalette {
		return []pixel.RGB888{PaletteColor(b)}
	}
	if c, ok := SentinelColor(b); ok {
		return []pixel.RGB888{AcceptColor, c}
	}
	return []pixel.RGB888{AcceptColor}
}

func rgb(c pixel.RGB888) [3]uint8 { return [3]uint8{c.R, c.G, c.B} }
