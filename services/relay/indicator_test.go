package relay

import (
	"testing"

	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers/pixel"

	"woodenmirror-go/types"
)

func TestSentinelColor(t *testing.T) {
	cases := map[uint8]pixel.RGB888{
		0x01: {R: 0x00, G: 0x00, B: 0x20},
		0x02: {R: 0x20, G: 0x00, B: 0x00},
		0x03: {R: 0x00, G: 0x20, B: 0x00},
		0xFF: {R: 0x20, G: 0x20, B: 0x20},
	}
	for b, want := range cases {
		got, ok := SentinelColor(b)
		require.True(t, ok, "byte %#x", b)
		require.Equal(t, want, got)
	}
	for _, b := range []uint8{0x00, 0x04, 0x41, 0xFE} {
		_, ok := SentinelColor(b)
		require.False(t, ok, "byte %#x", b)
	}
}

func TestAcceptFills_Sentinel(t *testing.T) {
	require.Equal(t, []pixel.RGB888{AcceptColor}, acceptFills(types.AcceptSentinel, 'A'))

	blue, _ := SentinelColor(0x01)
	require.Equal(t, []pixel.RGB888{AcceptColor, blue}, acceptFills(types.AcceptSentinel, 0x01))
}

func TestPaletteColor(t *testing.T) {
	require.Equal(t, pixel.NewRGB888(255, 0, 0), PaletteColor(0))
	require.Equal(t, pixel.NewRGB888(0, 255, 0), PaletteColor(1))
	require.Equal(t, pixel.NewRGB888(0, 0, 255), PaletteColor(2))
	require.Equal(t, pixel.NewRGB888(3, 252, 6), PaletteColor(3))
	require.Equal(t, pixel.NewRGB888(200, 55, 144), PaletteColor(200))
	require.Equal(t, pixel.NewRGB888(255, 0, 254), PaletteColor(255))

	require.Equal(t, []pixel.RGB888{PaletteColor(0x30)}, acceptFills(types.AcceptPalette, 0x30))
}
