package relay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapByteToServoTicks_AllBytes(t *testing.T) {
	prev := uint16(0)
	for b := 0; b <= 255; b++ {
		got := MapByteToServoTicks(uint8(b))
		require.Equal(t, uint16(b*15+4000), got, "byte %d", b)
		require.GreaterOrEqual(t, got, uint16(ServoBaseTicks))
		require.LessOrEqual(t, got, uint16(ServoMaxTicks))
		if b > 0 {
			require.Greater(t, got, prev, "not strictly increasing at %d", b)
		}
		prev = got
	}
	require.Equal(t, uint16(7825), MapByteToServoTicks(0xFF))
}
