package relay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinkMonitor_ByteReceivedResetsCounterOnly(t *testing.T) {
	c := newFakeCounter()
	l := NewLinkMonitor(c)
	c.ticks = 700

	l.OnByteReceived()
	require.False(t, l.Pending())
	l.OnByteReceived()
	require.False(t, l.Pending())
	require.Equal(t, 2, c.resets)
	require.Equal(t, uint16(0), l.Ticks())
}

func TestLinkMonitor_CheckIdleConsumesOnce(t *testing.T) {
	l := NewLinkMonitor(newFakeCounter())
	require.False(t, l.CheckIdle())

	l.OnPeriodElapsed()
	l.OnPeriodElapsed() // latched, not counted
	require.True(t, l.Pending())
	require.True(t, l.CheckIdle())
	require.False(t, l.CheckIdle())
	require.False(t, l.Pending())

	l.OnPeriodElapsed()
	require.True(t, l.CheckIdle())
}

func TestLinkMonitor_Period(t *testing.T) {
	require.Equal(t, uint16(1200), NewLinkMonitor(newFakeCounter()).Period())
}
