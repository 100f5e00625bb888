package servoout

import "testing"

type recServo struct{ us []int16 }

func (r *recServo) SetMicroseconds(us int16) { r.us = append(r.us, us) }

func TestTicksToMicros(t *testing.T) {
	cases := []struct {
		ticks uint16
		hz    uint32
		want  int16
	}{
		{4000, TickHz, 1000},
		{7825, TickHz, 1956},
		{0, TickHz, 0},
		{65535, 1_000_000, 32767}, // saturates
		{100, 0, 0},
	}
	for _, c := range cases {
		if got := TicksToMicros(c.ticks, c.hz); got != c.want {
			t.Errorf("TicksToMicros(%d,%d) = %d, want %d", c.ticks, c.hz, got, c.want)
		}
	}
}

func TestChannelForwardsPulseWidth(t *testing.T) {
	r := &recServo{}
	ch := New(r, 0)
	ch.SetDutyTicks(4000)
	ch.SetDutyTicks(6000)
	if len(r.us) != 2 || r.us[0] != 1000 || r.us[1] != 1500 {
		t.Fatalf("servo got %v", r.us)
	}
	if ch.DutyTicks() != 6000 {
		t.Fatalf("DutyTicks = %d", ch.DutyTicks())
	}
}
