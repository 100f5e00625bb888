package heartbeat

import (
	"testing"

	"woodenmirror-go/types"
)

func TestSummary_Empty(t *testing.T) {
	var s Service
	got := s.Summary()
	if len(got) != 1 || got[0] != "no relay nodes" {
		t.Fatalf("Summary = %v", got)
	}
}

func TestSummary_SortedPerNode(t *testing.T) {
	var s Service
	s.record("n1", types.NodeState{Mode: types.ModeRelayIdle, Awaiting: true, Stored: 0x90, Accepted: 1})
	s.record("n0", types.NodeState{Mode: types.ModeRelayIdle, Stored: 0x30, Accepted: 1, Forwarded: 2, IdleResets: 3, Status: "link_idle"})

	got := s.Summary()
	want := []string{
		"n0 mode=relay_idle mid stored=0x30 acc=1 fwd=2 idle=3 status=link_idle",
		"n1 mode=relay_idle await stored=0x90 acc=1 fwd=0 idle=0",
	}
	if len(got) != len(want) {
		t.Fatalf("Summary = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
