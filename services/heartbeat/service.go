package heartbeat

import (
	"context"
	"sort"
	"strconv"
	"time"

	"woodenmirror-go/bus"
	"woodenmirror-go/services/hal/util"
	"woodenmirror-go/types"
	"woodenmirror-go/x/conv"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicRelayStates     = bus.T("relay", bus.Wildcard, "state")
)

type Service struct {
	nodes map[string]types.NodeState
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	stateSub := conn.Subscribe(topicRelayStates)
	defer conn.Unsubscribe(stateSub)

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	// loop until context is cancelled, respond to tick, config and state changes
	for {
		select {
		case <-ctx.Done():
			println("[hb] stopping")
			return
		case t := <-tick.C:
			for _, line := range s.Summary() {
				println("[hb]", t.Format("15:04:05"), line)
			}
		case msg := <-cfgSub.Channel():
			var hc types.HeartbeatConfig
			if err := util.DecodeJSON(msg.Payload, &hc); err != nil || hc.Interval <= 0 {
				println("[hb] ignoring config")
				continue
			}
			tick.Reset(time.Duration(hc.Interval * float64(time.Second)))
			println("[hb] interval set to", strconv.FormatFloat(hc.Interval, 'f', -1, 64), "seconds")
		case msg := <-stateSub.Channel():
			st, ok := msg.Payload.(types.NodeState)
			if !ok {
				continue
			}
			s.record(msg.Topic.At(1), st)
		}
	}
}

func (s *Service) record(node string, st types.NodeState) {
	if s.nodes == nil {
		s.nodes = make(map[string]types.NodeState)
	}
	s.nodes[node] = st
}

// Summary renders one line per known node, sorted by name.
func (s *Service) Summary() []string {
	if len(s.nodes) == 0 {
		return []string{"no relay nodes"}
	}
	names := make([]string, 0, len(s.nodes))
	for n := range s.nodes {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, n := range names {
		st := s.nodes[n]
		phase := "mid"
		if st.Awaiting {
			phase = "await"
		}
		line := n + " mode=" + string(st.Mode) + " " + phase +
			" stored=" + conv.U8Hex(st.Stored) +
			" acc=" + strconv.FormatUint(uint64(st.Accepted), 10) +
			" fwd=" + strconv.FormatUint(uint64(st.Forwarded), 10) +
			" idle=" + strconv.FormatUint(uint64(st.IdleResets), 10)
		if st.Status != "" {
			line += " status=" + st.Status
		}
		out = append(out, line)
	}
	return out
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
