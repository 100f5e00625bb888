package main

import (
	"context"
	"fmt"
	"sync"

	"woodenmirror-go/bus"
	"woodenmirror-go/errcode"
	"woodenmirror-go/services/hal/halcore"
	"woodenmirror-go/services/hal/platform"
	"woodenmirror-go/services/hal/servoout"
	"woodenmirror-go/services/relay"
	"woodenmirror-go/types"
	"woodenmirror-go/x/conv"
)

// simNode is one relay plus the fakes behind its board.
type simNode struct {
	node  *relay.Node
	board *halcore.Board
	rig   *platform.HostRig
}

// chain is N relays wired head to tail: node i TX feeds node i+1 RX and node
// i mode-out pins drive node i+1 mode-in pins.
type chain struct {
	nodes []simNode
	bus   *bus.Bus
}

func newChain(n int, cfg types.RelayConfig, headMode relay.Mode) (*chain, error) {
	if n < 1 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "sim.chain", Msg: "need at least one node"}
	}
	c := &chain{bus: bus.NewBus(64)}
	obs := relay.NewBusObserver(c.bus.NewConnection("sim"))

	for i := 0; i < n; i++ {
		b, rig := platform.OpenHost(cfg)
		if i > 0 {
			up := c.nodes[i-1]
			platform.Link(up.rig.Port, rig.Port)
			o0, _ := up.rig.Pins.ByNumber(cfg.Pins.ModeOut0)
			o1, _ := up.rig.Pins.ByNumber(cfg.Pins.ModeOut1)
			rig.Pins.Attach(cfg.Pins.ModeIn0, o0)
			rig.Pins.Attach(cfg.Pins.ModeIn1, o1)
		}
		node, err := relay.NewNode(fmt.Sprintf("node%d", i), cfg, b, obs)
		if err != nil {
			return nil, err
		}
		c.nodes = append(c.nodes, simNode{node: node, board: b, rig: rig})
	}

	// Head straps.
	head := c.nodes[0].rig.Pins
	in0, _ := head.Get(cfg.Pins.ModeIn0)
	in1, _ := head.Get(cfg.Pins.ModeIn1)
	in0.Set(headMode&0b10 != 0)
	in1.Set(headMode&0b01 != 0)
	return c, nil
}

// run serves every node until ctx is cancelled.
func (c *chain) run(ctx context.Context) *sync.WaitGroup {
	var wg sync.WaitGroup
	for _, sn := range c.nodes {
		wg.Add(1)
		go func(n *relay.Node) {
			defer wg.Done()
			_ = n.Run(ctx)
		}(sn.node)
	}
	return &wg
}

// send puts b on the head node's receive line.
func (c *chain) send(b byte) { c.nodes[0].rig.Port.Inject(b) }

func (c *chain) servoTicks(i int) uint16 {
	if ch, ok := c.nodes[i].board.Servo.(*servoout.Channel); ok {
		return ch.DutyTicks()
	}
	return 0
}

// report renders one line per node.
func (c *chain) report() []string {
	out := make([]string, 0, len(c.nodes))
	for i, sn := range c.nodes {
		st := sn.node.Machine().State()
		us, _ := sn.rig.Servo.Microseconds()
		led, _ := sn.rig.LEDs.Last()
		out = append(out, fmt.Sprintf("%s mode=%s awaiting=%v stored=%s servo=%d ticks (%d us) strip=%s acc=%d fwd=%d",
			sn.node.Name(), st.Mode, st.Awaiting, conv.U8Hex(st.Stored),
			c.servoTicks(i), us, conv.RGBHex(led.R, led.G, led.B),
			st.Accepted, st.Forwarded))
	}
	return out
}
