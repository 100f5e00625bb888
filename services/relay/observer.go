package relay

import (
	"woodenmirror-go/bus"
	"woodenmirror-go/types"
)

// Observer receives node telemetry. Calls come from the dispatcher goroutine
// and must not block.
type Observer interface {
	State(node string, st types.NodeState)
	Event(node string, ev types.RelayEvent)
}

type Nop struct{}

func (Nop) State(string, types.NodeState)  {}
func (Nop) Event(string, types.RelayEvent) {}

// BusObserver publishes state retained on relay/<node>/state and events on
// relay/<node>/event.
type BusObserver struct {
	conn *bus.Connection
}

func NewBusObserver(conn *bus.Connection) *BusObserver {
	return &BusObserver{conn: conn}
}

func StateTopic(node string) bus.Topic { return bus.T("relay", node, "state") }
func EventTopic(node string) bus.Topic { return bus.T("relay", node, "event") }

func (o *BusObserver) State(node string, st types.NodeState) {
	o.conn.Publish(o.conn.NewMessage(StateTopic(node), st, true))
}

func (o *BusObserver) Event(node string, ev types.RelayEvent) {
	o.conn.Publish(o.conn.NewMessage(EventTopic(node), ev, false))
}
