package types

// ------------------------
// Relay node state (retained)
// ------------------------

// Mode is the wire name of a decoded mode selection.
type Mode string

const (
	ModeRelayIdle   Mode = "relay_idle"   // 00
	ModeForwardA    Mode = "forward_a"    // 01
	ModeForwardB    Mode = "forward_b"    // 10
	ModeForwardBoth Mode = "forward_both" // 11
)

// NodeState is published retained on relay/<node>/state.
type NodeState struct {
	Awaiting   bool   `json:"awaiting"` // waiting for the first byte of a transfer
	Stored     uint8  `json:"stored"`
	Mode       Mode   `json:"mode"`
	Status     string `json:"status,omitempty"` // short code, e.g. "link_idle"
	Accepted   uint32 `json:"accepted"`
	Forwarded  uint32 `json:"forwarded"`
	IdleResets uint32 `json:"idle_resets"`
	TSms       int64  `json:"ts_ms"`
}

// ------------------------
// Relay events
// ------------------------

type RelayEventKind string

const (
	EventAccept  RelayEventKind = "accept"
	EventForward RelayEventKind = "forward"
)

// RelayEvent is published on relay/<node>/event for every received byte.
type RelayEvent struct {
	Kind  RelayEventKind `json:"kind"`
	Byte  uint8          `json:"byte"`
	Ticks uint16         `json:"ticks,omitempty"` // servo compare ticks (accept only)
	Color [3]uint8       `json:"color"`
	TSms  int64          `json:"ts_ms"`
}
