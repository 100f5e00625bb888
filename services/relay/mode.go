package relay

import "woodenmirror-go/types"

// Mode is the two-bit selection read from the mode-in pins: bit 1 is pin 0,
// bit 0 is pin 1. A pin reads true unless pulled low externally.
type Mode uint8

const (
	RelayIdle   Mode = 0b00
	ForwardA    Mode = 0b01
	ForwardB    Mode = 0b10
	ForwardBoth Mode = 0b11
)

func DecodeMode(pin0, pin1 bool) Mode {
	var m Mode
	if pin0 {
		m |= 0b10
	}
	if pin1 {
		m |= 0b01
	}
	return m
}

// OutputLevels returns the levels asserted on ModeOut0 and ModeOut1 for the
// downstream node: ModeOut0 carries bit 0, ModeOut1 carries bit 1.
func (m Mode) OutputLevels() (out0, out1 bool) {
	return m&0b01 != 0, m&0b10 != 0
}

func (m Mode) String() string {
	switch m & 0b11 {
	case RelayIdle:
		return "00"
	case ForwardA:
		return "01"
	case ForwardB:
		return "10"
	default:
		return "11"
	}
}

// Wire is the name published in node state.
func (m Mode) Wire() types.Mode {
	switch m & 0b11 {
	case RelayIdle:
		return types.ModeRelayIdle
	case ForwardA:
		return types.ModeForwardA
	case ForwardB:
		return types.ModeForwardB
	default:
		return types.ModeForwardBoth
	}
}
