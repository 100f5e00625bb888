package relay

import (
	"context"
	"time"

	"woodenmirror-go/bus"
	"woodenmirror-go/errcode"
	"woodenmirror-go/services/hal/util"
	"woodenmirror-go/types"
	"woodenmirror-go/x/mathx"
	"woodenmirror-go/x/strx"
)

var topicConfigRelay = bus.T("config", "relay")

// DefaultConfig matches the reference board: 115200 baud, a 12 kHz link
// counter wrapping every 1200 ticks (100 ms) and a 6.25 ms forward hold.
func DefaultConfig() types.RelayConfig {
	return types.RelayConfig{
		UARTBaud:        115200,
		CounterHz:       12000,
		IdlePeriodTicks: 1200,
		PollIntervalUs:  500,
		ForwardHoldUs:   6250,
		BootColor:       [3]uint8{0x00, 0x00, 0x17},
		AcceptPolicy:    types.AcceptSentinel,
		StripLen:        8,
		TXQueue:         16,
		Pins: types.PinMap{
			ModeIn0: -1, ModeIn1: -1,
			ModeOut0: -1, ModeOut1: -1,
			StatusLED: -1, Servo: -1, Strip: -1,
			UARTTX: -1, UARTRX: -1,
		},
	}
}

// Normalize fills zero numeric fields with defaults and clamps the rest.
// ForwardHoldUs 0 disables the hold.
func Normalize(c types.RelayConfig) types.RelayConfig {
	d := DefaultConfig()
	c.UARTBaud = mathx.Clamp(mathx.OrDefault(c.UARTBaud, d.UARTBaud), 300, 4_000_000)
	c.CounterHz = mathx.Clamp(mathx.OrDefault(c.CounterHz, d.CounterHz), 1, 1_000_000)
	c.IdlePeriodTicks = mathx.Clamp(mathx.OrDefault(c.IdlePeriodTicks, d.IdlePeriodTicks), 1, 65535)
	c.PollIntervalUs = mathx.Clamp(mathx.OrDefault(c.PollIntervalUs, d.PollIntervalUs), 10, 1_000_000)
	c.ForwardHoldUs = mathx.Clamp(c.ForwardHoldUs, 0, 1_000_000)
	c.StripLen = mathx.Clamp(mathx.OrDefault(c.StripLen, d.StripLen), 1, 1024)
	c.TXQueue = mathx.Clamp(mathx.OrDefault(c.TXQueue, d.TXQueue), 1, 256)
	c.AcceptPolicy = strx.Coalesce(c.AcceptPolicy, d.AcceptPolicy)
	if c.AcceptPolicy != types.AcceptSentinel && c.AcceptPolicy != types.AcceptPalette {
		println("[relay] unknown accept_policy", c.AcceptPolicy, "using", types.AcceptSentinel)
		c.AcceptPolicy = types.AcceptSentinel
	}
	return c
}

// DecodeConfig decodes a config/relay payload over the defaults.
func DecodeConfig(payload any) (types.RelayConfig, error) {
	c := DefaultConfig()
	if err := util.DecodeJSON(payload, &c); err != nil {
		return Normalize(DefaultConfig()), errcode.Wrap(errcode.InvalidParams, "relay.config", err)
	}
	return Normalize(c), nil
}

// AwaitConfig waits for the retained config/relay message. On timeout it
// returns the defaults together with errcode.Timeout.
func AwaitConfig(ctx context.Context, conn *bus.Connection, timeout time.Duration) (types.RelayConfig, error) {
	sub := conn.Subscribe(topicConfigRelay)
	defer conn.Unsubscribe(sub)

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return Normalize(DefaultConfig()), ctx.Err()
	case <-t.C:
		return Normalize(DefaultConfig()), errcode.Timeout
	case msg := <-sub.Channel():
		return DecodeConfig(msg.Payload)
	}
}
