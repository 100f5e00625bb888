package main

import (
	"context"
	"time"

	"woodenmirror-go/bus"
	"woodenmirror-go/services/config"
	"woodenmirror-go/services/hal/platform"
	"woodenmirror-go/services/heartbeat"
	"woodenmirror-go/services/relay"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	if err := platform.CheckClock(); err != nil {
		println("[main] fatal:", err.Error())
		for {
		}
	}

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, platform.DeviceID())

	b := bus.NewBus(8)
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	hb := &heartbeat.Service{}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	relayConn := b.NewConnection("relay")
	cfg, err := relay.AwaitConfig(ctx, relayConn, 2*time.Second)
	if err != nil {
		println("[main] relay config:", err.Error(), "(using defaults)")
	}

	board, err := platform.Open(cfg)
	if err != nil {
		println("[main] fatal: board:", err.Error())
		for {
		}
	}

	node, err := relay.NewNode(platform.DeviceID(), cfg, board, relay.NewBusObserver(relayConn))
	if err != nil {
		println("[main] fatal: node:", err.Error())
		for {
		}
	}
	_ = node.Run(ctx)
}
