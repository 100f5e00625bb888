// config/config_test.go
package config

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"woodenmirror-go/bus"
	"woodenmirror-go/errcode"
	"woodenmirror-go/services/hal/util"
	"woodenmirror-go/types"
)

func TestConfig_PublishEmbedded_RetainedPerKey(t *testing.T) {
	// Override lookup for this test.
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "pico" {
			return nil, false
		}
		return []byte(`{
			"mode": "dev",
			"debug": true,
			"region": {"code": "eu"}
		}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	svc.Start(ctx, conn)

	// Retained messages arrive on subscribe, or live if the publisher is late.
	sub := conn.Subscribe(bus.T(configPrefix, bus.Wildcard))

	got := map[string]json.RawMessage{}
	deadline := time.Now().Add(600 * time.Millisecond)
	for len(got) < 3 && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if m.Topic.Len() != 2 || m.Topic.At(0) != configPrefix {
				t.Fatalf("unexpected topic: %v", m.Topic)
			}
			if !m.Retained {
				t.Fatalf("%v not retained", m.Topic)
			}
			raw, ok := m.Payload.(json.RawMessage)
			if !ok {
				t.Fatalf("payload type %T, want json.RawMessage", m.Payload)
			}
			got[m.Topic.At(1)] = raw
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 retained messages, got %d (%v)", len(got), got)
	}

	var mode string
	if err := json.Unmarshal(got["mode"], &mode); err != nil || mode != "dev" {
		t.Fatalf("mode = %q (%v), want dev", mode, err)
	}
	var region struct{ Code string }
	if err := json.Unmarshal(got["region"], &region); err != nil || region.Code != "eu" {
		t.Fatalf("region = %+v (%v)", region, err)
	}
}

func TestConfig_PublishConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-missing-device")
	svc := NewConfigService()

	err := svc.publishConfig(context.Background(), conn)
	if errcode.Of(err) != errcode.MissingConfig {
		t.Fatalf("err = %v, want missing_config", err)
	}
}

func TestConfig_PublishConfig_NoConfigFound(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) { return nil, false }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(4)
	conn := b.NewConnection("test-no-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := svc.publishConfig(ctx, conn); errcode.Of(err) != errcode.MissingConfig {
		t.Fatalf("err = %v, want missing_config", err)
	}
}

func TestConfig_PublishConfig_NotAnObject(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(string) ([]byte, bool) { return []byte(`[1,2]`), true }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	conn := bus.NewBus(4).NewConnection("test-array")
	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	if err := NewConfigService().publishConfig(ctx, conn); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("err = %v, want invalid_params", err)
	}
}

// The shipped documents must decode into the typed configs.
func TestEmbeddedConfigs_Decode(t *testing.T) {
	for device, raw := range embeddedConfigs {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("%s: %v", device, err)
		}
		var rc types.RelayConfig
		if err := util.DecodeJSON(doc["relay"], &rc); err != nil {
			t.Fatalf("%s relay: %v", device, err)
		}
		if rc.Pins.Servo != 6 || rc.Pins.ModeIn0 != 10 {
			t.Fatalf("%s pins = %+v", device, rc.Pins)
		}
		var hb types.HeartbeatConfig
		if err := util.DecodeJSON(doc["heartbeat"], &hb); err != nil || hb.Interval <= 0 {
			t.Fatalf("%s heartbeat = %+v (%v)", device, hb, err)
		}
	}
	pico := embeddedConfigs["pico"]
	var doc struct {
		Relay types.RelayConfig `json:"relay"`
	}
	if err := json.Unmarshal(pico, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Relay.BootColor != [3]uint8{0, 0, 0x17} || doc.Relay.IdlePeriodTicks != 1200 {
		t.Fatalf("pico relay = %+v", doc.Relay)
	}
}
