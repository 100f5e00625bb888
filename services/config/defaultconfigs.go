package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

// Pico wiring: mode straps on GP10/GP11 (pulled up, jumper to GND), mode
// propagation on GP14/GP15, on-board LED, servo on GP6, strip on GP16,
// link on UART0 (GP0 TX, GP1 RX).
const cfgPico = `{
  "relay": {
      "uart_baud": 115200,
      "counter_hz": 12000,
      "idle_period_ticks": 1200,
      "poll_interval_us": 500,
      "forward_hold_us": 6250,
      "boot_color": [0, 0, 23],
      "accept_policy": "sentinel",
      "strip_len": 8,
      "tx_queue": 16,
      "pins": {
          "mode_in0": 10, "mode_in1": 11,
          "mode_out0": 14, "mode_out1": 15,
          "status_led": 25,
          "servo": 6,
          "strip": 16,
          "uart_tx": 0, "uart_rx": 1
      }
  },
  "heartbeat": {
      "interval": 2
  }
}`

// Host runs use in-memory fakes; pin numbers only need to be distinct.
const cfgHost = `{
  "relay": {
      "accept_policy": "sentinel",
      "pins": {
          "mode_in0": 10, "mode_in1": 11,
          "mode_out0": 14, "mode_out1": 15,
          "status_led": 25,
          "servo": 6,
          "strip": 16
      }
  },
  "heartbeat": {
      "interval": 5
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"host": []byte(cfgHost),
}
