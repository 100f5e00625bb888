package types

// Relay configuration supplied on topic "config/relay".

type RelayConfig struct {
	UARTBaud        uint32   `json:"uart_baud"`
	CounterHz       uint32   `json:"counter_hz"`        // link counter tick rate
	IdlePeriodTicks uint32   `json:"idle_period_ticks"` // counter wrap value, clamped to 16 bits
	PollIntervalUs  uint32   `json:"poll_interval_us"`  // main-loop iteration period
	ForwardHoldUs   uint32   `json:"forward_hold_us"`   // busy-wait after a forwarded byte
	BootColor       [3]uint8 `json:"boot_color"`
	AcceptPolicy    string   `json:"accept_policy"` // "sentinel" | "palette"
	StripLen        int      `json:"strip_len"`
	TXQueue         int      `json:"tx_queue"`
	Pins            PinMap   `json:"pins"`
}

// PinMap names the board pins used by one node. -1 means "not wired".
type PinMap struct {
	ModeIn0   int `json:"mode_in0"`
	ModeIn1   int `json:"mode_in1"`
	ModeOut0  int `json:"mode_out0"`
	ModeOut1  int `json:"mode_out1"`
	StatusLED int `json:"status_led"`
	Servo     int `json:"servo"`
	Strip     int `json:"strip"`
	UARTTX    int `json:"uart_tx"`
	UARTRX    int `json:"uart_rx"`
}

const (
	AcceptSentinel = "sentinel"
	AcceptPalette  = "palette"
)

// HeartbeatConfig is supplied on topic "config/heartbeat".
type HeartbeatConfig struct {
	Interval float64 `json:"interval"` // seconds
}
