package relay

// Servo compare values are counted at servoout.TickHz (4 MHz), so 4000 ticks
// is a 1 ms pulse. Each byte step adds 15 ticks (3.75 us).
const (
	ServoBaseTicks = 4000
	ServoStepTicks = 15
	ServoMaxTicks  = ServoBaseTicks + 255*ServoStepTicks // 7825
)

// MapByteToServoTicks maps a received byte onto the servo compare register.
// Total over all byte values; the result never exceeds ServoMaxTicks.
func MapByteToServoTicks(b uint8) uint16 {
	return uint16(b)*ServoStepTicks + ServoBaseTicks
}
