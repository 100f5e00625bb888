package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodFromHz returns the duration of one tick at freqHz.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) time.Duration {
	if freqHz == 0 {
		freqHz = 1
	}
	return time.Duration(uint64(time.Second) / uint64(freqHz))
}

// TicksToDuration converts a tick count at freqHz into a duration without
// losing precision for sub-microsecond tick periods.
func TicksToDuration(ticks uint32, freqHz uint32) time.Duration {
	if freqHz == 0 {
		freqHz = 1
	}
	return time.Duration(uint64(ticks) * uint64(time.Second) / uint64(freqHz))
}

// DurationToTicks is the inverse of TicksToDuration, truncating.
func DurationToTicks(d time.Duration, freqHz uint32) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d) * uint64(freqHz) / uint64(time.Second)
}
