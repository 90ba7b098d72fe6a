package timex

import "time"

// MicrosPerSecond is the base for all wake-timer arithmetic.
const MicrosPerSecond = 1_000_000

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodUsFromHz returns the microsecond period for a requested refresh
// rate, floored (integer division, matching the hardware timer arithmetic).
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodUsFromHz(freqHz uint32) uint32 {
	if freqHz == 0 {
		freqHz = 1
	}
	return MicrosPerSecond / freqHz
}

// ElapsedUs converts a monotonic start time into elapsed microseconds.
func ElapsedUs(start time.Time) uint32 {
	d := time.Since(start)
	if d < 0 {
		return 0
	}
	return uint32(d.Microseconds())
}
