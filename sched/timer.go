package sched

import (
	"proxcode-go/types"
	"proxcode-go/x/mathx"
	"proxcode-go/x/timex"
)

// TimerPolicy maps a mode's timing profile to a wake-timer reload value in
// microseconds: the refresh period minus the known scan and processing
// latency, floored at the hardware minimum tick. Pure computation; the
// result is reapplied to hardware on every mode transition and must be
// recomputed after the oscillator-compensation routine runs at startup.
type TimerPolicy struct {
	// ILOFreqHz is the lowest-frequency internal clock; one of its periods
	// is the smallest reload the hardware can represent.
	ILOFreqHz uint32
}

// MinimumTick returns 1e6/ILOFreqHz, rounded.
func (p TimerPolicy) MinimumTick() uint32 {
	return mathx.RoundDiv(uint32(timex.MicrosPerSecond), p.ILOFreqHz)
}

// Reload computes the wake-timer reload for one timing profile. A refresh
// rate so high that scan+processing latency meets or exceeds the period
// clamps to the minimum tick - hardware must always receive a valid reload,
// never a zero or underflowed one.
func (p TimerPolicy) Reload(t types.TimingConfig) uint32 {
	period := timex.PeriodUsFromHz(t.RefreshRateHz)
	latency := t.ScanTimeUs + t.ProcessTimeUs
	if period <= latency {
		return p.MinimumTick()
	}
	return mathx.Max(period-latency, p.MinimumTick())
}
