package sched

import (
	"testing"

	"proxcode-go/types"
)

func TestMinimumTick(t *testing.T) {
	p := TimerPolicy{ILOFreqHz: 40_000}
	if got := p.MinimumTick(); got != 25 {
		t.Fatalf("minimum tick = %d, want 25", got)
	}
}

func TestReloadFullRateProfiles(t *testing.T) {
	p := TimerPolicy{ILOFreqHz: 40_000}

	active := types.TimingConfig{RefreshRateHz: 128, ScanTimeUs: 2891, ProcessTimeUs: 23, TimeoutSec: 5}
	// 1e6/128 = 7812 (floored), minus 2914 of scan+process latency.
	if got := p.Reload(active); got != 4898 {
		t.Fatalf("active reload = %d, want 4898", got)
	}

	low := types.TimingConfig{RefreshRateHz: 32, ScanTimeUs: 2891, ProcessTimeUs: 23, TimeoutSec: 5}
	if got := p.Reload(low); got != 28336 {
		t.Fatalf("low-refresh reload = %d, want 28336", got)
	}
}

func TestReloadClampsWhenPeriodConsumedByLatency(t *testing.T) {
	p := TimerPolicy{ILOFreqHz: 40_000}

	// Period (1000us) below the scan+process latency entirely.
	fast := types.TimingConfig{RefreshRateHz: 1000, ScanTimeUs: 2891, ProcessTimeUs: 23, TimeoutSec: 1}
	if got := p.Reload(fast); got != p.MinimumTick() {
		t.Fatalf("underflowed reload = %d, want minimum tick %d", got, p.MinimumTick())
	}

	// Period barely above latency: raw difference would be a handful of
	// microseconds, below what the low-frequency clock can represent.
	near := types.TimingConfig{RefreshRateHz: 342, ScanTimeUs: 2891, ProcessTimeUs: 23, TimeoutSec: 1}
	if got := p.Reload(near); got != p.MinimumTick() {
		t.Fatalf("near-degenerate reload = %d, want minimum tick %d", got, p.MinimumTick())
	}
}

func TestReloadNeverZero(t *testing.T) {
	p := TimerPolicy{ILOFreqHz: 40_000}
	for hz := uint32(1); hz <= 4096; hz *= 2 {
		cfg := types.TimingConfig{RefreshRateHz: hz, ScanTimeUs: 2891, ProcessTimeUs: 23, TimeoutSec: 1}
		if got := p.Reload(cfg); got < p.MinimumTick() {
			t.Fatalf("reload at %d Hz = %d, below minimum tick", hz, got)
		}
	}
}
