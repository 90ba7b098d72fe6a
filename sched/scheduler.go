// Package sched runs the power-mode state machine: three operating modes
// with distinct refresh rates and sleep depths, an inactivity counter that
// demotes the device towards lower power, and activity that promotes it
// back. The scheduler goroutine is the sole writer of mode and counter
// state; interrupt sources only latch wake events.
package sched

import (
	"context"
	"time"

	"proxcode-go/scan"
	"proxcode-go/sense"
	"proxcode-go/types"
)

// Indicator is refreshed once per cycle to reflect the latest activity
// classification.
type Indicator interface{ Refresh() }

// Tuner is serviced once per cycle; the call must not block.
type Tuner interface{ Service() }

// NopIndicator and NopTuner stand in when a feature is disabled in config.
type NopIndicator struct{}

func (NopIndicator) Refresh() {}

type NopTuner struct{}

func (NopTuner) Service() {}

// Config is resolved once at startup and never changes afterwards.
type Config struct {
	Active     types.TimingConfig
	LowRefresh types.TimingConfig

	// Widget processed on the low-power path in wake-on-touch mode.
	LowPowerWidget int

	Policy TimerPolicy

	// MeasureRuntime samples the processing-phase duration each full-rate
	// cycle, the number the ProcessTimeUs config constant is derived from.
	MeasureRuntime bool
}

// Scheduler owns the operating mode and the inactivity counter. All fields
// are mutated only from Run's goroutine.
type Scheduler struct {
	cfg  Config
	eng  sense.Engine
	scan *scan.Coordinator
	ind  Indicator
	tun  Tuner

	mode     types.Mode
	inactive uint32

	cycles        uint32
	lastProcessUs uint32
}

// New wires a scheduler in its initial state: Active mode, counter zero.
// Nil indicator/tuner collaborators are replaced with no-ops.
func New(cfg Config, eng sense.Engine, sc *scan.Coordinator, ind Indicator, tun Tuner) *Scheduler {
	if ind == nil {
		ind = NopIndicator{}
	}
	if tun == nil {
		tun = NopTuner{}
	}
	return &Scheduler{
		cfg:  cfg,
		eng:  eng,
		scan: sc,
		ind:  ind,
		tun:  tun,
		mode: types.ModeActive,
	}
}

// Mode returns the current operating mode.
func (s *Scheduler) Mode() types.Mode { return s.mode }

// InactiveCycles returns the consecutive cycles without activity in the
// current mode.
func (s *Scheduler) InactiveCycles() uint32 { return s.inactive }

// Cycles returns the total cycles run (diagnostics).
func (s *Scheduler) Cycles() uint32 { return s.cycles }

// LastProcessUs returns the most recent processing-phase measurement, zero
// when measurement is disabled.
func (s *Scheduler) LastProcessUs() uint32 { return s.lastProcessUs }

// Run drives the cycle without a bounded exit condition - the device has no
// concept of "done" and on hardware the loop ends only at reset. The
// context is honoured so host builds and tests can stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
}

// Step runs exactly one scheduler cycle: dispatch to the handler for the
// current mode, then refresh the indicator and service the tuner channel.
func (s *Scheduler) Step(ctx context.Context) error {
	var err error
	switch s.mode {
	case types.ModeActive:
		err = s.runActive(ctx)
	case types.ModeLowRefresh:
		err = s.runLowRefresh(ctx)
	case types.ModeWakeOnTouch:
		err = s.runWakeOnTouch(ctx)
	default:
		// The mode space is closed and exhaustively enumerated; any other
		// value is memory corruption or a logic defect.
		panic("sched: unknown power mode " + s.mode.String())
	}
	if err != nil {
		return err
	}

	s.ind.Refresh()
	s.tun.Service()
	s.cycles++
	return nil
}

// fullScanCycle is the shared Active/LowRefresh front half: scan every
// slot, sleep until completion, finish signal processing for all widgets.
func (s *Scheduler) fullScanCycle(ctx context.Context) error {
	if err := s.scan.Trigger(scan.ScopeAllSlots); err != nil {
		return err
	}
	if err := s.scan.AwaitCompletion(ctx); err != nil {
		return err
	}

	var started time.Time
	if s.cfg.MeasureRuntime {
		started = time.Now()
	}
	if err := s.eng.ProcessAllWidgets(); err != nil {
		return err
	}
	if s.cfg.MeasureRuntime {
		s.lastProcessUs = uint32(time.Since(started).Microseconds())
		s.eng.RecordProcessTime(s.lastProcessUs)
	}
	return nil
}

func (s *Scheduler) runActive(ctx context.Context) error {
	if err := s.fullScanCycle(ctx); err != nil {
		return err
	}
	if s.eng.AnyWidgetActive() {
		s.inactive = 0
		return nil
	}
	s.inactive++
	if s.inactive > s.cfg.Active.TimeoutCycles() {
		s.transition(types.ModeLowRefresh)
	}
	return nil
}

func (s *Scheduler) runLowRefresh(ctx context.Context) error {
	if err := s.fullScanCycle(ctx); err != nil {
		return err
	}
	if s.eng.AnyWidgetActive() {
		// Activity promotes immediately, whatever the counter held.
		s.transition(types.ModeActive)
		return nil
	}
	s.inactive++
	if s.inactive > s.cfg.LowRefresh.TimeoutCycles() {
		s.transition(types.ModeWakeOnTouch)
	}
	return nil
}

// runWakeOnTouch performs exactly one low-power scan+evaluate step and
// always exits to Active or LowRefresh; the mode never re-enters itself and
// keeps no counter.
func (s *Scheduler) runWakeOnTouch(ctx context.Context) error {
	if err := s.scan.Trigger(scan.ScopeLowPower); err != nil {
		return err
	}
	if err := s.scan.AwaitCompletion(ctx); err != nil {
		return err
	}
	if err := s.eng.ProcessWidget(s.cfg.LowPowerWidget); err != nil {
		return err
	}

	if s.eng.AnyLowPowerWidgetActive() {
		s.transition(types.ModeActive)
	} else {
		s.transition(types.ModeLowRefresh)
	}
	return nil
}

// transition switches mode, resets the inactivity counter and reapplies
// the wake timer for the destination. Wake-on-touch uses its own fixed
// low-power scan interval, so entering it needs no reload.
func (s *Scheduler) transition(to types.Mode) {
	s.mode = to
	s.inactive = 0
	switch to {
	case types.ModeActive:
		s.eng.ConfigureWakeTimer(s.cfg.Policy.Reload(s.cfg.Active))
	case types.ModeLowRefresh:
		s.eng.ConfigureWakeTimer(s.cfg.Policy.Reload(s.cfg.LowRefresh))
	case types.ModeWakeOnTouch:
		// fixed interval, no reconfiguration
	}
}
