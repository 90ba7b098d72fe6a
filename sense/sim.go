package sense

import (
	"encoding/binary"
	"sync"
	"time"
)

// SimOutcome scripts what one scan batch will report once processed.
type SimOutcome struct {
	Widget   bool // any normal widget active
	LowPower bool // any low-power widget active
	Prox     ProxState
	Diff     uint16
	Span     uint16
}

// Sim is a host-side sensing engine. It reproduces the contract the
// hardware engine offers the scheduler: scan triggers set a busy indicator,
// completion clears it asynchronously and fires the completion hook (the
// stand-in for the scan interrupt), and activity classification only
// becomes visible after the processing step.
//
// Completion is either time-driven (ScanTime > 0) or manual via
// CompleteScan, which tests use to place completion at exact points.
type Sim struct {
	// ScanTime delays completion after a trigger. Zero means completion
	// only happens through CompleteScan.
	ScanTime time.Duration
	// ProcessTime stalls ProcessAllWidgets, standing in for the real
	// engine's processing phase.
	ProcessTime time.Duration
	// FailInit makes Init return ErrInitFailed.
	FailInit bool

	mu         sync.Mutex
	inited     bool
	calibrated bool
	busy       bool
	lowPower   bool // scope of the outstanding batch

	script  []SimOutcome
	pos     int
	loop    bool
	pending SimOutcome // captured at trigger time
	current SimOutcome // visible after ProcessAllWidgets/ProcessWidget

	reloads []uint32
	procUs  uint32
	state   [32]byte

	onComplete func()
}

// NewSim returns a simulator with no scripted activity (all scans idle).
func NewSim() *Sim { return &Sim{} }

// OnScanComplete installs the completion hook, normally a wake-source
// Notify. Must be set before the first trigger.
func (s *Sim) OnScanComplete(fn func()) { s.onComplete = fn }

// Script replaces the outcome script. If loop is true the script repeats;
// otherwise scans past the end report an idle outcome.
func (s *Sim) Script(loop bool, outcomes ...SimOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = outcomes
	s.pos = 0
	s.loop = loop
}

// Reloads returns every wake-timer reload applied so far.
func (s *Sim) Reloads() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint32, len(s.reloads))
	copy(out, s.reloads)
	return out
}

func (s *Sim) Init() error {
	if s.FailInit {
		return ErrInitFailed
	}
	s.mu.Lock()
	s.inited = true
	s.mu.Unlock()
	return nil
}

func (s *Sim) trigger(lowPower bool) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.lowPower = lowPower
	s.pending = s.nextOutcomeLocked()
	after := s.ScanTime
	s.mu.Unlock()

	if after > 0 {
		time.AfterFunc(after, s.CompleteScan)
	}
	return nil
}

func (s *Sim) TriggerFullScan() error     { return s.trigger(false) }
func (s *Sim) TriggerLowPowerScan() error { return s.trigger(true) }

// CompleteScan clears the busy indicator and fires the completion hook.
// Safe to call redundantly; a completion with no scan in flight is ignored.
func (s *Sim) CompleteScan() {
	s.mu.Lock()
	if !s.busy {
		s.mu.Unlock()
		return
	}
	s.busy = false
	s.refreshStateLocked()
	fn := s.onComplete
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Sim) IsBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Sim) ProcessAllWidgets() error {
	if s.ProcessTime > 0 {
		time.Sleep(s.ProcessTime)
	}
	s.mu.Lock()
	s.current = s.pending
	s.refreshStateLocked()
	s.mu.Unlock()
	return nil
}

func (s *Sim) ProcessWidget(id int) error {
	// The low-power path processes a single widget; classification for the
	// full-rate widgets is left untouched.
	s.mu.Lock()
	s.current.LowPower = s.pending.LowPower
	s.current.Prox = s.pending.Prox
	s.current.Diff = s.pending.Diff
	s.current.Span = s.pending.Span
	s.refreshStateLocked()
	s.mu.Unlock()
	return nil
}

func (s *Sim) AnyWidgetActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Widget
}

func (s *Sim) AnyLowPowerWidgetActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.LowPower
}

func (s *Sim) ConfigureWakeTimer(reload uint32) {
	s.mu.Lock()
	s.reloads = append(s.reloads, reload)
	s.refreshStateLocked()
	s.mu.Unlock()
}

func (s *Sim) RecordProcessTime(us uint32) {
	s.mu.Lock()
	s.procUs = us
	s.refreshStateLocked()
	s.mu.Unlock()
}

func (s *Sim) CalibrateOscillator() {
	s.mu.Lock()
	s.calibrated = true
	s.mu.Unlock()
}

func (s *Sim) ProximityState() ProxState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Prox
}

func (s *Sim) ProximitySignal() (uint16, uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Diff, s.current.Span
}

// StateBuffer returns the live state window the tuner exposes. The slice
// aliases the simulator's buffer, mirroring the hardware engine where the
// tuner reads the engine context in place.
func (s *Sim) StateBuffer() []byte { return s.state[:] }

func (s *Sim) nextOutcomeLocked() SimOutcome {
	if len(s.script) == 0 {
		return SimOutcome{}
	}
	if s.pos >= len(s.script) {
		if !s.loop {
			return SimOutcome{}
		}
		s.pos = 0
	}
	o := s.script[s.pos]
	s.pos++
	return o
}

// State buffer layout: "CS" signature, busy, prox state, diff, span, last
// wake reload, calibration flag, recorded process time at the tail.
func (s *Sim) refreshStateLocked() {
	s.state[0] = 'C'
	s.state[1] = 'S'
	if s.busy {
		s.state[2] = 1
	} else {
		s.state[2] = 0
	}
	s.state[3] = byte(s.current.Prox)
	binary.LittleEndian.PutUint16(s.state[4:], s.current.Diff)
	binary.LittleEndian.PutUint16(s.state[6:], s.current.Span)
	var reload uint32
	if n := len(s.reloads); n > 0 {
		reload = s.reloads[n-1]
	}
	binary.LittleEndian.PutUint32(s.state[8:], reload)
	if s.calibrated {
		s.state[12] = 1
	}
	binary.LittleEndian.PutUint32(s.state[ProcessTimeOffset:], s.procUs)
}
