// Package syspm is the platform power-management layer: it owns deep-sleep
// entry, the latched wake sources that end a sleep, and the four-phase
// transition protocol that lets dependent peripherals vet and bracket every
// sleep attempt.
package syspm

import (
	"context"
	"sync/atomic"

	"proxcode-go/errcode"
	"proxcode-go/types"
)

// Handler is one dependent's transition callback. It is invoked with an
// explicit phase tag for every deep-sleep attempt, whatever the power mode.
// Returning an error from PhaseReadinessCheck vetoes the attempt; every
// other phase must succeed in the common path.
type Handler func(phase types.TransitionPhase) error

type callback struct {
	name string
	h    Handler
}

// Manager coordinates deep-sleep transitions. Registration happens once at
// startup from the main goroutine; after that the only cross-goroutine
// entry point is WakeSource.Notify, which interrupt-context code may call.
type Manager struct {
	cbs []callback

	// Latched wake event. Wake sources set it with a non-blocking send;
	// DeepSleep consumes it. A source that fires before the sleep point is
	// already latched, so the sleep returns immediately instead of parking
	// forever - wake delivery is independent of where the caller is in its
	// check-then-sleep loop.
	wake chan struct{}

	sleeps uint32
	vetoes uint32
}

func New() *Manager {
	return &Manager{wake: make(chan struct{}, 1)}
}

// RegisterCallback appends a dependent. Callbacks run in registration order
// in every phase, so side effects on shared buses are deterministic.
func (m *Manager) RegisterCallback(name string, h Handler) {
	m.cbs = append(m.cbs, callback{name: name, h: h})
}

// DeepSleep attempts one deep-sleep transition:
//
//	ReadinessCheck on every dependent (registration order); a veto aborts
//	the attempt, dependents that already passed get ReadinessFailed, and
//	the caller retries later.
//	PreTransition on every dependent, then the core parks until a wake
//	source fires, then PostTransition on every dependent.
//
// Returns nil after a completed sleep, a not_ready code on a veto, and the
// context error if the surrounding run is being torn down.
func (m *Manager) DeepSleep(ctx context.Context) error {
	for i := range m.cbs {
		if err := m.cbs[i].h(types.PhaseReadinessCheck); err != nil {
			atomic.AddUint32(&m.vetoes, 1)
			for j := 0; j < i; j++ {
				// Informational only; these must not change state.
				_ = m.cbs[j].h(types.PhaseReadinessFailed)
			}
			return &errcode.E{C: errcode.NotReady, Op: "syspm.DeepSleep", Msg: m.cbs[i].name}
		}
	}

	for i := range m.cbs {
		if err := m.cbs[i].h(types.PhasePreTransition); err != nil {
			return &errcode.E{C: errcode.Error, Op: "syspm.DeepSleep", Msg: m.cbs[i].name + " pre_transition", Err: err}
		}
	}

	atomic.AddUint32(&m.sleeps, 1)
	select {
	case <-m.wake:
	case <-ctx.Done():
		// Restore dependent drive state before unwinding.
		m.postTransition()
		return ctx.Err()
	}

	return m.postTransition()
}

func (m *Manager) postTransition() error {
	for i := range m.cbs {
		if err := m.cbs[i].h(types.PhasePostTransition); err != nil {
			return &errcode.E{C: errcode.Error, Op: "syspm.DeepSleep", Msg: m.cbs[i].name + " post_transition", Err: err}
		}
	}
	return nil
}

// Sleeps reports completed sleep entries (diagnostics).
func (m *Manager) Sleeps() uint32 { return atomic.LoadUint32(&m.sleeps) }

// Vetoes reports aborted attempts (diagnostics).
func (m *Manager) Vetoes() uint32 { return atomic.LoadUint32(&m.vetoes) }
