// Package scan owns the scan/sleep synchronisation discipline: it triggers
// a scan batch and parks the core in deep sleep until the sensing engine
// clears its busy indicator.
//
// The hazard is the gap between the busy check and the sleep entry: the
// completion interrupt can land inside it. Completion is therefore published
// through a latched wake source - a notification posted before the sleep
// point is already latched and makes the sleep return immediately, so the
// check-then-sleep pair behaves as one atomic region and a completion is
// never lost. Sleep is re-attempted until the busy indicator clears; wakes
// from unrelated sources (wake timer, comm traffic) simply re-run the check.
//
// The low-power scan path needs no further protection: there the wake
// condition is scan completion itself (timeout frame count or touch), so
// redundant wake/sleep cycling is harmless by construction.
package scan

import (
	"context"

	"proxcode-go/errcode"
	"proxcode-go/sense"
	"proxcode-go/syspm"
)

// Scope selects which slots a batch covers.
type Scope uint8

const (
	// ScopeAllSlots scans every normal and low-power slot (full-rate modes).
	ScopeAllSlots Scope = iota
	// ScopeLowPower scans the low-power slots only (wake-on-touch mode).
	ScopeLowPower
)

// Coordinator serialises scan batches against deep-sleep entry. It is used
// from the scheduler goroutine only.
type Coordinator struct {
	eng     sense.Engine
	pm      *syspm.Manager
	pending bool
}

func New(eng sense.Engine, pm *syspm.Manager) *Coordinator {
	return &Coordinator{eng: eng, pm: pm}
}

// Trigger starts an asynchronous scan batch. Exactly one batch may be
// outstanding; triggering over a pending batch is refused.
func (c *Coordinator) Trigger(scope Scope) error {
	if c.pending {
		return errcode.ScanPending
	}
	var err error
	switch scope {
	case ScopeAllSlots:
		err = c.eng.TriggerFullScan()
	case ScopeLowPower:
		err = c.eng.TriggerLowPowerScan()
	default:
		panic("scan: unknown scope")
	}
	if err != nil {
		return err
	}
	c.pending = true
	return nil
}

// AwaitCompletion does not return until the engine clears its busy
// indicator. The caller is suspended in repeated deep-sleep entries; a
// dependent veto aborts one attempt and is retried. A scan that never
// completes is an unbounded wait here - watchdog handling, if any,
// belongs to the sensing engine.
func (c *Coordinator) AwaitCompletion(ctx context.Context) error {
	for c.eng.IsBusy() {
		if err := c.pm.DeepSleep(ctx); err != nil {
			if errcode.Of(err) == errcode.NotReady {
				continue
			}
			return err
		}
	}
	c.pending = false
	return nil
}

// Pending reports whether a batch is outstanding (diagnostics).
func (c *Coordinator) Pending() bool { return c.pending }
