package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"proxcode-go/errcode"
	"proxcode-go/sense"
	"proxcode-go/syspm"
	"proxcode-go/types"
)

type rig struct {
	sim *sense.Sim
	pm  *syspm.Manager
	c   *Coordinator
}

func newRig() *rig {
	sim := sense.NewSim() // manual completion
	pm := syspm.New()
	ws := pm.NewWakeSource("scan_complete")
	sim.OnScanComplete(ws.Notify)
	return &rig{sim: sim, pm: pm, c: New(sim, pm)}
}

func awaitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("await completion: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("await completion never returned")
	}
}

func TestTriggerRefusesSecondBatch(t *testing.T) {
	r := newRig()
	if err := r.c.Trigger(ScopeAllSlots); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if err := r.c.Trigger(ScopeLowPower); errcode.Of(err) != errcode.ScanPending {
		t.Fatalf("second trigger = %v, want scan_pending", err)
	}
	if !r.c.Pending() {
		t.Fatal("batch not pending after trigger")
	}
}

func TestCompletionBeforeSleepIsNotLost(t *testing.T) {
	r := newRig()
	if err := r.c.Trigger(ScopeAllSlots); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	// Completion lands before the caller reaches the sleep point: the busy
	// check already sees it and no sleep happens at all.
	r.sim.CompleteScan()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.c.AwaitCompletion(ctx); err != nil {
		t.Fatalf("await completion: %v", err)
	}
	if r.pm.Sleeps() != 0 {
		t.Fatalf("sleeps = %d, want 0", r.pm.Sleeps())
	}
	if r.c.Pending() {
		t.Fatal("batch still pending after completion")
	}
}

func TestCompletionWakesParkedCore(t *testing.T) {
	r := newRig()
	if err := r.c.Trigger(ScopeLowPower); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- r.c.AwaitCompletion(context.Background()) }()

	time.Sleep(5 * time.Millisecond)
	r.sim.CompleteScan()
	awaitDone(t, done)
	if r.pm.Sleeps() == 0 {
		t.Fatal("core never slept while waiting")
	}
}

func TestUnrelatedWakeRechecksAndSleepsAgain(t *testing.T) {
	r := newRig()
	timer := r.pm.NewWakeSource("wake_timer")

	if err := r.c.Trigger(ScopeAllSlots); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	// A latched unrelated wake ends the first sleep immediately; the busy
	// indicator is still set, so the core parks again until completion.
	timer.Notify()

	done := make(chan error, 1)
	go func() { done <- r.c.AwaitCompletion(context.Background()) }()

	time.Sleep(5 * time.Millisecond)
	r.sim.CompleteScan()
	awaitDone(t, done)
	if got := r.pm.Sleeps(); got != 2 {
		t.Fatalf("sleeps = %d, want 2 (spurious wake plus real one)", got)
	}
}

func TestDependentVetoRetriesSleep(t *testing.T) {
	r := newRig()
	vetoes := 2
	r.pm.RegisterCallback("flaky", func(phase types.TransitionPhase) error {
		if phase == types.PhaseReadinessCheck && vetoes > 0 {
			vetoes--
			return errors.New("transaction in flight")
		}
		return nil
	})

	if err := r.c.Trigger(ScopeAllSlots); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- r.c.AwaitCompletion(context.Background()) }()

	time.Sleep(5 * time.Millisecond)
	r.sim.CompleteScan()
	awaitDone(t, done)
	if r.pm.Vetoes() != 2 {
		t.Fatalf("vetoes = %d, want 2", r.pm.Vetoes())
	}
}

func TestAwaitPropagatesCancellation(t *testing.T) {
	r := newRig()
	if err := r.c.Trigger(ScopeAllSlots); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := r.c.AwaitCompletion(ctx); err != context.DeadlineExceeded {
		t.Fatalf("await = %v, want deadline exceeded", err)
	}
}
