// Package sense defines the operation contract of the capacitive sensing
// engine. The engine owns raw scanning, baseline tracking, filtering and
// touch/proximity classification; the rest of the firmware consumes it only
// through the Engine interface and never reaches into its internals.
package sense

import "errors"

// Errors returned by engine implementations.
var (
	// ErrInitFailed halts startup; there is no degraded mode for a device
	// whose entire function is sensing.
	ErrInitFailed = errors.New("sense: init failed")
	// ErrBusy is returned by a scan trigger while a batch is outstanding.
	ErrBusy = errors.New("sense: busy")
)

// ProxState classifies the proximity widget for the indicator.
type ProxState uint8

const (
	ProxNone  ProxState = 0
	ProxNear  ProxState = 1 // object in proximity range
	ProxTouch ProxState = 3 // direct touch
)

// Engine is the sensing-engine contract. All calls are synchronous from the
// scheduler's point of view except the scan triggers, which start hardware
// work that completes asynchronously and clears the busy indicator.
//
// The engine's internal context is owned by the scheduler goroutine; the
// scan-completion interrupt touches only the engine's own bookkeeping and
// the wake latch, never scheduler state.
type Engine interface {
	// Init captures and initialises the sensing hardware.
	Init() error

	// TriggerFullScan starts a scan of all normal and low-power slots.
	TriggerFullScan() error
	// TriggerLowPowerScan starts a scan of the low-power slots only. The
	// hardware autonomously repeats frames until a configured frame count
	// elapses or touch is detected.
	TriggerLowPowerScan() error
	// IsBusy reports whether a scan batch is still in flight.
	IsBusy() bool

	// ProcessAllWidgets finishes signal processing for every widget after
	// a full scan completes.
	ProcessAllWidgets() error
	// ProcessWidget finishes signal processing for a single widget.
	ProcessWidget(id int) error

	// AnyWidgetActive reports whether any normal widget classified as
	// proximity or touch on the last processed scan.
	AnyWidgetActive() bool
	// AnyLowPowerWidgetActive is the low-power-path equivalent.
	AnyLowPowerWidgetActive() bool

	// ConfigureWakeTimer loads the hardware wake timer with a reload value
	// in ticks of the low-frequency clock.
	ConfigureWakeTimer(reload uint32)
	// CalibrateOscillator measures the actual low-frequency oscillator and
	// compensates the wake timers. One-shot at startup.
	CalibrateOscillator()

	// ProximityState classifies the proximity widget for the indicator.
	ProximityState() ProxState
	// ProximitySignal returns the current signal deviation and the span it
	// is scaled against (max raw count minus baseline).
	ProximitySignal() (diff, span uint16)

	// RecordProcessTime publishes a measured processing-phase duration, in
	// microseconds, into the state buffer so the tuner can read it.
	RecordProcessTime(us uint32)

	// StateBuffer exposes the engine's live state for the tuner channel.
	// Read-only by contract; exactly one external reader is supported.
	StateBuffer() []byte
}

// ProcessTimeOffset is where engines publish the recorded processing-phase
// duration inside the state buffer, as a little-endian u32.
const ProcessTimeOffset = 28
