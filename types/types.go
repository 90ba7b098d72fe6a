package types

// ------------------------
// Power modes
// ------------------------

// Mode is the device operating state. Exactly one mode is current at any
// time; it is owned by the scheduler and never written from anywhere else.
type Mode uint8

const (
	// ModeActive scans all sensors at the highest refresh rate.
	ModeActive Mode = 0x01
	// ModeLowRefresh scans all sensors at a reduced refresh rate.
	ModeLowRefresh Mode = 0x02
	// ModeWakeOnTouch scans only the low-power sensors at the lowest rate.
	ModeWakeOnTouch Mode = 0x03
)

func (m Mode) String() string {
	switch m {
	case ModeActive:
		return "active"
	case ModeLowRefresh:
		return "low_refresh"
	case ModeWakeOnTouch:
		return "wake_on_touch"
	default:
		return "unknown"
	}
}

// ------------------------
// Deep-sleep transition protocol
// ------------------------

// TransitionPhase tags one invocation of a deep-sleep dependent callback.
// The power manager supplies it per call; callbacks hold no phase state.
type TransitionPhase uint8

const (
	// PhaseReadinessCheck asks the dependent whether it can tolerate a
	// sleep transition right now. The only phase that may report not-ready.
	PhaseReadinessCheck TransitionPhase = iota
	// PhaseReadinessFailed tells a dependent that already passed its check
	// that another dependent vetoed the transition. State must be unchanged.
	PhaseReadinessFailed
	// PhasePreTransition runs immediately before clocks are gated.
	PhasePreTransition
	// PhasePostTransition runs immediately after wake.
	PhasePostTransition
)

func (p TransitionPhase) String() string {
	switch p {
	case PhaseReadinessCheck:
		return "readiness_check"
	case PhaseReadinessFailed:
		return "readiness_failed"
	case PhasePreTransition:
		return "pre_transition"
	case PhasePostTransition:
		return "post_transition"
	default:
		return "unknown"
	}
}

// ------------------------
// Scan results
// ------------------------

// ScanOutcome is the transient result of one scan cycle. Consumed once by
// the scheduler, never persisted.
type ScanOutcome struct {
	AnyWidgetActive         bool
	AnyLowPowerWidgetActive bool
}

// ------------------------
// Configuration
// ------------------------

// TimingConfig describes the timing of one power mode.
type TimingConfig struct {
	RefreshRateHz uint32 `json:"refresh_hz"`
	ScanTimeUs    uint32 `json:"scan_us"`
	ProcessTimeUs uint32 `json:"process_us"`
	TimeoutSec    uint32 `json:"timeout_sec"` // inactivity before dropping a mode; 0 = none
}

// TimeoutCycles converts the inactivity timeout into scheduler cycles.
func (t TimingConfig) TimeoutCycles() uint32 {
	return t.RefreshRateHz * t.TimeoutSec
}

type TunerConfig struct {
	Enabled bool   `json:"enabled"`
	UART    string `json:"uart"` // "uart0" | "uart1"
	Baud    uint32 `json:"baud"`
}

type IndicatorConfig struct {
	Enabled bool `json:"enabled"`
	DataPin int  `json:"data_pin"` // serial LED data line
	Count   int  `json:"count"`    // LEDs on the chain
}

// AppConfig is the whole device configuration, resolved once at startup.
// The original firmware's compile-time toggles live here as runtime fields.
type AppConfig struct {
	Device string `json:"device"`

	// Lowest-frequency internal clock, source of the minimum wake tick.
	ILOFreqHz uint32 `json:"ilo_hz"`

	Active     TimingConfig `json:"active"`
	LowRefresh TimingConfig `json:"low_refresh"`

	// Widget scanned on the low-power path in wake-on-touch mode.
	LowPowerWidget int `json:"low_power_widget"`

	Tuner     TunerConfig     `json:"tuner"`
	Indicator IndicatorConfig `json:"indicator"`

	// Measure the processing phase each cycle and expose it via the tuner.
	MeasureRuntime bool `json:"measure_runtime"`
}
