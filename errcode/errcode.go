package errcode

// Code is a stable error identifier shared across the firmware.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Startup
	InitFailed    Code = "init_failed"
	InvalidConfig Code = "invalid_config"

	// Scan coordination
	ScanPending Code = "scan_pending" // a batch is already outstanding
	EngineBusy  Code = "engine_busy"

	// Deep-sleep transition
	NotReady Code = "not_ready" // dependent vetoed the sleep attempt

	// Tuner channel
	InvalidRequest Code = "invalid_request"

	Cancelled Code = "cancelled"
	Error     Code = "error" // generic fallback
)

// E keeps context and a cause alongside a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
