package sense

import (
	"encoding/binary"

	"proxcode-go/drivers/cmod"
)

// HW is the sensing engine backed by the cmod front-end. Classification
// lives on the chip; this wrapper caches the last processed results so the
// scheduler's queries stay register-read-free.
//
// HW is used from the scheduler goroutine only. The chip's completion
// interrupt is wired straight to a wake source by the platform setup and
// never calls into HW.
type HW struct {
	dev *cmod.Device

	widgetMask uint16
	lpMask     uint16
	proxState  uint8
	proxDiff   uint16
	proxSpan   uint16

	state [cmod.StateWindow]byte
}

func NewHW(dev *cmod.Device) *HW {
	return &HW{dev: dev}
}

func (h *HW) Init() error {
	if err := h.dev.Configure(); err != nil {
		// Startup cannot proceed without sensing; surface the cause.
		return ErrInitFailed
	}
	return nil
}

func (h *HW) TriggerFullScan() error {
	return h.dev.StartScan(cmod.FrameAll)
}

func (h *HW) TriggerLowPowerScan() error {
	return h.dev.StartScan(cmod.FrameLowPower)
}

func (h *HW) IsBusy() bool { return h.dev.Busy() }

func (h *HW) ProcessAllWidgets() error {
	if err := h.dev.Process(); err != nil {
		return err
	}
	var err error
	if h.widgetMask, err = h.dev.WidgetStatus(); err != nil {
		return err
	}
	if h.lpMask, err = h.dev.LowPowerStatus(); err != nil {
		return err
	}
	return h.refreshProx()
}

func (h *HW) ProcessWidget(id int) error {
	if err := h.dev.Process(); err != nil {
		return err
	}
	var err error
	if h.lpMask, err = h.dev.LowPowerStatus(); err != nil {
		return err
	}
	return h.refreshProx()
}

func (h *HW) refreshProx() error {
	st, diff, span, err := h.dev.ProxDetail()
	if err != nil {
		return err
	}
	h.proxState, h.proxDiff, h.proxSpan = st, diff, span
	return h.dev.ReadState(h.state[:])
}

func (h *HW) AnyWidgetActive() bool         { return h.widgetMask != 0 }
func (h *HW) AnyLowPowerWidgetActive() bool { return h.lpMask != 0 }

func (h *HW) ConfigureWakeTimer(reload uint32) {
	// A rejected write leaves the previous (valid) reload in place.
	_ = h.dev.SetWakeReload(reload)
}

func (h *HW) CalibrateOscillator() {
	_ = h.dev.Calibrate()
}

// RecordProcessTime overlays the host-measured processing time on the
// reserved tail of the state window. The chip leaves those bytes zero, and
// the next processed scan refreshes the window before the overlay is
// reapplied.
func (h *HW) RecordProcessTime(us uint32) {
	binary.LittleEndian.PutUint32(h.state[ProcessTimeOffset:], us)
}

func (h *HW) ProximityState() ProxState {
	switch {
	case h.proxState >= uint8(ProxTouch):
		return ProxTouch
	case h.proxState == uint8(ProxNear):
		return ProxNear
	default:
		return ProxNone
	}
}

func (h *HW) ProximitySignal() (uint16, uint16) {
	return h.proxDiff, h.proxSpan
}

func (h *HW) StateBuffer() []byte { return h.state[:] }
