// Package cmod provides a driver for the multi-sense capacitive front-end
// controller. The chip scans sensor slots autonomously once triggered,
// raises its interrupt line on completion, and owns baseline tracking and
// touch/proximity classification; this driver only moves registers.
package cmod

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Errors returned by the driver.
var (
	ErrNotFound = errors.New("cmod: chip id mismatch")
	ErrNotReady = errors.New("cmod: firmware modules not ready")
	ErrBusy     = errors.New("cmod: scan in flight")
)

// Frame selects the slot set a scan covers.
type Frame uint8

const (
	FrameAll Frame = iota
	FrameLowPower
)

// Device wraps an I2C connection to a cmod front-end. The I2C bus must
// already be configured.
type Device struct {
	bus     drivers.I2C
	Address uint16
	buf     [5]byte
}

// New creates the Device object; it does not touch the hardware. Call
// Configure before use.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

// Configure verifies the chip identity and that the sensing firmware came
// up after reset.
func (d *Device) Configure() error {
	id, err := d.readReg(regChipID)
	if err != nil {
		return err
	}
	if id != chipID {
		return ErrNotFound
	}
	st, err := d.readReg(regStatus)
	if err != nil {
		return err
	}
	if st&statusReady == 0 {
		return ErrNotReady
	}
	return nil
}

// StartScan triggers one scan batch. The chip refuses a trigger while busy.
func (d *Device) StartScan(f Frame) error {
	st, err := d.readReg(regStatus)
	if err != nil {
		return err
	}
	if st&statusBusy != 0 {
		return ErrBusy
	}
	bit := uint8(ctrlScanAll)
	if f == FrameLowPower {
		bit = ctrlScanLP
	}
	return d.writeReg(regCtrl, bit)
}

// Busy reads the scan-in-flight indicator.
func (d *Device) Busy() bool {
	st, err := d.readReg(regStatus)
	if err != nil {
		// Treat a failed read as busy; the caller re-checks after sleep.
		return true
	}
	return st&statusBusy != 0
}

// Process commands the chip to finish signal processing for the widgets
// covered by the last scan.
func (d *Device) Process() error {
	return d.writeReg(regCtrl, ctrlProcess)
}

// WidgetStatus returns the active-widget bitmask for the normal widgets.
func (d *Device) WidgetStatus() (uint16, error) {
	return d.readU16(regWidgetStatus0)
}

// LowPowerStatus returns the active-widget bitmask for the low-power path.
func (d *Device) LowPowerStatus() (uint16, error) {
	return d.readU16(regLpStatus0)
}

// ProxDetail returns the proximity widget's classification, current signal
// deviation, and the span it is scaled against.
func (d *Device) ProxDetail() (state uint8, diff, span uint16, err error) {
	if state, err = d.readReg(regProxState); err != nil {
		return
	}
	if diff, err = d.readU16(regProxDiff0); err != nil {
		return
	}
	span, err = d.readU16(regProxSpan0)
	return
}

// SetWakeReload loads the hardware wake timer, in low-frequency-clock ticks.
func (d *Device) SetWakeReload(reload uint32) error {
	d.buf[0] = regWakeReload0
	d.buf[1] = byte(reload)
	d.buf[2] = byte(reload >> 8)
	d.buf[3] = byte(reload >> 16)
	d.buf[4] = byte(reload >> 24)
	return d.bus.Tx(d.Address, d.buf[:5], nil)
}

// Calibrate runs the one-shot oscillator compensation.
func (d *Device) Calibrate() error {
	return d.writeReg(regCtrl, ctrlCalibrate)
}

// ReadState copies the tuner-visible state window into dst (up to
// StateWindow bytes).
func (d *Device) ReadState(dst []byte) error {
	if len(dst) > StateWindow {
		dst = dst[:StateWindow]
	}
	d.buf[0] = regState0
	return d.bus.Tx(d.Address, d.buf[:1], dst)
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	d.buf[0] = reg
	if err := d.bus.Tx(d.Address, d.buf[:1], d.buf[1:2]); err != nil {
		return 0, err
	}
	return d.buf[1], nil
}

func (d *Device) readU16(reg uint8) (uint16, error) {
	d.buf[0] = reg
	if err := d.bus.Tx(d.Address, d.buf[:1], d.buf[1:3]); err != nil {
		return 0, err
	}
	return uint16(d.buf[1]) | uint16(d.buf[2])<<8, nil
}

func (d *Device) writeReg(reg, val uint8) error {
	d.buf[0] = reg
	d.buf[1] = val
	return d.bus.Tx(d.Address, d.buf[:2], nil)
}
