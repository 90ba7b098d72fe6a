// Package serialled drives a short chain of SPI serial RGB LEDs of the
// APA102 family: a zero start frame, one 4-byte frame per LED, and enough
// trailing clock bytes to push the data through the chain.
//
// Brightness of each channel is 0..255, where 0 is off and 255 is maximum.
package serialled

import "tinygo.org/x/drivers"

// BrightnessMax is full drive on one channel.
const BrightnessMax = 0xFF

// ledHeader carries the per-LED global-brightness field pinned to maximum;
// channel intensity is controlled per colour byte instead.
const ledHeader = 0xE0 | 0x1F

// Color is one LED's channel set.
type Color struct {
	R, G, B uint8
}

// Device wraps an SPI connection to a serial LED chain. The SPI bus must
// already be configured.
type Device struct {
	bus   drivers.SPI
	buf   []byte
	count int
}

// New creates the device for a chain of count LEDs, all initially off.
func New(bus drivers.SPI, count int) Device {
	if count < 1 {
		count = 1
	}
	start := 4
	end := (count + 15) / 16 // half a clock edge per LED, rounded up to bytes
	if end < 4 {
		end = 4
	}
	buf := make([]byte, start+4*count+end)
	for i := 0; i < count; i++ {
		buf[start+4*i] = ledHeader
	}
	for i := start + 4*count; i < len(buf); i++ {
		buf[i] = 0xFF
	}
	return Device{bus: bus, buf: buf, count: count}
}

// Count returns the chain length.
func (d *Device) Count() int { return d.count }

// SetColor stages one LED's channels. Out-of-range indices are ignored.
func (d *Device) SetColor(i int, c Color) {
	if i < 0 || i >= d.count {
		return
	}
	off := 4 + 4*i
	d.buf[off+1] = c.B
	d.buf[off+2] = c.G
	d.buf[off+3] = c.R
}

// Color returns the staged channels for one LED.
func (d *Device) Color(i int) Color {
	if i < 0 || i >= d.count {
		return Color{}
	}
	off := 4 + 4*i
	return Color{B: d.buf[off+1], G: d.buf[off+2], R: d.buf[off+3]}
}

// Display pushes the staged frame out over SPI.
func (d *Device) Display() error {
	return d.bus.Tx(d.buf, nil)
}
