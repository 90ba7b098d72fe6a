package cmod

// I2C address.
const Address = 0x36

// Expected value of regChipID.
const chipID = 0x51

// Register map.
const (
	regChipID = 0x00
	regCtrl   = 0x01
	regStatus = 0x02

	// Wake timer reload, little-endian u32 in low-frequency-clock ticks.
	regWakeReload0 = 0x04

	// Widget status bitmasks, little-endian u16.
	regWidgetStatus0 = 0x10
	regLpStatus0     = 0x12

	// Proximity widget detail.
	regProxState = 0x14
	regProxDiff0 = 0x15 // little-endian u16
	regProxSpan0 = 0x17 // little-endian u16

	// Live state window exposed to the tuner.
	regState0 = 0x20
)

// Control bits (regCtrl).
const (
	ctrlScanAll   = 0x01 // scan all normal + low-power slots
	ctrlScanLP    = 0x02 // scan low-power slots only
	ctrlProcess   = 0x04 // finish signal processing for scanned widgets
	ctrlCalibrate = 0x08 // measure the low-frequency oscillator
)

// Status bits (regStatus).
const (
	statusBusy  = 0x80 // scan in flight
	statusReady = 0x01 // firmware modules up after reset
)

// StateWindow is the size of the tuner-visible state window in bytes.
const StateWindow = 32
