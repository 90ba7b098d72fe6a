//go:build rp2040

package main

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"proxcode-go/drivers/cmod"
	"proxcode-go/drivers/serialled"
	"proxcode-go/sense"
	"proxcode-go/syspm"
	"proxcode-go/types"
)

func deviceName() string { return "proxkit" }

// Fixed pinout for the proxkit board. Only the LED data pin is
// configurable; the rest is routed on the PCB.
const (
	pinSenseSDA = machine.GP4
	pinSenseSCL = machine.GP5
	pinSenseINT = machine.GP6
	pinLEDSCK   = machine.GP18
	pinTunerTX  = machine.GP0
	pinTunerRX  = machine.GP1
)

func setupPlatform(cfg types.AppConfig, pm *syspm.Manager) (platform, error) {
	// Sensing front-end on I2C0.
	if err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400_000,
		SDA:       pinSenseSDA,
		SCL:       pinSenseSCL,
	}); err != nil {
		return platform{}, err
	}
	dev := cmod.New(machine.I2C0)
	p := platform{Engine: sense.NewHW(&dev)}

	// The front-end's INT line fires on scan completion and on wake-timer
	// expiry; both are wake sources, so the ISR only latches the event.
	scanWake := pm.NewWakeSource("scan_complete")
	pinSenseINT.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	if err := pinSenseINT.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		scanWake.Notify()
	}); err != nil {
		return platform{}, err
	}

	// The data line is handed over even when the LED feature is off, so
	// startup can park it instead of leaving it floating.
	dataPin := machine.Pin(cfg.Indicator.DataPin)
	p.LEDPin = rp2BusPin{pin: dataPin}
	if cfg.Indicator.Enabled {
		if err := machine.SPI0.Configure(machine.SPIConfig{
			Frequency: 4_000_000,
			SCK:       pinLEDSCK,
			SDO:       dataPin,
		}); err != nil {
			return platform{}, err
		}
		led := serialled.New(machine.SPI0, cfg.Indicator.Count)
		p.LED = &led
	}

	if cfg.Tuner.Enabled {
		var hw *uartx.UART
		switch cfg.Tuner.UART {
		case "uart1":
			hw = uartx.UART1
		default:
			hw = uartx.UART0
		}
		if err := hw.Configure(uartx.UARTConfig{
			BaudRate: cfg.Tuner.Baud,
			TX:       pinTunerTX,
			RX:       pinTunerRX,
		}); err != nil {
			return platform{}, err
		}
		p.TunerPort = hw
	}

	return p, nil
}

// rp2BusPin switches the LED data line between its SPI function and
// high-impedance input while clocks are gated.
type rp2BusPin struct{ pin machine.Pin }

func (b rp2BusPin) HighZ() {
	b.pin.Configure(machine.PinConfig{Mode: machine.PinInput})
}

func (b rp2BusPin) Drive() {
	b.pin.Configure(machine.PinConfig{Mode: machine.PinSPI})
}
