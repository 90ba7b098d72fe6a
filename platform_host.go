//go:build !rp2040 && !rp2350

package main

import (
	"time"

	"proxcode-go/sense"
	"proxcode-go/syspm"
	"proxcode-go/types"
)

func deviceName() string { return "host-sim" }

// Host build: simulated sensing engine, no tuner UART or LED hardware.
// A short activity script makes the mode transitions visible when running
// the firmware loop on a workstation.
func setupPlatform(cfg types.AppConfig, pm *syspm.Manager) (platform, error) {
	sim := sense.NewSim()
	sim.ScanTime = time.Duration(cfg.Active.ScanTimeUs) * time.Microsecond
	sim.OnScanComplete(pm.NewWakeSource("scan_complete").Notify)

	sim.Script(true,
		sense.SimOutcome{Widget: true, Prox: sense.ProxNear, Diff: 120, Span: 400},
		sense.SimOutcome{Widget: true, Prox: sense.ProxTouch, Diff: 400, Span: 400},
		sense.SimOutcome{},
		sense.SimOutcome{},
	)

	return platform{Engine: sim}, nil
}
