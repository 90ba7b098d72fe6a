package main

import (
	"context"

	"proxcode-go/config"
	"proxcode-go/drivers/serialled"
	"proxcode-go/indicator"
	"proxcode-go/scan"
	"proxcode-go/sched"
	"proxcode-go/sense"
	"proxcode-go/syspm"
	"proxcode-go/tuner"
	"proxcode-go/types"
)

// platform bundles what the build-specific setup provides. Fields other
// than Engine are nil when the feature is absent on the build.
type platform struct {
	Engine    sense.Engine
	TunerPort tuner.Port
	LED       *serialled.Device
	LEDPin    indicator.BusPin
}

func main() {
	cfg := config.MustLoad(deviceName())

	pm := syspm.New()
	p, err := setupPlatform(cfg, pm)
	if err != nil {
		panic("platform: " + err.Error())
	}

	eng := p.Engine
	if err := eng.Init(); err != nil {
		// No safe degraded mode for a device whose function is sensing.
		panic("sense: " + err.Error())
	}

	ctx := context.Background()
	ind, tun := buildServices(ctx, cfg, pm, p)

	// One-shot oscillator compensation, then the Active-mode reload so the
	// first cycle already runs at the configured refresh rate.
	eng.CalibrateOscillator()
	policy := sched.TimerPolicy{ILOFreqHz: cfg.ILOFreqHz}
	eng.ConfigureWakeTimer(policy.Reload(cfg.Active))

	s := sched.New(sched.Config{
		Active:         cfg.Active,
		LowRefresh:     cfg.LowRefresh,
		LowPowerWidget: cfg.LowPowerWidget,
		Policy:         policy,
		MeasureRuntime: cfg.MeasureRuntime,
	}, eng, scan.New(eng, pm), ind, tun)

	println("[main] device:", cfg.Device, "starting in", s.Mode().String())
	if err := s.Run(ctx); err != nil {
		panic("sched: " + err.Error())
	}
}

// buildServices wires the optional collaborators. Deep-sleep dependents are
// registered in the order their bus side effects must run: tuner link
// first, then the serial LED bus.
func buildServices(ctx context.Context, cfg types.AppConfig, pm *syspm.Manager, p platform) (sched.Indicator, sched.Tuner) {
	var tun sched.Tuner = sched.NopTuner{}
	if cfg.Tuner.Enabled && p.TunerPort != nil {
		svc := tuner.New(p.TunerPort, p.Engine, pm.NewWakeSource("tuner_uart"))
		pm.RegisterCallback("tuner_uart", svc.TransitionHandler)
		svc.Start(ctx)
		tun = svc
	}

	var ind sched.Indicator = sched.NopIndicator{}
	if cfg.Indicator.Enabled && p.LED != nil {
		svc := indicator.New(p.LED, p.Engine, p.LEDPin)
		pm.RegisterCallback("serial_led", svc.TransitionHandler)
		ind = svc
	} else if p.LEDPin != nil {
		// LED feature disabled: park the data line in high-Z for good.
		p.LEDPin.HighZ()
	}
	return ind, tun
}
