package config

import (
	"testing"

	"proxcode-go/errcode"
	"proxcode-go/types"
)

// withConfigs swaps the embedded-config lookup for the duration of one test.
func withConfigs(t *testing.T, m map[string]string) {
	t.Helper()
	prev := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		s, ok := m[device]
		return []byte(s), ok
	}
	t.Cleanup(func() { EmbeddedConfigLookup = prev })
}

func TestLoadShippedDevices(t *testing.T) {
	cfg, err := Load("proxkit")
	if err != nil {
		t.Fatalf("load proxkit: %v", err)
	}
	if cfg.Device != "proxkit" {
		t.Fatalf("device = %q", cfg.Device)
	}
	if cfg.Active.RefreshRateHz != 128 || cfg.LowRefresh.RefreshRateHz != 32 {
		t.Fatalf("refresh rates = %d/%d, want 128/32", cfg.Active.RefreshRateHz, cfg.LowRefresh.RefreshRateHz)
	}
	if !cfg.Tuner.Enabled || cfg.Tuner.UART != "uart0" || cfg.Tuner.Baud != 115200 {
		t.Fatalf("tuner = %+v", cfg.Tuner)
	}

	host, err := Load("host-sim")
	if err != nil {
		t.Fatalf("load host-sim: %v", err)
	}
	if host.Tuner.Enabled || host.Indicator.Enabled {
		t.Fatalf("host-sim peripherals enabled: %+v %+v", host.Tuner, host.Indicator)
	}
	if !host.MeasureRuntime {
		t.Fatal("host-sim should measure runtime")
	}
	// Everything the host config is silent about keeps the defaults.
	if host.Active != Defaults().Active {
		t.Fatalf("active profile = %+v, want defaults", host.Active)
	}
}

func TestLoadUnknownDeviceFails(t *testing.T) {
	if _, err := Load("no-such-device"); err == nil {
		t.Fatal("expected error for unknown device")
	}
}

func TestOverlayReplacesOnlyNamedFields(t *testing.T) {
	withConfigs(t, map[string]string{
		"dev": `{"active": {"refresh_hz": 64}, "low_power_widget": 3}`,
	})
	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Active.RefreshRateHz != 64 {
		t.Fatalf("refresh = %d, want 64", cfg.Active.RefreshRateHz)
	}
	if cfg.Active.ScanTimeUs != Defaults().Active.ScanTimeUs {
		t.Fatalf("scan_us = %d, want default", cfg.Active.ScanTimeUs)
	}
	if cfg.LowPowerWidget != 3 {
		t.Fatalf("low_power_widget = %d, want 3", cfg.LowPowerWidget)
	}
}

func TestValidateRejectsStallingZeros(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*types.AppConfig)
	}{
		{"zero ilo", func(c *types.AppConfig) { c.ILOFreqHz = 0 }},
		{"zero refresh", func(c *types.AppConfig) { c.Active.RefreshRateHz = 0 }},
		{"zero timeout", func(c *types.AppConfig) { c.LowRefresh.TimeoutSec = 0 }},
		{"negative widget", func(c *types.AppConfig) { c.LowPowerWidget = -1 }},
		{"bad uart", func(c *types.AppConfig) { c.Tuner.UART = "uart7" }},
		{"zero baud", func(c *types.AppConfig) { c.Tuner.Baud = 0 }},
		{"zero led count", func(c *types.AppConfig) { c.Indicator.Count = 0 }},
	}
	for _, tc := range cases {
		cfg := Defaults()
		tc.mutate(&cfg)
		err := Validate(cfg)
		if errcode.Of(err) != errcode.InvalidConfig {
			t.Fatalf("%s: err = %v, want invalid_config", tc.name, err)
		}
	}
}

func TestValidateAcceptsDegenerateTiming(t *testing.T) {
	// A rate whose period is consumed by latency is legal; the timer policy
	// clamps the reload rather than the config rejecting it.
	cfg := Defaults()
	cfg.Active.RefreshRateHz = 100_000
	if err := Validate(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDisabledPeripheralsSkipTheirChecks(t *testing.T) {
	cfg := Defaults()
	cfg.Tuner.Enabled = false
	cfg.Tuner.UART = "bogus"
	cfg.Tuner.Baud = 0
	cfg.Indicator.Enabled = false
	cfg.Indicator.Count = 0
	if err := Validate(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
