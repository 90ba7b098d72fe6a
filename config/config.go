// Package config resolves the device configuration once at startup from
// embedded per-device JSON. There is no runtime reconfiguration: a bad
// config is a fatal startup error to be fixed by tuning, not handled.
package config

import (
	"errors"

	"github.com/andreyvit/tinyjson"

	"proxcode-go/errcode"
	"proxcode-go/types"
)

// EmbeddedConfigLookup allows overriding how configs are resolved (tests).
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Defaults carries the shipped tuning constants; embedded JSON overlays it
// per device.
func Defaults() types.AppConfig {
	return types.AppConfig{
		ILOFreqHz: 40_000,
		Active: types.TimingConfig{
			RefreshRateHz: 128,
			ScanTimeUs:    2891,
			ProcessTimeUs: 23,
			TimeoutSec:    5,
		},
		LowRefresh: types.TimingConfig{
			RefreshRateHz: 32,
			ScanTimeUs:    2891,
			ProcessTimeUs: 23,
			TimeoutSec:    5,
		},
		LowPowerWidget: 0,
		Tuner:          types.TunerConfig{Enabled: true, UART: "uart0", Baud: 115_200},
		Indicator:      types.IndicatorConfig{Enabled: true, DataPin: 19, Count: 2},
		MeasureRuntime: false,
	}
}

// Load resolves the configuration for one device.
func Load(device string) (types.AppConfig, error) {
	cfg := Defaults()
	cfg.Device = device

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return cfg, errors.New("no embedded config for device: " + device)
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return cfg, errors.New("embedded config is not a JSON object")
	}

	overlay(&cfg, m)

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// MustLoad halts on any configuration error. Startup failure is fatal by
// design; there is no safe degraded mode.
func MustLoad(device string) types.AppConfig {
	cfg, err := Load(device)
	if err != nil {
		panic("config: " + err.Error())
	}
	return cfg
}

// Validate rejects configurations the scheduler or timer policy cannot run
// with. Degenerate reload arithmetic is not an error (the policy clamps);
// zeros that would divide or stall are.
func Validate(cfg types.AppConfig) error {
	if cfg.ILOFreqHz == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Msg: "ilo_hz must be > 0"}
	}
	if err := validateTiming("active", cfg.Active); err != nil {
		return err
	}
	if err := validateTiming("low_refresh", cfg.LowRefresh); err != nil {
		return err
	}
	if cfg.LowPowerWidget < 0 {
		return &errcode.E{C: errcode.InvalidConfig, Msg: "low_power_widget must be >= 0"}
	}
	if cfg.Tuner.Enabled {
		switch cfg.Tuner.UART {
		case "uart0", "uart1":
		default:
			return &errcode.E{C: errcode.InvalidConfig, Msg: "tuner.uart must be uart0 or uart1"}
		}
		if cfg.Tuner.Baud == 0 {
			return &errcode.E{C: errcode.InvalidConfig, Msg: "tuner.baud must be > 0"}
		}
	}
	if cfg.Indicator.Enabled && cfg.Indicator.Count < 1 {
		return &errcode.E{C: errcode.InvalidConfig, Msg: "indicator.count must be >= 1"}
	}
	return nil
}

func validateTiming(name string, t types.TimingConfig) error {
	if t.RefreshRateHz == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Msg: name + ".refresh_hz must be > 0"}
	}
	if t.TimeoutSec == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Msg: name + ".timeout_sec must be > 0"}
	}
	return nil
}

// ---- JSON overlay (tinyjson yields map[string]any / float64 / bool) ----

func overlay(cfg *types.AppConfig, m map[string]any) {
	u32(m, "ilo_hz", &cfg.ILOFreqHz)
	if o, ok := obj(m, "active"); ok {
		timing(o, &cfg.Active)
	}
	if o, ok := obj(m, "low_refresh"); ok {
		timing(o, &cfg.LowRefresh)
	}
	i(m, "low_power_widget", &cfg.LowPowerWidget)
	if o, ok := obj(m, "tuner"); ok {
		b(o, "enabled", &cfg.Tuner.Enabled)
		str(o, "uart", &cfg.Tuner.UART)
		u32(o, "baud", &cfg.Tuner.Baud)
	}
	if o, ok := obj(m, "indicator"); ok {
		b(o, "enabled", &cfg.Indicator.Enabled)
		i(o, "data_pin", &cfg.Indicator.DataPin)
		i(o, "count", &cfg.Indicator.Count)
	}
	b(m, "measure_runtime", &cfg.MeasureRuntime)
}

func timing(m map[string]any, t *types.TimingConfig) {
	u32(m, "refresh_hz", &t.RefreshRateHz)
	u32(m, "scan_us", &t.ScanTimeUs)
	u32(m, "process_us", &t.ProcessTimeUs)
	u32(m, "timeout_sec", &t.TimeoutSec)
}

func obj(m map[string]any, k string) (map[string]any, bool) {
	o, ok := m[k].(map[string]any)
	return o, ok
}

func u32(m map[string]any, k string, dst *uint32) {
	if f, ok := m[k].(float64); ok && f >= 0 {
		*dst = uint32(f)
	}
}

func i(m map[string]any, k string, dst *int) {
	if f, ok := m[k].(float64); ok {
		*dst = int(f)
	}
}

func b(m map[string]any, k string, dst *bool) {
	if v, ok := m[k].(bool); ok {
		*dst = v
	}
}

func str(m map[string]any, k string, dst *string) {
	if v, ok := m[k].(string); ok && v != "" {
		*dst = v
	}
}
