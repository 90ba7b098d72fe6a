package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID passed to Load
// Val: raw JSON bytes for that device, overlaid onto Defaults()
// -----------------------------------------------------------------------------

const cfgProxKit = `{
  "ilo_hz": 40000,
  "active": {
    "refresh_hz": 128,
    "scan_us": 2891,
    "process_us": 23,
    "timeout_sec": 5
  },
  "low_refresh": {
    "refresh_hz": 32,
    "scan_us": 2891,
    "process_us": 23,
    "timeout_sec": 5
  },
  "low_power_widget": 0,
  "tuner": {
    "enabled": true,
    "uart": "uart0",
    "baud": 115200
  },
  "indicator": {
    "enabled": true,
    "data_pin": 19,
    "count": 2
  },
  "measure_runtime": false
}`

// Host development build: no hardware tuner/indicator attached.
const cfgHostSim = `{
  "tuner": {
    "enabled": false
  },
  "indicator": {
    "enabled": false
  },
  "measure_runtime": true
}`

var embeddedConfigs = map[string][]byte{
	"proxkit":  []byte(cfgProxKit),
	"host-sim": []byte(cfgHostSim),
}
