package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/haptic-protocol/haptic-go/pkg/hardware"
	"github.com/haptic-protocol/haptic-go/pkg/protocol"
	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// Config is the simulator configuration file.
//
// Example:
//
//	log_level: debug
//	protocol_log: session.hlog
//	devices:
//	  - name: Je Joue
//	    model: jejoue
//	    battery: 80
//	    rssi: -55
//	    messages:
//	      vibrate: {feature_count: 2, step_count: [5, 5]}
//	      battery: {}
//	    endpoints:
//	      rx: "0a0b"
type Config struct {
	LogLevel    string         `yaml:"log_level"`
	ProtocolLog string         `yaml:"protocol_log"`
	Devices     []DeviceConfig `yaml:"devices"`
}

// DeviceConfig describes one simulated device.
type DeviceConfig struct {
	Name  string `yaml:"name"`
	Model string `yaml:"model"`

	// Battery level in percent. Omitted leaves the battery endpoint unset.
	Battery *uint8 `yaml:"battery"`

	// RSSI in dBm.
	RSSI int32 `yaml:"rssi"`

	// Messages maps message names ("vibrate", "rotate", "RawReadCmd", ...)
	// to their attributes.
	Messages map[string]wire.MessageAttributes `yaml:"messages"`

	// Endpoints maps endpoint names to hex-encoded read values.
	Endpoints map[string]string `yaml:"endpoints"`
}

// DefaultConfig returns the configuration used without -config: a single
// Je Joue.
func DefaultConfig() *Config {
	battery := uint8(80)
	return &Config{
		LogLevel: "info",
		Devices: []DeviceConfig{{
			Name:    "Je Joue",
			Model:   "jejoue",
			Battery: &battery,
			RSSI:    -55,
			Messages: map[string]wire.MessageAttributes{
				"vibrate":         {FeatureCount: 2, StepCount: []uint32{5, 5}},
				"battery":         {},
				"rssi":            {},
				"raw-write":       {},
				"raw-read":        {},
				"raw-subscribe":   {},
				"raw-unsubscribe": {},
			},
		}},
	}
}

// LoadConfig reads and validates a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that every device can be built.
func (c *Config) Validate() error {
	if len(c.Devices) == 0 {
		return fmt.Errorf("no devices configured")
	}
	for i, d := range c.Devices {
		if d.Name == "" {
			return fmt.Errorf("device %d: name required", i)
		}
		if _, err := d.Attributes(); err != nil {
			return fmt.Errorf("device %q: %w", d.Name, err)
		}
		if _, err := d.Simulated(nil); err != nil {
			return fmt.Errorf("device %q: %w", d.Name, err)
		}
	}
	return nil
}

// Attributes converts the message names to an AttributesMap.
func (d DeviceConfig) Attributes() (wire.AttributesMap, error) {
	attrs := make(wire.AttributesMap, len(d.Messages))
	for name, a := range d.Messages {
		t, ok := wire.ParseMessageType(name)
		if !ok {
			return nil, fmt.Errorf("unknown message %q", name)
		}
		if len(a.StepCount) > 0 && uint32(len(a.StepCount)) != a.FeatureCount {
			return nil, fmt.Errorf("message %q: %d step counts for %d features", name, len(a.StepCount), a.FeatureCount)
		}
		for i, steps := range a.StepCount {
			if steps > protocol.MaxStepCount {
				return nil, fmt.Errorf("message %q: step count %d of feature %d exceeds %d", name, steps, i, protocol.MaxStepCount)
			}
		}
		attrs[t] = a
	}
	return attrs, nil
}

// Simulated builds the simulated hardware.
func (d DeviceConfig) Simulated(cfg *hardware.SimulatedConfig) (*hardware.Simulated, error) {
	endpoints := make(map[wire.Endpoint][]byte, len(d.Endpoints))
	for name, value := range d.Endpoints {
		ep, ok := wire.ParseEndpoint(name)
		if !ok {
			return nil, fmt.Errorf("unknown endpoint %q", name)
		}
		data, err := hex.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", name, err)
		}
		endpoints[ep] = data
	}

	simCfg := hardware.SimulatedConfig{}
	if cfg != nil {
		simCfg = *cfg
	}
	simCfg.Name = d.Name
	simCfg.Endpoints = endpoints
	simCfg.BatteryLevel = d.Battery
	simCfg.RSSI = d.RSSI
	return hardware.NewSimulated(simCfg), nil
}
