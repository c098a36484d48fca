package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	sim "github.com/inference-sim/priosim/sim"
)

// ScenarioFile represents the full scenarios.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ScenarioFile struct {
	Version   string              `yaml:"version"`
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

// Scenario is a named parameter preset.
type Scenario struct {
	Description     string           `yaml:"description"`
	RTInterarrival  float64          `yaml:"rt_interarrival"`
	NRTInterarrival float64          `yaml:"nrt_interarrival"`
	RTService       float64          `yaml:"rt_service"`
	NRTService      float64          `yaml:"nrt_service"`
	Horizon         float64          `yaml:"horizon"`
	Stochastic      bool             `yaml:"stochastic"`
	Seed            *int64           `yaml:"seed,omitempty"` // nil = the --seed flag value
	Tolerance       float64          `yaml:"tolerance,omitempty"`
	Initial         *InitialScenario `yaml:"initial,omitempty"`
}

// InitialScenario describes the state the run starts from.
type InitialScenario struct {
	RTClock      float64 `yaml:"rt_clock"`
	NRTClock     float64 `yaml:"nrt_clock"`
	ServiceClock float64 `yaml:"service_clock"`
	Server       string  `yaml:"server"` // idle, rt or nrt
}

// LoadScenarioFile reads and parses a scenarios YAML file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenarioFile(path string) (*ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenarios file: %w", err)
	}
	var file ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing scenarios file %s: %w", path, err)
	}
	return &file, nil
}

// Names returns the scenario names in sorted order.
func (f *ScenarioFile) Names() []string {
	names := make([]string, 0, len(f.Scenarios))
	for name := range f.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named scenario.
func (f *ScenarioFile) Lookup(name string) (Scenario, error) {
	sc, ok := f.Scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario %q; available: %s", name, strings.Join(f.Names(), ", "))
	}
	return sc, nil
}

// ToConfig converts the preset into a validated simulation config.
func (s Scenario) ToConfig() (sim.Config, error) {
	cfg := sim.NewConfig(s.RTInterarrival, s.NRTInterarrival, s.RTService, s.NRTService, s.Horizon, s.Stochastic)
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
	cfg.Tolerance = s.Tolerance
	if s.Initial != nil {
		server, err := sim.ParseServerState(s.Initial.Server)
		if err != nil {
			return sim.Config{}, err
		}
		cfg.Initial = &sim.InitialConditions{
			RTClock:      s.Initial.RTClock,
			NRTClock:     s.Initial.NRTClock,
			ServiceClock: s.Initial.ServiceClock,
			Server:       server,
		}
	}
	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}
