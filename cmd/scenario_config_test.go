package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/inference-sim/priosim/sim"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenarioFile_RepoPresetsAreValid(t *testing.T) {
	// GIVEN the shipped scenarios.yaml
	file, err := LoadScenarioFile(filepath.Join("..", "scenarios.yaml"))
	require.NoError(t, err)

	// THEN every preset converts into a valid config
	require.NotEmpty(t, file.Names())
	for _, name := range file.Names() {
		sc, err := file.Lookup(name)
		require.NoError(t, err)
		_, err = sc.ToConfig()
		assert.NoError(t, err, "scenario %s", name)
	}
}

func TestLoadScenarioFile_UnknownKeyRejected(t *testing.T) {
	// GIVEN a preset with a misspelled field
	path := writeScenarioFile(t, `
version: "1"
scenarios:
  typo:
    rt_interarival: 10
`)

	// WHEN loaded
	_, err := LoadScenarioFile(path)

	// THEN strict parsing rejects it
	assert.Error(t, err)
}

func TestLoadScenarioFile_MissingFile(t *testing.T) {
	_, err := LoadScenarioFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestScenario_ToConfig_SeedAndInitial(t *testing.T) {
	path := writeScenarioFile(t, `
version: "1"
scenarios:
  busy-start:
    rt_interarrival: 7
    nrt_interarrival: 10
    rt_service: 2
    nrt_service: 4
    horizon: 100
    stochastic: true
    seed: 5
    tolerance: 0.000001
    initial:
      rt_clock: 1
      nrt_clock: 2
      service_clock: 3
      server: rt
`)
	file, err := LoadScenarioFile(path)
	require.NoError(t, err)
	sc, err := file.Lookup("busy-start")
	require.NoError(t, err)

	cfg, err := sc.ToConfig()
	require.NoError(t, err)

	assert.Equal(t, int64(5), cfg.Seed)
	assert.True(t, cfg.Stochastic)
	assert.Equal(t, 1e-6, cfg.Tolerance)
	require.NotNil(t, cfg.Initial)
	assert.Equal(t, sim.InitialConditions{RTClock: 1, NRTClock: 2, ServiceClock: 3, Server: sim.ServingRT}, *cfg.Initial)
}

func TestScenario_ToConfig_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		sc   Scenario
	}{
		{"zero service", Scenario{RTInterarrival: 10, NRTInterarrival: 5, RTService: 0, NRTService: 4, Horizon: 200}},
		{"unknown server", Scenario{RTInterarrival: 10, NRTInterarrival: 5, RTService: 2, NRTService: 4, Horizon: 200,
			Initial: &InitialScenario{Server: "busy"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sc.ToConfig()
			assert.Error(t, err)
		})
	}
}

func TestScenarioFile_LookupUnknown(t *testing.T) {
	file := &ScenarioFile{Scenarios: map[string]Scenario{"b": {}, "a": {}}}
	_, err := file.Lookup("c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a, b")
}
