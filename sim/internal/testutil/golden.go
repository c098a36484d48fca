// Package testutil provides shared test infrastructure for the simulator.
// It consolidates golden trace types and assertion helpers used across
// sim/ test packages.
package testutil

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/priosim/sim/trace"
)

// GoldenTraces represents the structure of testdata/golden_traces.yaml.
type GoldenTraces struct {
	Traces []GoldenTrace `yaml:"traces"`
}

// GoldenTrace is one hand-computed deterministic run.
type GoldenTrace struct {
	Name            string         `yaml:"name"`
	RTInterarrival  float64        `yaml:"rt_interarrival"`
	NRTInterarrival float64        `yaml:"nrt_interarrival"`
	RTService       float64        `yaml:"rt_service"`
	NRTService      float64        `yaml:"nrt_service"`
	Horizon         float64        `yaml:"horizon"`
	Initial         *GoldenInitial `yaml:"initial,omitempty"`
	TotalRecords    int            `yaml:"total_records"`
	Rows            []GoldenRow    `yaml:"rows"`
}

// GoldenInitial mirrors sim.InitialConditions with the server as a label.
type GoldenInitial struct {
	RTClock      float64 `yaml:"rt_clock"`
	NRTClock     float64 `yaml:"nrt_clock"`
	ServiceClock float64 `yaml:"service_clock"`
	Server       string  `yaml:"server"`
}

// GoldenRow is one expected record, written as a flow sequence:
// [event, clock, rt_clock, nrt_clock, rt_queue_len, nrt_queue_len, service_clock, server, preempted_remaining]
type GoldenRow struct {
	Event              string
	Clock              float64
	RTClock            float64
	NRTClock           float64
	RTQueueLen         int
	NRTQueueLen        int
	ServiceClock       float64
	Server             string
	PreemptedRemaining float64
}

// UnmarshalYAML decodes the flow-sequence row form.
func (r *GoldenRow) UnmarshalYAML(node *yaml.Node) error {
	var cols []yaml.Node
	if err := node.Decode(&cols); err != nil {
		return err
	}
	if len(cols) != 9 {
		return fmt.Errorf("golden row must have 9 columns, got %d", len(cols))
	}
	targets := []any{&r.Event, &r.Clock, &r.RTClock, &r.NRTClock, &r.RTQueueLen,
		&r.NRTQueueLen, &r.ServiceClock, &r.Server, &r.PreemptedRemaining}
	for i := range cols {
		if err := cols[i].Decode(targets[i]); err != nil {
			return err
		}
	}
	return nil
}

// LoadGoldenTraces loads the golden traces from the repo-root testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenTraces(t *testing.T) *GoldenTraces {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_traces.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden traces: %v", err)
	}

	var golden GoldenTraces
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&golden); err != nil {
		t.Fatalf("Failed to parse golden traces: %v", err)
	}
	return &golden
}

// Find returns the named golden trace or fails the test.
func (g *GoldenTraces) Find(t *testing.T, name string) GoldenTrace {
	t.Helper()
	for _, tr := range g.Traces {
		if tr.Name == name {
			return tr
		}
	}
	t.Fatalf("golden trace %q not found", name)
	return GoldenTrace{}
}

// AssertRecord compares a recorded snapshot with a golden row.
func AssertRecord(t *testing.T, idx int, want GoldenRow, got trace.StateRecord) {
	t.Helper()
	if string(got.Event) != want.Event {
		t.Errorf("record %d: event = %s, want %s", idx, got.Event, want.Event)
	}
	if got.Server != want.Server {
		t.Errorf("record %d: server = %s, want %s", idx, got.Server, want.Server)
	}
	if got.RTQueueLen != want.RTQueueLen || got.NRTQueueLen != want.NRTQueueLen {
		t.Errorf("record %d: queues = (%d,%d), want (%d,%d)", idx,
			got.RTQueueLen, got.NRTQueueLen, want.RTQueueLen, want.NRTQueueLen)
	}
	AssertClockEqual(t, "clock", idx, want.Clock, got.Clock)
	AssertClockEqual(t, "rt_clock", idx, want.RTClock, got.RTClock)
	AssertClockEqual(t, "nrt_clock", idx, want.NRTClock, got.NRTClock)
	AssertClockEqual(t, "service_clock", idx, want.ServiceClock, got.ServiceClock)
	AssertClockEqual(t, "preempted_remaining", idx, want.PreemptedRemaining, got.PreemptedRemaining)
}

// AssertClockEqual compares two clock values, treating matching infinities as equal.
func AssertClockEqual(t *testing.T, name string, idx int, want, got float64) {
	t.Helper()
	if math.IsInf(want, 1) || math.IsInf(got, 1) {
		if math.IsInf(want, 1) != math.IsInf(got, 1) {
			t.Errorf("record %d: %s = %v, want %v", idx, name, got, want)
		}
		return
	}
	if math.Abs(want-got) > 1e-9 {
		t.Errorf("record %d: %s = %v, want %v", idx, name, got, want)
	}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
