package trace

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleTrace() *SimulationTrace {
	st := NewSimulationTrace("c0ffee")
	st.Record(StateRecord{Event: EventInit, RTClock: 10, NRTClock: 5, ServiceClock: math.Inf(1), Server: "idle"})
	st.Record(StateRecord{Event: EventNRTArrival, Clock: 5, RTClock: 10, NRTClock: 10, ServiceClock: 9, Server: "serving-nrt"})
	st.Record(StateRecord{Event: EventRTArrival, Clock: 7, RTClock: 17, NRTClock: 10, NRTQueueLen: 1,
		ServiceClock: 9, Server: "serving-rt", PreemptedRemaining: 2, Preempted: true})
	return st
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{"table", true},
		{"csv", true},
		{"jsonl", true},
		{"yaml", true},
		{"", true},
		{"xml", false},
		{"JSON", false},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidFormat(tt.format))
		})
	}
}

func TestWrite_Table_RendersIdleSentinel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTrace(), FormatTable))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4, "header plus one line per record")

	assert.Contains(t, lines[0], "nonRTCL")
	assert.Contains(t, lines[1], "idle")
	assert.NotContains(t, lines[1], "Inf", "unbounded service clock must not be printed literally")
	assert.Contains(t, lines[2], "9.00")
	assert.True(t, strings.HasSuffix(lines[2], "| -"), "no pending preemption renders as '-'")
	assert.True(t, strings.HasSuffix(lines[3], "| 2.00"))
}

func TestWrite_CSV_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTrace(), FormatCSV))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "seq,event,clock,rt_clock,nrt_clock,rt_queue_len,nrt_queue_len,service_clock,server,preempted_remaining", lines[0])
	assert.Equal(t, "0,init,0,10,5,0,0,idle,idle,0", lines[1])
	assert.Equal(t, "2,rt-arrival,7,17,10,0,1,9,serving-rt,2", lines[3])
}

func TestWrite_JSONL_IdleServiceClockIsNull(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTrace(), FormatJSONL))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Nil(t, first["service_clock"])
	assert.Equal(t, "c0ffee", first["run_id"])

	var third map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))
	assert.Equal(t, 9.0, third["service_clock"])
	assert.Equal(t, true, third["preempted"])
}

func TestWrite_YAML_Document(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTrace(), FormatYAML))

	var doc struct {
		RunID   string `yaml:"run_id"`
		Records []struct {
			Event        string   `yaml:"event"`
			ServiceClock *float64 `yaml:"service_clock"`
		} `yaml:"records"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "c0ffee", doc.RunID)
	require.Len(t, doc.Records, 3)
	assert.Nil(t, doc.Records[0].ServiceClock)
	require.NotNil(t, doc.Records[1].ServiceClock)
	assert.Equal(t, 9.0, *doc.Records[1].ServiceClock)
	assert.Equal(t, "nrt-arrival", doc.Records[1].Event)
}

func TestWrite_UnknownFormat_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleTrace(), Format("xml"))
	assert.Error(t, err)
}

func TestWrite_NilTrace_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, nil, FormatTable))
}
