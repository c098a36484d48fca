package trace

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Format selects how a SimulationTrace is rendered.
type Format string

const (
	// FormatTable renders a fixed-width console table.
	FormatTable Format = "table"
	// FormatCSV renders one comma-separated row per record.
	FormatCSV Format = "csv"
	// FormatJSONL renders one JSON object per line.
	FormatJSONL Format = "jsonl"
	// FormatYAML renders the whole trace as a single YAML document.
	FormatYAML Format = "yaml"
)

// validFormats maps accepted format strings.
var validFormats = map[Format]bool{
	FormatTable: true,
	FormatCSV:   true,
	FormatJSONL: true,
	FormatYAML:  true,
	"":          true, // empty defaults to table
}

// IsValidFormat returns true if the given string is a recognized output format.
func IsValidFormat(format string) bool {
	return validFormats[Format(format)]
}

// idleLabel is shown instead of the unbounded service clock of an idle server.
const idleLabel = "idle"

// recordDoc is the serialized shape of a StateRecord. ServiceClock is nil while
// the server is idle since neither JSON nor CSV can carry +Inf portably.
type recordDoc struct {
	RunID              string   `json:"run_id,omitempty" yaml:"-"`
	Seq                int      `json:"seq" yaml:"seq"`
	Event              string   `json:"event" yaml:"event"`
	Clock              float64  `json:"clock" yaml:"clock"`
	RTClock            float64  `json:"rt_clock" yaml:"rt_clock"`
	NRTClock           float64  `json:"nrt_clock" yaml:"nrt_clock"`
	RTQueueLen         int      `json:"rt_queue_len" yaml:"rt_queue_len"`
	NRTQueueLen        int      `json:"nrt_queue_len" yaml:"nrt_queue_len"`
	ServiceClock       *float64 `json:"service_clock" yaml:"service_clock"`
	Server             string   `json:"server" yaml:"server"`
	PreemptedRemaining float64  `json:"preempted_remaining" yaml:"preempted_remaining"`
	Preempted          bool     `json:"preempted,omitempty" yaml:"preempted,omitempty"`
}

type traceDoc struct {
	RunID   string      `yaml:"run_id,omitempty"`
	Records []recordDoc `yaml:"records"`
}

func toDoc(runID string, r StateRecord) recordDoc {
	doc := recordDoc{
		RunID:              runID,
		Seq:                r.Seq,
		Event:              string(r.Event),
		Clock:              r.Clock,
		RTClock:            r.RTClock,
		NRTClock:           r.NRTClock,
		RTQueueLen:         r.RTQueueLen,
		NRTQueueLen:        r.NRTQueueLen,
		Server:             r.Server,
		PreemptedRemaining: r.PreemptedRemaining,
		Preempted:          r.Preempted,
	}
	if !r.ServerIdle() {
		scl := r.ServiceClock
		doc.ServiceClock = &scl
	}
	return doc
}

// Write renders st to w in the requested format.
func Write(w io.Writer, st *SimulationTrace, format Format) error {
	if st == nil {
		return fmt.Errorf("nil trace")
	}
	switch format {
	case FormatTable, "":
		return writeTable(w, st)
	case FormatCSV:
		return writeCSV(w, st)
	case FormatJSONL:
		return writeJSONL(w, st)
	case FormatYAML:
		return writeYAML(w, st)
	default:
		return fmt.Errorf("unknown trace format %q; valid: table, csv, jsonl, yaml", format)
	}
}

func writeTable(w io.Writer, st *SimulationTrace) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%6s | %8s | %10s | %3s | %6s | %8s | %-11s | %s\n",
		"MC", "RTCL", "nonRTCL", "nRT", "nnonRT", "SCL", "Server", "preempted service time")
	for _, r := range st.Records {
		scl := idleLabel
		if !r.ServerIdle() {
			scl = fmt.Sprintf("%.2f", r.ServiceClock)
		}
		preempted := "-"
		if r.PreemptedRemaining > 0 {
			preempted = fmt.Sprintf("%.2f", r.PreemptedRemaining)
		}
		fmt.Fprintf(bw, "%6.2f | %8.2f | %10.2f | %3d | %6d | %8s | %-11s | %s\n",
			r.Clock, r.RTClock, r.NRTClock, r.RTQueueLen, r.NRTQueueLen, scl, r.Server, preempted)
	}
	return bw.Flush()
}

func writeCSV(w io.Writer, st *SimulationTrace) error {
	cw := csv.NewWriter(w)
	header := []string{"seq", "event", "clock", "rt_clock", "nrt_clock", "rt_queue_len",
		"nrt_queue_len", "service_clock", "server", "preempted_remaining"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range st.Records {
		scl := idleLabel
		if !r.ServerIdle() {
			scl = formatFloat(r.ServiceClock)
		}
		row := []string{
			strconv.Itoa(r.Seq),
			string(r.Event),
			formatFloat(r.Clock),
			formatFloat(r.RTClock),
			formatFloat(r.NRTClock),
			strconv.Itoa(r.RTQueueLen),
			strconv.Itoa(r.NRTQueueLen),
			scl,
			r.Server,
			formatFloat(r.PreemptedRemaining),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSONL(w io.Writer, st *SimulationTrace) error {
	bw := bufio.NewWriter(w)
	for _, r := range st.Records {
		data, err := json.Marshal(toDoc(st.RunID, r))
		if err != nil {
			return fmt.Errorf("marshal record %d: %w", r.Seq, err)
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeYAML(w io.Writer, st *SimulationTrace) error {
	doc := traceDoc{RunID: st.RunID, Records: make([]recordDoc, 0, len(st.Records))}
	for _, r := range st.Records {
		doc.Records = append(doc.Records, toDoc("", r))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode trace yaml: %w", err)
	}
	return enc.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
