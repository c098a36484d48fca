package trace

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace("")

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalEvents != 0 || summary.Preemptions != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.FinalClock != 0 {
		t.Errorf("expected final clock 0, got %v", summary.FinalClock)
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary == nil {
		t.Fatal("expected non-nil summary")
	}
	if summary.TotalEvents != 0 {
		t.Errorf("expected 0 events, got %d", summary.TotalEvents)
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with every event kind and one preemption
	st := NewSimulationTrace("")
	st.Record(StateRecord{Event: EventInit, ServiceClock: 4, Server: "serving-nrt"})
	st.Record(StateRecord{Event: EventRTArrival, Clock: 3, NRTQueueLen: 1, ServiceClock: 5,
		Server: "serving-rt", PreemptedRemaining: 1, Preempted: true})
	st.Record(StateRecord{Event: EventNRTArrival, Clock: 5, NRTQueueLen: 2, ServiceClock: 5,
		Server: "serving-rt", PreemptedRemaining: 1})
	st.Record(StateRecord{Event: EventServiceCompletion, Clock: 5, NRTQueueLen: 1, ServiceClock: 6,
		Server: "serving-nrt"})
	st.Record(StateRecord{Event: EventRTArrival, Clock: 13, RTQueueLen: 1, ServiceClock: math.Inf(1),
		Server: "idle"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts reflect the records, excluding the initial snapshot
	if summary.TotalEvents != 4 {
		t.Errorf("expected 4 events, got %d", summary.TotalEvents)
	}
	if summary.RTArrivals != 2 || summary.NRTArrivals != 1 || summary.Completions != 1 {
		t.Errorf("unexpected per-kind counts %+v", summary)
	}
	if summary.Preemptions != 1 {
		t.Errorf("expected 1 preemption, got %d", summary.Preemptions)
	}
	if summary.MaxNRTQueueLen != 2 || summary.MaxRTQueueLen != 1 {
		t.Errorf("unexpected queue peaks rt=%d nrt=%d", summary.MaxRTQueueLen, summary.MaxNRTQueueLen)
	}
	if summary.FinalClock != 13 {
		t.Errorf("expected final clock 13, got %v", summary.FinalClock)
	}
}

func TestTraceSummary_Print(t *testing.T) {
	summary := &TraceSummary{TotalEvents: 4, Preemptions: 1, FinalClock: 13}
	var buf bytes.Buffer

	summary.Print(&buf)

	out := buf.String()
	if !strings.Contains(out, "=== Simulation Summary ===") {
		t.Errorf("missing header in %q", out)
	}
	if !strings.Contains(out, "Preemptions          : 1") {
		t.Errorf("missing preemption count in %q", out)
	}
	if !strings.Contains(out, "Final clock          : 13.00") {
		t.Errorf("missing final clock in %q", out)
	}
}
