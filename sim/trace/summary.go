package trace

import (
	"fmt"
	"io"
)

// TraceSummary counts what happened in a SimulationTrace.
type TraceSummary struct {
	TotalEvents    int
	RTArrivals     int
	NRTArrivals    int
	Completions    int
	Preemptions    int
	MaxRTQueueLen  int
	MaxNRTQueueLen int
	FinalClock     float64
}

// Summarize computes event counts and queue peaks from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}

	for _, r := range st.Records {
		switch r.Event {
		case EventRTArrival:
			summary.RTArrivals++
		case EventNRTArrival:
			summary.NRTArrivals++
		case EventServiceCompletion:
			summary.Completions++
		}
		if r.Event != EventInit {
			summary.TotalEvents++
		}
		if r.Preempted {
			summary.Preemptions++
		}
		summary.MaxRTQueueLen = max(summary.MaxRTQueueLen, r.RTQueueLen)
		summary.MaxNRTQueueLen = max(summary.MaxNRTQueueLen, r.NRTQueueLen)
	}

	if last, ok := st.Last(); ok {
		summary.FinalClock = last.Clock
	}

	return summary
}

// Print writes the summary as a short human-readable block.
func (s *TraceSummary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "Events processed     : %d\n", s.TotalEvents)
	fmt.Fprintf(w, "RT arrivals          : %d\n", s.RTArrivals)
	fmt.Fprintf(w, "NRT arrivals         : %d\n", s.NRTArrivals)
	fmt.Fprintf(w, "Service completions  : %d\n", s.Completions)
	fmt.Fprintf(w, "Preemptions          : %d\n", s.Preemptions)
	fmt.Fprintf(w, "Peak RT queue        : %d\n", s.MaxRTQueueLen)
	fmt.Fprintf(w, "Peak NRT queue       : %d\n", s.MaxNRTQueueLen)
	fmt.Fprintf(w, "Final clock          : %.2f\n", s.FinalClock)
}
