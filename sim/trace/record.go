// Package trace provides state-snapshot recording for the priority-queue simulator.
// It has no dependencies on sim/ and stores pure data types only.
package trace

import "math"

// EventKind names the event that produced a StateRecord.
type EventKind string

const (
	// EventInit marks the snapshot taken before any event is processed.
	EventInit EventKind = "init"
	// EventRTArrival marks a real-time job arrival.
	EventRTArrival EventKind = "rt-arrival"
	// EventNRTArrival marks a non-real-time job arrival.
	EventNRTArrival EventKind = "nrt-arrival"
	// EventServiceCompletion marks the end of the job in service.
	EventServiceCompletion EventKind = "service-completion"
)

// StateRecord captures the simulation state right after one event was processed.
type StateRecord struct {
	Seq                int
	Event              EventKind
	Clock              float64
	RTClock            float64
	NRTClock           float64
	RTQueueLen         int
	NRTQueueLen        int
	ServiceClock       float64 // +Inf while the server is idle
	Server             string
	PreemptedRemaining float64 // 0 when no preempted job is waiting
	Preempted          bool    // true if this RT arrival interrupted an NRT job
}

// ServerIdle reports whether the record has no pending service completion.
func (r StateRecord) ServerIdle() bool {
	return math.IsInf(r.ServiceClock, 1)
}
