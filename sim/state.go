package sim

import (
	"fmt"
	"math"

	"github.com/inference-sim/priosim/sim/trace"
)

// ServerState is what the single server is doing.
type ServerState int

const (
	// Idle means no job is in service and no completion is pending.
	Idle ServerState = iota
	// ServingRT means a real-time job holds the server.
	ServingRT
	// ServingNRT means a non-real-time job holds the server and may be preempted.
	ServingNRT
)

// String returns the label used in traces.
func (s ServerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case ServingRT:
		return "serving-rt"
	case ServingNRT:
		return "serving-nrt"
	default:
		return fmt.Sprintf("ServerState(%d)", int(s))
	}
}

// ParseServerState maps a trace label (or its short alias) back to a ServerState.
func ParseServerState(name string) (ServerState, error) {
	switch name {
	case "idle", "":
		return Idle, nil
	case "serving-rt", "rt":
		return ServingRT, nil
	case "serving-nrt", "nrt":
		return ServingNRT, nil
	default:
		return Idle, fmt.Errorf("%w: unknown server state %q; valid: idle, rt, nrt", ErrInvalidParameter, name)
	}
}

// State is the mutable record the simulator advances event by event.
type State struct {
	Clock              float64 // time of the last processed event
	RTClock            float64 // next RT arrival
	NRTClock           float64 // next NRT arrival
	ServiceClock       float64 // next service completion, +Inf while idle
	RTQueueLen         int     // RT jobs waiting (the one in service is not counted)
	NRTQueueLen        int     // NRT jobs waiting, including a preempted one
	Server             ServerState
	PreemptedRemaining float64 // unserved time of the preempted NRT job, 0 = none
}

// CheckInvariants returns an error describing the first broken invariant, if any.
func (s *State) CheckInvariants() error {
	if s.RTQueueLen < 0 || s.NRTQueueLen < 0 {
		return fmt.Errorf("negative queue length: rt=%d nrt=%d", s.RTQueueLen, s.NRTQueueLen)
	}
	if s.PreemptedRemaining < 0 {
		return fmt.Errorf("negative preempted remaining time %v", s.PreemptedRemaining)
	}
	switch s.Server {
	case Idle:
		if s.RTQueueLen != 0 || s.NRTQueueLen != 0 {
			return fmt.Errorf("idle server with waiting jobs: rt=%d nrt=%d", s.RTQueueLen, s.NRTQueueLen)
		}
		if !math.IsInf(s.ServiceClock, 1) {
			return fmt.Errorf("idle server with pending completion at %v", s.ServiceClock)
		}
	case ServingRT, ServingNRT:
		if math.IsInf(s.ServiceClock, 0) || math.IsNaN(s.ServiceClock) {
			return fmt.Errorf("%s server without a completion time", s.Server)
		}
	default:
		return fmt.Errorf("unknown server state %d", int(s.Server))
	}
	if s.PreemptedRemaining > 0 && (s.Server != ServingRT || s.NRTQueueLen < 1) {
		return fmt.Errorf("preempted job pending while server is %s with nrt queue %d", s.Server, s.NRTQueueLen)
	}
	return nil
}

func (s *State) toRecord(kind trace.EventKind, preempted bool) trace.StateRecord {
	return trace.StateRecord{
		Event:              kind,
		Clock:              s.Clock,
		RTClock:            s.RTClock,
		NRTClock:           s.NRTClock,
		RTQueueLen:         s.RTQueueLen,
		NRTQueueLen:        s.NRTQueueLen,
		ServiceClock:       s.ServiceClock,
		Server:             s.Server.String(),
		PreemptedRemaining: s.PreemptedRemaining,
		Preempted:          preempted,
	}
}
