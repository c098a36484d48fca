package sim

import "github.com/inference-sim/priosim/sim/trace"

// Event defines the interface for all simulation events.
// Events are built from the state clocks at the moment they become due;
// nothing is queued ahead of time.
type Event interface {
	Timestamp() float64
	Kind() trace.EventKind
	Execute(*Simulator)
}

// RTArrivalEvent represents the arrival of a real-time job.
type RTArrivalEvent struct {
	time float64
}

// Timestamp returns the scheduled time of the RTArrivalEvent.
func (e *RTArrivalEvent) Timestamp() float64 {
	return e.time
}

// Kind returns trace.EventRTArrival.
func (e *RTArrivalEvent) Kind() trace.EventKind {
	return trace.EventRTArrival
}

// Execute admits the job and preempts NRT service if needed.
func (e *RTArrivalEvent) Execute(sim *Simulator) {
	sim.HandleRTArrival(e.time)
}

// NRTArrivalEvent represents the arrival of a non-real-time job.
type NRTArrivalEvent struct {
	time float64
}

// Timestamp returns the scheduled time of the NRTArrivalEvent.
func (e *NRTArrivalEvent) Timestamp() float64 {
	return e.time
}

// Kind returns trace.EventNRTArrival.
func (e *NRTArrivalEvent) Kind() trace.EventKind {
	return trace.EventNRTArrival
}

// Execute admits the job and starts it if the server is idle.
func (e *NRTArrivalEvent) Execute(sim *Simulator) {
	sim.HandleNRTArrival(e.time)
}

// ServiceCompletionEvent represents the job in service finishing.
type ServiceCompletionEvent struct {
	time float64
}

// Timestamp returns the scheduled time of the ServiceCompletionEvent.
func (e *ServiceCompletionEvent) Timestamp() float64 {
	return e.time
}

// Kind returns trace.EventServiceCompletion.
func (e *ServiceCompletionEvent) Kind() trace.EventKind {
	return trace.EventServiceCompletion
}

// Execute frees the server and hands it to the next job by priority.
func (e *ServiceCompletionEvent) Execute(sim *Simulator) {
	sim.HandleServiceCompletion(e.time)
}
