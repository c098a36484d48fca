// Package sim provides the discrete-event engine for a single server shared by
// two traffic classes: real-time (RT) jobs, which preempt, and non-real-time
// (NRT) jobs, which resume for their remaining time after being preempted.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - state.go: the mutable State record, ServerState, and the invariants checked after every event
//   - event.go: the three event types (RT arrival, NRT arrival, service completion)
//   - simulator.go: the event loop and the handlers that mutate State
//
// # Timing
//
// Every interval or duration is requested from a TimingSource at the moment it
// is scheduled. In deterministic mode the configured mean is used verbatim; in
// stochastic mode samples are exponential with that mean. Each class draws from
// its own PartitionedRNG stream, keyed by Config.Seed.
//
// # Output
//
// Run returns a sim/trace.SimulationTrace holding one record for the initial
// state and one per processed event. The trace package renders it as a table,
// CSV, JSON lines or YAML.
package sim
