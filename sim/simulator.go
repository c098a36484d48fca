// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/priosim/sim/trace"
)

// Simulator is the core object that holds simulation time, system state, and the event loop.
// A Simulator runs once; it is not safe for concurrent use.
type Simulator struct {
	Config Config
	State  State
	// Trace receives one record for the initial state and one per processed event
	Trace *trace.SimulationTrace

	rtTiming  *TimingSource
	nrtTiming *TimingSource
	tolerance float64
	// preempted is set by HandleRTArrival when the current event interrupted an NRT job
	preempted bool
	ran       bool
}

// NewSimulator validates cfg and builds a Simulator positioned at time zero.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	sim := &Simulator{
		Config:    cfg,
		Trace:     trace.NewSimulationTrace(""),
		rtTiming:  NewTimingSource(rng.ForSubsystem(SubsystemRT), cfg.Stochastic),
		nrtTiming: NewTimingSource(rng.ForSubsystem(SubsystemNRT), cfg.Stochastic),
		tolerance: cfg.EffectiveTolerance(),
	}
	sim.State = sim.initialState()
	return sim, nil
}

func (sim *Simulator) initialState() State {
	if ic := sim.Config.Initial; ic != nil {
		st := State{
			RTClock:      ic.RTClock,
			NRTClock:     ic.NRTClock,
			ServiceClock: math.Inf(1),
			Server:       ic.Server,
		}
		if ic.Server != Idle {
			st.ServiceClock = ic.ServiceClock
		}
		return st
	}
	return State{
		RTClock:      sim.rtTiming.Sample(sim.Config.RT.MeanInterarrival),
		NRTClock:     sim.nrtTiming.Sample(sim.Config.NRT.MeanInterarrival),
		ServiceClock: math.Inf(1),
		Server:       Idle,
	}
}

// NextEventTime returns the earliest pending event time. The service clock only
// competes while the server is busy.
func (sim *Simulator) NextEventTime() float64 {
	next := min(sim.State.RTClock, sim.State.NRTClock)
	if sim.State.Server != Idle {
		next = min(next, sim.State.ServiceClock)
	}
	return next
}

// isDue reports whether clock ties with next. A clock past the horizon never
// ties, even inside the tolerance window.
func (sim *Simulator) isDue(clock, next float64) bool {
	return clock <= sim.Config.Horizon && math.Abs(clock-next) < sim.tolerance
}

// Run processes events until the next one would fall beyond the horizon and
// returns the recorded trace. Calling Run again returns the same trace.
func (sim *Simulator) Run() *trace.SimulationTrace {
	if sim.ran {
		return sim.Trace
	}
	sim.ran = true

	logrus.Infof("Starting simulation: rt=%+v nrt=%+v horizon=%v stochastic=%v seed=%d",
		sim.Config.RT, sim.Config.NRT, sim.Config.Horizon, sim.Config.Stochastic, sim.Config.Seed)

	sim.record(trace.EventInit)

	for sim.State.Clock < sim.Config.Horizon {
		next := sim.NextEventTime()
		if next > sim.Config.Horizon {
			break
		}
		// Simultaneous events run in fixed priority order; each check sees the
		// clocks left by the handler before it.
		if sim.isDue(sim.State.RTClock, next) {
			sim.process(&RTArrivalEvent{time: sim.State.RTClock})
		}
		if sim.isDue(sim.State.NRTClock, next) {
			sim.process(&NRTArrivalEvent{time: sim.State.NRTClock})
		}
		if sim.State.Server != Idle && sim.isDue(sim.State.ServiceClock, next) {
			sim.process(&ServiceCompletionEvent{time: sim.State.ServiceClock})
		}
	}

	logrus.Infof("[t=%.4f] Simulation ended after %d events", sim.State.Clock, sim.Trace.Len()-1)
	return sim.Trace
}

func (sim *Simulator) process(ev Event) {
	sim.preempted = false
	logrus.Debugf("[t=%.4f] executing %s", ev.Timestamp(), ev.Kind())
	ev.Execute(sim)
	sim.record(ev.Kind())
}

func (sim *Simulator) record(kind trace.EventKind) {
	if err := sim.State.CheckInvariants(); err != nil {
		panic(fmt.Sprintf("state invariant violated after %s at t=%v: %v", kind, sim.State.Clock, err))
	}
	sim.Trace.Record(sim.State.toRecord(kind, sim.preempted))
	logrus.Debugf("[t=%.4f] %-18s nRT=%d nNRT=%d server=%s scl=%v preempted=%v",
		sim.State.Clock, kind, sim.State.RTQueueLen, sim.State.NRTQueueLen,
		sim.State.Server, sim.State.ServiceClock, sim.State.PreemptedRemaining)
}

// advanceTo moves the clock to t. A tie accepted within tolerance may be a
// hair earlier than the current clock; the clock stays put in that case.
func (sim *Simulator) advanceTo(t float64) {
	if t > sim.State.Clock {
		sim.State.Clock = t
	}
}

// HandleRTArrival processes the RT arrival due at now.
func (sim *Simulator) HandleRTArrival(now float64) {
	s := &sim.State
	sim.advanceTo(now)
	s.RTClock = s.Clock + sim.rtTiming.Sample(sim.Config.RT.MeanInterarrival)
	s.RTQueueLen++

	// Only the first RT job reacts; later ones wait behind the RT job in service.
	if s.RTQueueLen != 1 {
		return
	}
	switch s.Server {
	case Idle:
		sim.startRTService()
	case ServingNRT:
		remaining := s.ServiceClock - s.Clock
		if remaining > sim.tolerance {
			s.PreemptedRemaining = remaining
			s.NRTQueueLen++
			sim.preempted = true
		} else {
			logrus.Debugf("[t=%.4f] NRT job finishes as RT arrives; nothing to preempt", s.Clock)
		}
		sim.startRTService()
	case ServingRT:
	default:
		panic(fmt.Sprintf("unhandled server state %v", s.Server))
	}
}

// HandleNRTArrival processes the NRT arrival due at now.
func (sim *Simulator) HandleNRTArrival(now float64) {
	s := &sim.State
	sim.advanceTo(now)
	s.NRTQueueLen++
	s.NRTClock = s.Clock + sim.nrtTiming.Sample(sim.Config.NRT.MeanInterarrival)

	switch s.Server {
	case Idle:
		sim.startNRTService(sim.nrtTiming.Sample(sim.Config.NRT.MeanService))
	case ServingRT, ServingNRT:
	default:
		panic(fmt.Sprintf("unhandled server state %v", s.Server))
	}
}

// HandleServiceCompletion processes the completion due at now and gives the
// server to the next job: RT first, then the preempted or next NRT job.
func (sim *Simulator) HandleServiceCompletion(now float64) {
	s := &sim.State
	sim.advanceTo(now)

	switch {
	case s.RTQueueLen > 0:
		sim.startRTService()
	case s.NRTQueueLen > 0:
		serviceTime := s.PreemptedRemaining
		if serviceTime > 0 {
			s.PreemptedRemaining = 0
		} else {
			serviceTime = sim.nrtTiming.Sample(sim.Config.NRT.MeanService)
		}
		sim.startNRTService(serviceTime)
	default:
		s.Server = Idle
		s.ServiceClock = math.Inf(1)
	}
}

func (sim *Simulator) startRTService() {
	s := &sim.State
	s.ServiceClock = s.Clock + sim.rtTiming.Sample(sim.Config.RT.MeanService)
	s.RTQueueLen--
	s.Server = ServingRT
}

// startNRTService takes an explicit duration so a preempted job resumes with
// its remaining time instead of a fresh sample.
func (sim *Simulator) startNRTService(serviceTime float64) {
	s := &sim.State
	s.ServiceClock = s.Clock + serviceTime
	s.NRTQueueLen--
	s.Server = ServingNRT
}
