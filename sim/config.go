package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned (wrapped) when a run is configured with a
// non-positive or non-finite mean or horizon, or with a tolerance that is
// negative or not smaller than every mean.
var ErrInvalidParameter = errors.New("invalid parameter")

// DefaultTolerance is the window within which two event clocks count as simultaneous.
const DefaultTolerance = 1e-9

// ClassConfig groups the timing means of one traffic class.
type ClassConfig struct {
	MeanInterarrival float64 // mean time between arrivals (> 0)
	MeanService      float64 // mean service duration (> 0)
}

// InitialConditions overrides the state the run starts from.
// Queue lengths always start at zero; a busy server holds the job in service.
type InitialConditions struct {
	RTClock      float64     // first RT arrival (>= 0)
	NRTClock     float64     // first NRT arrival (>= 0)
	ServiceClock float64     // completion of the job in service; ignored when Server is Idle
	Server       ServerState // what the server is doing at time zero
}

// Config groups everything a single run needs.
type Config struct {
	RT         ClassConfig
	NRT        ClassConfig
	Horizon    float64            // run ends once the next event would exceed it (> 0)
	Stochastic bool               // true = exponential samples, false = means used verbatim
	Seed       int64              // RNG seed, only consulted in stochastic mode
	Tolerance  float64            // tie window for simultaneous events; 0 = DefaultTolerance
	Initial    *InitialConditions // nil = idle server, first arrivals one sample after time zero
}

// NewConfig builds a Config from the four means, the horizon and the timing mode.
func NewConfig(rtInterarrival, nrtInterarrival, rtService, nrtService, horizon float64, stochastic bool) Config {
	return Config{
		RT:         ClassConfig{MeanInterarrival: rtInterarrival, MeanService: rtService},
		NRT:        ClassConfig{MeanInterarrival: nrtInterarrival, MeanService: nrtService},
		Horizon:    horizon,
		Stochastic: stochastic,
	}
}

// EffectiveTolerance returns Tolerance, or DefaultTolerance when unset.
func (c Config) EffectiveTolerance() float64 {
	if c.Tolerance == 0 {
		return DefaultTolerance
	}
	return c.Tolerance
}

// Validate checks every parameter before a run starts.
func (c Config) Validate() error {
	checks := []struct {
		name string
		val  float64
	}{
		{"rt mean inter-arrival", c.RT.MeanInterarrival},
		{"nrt mean inter-arrival", c.NRT.MeanInterarrival},
		{"rt mean service", c.RT.MeanService},
		{"nrt mean service", c.NRT.MeanService},
		{"horizon", c.Horizon},
	}
	for _, chk := range checks {
		if err := validateFinitePositive(chk.name, chk.val); err != nil {
			return err
		}
	}
	if math.IsNaN(c.Tolerance) || math.IsInf(c.Tolerance, 0) || c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be a finite non-negative number, got %v", ErrInvalidParameter, c.Tolerance)
	}
	// A tie window as wide as a mean would merge events that are a full interval apart.
	smallest := min(c.RT.MeanInterarrival, c.NRT.MeanInterarrival, c.RT.MeanService, c.NRT.MeanService)
	if tol := c.EffectiveTolerance(); tol >= smallest {
		return fmt.Errorf("%w: tolerance %v must be smaller than the smallest mean %v", ErrInvalidParameter, tol, smallest)
	}
	if c.Initial != nil {
		if err := c.Initial.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (ic *InitialConditions) validate() error {
	if err := validateFiniteNonNegative("initial rt clock", ic.RTClock); err != nil {
		return err
	}
	if err := validateFiniteNonNegative("initial nrt clock", ic.NRTClock); err != nil {
		return err
	}
	switch ic.Server {
	case Idle:
		return nil
	case ServingRT, ServingNRT:
		return validateFiniteNonNegative("initial service clock", ic.ServiceClock)
	default:
		return fmt.Errorf("%w: unknown initial server state %d", ErrInvalidParameter, int(ic.Server))
	}
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%w: %s must be a finite number, got %v", ErrInvalidParameter, name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParameter, name, val)
	}
	return nil
}

func validateFiniteNonNegative(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%w: %s must be a finite number, got %v", ErrInvalidParameter, name, val)
	}
	if val < 0 {
		return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidParameter, name, val)
	}
	return nil
}
