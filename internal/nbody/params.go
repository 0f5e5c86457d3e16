package nbody

import (
	"fmt"
	"math"
	"runtime"
)

const (
	DefaultBodies        = 400
	DefaultG             = 10.0
	DefaultMass          = 1.0
	DefaultOrbitFraction = 0.55
	DefaultSpeedFraction = 0.01
	DefaultSeed          = 1
)

// Params holds the construction-time constants of an Engine.
type Params struct {
	// Bodies is the fixed population size.
	Bodies int
	// G is the gravitational constant used by the pairwise force law.
	G float64
	// Mass is assigned to every body on reset.
	Mass float64
	// OrbitFraction scales the reset radius: r ~ U(0, OrbitFraction*min(W,H)).
	OrbitFraction float64
	// SpeedFraction bounds the per-body speed draw made during reset.
	SpeedFraction float64
	Seed          int64
	// Workers splits the force pass; values <= 1 run serially.
	Workers int
}

// DefaultParams returns the reference configuration: 400 unit masses, G = 10.
func DefaultParams() Params {
	return Params{
		Bodies:        DefaultBodies,
		G:             DefaultG,
		Mass:          DefaultMass,
		OrbitFraction: DefaultOrbitFraction,
		SpeedFraction: DefaultSpeedFraction,
		Seed:          DefaultSeed,
		Workers:       runtime.NumCPU(),
	}
}

// Validate checks p and returns an error wrapping ErrInvalidParams.
func (p Params) Validate() error {
	if p.Bodies < 1 {
		return fmt.Errorf("%w: bodies must be positive, got %d", ErrInvalidParams, p.Bodies)
	}
	if !finite(p.G) {
		return fmt.Errorf("%w: g must be finite, got %f", ErrInvalidParams, p.G)
	}
	if !finite(p.Mass) || p.Mass <= 0 {
		return fmt.Errorf("%w: mass must be positive, got %f", ErrInvalidParams, p.Mass)
	}
	if !finite(p.OrbitFraction) || p.OrbitFraction < 0 {
		return fmt.Errorf("%w: orbit fraction must be non-negative, got %f", ErrInvalidParams, p.OrbitFraction)
	}
	if !finite(p.SpeedFraction) || p.SpeedFraction < 0 {
		return fmt.Errorf("%w: speed fraction must be non-negative, got %f", ErrInvalidParams, p.SpeedFraction)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
