package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/nbody"
)

// Momentum records the largest total momentum magnitude seen.
type Momentum struct {
	name    string
	last    float64
	maxNorm float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(s nbody.Snapshot, t float64) {
	m.last = r2.Norm(nbody.Momentum(s))
	m.maxNorm = math.Max(m.maxNorm, m.last)
}

func (m *Momentum) Value() float64 { return m.maxNorm }

// Sample returns the momentum magnitude of the most recent frame.
func (m *Momentum) Sample() float64 { return m.last }

func (m *Momentum) Reset() {
	m.last = 0
	m.maxNorm = 0
}

type MaxSpeed struct {
	name  string
	speed float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(s nbody.Snapshot, t float64) {
	m.speed = math.Max(m.speed, nbody.MaxSpeed(s))
}

func (m *MaxSpeed) Value() float64 { return m.speed }

func (m *MaxSpeed) Reset() { m.speed = 0 }
