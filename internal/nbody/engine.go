package nbody

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Engine advances a fixed population of bodies frame by frame.
type Engine struct {
	params Params
	rng    *rand.Rand

	bufs [2][]Body
	cur  int // index of the buffer written by the last Advance

	size  Size
	sized bool

	last    time.Time
	hasLast bool

	frame  uint64
	resets int
}

// New validates p and allocates both body buffers.
func New(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		params: p,
		rng:    rand.New(rand.NewSource(p.Seed)),
	}
	e.bufs[0] = make([]Body, p.Bodies)
	e.bufs[1] = make([]Body, p.Bodies)
	return e, nil
}

func (e *Engine) Params() Params { return e.params }
func (e *Engine) Len() int       { return e.params.Bodies }
func (e *Engine) Size() Size     { return e.size }
func (e *Engine) Frame() uint64  { return e.frame }
func (e *Engine) Resets() int    { return e.resets }

// Advance computes one frame and returns a view over it.
//
// dt is the time since the previous call (zero on the first call). A change
// of viewport size, or the first call, re-initializes every body before the
// step. The returned Snapshot is only valid until the next Advance.
func (e *Engine) Advance(t time.Time, size Size) Snapshot {
	dt := 0.0
	if e.hasLast {
		dt = t.Sub(e.last).Seconds()
	}
	e.last = t
	e.hasLast = true

	if !e.sized || size != e.size {
		e.reset(size)
		e.size = size
		e.sized = true
	}

	e.swap()
	e.step(dt)
	e.frame++

	return Snapshot{bodies: e.bufs[e.cur]}
}

// SetState loads bodies into both buffers and records size as the current
// viewport, so the next Advance with the same size integrates instead of
// resetting.
func (e *Engine) SetState(size Size, bodies []Body) error {
	if len(bodies) != e.params.Bodies {
		return fmt.Errorf("%w: want %d bodies, got %d", ErrPopulationMismatch, e.params.Bodies, len(bodies))
	}
	copy(e.bufs[0], bodies)
	copy(e.bufs[1], bodies)
	e.size = size
	e.sized = true
	return nil
}

func (e *Engine) previous() []Body { return e.bufs[e.cur^1] }
func (e *Engine) current() []Body  { return e.bufs[e.cur] }

func (e *Engine) swap() {
	e.cur ^= 1
}

// reset scatters bodies uniformly in angle and radius around the viewport
// center. Each body consumes three draws in order: angle, radius, speed.
// The speed draw is discarded; bodies always start at rest.
func (e *Engine) reset(size Size) {
	minDim := size.Min()
	center := size.Center()
	maxR := minDim * e.params.OrbitFraction
	maxV := minDim * e.params.SpeedFraction

	cur, prev := e.current(), e.previous()
	for i := range cur {
		theta := e.rng.Float64() * 2 * math.Pi
		r := e.rng.Float64() * maxR
		_ = -maxV + 2*maxV*e.rng.Float64()

		sin, cos := math.Sincos(theta)
		cur[i] = Body{
			Position: r2.Vec{X: center.X + r*cos, Y: center.Y + r*sin},
			Mass:     e.params.Mass,
		}
		prev[i] = cur[i]
	}
	e.resets++
}

// step integrates previous into current with the velocity-Verlet variant:
// position uses the old acceleration only, velocity the average of old and new.
func (e *Engine) step(dt float64) {
	prev, cur := e.previous(), e.current()
	g := e.params.G

	parallelFor(len(prev), e.params.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			p := prev[i]
			s, v, a := p.Position, p.Velocity, p.Acceleration
			a1 := accelerationOn(prev, i, g)

			cur[i] = Body{
				Position: r2.Vec{
					X: s.X + v.X*dt + a.X*dt*dt,
					Y: s.Y + v.Y*dt + a.Y*dt*dt,
				},
				Velocity: r2.Vec{
					X: v.X + dt*0.5*(a.X+a1.X),
					Y: v.Y + dt*0.5*(a.Y+a1.Y),
				},
				Acceleration: a1,
				Mass:         p.Mass,
			}
		}
	})
}

// accelerationOn sums the pull of every other body on bodies[i].
// Coincident bodies give dSquared == 0 and a non-finite result.
func accelerationOn(bodies []Body, i int, g float64) r2.Vec {
	s := bodies[i].Position
	var a1 r2.Vec
	for j := range bodies {
		if j == i {
			continue
		}
		dx := s.X - bodies[j].Position.X
		dy := s.Y - bodies[j].Position.Y
		m := bodies[j].Mass
		dSquared := dx*dx + dy*dy
		factor := math.Pow(dSquared, -1.5)
		a1.X += -(dx * g * m) * factor
		a1.Y += -(dy * g * m) * factor
	}
	return a1
}
