package nbody

import (
	"iter"

	"gonum.org/v1/gonum/spatial/r2"
)

// Snapshot is a read-only view over the bodies of one frame.
//
// It aliases engine memory and is only valid until the next Advance; use
// Clone to keep the values longer.
type Snapshot struct {
	bodies []Body
}

// Len returns the population size.
func (s Snapshot) Len() int { return len(s.bodies) }

// At returns a copy of body i.
func (s Snapshot) At(i int) Body { return s.bodies[i] }

// All iterates bodies in index order.
func (s Snapshot) All() iter.Seq2[int, Body] {
	return func(yield func(int, Body) bool) {
		for i, b := range s.bodies {
			if !yield(i, b) {
				return
			}
		}
	}
}

// Clone copies the bodies out of engine memory.
func (s Snapshot) Clone() []Body {
	c := make([]Body, len(s.bodies))
	copy(c, s.bodies)
	return c
}

// Positions appends every body position to dst and returns the result.
func (s Snapshot) Positions(dst []r2.Vec) []r2.Vec {
	for _, b := range s.bodies {
		dst = append(dst, b.Position)
	}
	return dst
}

// Finite reports whether no body holds NaN or Inf.
func (s Snapshot) Finite() bool {
	for _, b := range s.bodies {
		if !b.Finite() {
			return false
		}
	}
	return true
}
