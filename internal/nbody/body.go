package nbody

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Body is a point mass.
type Body struct {
	Position     r2.Vec
	Velocity     r2.Vec
	Acceleration r2.Vec
	Mass         float64
}

// Finite reports whether every component of b is a finite number.
func (b Body) Finite() bool {
	for _, v := range [...]float64{
		b.Position.X, b.Position.Y,
		b.Velocity.X, b.Velocity.Y,
		b.Acceleration.X, b.Acceleration.Y,
		b.Mass,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Size is a viewport size in renderer units.
type Size struct {
	Width  float64
	Height float64
}

// Min returns the smaller of the two dimensions.
func (s Size) Min() float64 {
	return math.Min(s.Width, s.Height)
}

// Center returns the midpoint of the viewport.
func (s Size) Center() r2.Vec {
	return r2.Vec{X: s.Width * 0.5, Y: s.Height * 0.5}
}
