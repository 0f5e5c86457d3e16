package nbody

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Momentum returns the total linear momentum sum(m_i * v_i).
func Momentum(s Snapshot) r2.Vec {
	var p r2.Vec
	for _, b := range s.bodies {
		p = r2.Add(p, r2.Scale(b.Mass, b.Velocity))
	}
	return p
}

// CenterOfMass returns the mass-weighted mean position.
func CenterOfMass(s Snapshot) r2.Vec {
	var c r2.Vec
	total := 0.0
	for _, b := range s.bodies {
		c = r2.Add(c, r2.Scale(b.Mass, b.Position))
		total += b.Mass
	}
	if total == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/total, c)
}

// AngularMomentum returns the z component of sum(m_i * (r_i - about) x v_i).
func AngularMomentum(s Snapshot, about r2.Vec) float64 {
	L := 0.0
	for _, b := range s.bodies {
		r := r2.Sub(b.Position, about)
		L += b.Mass * r2.Cross(r, b.Velocity)
	}
	return L
}

func KineticEnergy(s Snapshot) float64 {
	ke := 0.0
	for _, b := range s.bodies {
		ke += 0.5 * b.Mass * r2.Dot(b.Velocity, b.Velocity)
	}
	return ke
}

// PotentialEnergy returns the pairwise gravitational potential -G*m_i*m_j/r,
// unsoftened, matching the force law of the engine.
func PotentialEnergy(s Snapshot, g float64) float64 {
	pe := 0.0
	n := len(s.bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := r2.Norm(r2.Sub(s.bodies[i].Position, s.bodies[j].Position))
			pe -= g * s.bodies[i].Mass * s.bodies[j].Mass / r
		}
	}
	return pe
}

// Energy returns kinetic plus potential energy.
func Energy(s Snapshot, g float64) float64 {
	return KineticEnergy(s) + PotentialEnergy(s, g)
}

// MaxSpeed returns the largest body speed, or NaN if any speed is NaN.
func MaxSpeed(s Snapshot) float64 {
	maxV := 0.0
	for _, b := range s.bodies {
		v := r2.Norm(b.Velocity)
		if math.IsNaN(v) {
			return v
		}
		maxV = math.Max(maxV, v)
	}
	return maxV
}
