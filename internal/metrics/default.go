package metrics

import "github.com/san-kum/gravsim/internal/sim"

// Default returns the metric set reported for a headless run.
func Default(g float64) []sim.Metric {
	return []sim.Metric{
		NewMomentum(),
		NewEnergyDrift(g),
		NewMaxSpeed(),
		NewFinite(),
	}
}
