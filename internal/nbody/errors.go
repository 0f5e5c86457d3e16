package nbody

import "errors"

// Domain errors for engine construction and state loading.
var (
	// ErrInvalidParams indicates a parameter outside its valid range.
	ErrInvalidParams = errors.New("nbody: invalid engine parameters")

	// ErrPopulationMismatch indicates a body slice whose length differs from the engine population.
	ErrPopulationMismatch = errors.New("nbody: population size mismatch")

	// ErrNonFinite indicates a snapshot holding NaN or Inf values.
	ErrNonFinite = errors.New("nbody: non-finite body state (NaN or Inf detected)")
)
