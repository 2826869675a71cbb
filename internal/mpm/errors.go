package mpm

import (
	"errors"
	"fmt"
)

// Domain errors for simulator construction and stress evaluation.
var (
	// ErrInvalidGridSize indicates a grid too small to hold the stencil and
	// the two-cell boundary margin.
	ErrInvalidGridSize = errors.New("mpm: grid size must be at least 5")

	// ErrInvalidParticleCount indicates a non-positive particle request.
	ErrInvalidParticleCount = errors.New("mpm: particle count must be positive")

	// ErrInvalidParameter indicates a non-positive spacing, time step or mass.
	ErrInvalidParameter = errors.New("mpm: parameter out of valid bounds")

	// ErrLatticeOutOfBounds indicates the initial particle lattice does not
	// fit inside the boundary margin of the grid.
	ErrLatticeOutOfBounds = errors.New("mpm: particle lattice exceeds grid margin")

	// ErrDegenerateElement indicates det(F) <= 0, where stress is undefined.
	ErrDegenerateElement = errors.New("mpm: degenerate deformation gradient")
)

// ConfigError wraps a construction error with the offending field.
type ConfigError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s (%s=%g)", e.Wrapped.Error(), e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
