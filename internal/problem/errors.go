package problem

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates a charge-mass or burn-rate vector
	// whose length differs from the propellant list.
	ErrDimensionMismatch = errors.New("problem: vector arguments must have the same dimension as the propellant list")

	// ErrPressureUnachievable indicates a pressure target above what the
	// loading can develop even at infinite burn rate (the bomb state).
	ErrPressureUnachievable = errors.New("problem: pressure target exceeds the bomb-state pressure of this loading")

	// ErrPressureBelowStart indicates a pressure target below the
	// shot-start pressure; the peak would lie before motion begins.
	ErrPressureBelowStart = errors.New("problem: pressure target lies below the shot-start state")
)

// RangeError reports a design input outside its feasible interval, naming
// the bound that was violated and the valid range.
type RangeError struct {
	Quantity     string
	Value        float64
	Lower, Upper float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("problem: %s %.6g outside feasible range [%.6g, %.6g]",
		e.Quantity, e.Value, e.Lower, e.Upper)
}
