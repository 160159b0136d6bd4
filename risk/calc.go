// Package risk provides the shared trade accounting primitives: initial
// risk, R-multiples, position notional and cost estimation. All
// functions are pure and long-only.
package risk

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks negative or otherwise nonsensical prices and
	// quantities. Callers must reject, never clamp.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRisk means the initial stop is at or above the entry, so
	// no long position can be risk-defined from it.
	ErrInvalidRisk = errors.New("invalid risk: initial stop must be below entry")

	// ErrZeroRisk means initial risk is zero or negative; R-based math is
	// undefined for the position and it must be excluded from R
	// statistics, not aborted on.
	ErrZeroRisk = errors.New("initial risk is zero or negative")
)

// InitialRisk returns entry minus the original stop, the fixed
// denominator of every later R-multiple for the position.
func InitialRisk(entry, initialStop float64) (float64, error) {
	if entry <= 0 {
		return 0, fmt.Errorf("%w: entry %.4f must be positive", ErrInvalidInput, entry)
	}
	if initialStop < 0 {
		return 0, fmt.Errorf("%w: initial stop %.4f must not be negative", ErrInvalidInput, initialStop)
	}
	if initialStop >= entry {
		return 0, fmt.Errorf("%w (entry %.4f, stop %.4f)", ErrInvalidRisk, entry, initialStop)
	}
	return entry - initialStop, nil
}

// RMultiple expresses the move from entry to currentPrice in units of
// initial risk. Fails with ErrZeroRisk when initialRisk <= 0.
func RMultiple(currentPrice, entry, initialRisk float64) (float64, error) {
	if initialRisk <= 0 {
		return 0, fmt.Errorf("%w (%.4f)", ErrZeroRisk, initialRisk)
	}
	return (currentPrice - entry) / initialRisk, nil
}

// PositionNotional is the capital locked in an open position.
func PositionNotional(entry float64, shares int) float64 {
	return entry * float64(shares)
}

// RequiredCapital is the capital a pending entry order would reserve.
func RequiredCapital(limitPrice float64, quantity int) float64 {
	return limitPrice * float64(quantity)
}
