package book

import (
	"errors"
	"fmt"
	"time"

	"github.com/matteolongo/swing-screener-sub002/risk"
)

// PositionStatus is the lifecycle state of a position.
type PositionStatus int

const (
	PositionOpen PositionStatus = iota
	PositionClosed
)

func (s PositionStatus) String() string {
	switch s {
	case PositionOpen:
		return "open"
	case PositionClosed:
		return "closed"
	default:
		return fmt.Sprintf("PositionStatus(%d)", int(s))
	}
}

// ErrNonMonotonicStop marks an attempt to move a stop down. Stops on
// long positions only ever ratchet upward.
var ErrNonMonotonicStop = errors.New("stop update must be above the current stop")

// Position is one long equity position. InitialRisk is entry minus the
// original stop and is fixed at open; later stop moves never change it.
type Position struct {
	ID          string         `json:"id"`
	Ticker      string         `json:"ticker"`
	Status      PositionStatus `json:"status"`
	EntryDate   time.Time      `json:"entry_date"`
	EntryPrice  float64        `json:"entry_price"`
	StopPrice   float64        `json:"stop_price"`
	Shares      int            `json:"shares"`
	InitialRisk float64        `json:"initial_risk"`
	ExitDate    time.Time      `json:"exit_date,omitzero"`
	ExitPrice   float64        `json:"exit_price,omitempty"`
}

// Validate rejects malformed positions.
func (p Position) Validate() error {
	if p.Ticker == "" {
		return fmt.Errorf("%w: position ticker is required", risk.ErrInvalidInput)
	}
	if p.EntryPrice <= 0 {
		return fmt.Errorf("%w: entry price %.4f must be positive", risk.ErrInvalidInput, p.EntryPrice)
	}
	if p.StopPrice < 0 {
		return fmt.Errorf("%w: stop price %.4f must not be negative", risk.ErrInvalidInput, p.StopPrice)
	}
	if p.Shares <= 0 {
		return fmt.Errorf("%w: shares %d must be positive", risk.ErrInvalidInput, p.Shares)
	}
	return nil
}

// Notional is the capital locked in the position while open.
func (p Position) Notional() float64 {
	return risk.PositionNotional(p.EntryPrice, p.Shares)
}

// CheckStopUpdate enforces the monotonic stop invariant at the boundary:
// a new stop at or below the current one is rejected.
func (p Position) CheckStopUpdate(newStop float64) error {
	if newStop <= 0 {
		return fmt.Errorf("%w: new stop %.4f must be positive", risk.ErrInvalidInput, newStop)
	}
	if newStop <= p.StopPrice {
		return fmt.Errorf("%w (current %.4f, proposed %.4f)", ErrNonMonotonicStop, p.StopPrice, newStop)
	}
	return nil
}
