// Package ledger derives capital state from the authoritative
// position/order collections and gates new entry orders on available
// capital. Capital state is always recomputed, never cached.
package ledger

import (
	"fmt"

	"github.com/matteolongo/swing-screener-sub002/book"
	"github.com/matteolongo/swing-screener-sub002/risk"
)

// CapitalState is the derived capital picture for one account.
type CapitalState struct {
	AccountSize        float64 `json:"account_size"`
	AllocatedPositions float64 `json:"allocated_positions"`
	ReservedOrders     float64 `json:"reserved_orders"`
	Available          float64 `json:"available"`
	UtilizationPct     float64 `json:"utilization_pct"`
}

// CapitalCheck is the outcome of an availability check for a required
// amount against a capital state.
type CapitalCheck struct {
	IsAvailable bool    `json:"is_available"`
	Required    float64 `json:"required"`
	Available   float64 `json:"available"`
	Shortfall   float64 `json:"shortfall"`
	Reason      string  `json:"reason"`
}

// ComputeCapitalState derives the capital state from position and order
// snapshots. Open positions allocate entryPrice x shares; pending entry
// orders reserve limitPrice x quantity. Exits (stop/take-profit orders)
// and closed positions never reduce available capital.
func ComputeCapitalState(positions []book.Position, orders []book.Order, accountSize float64) (CapitalState, error) {
	if accountSize < 0 {
		return CapitalState{}, fmt.Errorf("%w: account size %.2f must not be negative", risk.ErrInvalidInput, accountSize)
	}

	var allocated float64
	for _, p := range positions {
		if err := p.Validate(); err != nil {
			return CapitalState{}, err
		}
		if p.Status != book.PositionOpen {
			continue
		}
		allocated += p.Notional()
	}

	var reserved float64
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return CapitalState{}, err
		}
		if o.Status != book.OrderPending || o.Kind != book.KindEntry {
			continue
		}
		reserved += o.RequiredCapital()
	}

	st := CapitalState{
		AccountSize:        accountSize,
		AllocatedPositions: allocated,
		ReservedOrders:     reserved,
		Available:          accountSize - allocated - reserved,
	}
	if accountSize > 0 {
		st.UtilizationPct = (allocated + reserved) / accountSize
	}
	return st, nil
}

// CheckCapitalAvailable reports whether required fits in the available
// capital. The boundary is inclusive: an exact match passes.
func CheckCapitalAvailable(state CapitalState, required float64) CapitalCheck {
	shortfall := required - state.Available
	if shortfall < 0 {
		shortfall = 0
	}

	c := CapitalCheck{
		IsAvailable: required <= state.Available,
		Required:    required,
		Available:   state.Available,
		Shortfall:   shortfall,
	}
	if c.IsAvailable {
		c.Reason = fmt.Sprintf("required %.2f within available %.2f, shortfall 0.00", required, state.Available)
	} else {
		c.Reason = fmt.Sprintf("required %.2f exceeds available %.2f, shortfall %.2f",
			required, state.Available, shortfall)
	}
	return c
}
