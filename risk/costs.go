package risk

import "fmt"

// Costs estimates round-trip trading friction. All three components are
// fractions of the position notional except slippage, which is in basis
// points for readability (30 = 0.30%).
type Costs struct {
	CommissionPct float64 `json:"commission_pct" yaml:"commission_pct"`
	SlippageBps   float64 `json:"slippage_bps" yaml:"slippage_bps"`
	FXPct         float64 `json:"fx_pct" yaml:"fx_pct"`
}

// Validate rejects negative cost components.
func (c Costs) Validate() error {
	if c.CommissionPct < 0 || c.SlippageBps < 0 || c.FXPct < 0 {
		return fmt.Errorf("%w: cost components must not be negative", ErrInvalidInput)
	}
	return nil
}

// RoundTripPct is the total friction as a fraction of notional.
func (c Costs) RoundTripPct() float64 {
	return c.CommissionPct + c.SlippageBps/10_000 + c.FXPct
}

// InR converts the round-trip cost on a position into R units using the
// entry price over the initial risk. A degenerate initialRisk yields 0;
// the position is already excluded from R statistics in that case.
func (c Costs) InR(entry, initialRisk float64) float64 {
	if initialRisk <= 0 {
		return 0
	}
	return entry * c.RoundTripPct() / initialRisk
}

// NetR subtracts the cost estimate, expressed in R-equivalent terms,
// from a gross R-multiple.
func NetR(grossR float64, c Costs, entry, initialRisk float64) float64 {
	return grossR - c.InR(entry, initialRisk)
}
