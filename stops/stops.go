// Package stops derives stop-loss suggestions for open long positions
// under breakeven and SMA-trailing rules. It only proposes values;
// writing the stop back is the book's job, which enforces monotonicity
// at the boundary.
package stops

import (
	"fmt"

	"github.com/matteolongo/swing-screener-sub002/book"
	"github.com/matteolongo/swing-screener-sub002/risk"
)

// Action is the outcome of a stop evaluation.
type Action string

const (
	// MoveStopUp means the suggested stop is above the current stop.
	MoveStopUp Action = "MOVE_STOP_UP"
	// NoChange means no rule produced a higher stop.
	NoChange Action = "NO_CHANGE"
	// NoSuggestion means the position's risk data is degenerate and no
	// R-based rule can be evaluated.
	NoSuggestion Action = "NO_SUGGESTION"
)

// Rules are the stop-management tunables, constructed once per run.
type Rules struct {
	BreakevenAtR   float64 `json:"breakeven_at_r" yaml:"breakeven_at_r"`
	TrailAfterR    float64 `json:"trail_after_r" yaml:"trail_after_r"`
	TrailSMAPeriod int     `json:"trail_sma_period" yaml:"trail_sma_period"`
	SMABufferPct   float64 `json:"sma_buffer_pct" yaml:"sma_buffer_pct"`
}

// DefaultRules are the stock breakeven-at-1R, trail-after-2R settings.
func DefaultRules() Rules {
	return Rules{
		BreakevenAtR:   1.0,
		TrailAfterR:    2.0,
		TrailSMAPeriod: 20,
		SMABufferPct:   0.02,
	}
}

// Validate rejects rule sets no evaluation could honor.
func (r Rules) Validate() error {
	if r.BreakevenAtR <= 0 {
		return fmt.Errorf("breakeven_at_r must be positive, got %.2f", r.BreakevenAtR)
	}
	if r.TrailAfterR < r.BreakevenAtR {
		return fmt.Errorf("trail_after_r %.2f must not be below breakeven_at_r %.2f", r.TrailAfterR, r.BreakevenAtR)
	}
	if r.TrailSMAPeriod <= 0 {
		return fmt.Errorf("trail_sma_period must be positive, got %d", r.TrailSMAPeriod)
	}
	if r.SMABufferPct < 0 || r.SMABufferPct >= 1 {
		return fmt.Errorf("sma_buffer_pct must be in [0, 1), got %.4f", r.SMABufferPct)
	}
	return nil
}

// Suggestion is a proposed stop for one position.
type Suggestion struct {
	Action Action  `json:"action"`
	Stop   float64 `json:"stop"`
	RNow   float64 `json:"r_now"`
	Reason string  `json:"reason"`
}

// Suggest evaluates the rules against the latest close and SMA value and
// returns the highest candidate stop, never below the current stop.
//
// Degenerate initial risk yields NoSuggestion rather than an error: it
// is a data-quality problem on one position, not a systemic fault.
func Suggest(pos book.Position, currentPrice, sma float64, rules Rules) Suggestion {
	rNow, err := risk.RMultiple(currentPrice, pos.EntryPrice, pos.InitialRisk)
	if err != nil {
		return Suggestion{
			Action: NoSuggestion,
			Stop:   pos.StopPrice,
			Reason: fmt.Sprintf("cannot evaluate %s: %v", pos.Ticker, err),
		}
	}

	best := pos.StopPrice
	rule := ""

	if rNow >= rules.BreakevenAtR && pos.EntryPrice > best {
		best = pos.EntryPrice
		rule = "breakeven"
	}
	if rNow >= rules.TrailAfterR {
		if trail := sma * (1 - rules.SMABufferPct); trail > best {
			best = trail
			rule = "trailing"
		}
	}

	if best > pos.StopPrice {
		return Suggestion{
			Action: MoveStopUp,
			Stop:   best,
			RNow:   rNow,
			Reason: fmt.Sprintf("%s rule fired at %.2fR: raise stop %.4f -> %.4f", rule, rNow, pos.StopPrice, best),
		}
	}
	return Suggestion{
		Action: NoChange,
		Stop:   pos.StopPrice,
		RNow:   rNow,
		Reason: fmt.Sprintf("no rule beat current stop %.4f at %.2fR", pos.StopPrice, rNow),
	}
}
