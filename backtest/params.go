// Package backtest replays daily price series ticker by ticker,
// applying the entry rules and the same stop management the live book
// uses, and produces a trade ledger, R curves and summary statistics.
package backtest

import (
	"fmt"

	"github.com/matteolongo/swing-screener-sub002/risk"
	"github.com/matteolongo/swing-screener-sub002/stops"
)

// EntryType selects which entry signal can open a position.
type EntryType string

const (
	// EntryBreakout enters when the close breaks above the highest close
	// of the prior lookback bars.
	EntryBreakout EntryType = "breakout"
	// EntryPullback enters when the close crosses back above its moving
	// average after being below it.
	EntryPullback EntryType = "pullback"
	// EntryAuto enters on either condition.
	EntryAuto EntryType = "auto"
)

// FillAt selects the bar price used to fill an entry.
type FillAt string

const (
	FillAtClose FillAt = "close"
	FillAtOpen  FillAt = "open"
)

// Params are the strategy tunables, validated once per run.
type Params struct {
	EntryType        EntryType   `json:"entry_type" yaml:"entry_type"`
	EntryAt          FillAt      `json:"entry_at" yaml:"entry_at"`
	BreakoutLookback int         `json:"breakout_lookback" yaml:"breakout_lookback"`
	PullbackMA       int         `json:"pullback_ma" yaml:"pullback_ma"`
	MinHistory       int         `json:"min_history" yaml:"min_history"`
	ATRWindow        int         `json:"atr_window" yaml:"atr_window"`
	KATR             float64     `json:"k_atr" yaml:"k_atr"`
	MaxHoldingDays   int         `json:"max_holding_days" yaml:"max_holding_days"`
	Rules            stops.Rules `json:"rules" yaml:"rules"`
	Costs            risk.Costs  `json:"costs" yaml:"costs"`
}

// DefaultParams returns a workable swing-trading parameter set.
func DefaultParams() Params {
	return Params{
		EntryType:        EntryBreakout,
		EntryAt:          FillAtClose,
		BreakoutLookback: 20,
		PullbackMA:       10,
		MinHistory:       30,
		ATRWindow:        14,
		KATR:             2.0,
		MaxHoldingDays:   40,
		Rules:            stops.DefaultRules(),
		Costs: risk.Costs{
			CommissionPct: 0.001,
			SlippageBps:   10,
		},
	}
}

// Validate rejects parameter sets the simulator cannot honor. MinHistory
// must cover every indicator window so a ticker that passes the history
// gate never fails an indicator computation mid-run.
func (p Params) Validate() error {
	switch p.EntryType {
	case EntryBreakout, EntryPullback, EntryAuto:
	default:
		return fmt.Errorf("entry_type must be breakout, pullback or auto, got %q", p.EntryType)
	}
	switch p.EntryAt {
	case FillAtClose, FillAtOpen:
	default:
		return fmt.Errorf("entry_at must be close or open, got %q", p.EntryAt)
	}
	if p.BreakoutLookback <= 0 {
		return fmt.Errorf("breakout_lookback must be positive, got %d", p.BreakoutLookback)
	}
	if p.PullbackMA <= 0 {
		return fmt.Errorf("pullback_ma must be positive, got %d", p.PullbackMA)
	}
	if p.ATRWindow <= 0 {
		return fmt.Errorf("atr_window must be positive, got %d", p.ATRWindow)
	}
	if p.KATR <= 0 {
		return fmt.Errorf("k_atr must be positive, got %.2f", p.KATR)
	}
	if p.MaxHoldingDays <= 0 {
		return fmt.Errorf("max_holding_days must be positive, got %d", p.MaxHoldingDays)
	}
	if err := p.Rules.Validate(); err != nil {
		return err
	}
	if err := p.Costs.Validate(); err != nil {
		return err
	}

	need := p.BreakoutLookback
	if p.PullbackMA+1 > need {
		need = p.PullbackMA + 1
	}
	if p.ATRWindow+1 > need {
		need = p.ATRWindow + 1
	}
	if p.Rules.TrailSMAPeriod > need {
		need = p.Rules.TrailSMAPeriod
	}
	if p.MinHistory < need {
		return fmt.Errorf("min_history %d must cover the largest indicator window (%d)", p.MinHistory, need)
	}
	return nil
}
