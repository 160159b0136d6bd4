package backtest

import "time"

// ExitReason records why a simulated trade was closed.
type ExitReason string

const (
	// ExitStop means the bar's low reached the running stop.
	ExitStop ExitReason = "stop"
	// ExitMaxHoldingDays means the holding limit expired.
	ExitMaxHoldingDays ExitReason = "max_holding_days"
	// ExitEndOfData means the dataset ended with the position open. The
	// trade is reported but excluded from closed-trade statistics.
	ExitEndOfData ExitReason = "end_of_data"
)

// Trade is one simulated round trip.
type Trade struct {
	Ticker      string     `json:"ticker"`
	EntryDate   time.Time  `json:"entry_date"`
	EntryPrice  float64    `json:"entry_price"`
	ExitDate    time.Time  `json:"exit_date"`
	ExitPrice   float64    `json:"exit_price"`
	InitialStop float64    `json:"initial_stop"`
	GrossR      float64    `json:"gross_r"`
	NetR        float64    `json:"net_r"`
	ExitReason  ExitReason `json:"exit_reason"`
	HoldingDays int        `json:"holding_days"`
}

// Closed reports whether the trade counts toward win-rate/expectancy.
func (t Trade) Closed() bool {
	return t.ExitReason != ExitEndOfData
}

// CurvePoint is one step of a cumulative net-R curve.
type CurvePoint struct {
	Date time.Time `json:"date"`
	CumR float64   `json:"cum_r"`
}

// Summary aggregates closed trades. ProfitFactor is nil when there are
// no losing trades (the ratio is undefined rather than divided by zero).
type Summary struct {
	Trades       int      `json:"trades"`
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
	WinRate      float64  `json:"win_rate"`
	ExpectancyR  float64  `json:"expectancy_r"`
	ProfitFactor *float64 `json:"profit_factor"`
	MaxDrawdownR float64  `json:"max_drawdown_r"`
	AvgWinR      float64  `json:"avg_win_r"`
	AvgLossR     float64  `json:"avg_loss_r"`
	TotalGrossR  float64  `json:"total_gross_r"`
	TotalNetR    float64  `json:"total_net_r"`
	Unrealized   int      `json:"unrealized"`
}

// Result is the full backtest output.
type Result struct {
	Summary         Summary                 `json:"summary"`
	SummaryByTicker map[string]Summary      `json:"summary_by_ticker"`
	Trades          []Trade                 `json:"trades"`
	CurveTotal      []CurvePoint            `json:"curve_total"`
	CurveByTicker   map[string][]CurvePoint `json:"curve_by_ticker"`
	Warnings        []string                `json:"warnings"`
}
