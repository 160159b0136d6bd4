// Package journal persists backtest runs and their trades for later
// review. It records outputs only; capital state is always derived from
// the live book and is never read back from here.
package journal

import (
	"time"

	"github.com/matteolongo/swing-screener-sub002/backtest"
)

// RunRecord is the header row for one backtest run.
type RunRecord struct {
	RunID        string
	CreatedAt    time.Time
	ParamsJSON   string
	Trades       int
	Wins         int
	Losses       int
	WinRate      float64
	ExpectancyR  float64
	TotalNetR    float64
	MaxDrawdownR float64
}

// Journal is the persistence surface for backtest output.
type Journal interface {
	RecordRun(run RunRecord, trades []backtest.Trade) error
	Close() error
}
