// Package market defines the daily OHLC bar type and the contract for
// fetching historical price data.
package market

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Bar is one daily OHLC candle for a single ticker.
type Bar struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// Provider fetches time-ordered daily bars per ticker. Returned series
// are assumed gap-free within their range; callers must tolerate tickers
// with shorter history than they need.
type Provider interface {
	FetchOHLCV(ctx context.Context, tickers []string, start, end time.Time) (map[string][]Bar, error)
}

// Validate checks a single bar for internally consistent prices.
func (b Bar) Validate() error {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar %s: prices must be positive", b.Date.Format("2006-01-02"))
	}
	if b.Low > b.High {
		return fmt.Errorf("bar %s: low %.4f above high %.4f", b.Date.Format("2006-01-02"), b.Low, b.High)
	}
	return nil
}

// SortBars orders bars by date ascending, in place.
func SortBars(bars []Bar) {
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})
}

// ValidateSeries sorts and sanity-checks a per-ticker series.
func ValidateSeries(ticker string, bars []Bar) error {
	SortBars(bars)
	for _, b := range bars {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%s: %w", ticker, err)
		}
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Date.Equal(bars[i-1].Date) {
			return fmt.Errorf("%s: duplicate bar date %s", ticker, bars[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts the close series from bars.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
