// Package indicators provides the technical indicators used by the stop
// rules and the backtest entries. All functions compute over the
// trailing window ending at the last element.
package indicators

import (
	"fmt"
	"math"

	"github.com/matteolongo/swing-screener-sub002/market"
)

// SMA returns the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(values) < period {
		return 0, fmt.Errorf("not enough values: need %d, got %d", period, len(values))
	}

	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// MaxClose returns the highest close over the last period bars.
func MaxClose(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period, len(bars))
	}

	highest := math.Inf(-1)
	for i := len(bars) - period; i < len(bars); i++ {
		if bars[i].Close > highest {
			highest = bars[i].Close
		}
	}
	return highest, nil
}

// ATR returns the Average True Range over the last period true ranges,
// smoothed with Wilder's method. Needs period+1 bars because the true
// range uses the previous close.
func ATR(bars []market.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(bars) < period+1 {
		return 0, fmt.Errorf("not enough bars: need %d, got %d", period+1, len(bars))
	}

	trs := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		trs = append(trs, trueRange(bars[i], bars[i-1]))
	}

	// Initial ATR is the simple average of the first period true ranges.
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += trs[i]
	}
	atr := sum / float64(period)

	for i := period; i < len(trs); i++ {
		atr = (atr*float64(period-1) + trs[i]) / float64(period)
	}
	return atr, nil
}

func trueRange(current, previous market.Bar) float64 {
	hl := current.High - current.Low
	hc := math.Abs(current.High - previous.Close)
	lc := math.Abs(current.Low - previous.Close)
	return math.Max(hl, math.Max(hc, lc))
}
