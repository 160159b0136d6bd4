package backtest

import "math"

// Summarize aggregates the closed trades in the list. End-of-data
// trades are counted as unrealized only; they never touch win-rate,
// expectancy, profit factor or drawdown.
func Summarize(trades []Trade) Summary {
	var s Summary

	var (
		sumNet, sumGross float64
		sumWin, sumLoss  float64
	)
	for _, t := range trades {
		if !t.Closed() {
			s.Unrealized++
			continue
		}
		s.Trades++
		sumNet += t.NetR
		sumGross += t.GrossR
		if t.NetR > 0 {
			s.Wins++
			sumWin += t.NetR
		} else {
			s.Losses++
			sumLoss += t.NetR
		}
	}

	if s.Trades == 0 {
		return s
	}

	s.TotalNetR = sumNet
	s.TotalGrossR = sumGross
	s.WinRate = float64(s.Wins) / float64(s.Trades)
	s.ExpectancyR = sumNet / float64(s.Trades)
	if s.Wins > 0 {
		s.AvgWinR = sumWin / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLossR = sumLoss / float64(s.Losses)
	}

	// Profit factor is undefined with no losers; leave it nil rather
	// than divide by zero.
	if sumLoss < 0 {
		pf := sumWin / math.Abs(sumLoss)
		s.ProfitFactor = &pf
	}

	s.MaxDrawdownR = maxDrawdown(trades)
	return s
}

// Curve is the running sum of net R over closed trades, which the
// caller must already have in exit-date order.
func Curve(trades []Trade) []CurvePoint {
	var (
		points []CurvePoint
		cum    float64
	)
	for _, t := range trades {
		if !t.Closed() {
			continue
		}
		cum += t.NetR
		points = append(points, CurvePoint{Date: t.ExitDate, CumR: cum})
	}
	return points
}

// maxDrawdown is the largest peak-to-trough decline of the cumulative
// net-R curve, reported as a positive number of R.
func maxDrawdown(trades []Trade) float64 {
	var (
		cum, peak, maxDD float64
	)
	for _, t := range trades {
		if !t.Closed() {
			continue
		}
		cum += t.NetR
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
