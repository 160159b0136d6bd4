package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matteolongo/swing-screener-sub002/market"
	"github.com/matteolongo/swing-screener-sub002/risk"
	"github.com/matteolongo/swing-screener-sub002/stops"
)

func testParams() Params {
	return Params{
		EntryType:        EntryBreakout,
		EntryAt:          FillAtClose,
		BreakoutLookback: 3,
		PullbackMA:       2,
		MinHistory:       5,
		ATRWindow:        2,
		KATR:             1.0,
		MaxHoldingDays:   50,
		Rules: stops.Rules{
			BreakevenAtR:   1.0,
			TrailAfterR:    2.0,
			TrailSMAPeriod: 3,
			SMABufferPct:   0,
		},
	}
}

func day(i int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func bar(i int, close, low, high float64) market.Bar {
	return market.Bar{Date: day(i), Open: close, High: high, Low: low, Close: close}
}

// flatWarmup returns minHistory bars pinned at 100 with a 2-point range,
// enough for the breakout lookback and the ATR warmup.
func flatWarmup(n int) []market.Bar {
	bars := make([]market.Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, bar(i, 100, 99, 101))
	}
	return bars
}

func TestRun_StopHit(t *testing.T) {
	t.Parallel()

	// Breakout entry at 104 with ATR(2)=3.5 puts the initial stop at
	// 100.5; price drifts down and the low pierces the stop on day 5.
	bars := flatWarmup(5)
	bars = append(bars,
		bar(5, 104, 103, 105), // entry: stop 100.5, risk 3.5
		bar(6, 103.5, 103.1, 104),
		bar(7, 103, 102.6, 103.5),
		bar(8, 102.5, 102.1, 103),
		bar(9, 102, 101.6, 102.5),
		bar(10, 100, 99.6, 102), // low 99.6 <= 100.5
	)

	sim, err := NewSimulator(testParams())
	require.NoError(t, err)

	res, err := sim.Run(context.Background(), map[string][]market.Bar{"TEST": bars})
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, "TEST", tr.Ticker)
	assert.Equal(t, ExitStop, tr.ExitReason)
	assert.Equal(t, day(5), tr.EntryDate)
	assert.Equal(t, day(10), tr.ExitDate)
	assert.InDelta(t, 104.0, tr.EntryPrice, 1e-9)
	assert.InDelta(t, 100.5, tr.InitialStop, 1e-9)
	assert.InDelta(t, 100.5, tr.ExitPrice, 1e-9, "exit fills at the stop price")
	assert.Equal(t, 5, tr.HoldingDays)
	assert.InDelta(t, -1.0, tr.GrossR, 1e-9, "initial stop hit is -1R")

	assert.Equal(t, 1, res.Summary.Trades)
	assert.Equal(t, 0, res.Summary.Unrealized)
	assert.Empty(t, res.Warnings)
}

func TestRun_EndOfData(t *testing.T) {
	t.Parallel()

	// Neither the stop nor the holding limit fires before the dataset
	// ends; the open position is reported but kept out of the closed
	// statistics.
	bars := flatWarmup(5)
	bars = append(bars,
		bar(5, 104, 103, 105), // entry
		bar(6, 105, 104.5, 105.5),
		bar(7, 106, 105.5, 106.5),
		bar(8, 107, 106.5, 107.5),
	)

	sim, err := NewSimulator(testParams())
	require.NoError(t, err)

	res, err := sim.Run(context.Background(), map[string][]market.Bar{"TEST": bars})
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, ExitEndOfData, tr.ExitReason)
	assert.False(t, tr.Closed())
	assert.Equal(t, day(8), tr.ExitDate)
	assert.InDelta(t, 107.0, tr.ExitPrice, 1e-9)

	assert.Equal(t, 0, res.Summary.Trades, "unrealized trades never count")
	assert.Equal(t, 1, res.Summary.Unrealized)
	assert.Zero(t, res.Summary.WinRate)
	assert.Zero(t, res.Summary.ExpectancyR)
}

func TestRun_MaxHoldingDays(t *testing.T) {
	t.Parallel()

	params := testParams()
	params.MaxHoldingDays = 2

	bars := flatWarmup(5)
	bars = append(bars,
		bar(5, 104, 103, 105), // entry
		bar(6, 104.2, 103.9, 104.5),
		bar(7, 104.4, 104.1, 104.7), // held 2 bars: time exit at close
		bar(8, 120, 119, 121), // re-entry on a fresh breakout, left open
	)

	sim, err := NewSimulator(params)
	require.NoError(t, err)

	res, err := sim.Run(context.Background(), map[string][]market.Bar{"TEST": bars})
	require.NoError(t, err)

	require.NotEmpty(t, res.Trades)
	tr := res.Trades[0]
	assert.Equal(t, ExitMaxHoldingDays, tr.ExitReason)
	assert.Equal(t, day(7), tr.ExitDate)
	assert.InDelta(t, 104.4, tr.ExitPrice, 1e-9, "time exits fill at the bar close")
	assert.Equal(t, 2, tr.HoldingDays)
}

func TestRun_SkipsShortHistory(t *testing.T) {
	t.Parallel()

	good := flatWarmup(5)
	good = append(good,
		bar(5, 104, 103, 105),
		bar(6, 100, 99.6, 104), // stop hit
	)
	short := flatWarmup(4)

	sim, err := NewSimulator(testParams())
	require.NoError(t, err)

	res, err := sim.Run(context.Background(), map[string][]market.Bar{
		"GOOD":  good,
		"SHORT": short,
	})
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	assert.Equal(t, "GOOD", res.Trades[0].Ticker)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "SHORT")
	assert.Contains(t, res.Warnings[0], "history")

	_, hasShort := res.SummaryByTicker["SHORT"]
	assert.False(t, hasShort)
}

func TestRun_PullbackEntry(t *testing.T) {
	t.Parallel()

	params := testParams()
	params.EntryType = EntryPullback

	// Close dips under the 2-bar SMA, then crosses back above it.
	bars := []market.Bar{
		bar(0, 100, 99, 101),
		bar(1, 100, 99, 101),
		bar(2, 100, 99, 101),
		bar(3, 100, 99, 101),
		bar(4, 98, 97, 99), // below the MA
		bar(5, 103, 102, 104),
		bar(6, 103.2, 102.9, 103.5),
	}

	sim, err := NewSimulator(params)
	require.NoError(t, err)

	res, err := sim.Run(context.Background(), map[string][]market.Bar{"TEST": bars})
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	assert.Equal(t, day(5), res.Trades[0].EntryDate)
	assert.InDelta(t, 103.0, res.Trades[0].EntryPrice, 1e-9)
}

func TestRun_NoEntryOnEqualBreakout(t *testing.T) {
	t.Parallel()

	// A close equal to the prior max is not a breakout.
	bars := flatWarmup(5)
	bars = append(bars, bar(5, 100, 99, 101), bar(6, 100, 99, 101))

	sim, err := NewSimulator(testParams())
	require.NoError(t, err)

	res, err := sim.Run(context.Background(), map[string][]market.Bar{"TEST": bars})
	require.NoError(t, err)
	assert.Empty(t, res.Trades)
}

func TestRun_CostsReduceNetR(t *testing.T) {
	t.Parallel()

	params := testParams()
	params.Costs = risk.Costs{CommissionPct: 0.001}

	bars := flatWarmup(5)
	bars = append(bars,
		bar(5, 104, 103, 105),
		bar(6, 100, 99.6, 104),
	)

	sim, err := NewSimulator(params)
	require.NoError(t, err)

	res, err := sim.Run(context.Background(), map[string][]market.Bar{"TEST": bars})
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	// costR = 104 * 0.001 / 3.5
	assert.InDelta(t, tr.GrossR-104*0.001/3.5, tr.NetR, 1e-9)
	assert.Less(t, tr.NetR, tr.GrossR)
}

func TestRun_DeterministicMerge(t *testing.T) {
	t.Parallel()

	mk := func() map[string][]market.Bar {
		a := flatWarmup(5)
		a = append(a, bar(5, 104, 103, 105), bar(6, 100, 99.6, 104))
		b := flatWarmup(5)
		b = append(b, bar(5, 104, 103, 105), bar(6, 100, 99.6, 104))
		return map[string][]market.Bar{"ZZZ": a, "AAA": b}
	}

	sim, err := NewSimulator(testParams())
	require.NoError(t, err)

	first, err := sim.Run(context.Background(), mk())
	require.NoError(t, err)
	second, err := sim.Run(context.Background(), mk())
	require.NoError(t, err)

	require.Len(t, first.Trades, 2)
	// Same exit date: ties break by ticker name.
	assert.Equal(t, "AAA", first.Trades[0].Ticker)
	assert.Equal(t, "ZZZ", first.Trades[1].Ticker)

	assert.Equal(t, first, second, "identical inputs give identical output")
}

func TestNewSimulator_RejectsBadParams(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.KATR = 0
	_, err := NewSimulator(p)
	assert.Error(t, err)

	p = testParams()
	p.MinHistory = 2 // below the indicator windows
	_, err = NewSimulator(p)
	assert.Error(t, err)

	p = testParams()
	p.EntryType = "martingale"
	_, err = NewSimulator(p)
	assert.Error(t, err)
}
