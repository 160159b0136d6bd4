package backtest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/matteolongo/swing-screener-sub002/book"
	"github.com/matteolongo/swing-screener-sub002/indicators"
	"github.com/matteolongo/swing-screener-sub002/market"
	"github.com/matteolongo/swing-screener-sub002/risk"
	"github.com/matteolongo/swing-screener-sub002/stops"
)

// Simulator replays per-ticker bar series under one parameter set.
// Tickers are independent; runs are pure given identical inputs.
type Simulator struct {
	params Params
}

// NewSimulator validates the parameters once for the whole run.
func NewSimulator(params Params) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("backtest params: %w", err)
	}
	return &Simulator{params: params}, nil
}

type tickerResult struct {
	ticker   string
	trades   []Trade
	warnings []string
}

// Run simulates every ticker in data and merges the results. Tickers
// fan out across goroutines; the merge step restores determinism by
// ordering trades by exit date, ties broken by ticker name.
func (s *Simulator) Run(ctx context.Context, data map[string][]market.Bar) (*Result, error) {
	tickers := make([]string, 0, len(data))
	for tk := range data {
		tickers = append(tickers, tk)
	}
	sort.Strings(tickers)

	results := make([]tickerResult, len(tickers))

	var wg sync.WaitGroup
	for i, tk := range tickers {
		wg.Add(1)
		go func(i int, tk string) {
			defer wg.Done()
			results[i] = s.runTicker(tk, data[tk])
		}(i, tk)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		SummaryByTicker: make(map[string]Summary, len(tickers)),
		CurveByTicker:   make(map[string][]CurvePoint, len(tickers)),
	}
	for _, tr := range results {
		res.Trades = append(res.Trades, tr.trades...)
		res.Warnings = append(res.Warnings, tr.warnings...)
		if len(tr.trades) > 0 {
			res.SummaryByTicker[tr.ticker] = Summarize(tr.trades)
			res.CurveByTicker[tr.ticker] = Curve(tr.trades)
		}
	}

	sortTrades(res.Trades)
	res.Summary = Summarize(res.Trades)
	res.CurveTotal = Curve(res.Trades)
	return res, nil
}

// runTicker drives the FLAT/LONG state machine over one series.
func (s *Simulator) runTicker(ticker string, bars []market.Bar) tickerResult {
	out := tickerResult{ticker: ticker}

	if err := market.ValidateSeries(ticker, bars); err != nil {
		out.warnings = append(out.warnings, fmt.Sprintf("skipping %s: %v", ticker, err))
		return out
	}
	if len(bars) < s.params.MinHistory {
		out.warnings = append(out.warnings,
			fmt.Sprintf("skipping %s: %d bars of history, need %d", ticker, len(bars), s.params.MinHistory))
		return out
	}

	var (
		long        bool
		entryIdx    int
		entryPrice  float64
		currentStop float64
		initialStop float64
		initialRisk float64
	)

	for i := s.params.MinHistory; i < len(bars); i++ {
		bar := bars[i]

		if long {
			// Re-evaluate the stop with this bar's close and SMA, then
			// check exits. The running stop only ratchets upward.
			closes := market.Closes(bars[:i+1])
			if sma, err := indicators.SMA(closes, s.params.Rules.TrailSMAPeriod); err == nil {
				sug := stops.Suggest(book.Position{
					Ticker:      ticker,
					EntryPrice:  entryPrice,
					StopPrice:   currentStop,
					Shares:      1,
					InitialRisk: initialRisk,
				}, bar.Close, sma, s.params.Rules)
				if sug.Action == stops.MoveStopUp {
					currentStop = sug.Stop
				}
			}

			held := i - entryIdx
			switch {
			case bar.Low <= currentStop:
				out.trades = append(out.trades,
					s.closeTrade(ticker, bars, entryIdx, i, entryPrice, initialStop, initialRisk, currentStop, ExitStop))
				long = false
			case held >= s.params.MaxHoldingDays:
				out.trades = append(out.trades,
					s.closeTrade(ticker, bars, entryIdx, i, entryPrice, initialStop, initialRisk, bar.Close, ExitMaxHoldingDays))
				long = false
			}
			continue
		}

		if !s.entrySignal(bars, i) {
			continue
		}

		fill := bar.Close
		if s.params.EntryAt == FillAtOpen {
			fill = bar.Open
		}

		atr, err := indicators.ATR(bars[:i+1], s.params.ATRWindow)
		if err != nil || atr <= 0 {
			out.warnings = append(out.warnings,
				fmt.Sprintf("%s %s: no usable ATR, entry skipped", ticker, bar.Date.Format("2006-01-02")))
			continue
		}

		stop := fill - s.params.KATR*atr
		riskAmt, err := risk.InitialRisk(fill, stop)
		if err != nil {
			// Stop landed at or above entry (or below zero); the trade
			// would have degenerate risk, so it never opens.
			out.warnings = append(out.warnings,
				fmt.Sprintf("%s %s: %v, entry skipped", ticker, bar.Date.Format("2006-01-02"), err))
			continue
		}

		long = true
		entryIdx = i
		entryPrice = fill
		initialStop = stop
		currentStop = stop
		initialRisk = riskAmt
	}

	if long {
		// Dataset ended with the position open: report it flagged as
		// unrealized so it cannot skew win-rate or expectancy.
		last := len(bars) - 1
		out.trades = append(out.trades,
			s.closeTrade(ticker, bars, entryIdx, last, entryPrice, initialStop, initialRisk, bars[last].Close, ExitEndOfData))
	}

	return out
}

func (s *Simulator) closeTrade(ticker string, bars []market.Bar, entryIdx, exitIdx int, entry, initialStop, initialRisk, exitPrice float64, reason ExitReason) Trade {
	grossR, err := risk.RMultiple(exitPrice, entry, initialRisk)
	if err != nil {
		// Entries with degenerate risk are never opened, so this is
		// unreachable in practice; keep the trade R-neutral if it happens.
		grossR = 0
	}

	return Trade{
		Ticker:      ticker,
		EntryDate:   bars[entryIdx].Date,
		EntryPrice:  entry,
		ExitDate:    bars[exitIdx].Date,
		ExitPrice:   exitPrice,
		InitialStop: initialStop,
		GrossR:      grossR,
		NetR:        risk.NetR(grossR, s.params.Costs, entry, initialRisk),
		ExitReason:  reason,
		HoldingDays: exitIdx - entryIdx,
	}
}

// entrySignal checks the configured entry condition at bar i using only
// prior data plus the bar's own close.
func (s *Simulator) entrySignal(bars []market.Bar, i int) bool {
	switch s.params.EntryType {
	case EntryBreakout:
		return s.breakoutSignal(bars, i)
	case EntryPullback:
		return s.pullbackSignal(bars, i)
	case EntryAuto:
		return s.breakoutSignal(bars, i) || s.pullbackSignal(bars, i)
	default:
		return false
	}
}

func (s *Simulator) breakoutSignal(bars []market.Bar, i int) bool {
	prior, err := indicators.MaxClose(bars[:i], s.params.BreakoutLookback)
	if err != nil {
		return false
	}
	return bars[i].Close > prior
}

func (s *Simulator) pullbackSignal(bars []market.Bar, i int) bool {
	period := s.params.PullbackMA
	sma, err := indicators.SMA(market.Closes(bars[:i+1]), period)
	if err != nil {
		return false
	}
	prevSMA, err := indicators.SMA(market.Closes(bars[:i]), period)
	if err != nil {
		return false
	}
	// Cross back above: below the MA yesterday, above it today.
	return bars[i-1].Close < prevSMA && bars[i].Close > sma
}

func sortTrades(trades []Trade) {
	sort.Slice(trades, func(a, b int) bool {
		if !trades[a].ExitDate.Equal(trades[b].ExitDate) {
			return trades[a].ExitDate.Before(trades[b].ExitDate)
		}
		return trades[a].Ticker < trades[b].Ticker
	})
}
