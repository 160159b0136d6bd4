package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matteolongo/swing-screener-sub002/backtest"
	"github.com/matteolongo/swing-screener-sub002/book"
	"github.com/matteolongo/swing-screener-sub002/config"
	"github.com/matteolongo/swing-screener-sub002/journal"
	"github.com/matteolongo/swing-screener-sub002/market"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the backtest simulator over a directory of daily OHLC CSVs",
	Long: `Backtest replays per-ticker daily bars, entering on breakout or
pullback signals and managing stops with the same breakeven/trailing
rules the live stop manager uses.

Each CSV in the data directory is one ticker (TICKER.csv) with rows of
date,open,high,low,close. Tickers with insufficient history are skipped
with a warning.

Example:
  swing backtest --data ./data --config swing.yaml --entry breakout`,
	RunE: runBacktest,
}

var (
	btDataDir    string
	btConfigPath string
	btEntryType  string
	btTickers    []string
	btStart      string
	btEnd        string
	btJSONOut    bool
	btNoJournal  bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btDataDir, "data", "D", "", "directory of per-ticker OHLC CSV files (required)")
	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "path to config file (defaults apply if omitted)")
	backtestCmd.Flags().StringVarP(&btEntryType, "entry", "e", "", "entry type override (breakout, pullback, auto)")
	backtestCmd.Flags().StringSliceVarP(&btTickers, "tickers", "t", nil, "tickers to simulate (default: every CSV in the data dir)")
	backtestCmd.Flags().StringVar(&btStart, "start", "", "start date YYYY-MM-DD (default: full history)")
	backtestCmd.Flags().StringVar(&btEnd, "end", "", "end date YYYY-MM-DD (default: full history)")
	backtestCmd.Flags().BoolVar(&btJSONOut, "json", false, "print the full result as JSON")
	backtestCmd.Flags().BoolVar(&btNoJournal, "no-journal", false, "skip journaling the run")

	backtestCmd.MarkFlagRequired("data")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(btConfigPath)
	if err != nil {
		return err
	}

	params := cfg.Backtest
	if btEntryType != "" {
		params.EntryType = backtest.EntryType(btEntryType)
	}

	sim, err := backtest.NewSimulator(params)
	if err != nil {
		return err
	}

	provider := market.CSVProvider{Dir: btDataDir}
	tickers := btTickers
	if len(tickers) == 0 {
		tickers, err = provider.ListTickers()
		if err != nil {
			return fmt.Errorf("list tickers: %w", err)
		}
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no tickers found in %s", btDataDir)
	}

	start, end, err := parseRange(btStart, btEnd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	data, err := provider.FetchOHLCV(ctx, tickers, start, end)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	result, err := sim.Run(ctx, data)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	runID := book.NewID()
	if !btNoJournal && cfg.Journal.Type != "" {
		if err := journalRun(cfg, runID, params, result); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
	}

	if btJSONOut {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printSummary(runID, result)
	return nil
}

func journalRun(cfg *config.Config, runID string, params backtest.Params, result *backtest.Result) error {
	var (
		j   journal.Journal
		err error
	)
	switch cfg.Journal.Type {
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.TradesFile)
	}
	if err != nil {
		return err
	}
	defer j.Close()

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return err
	}

	return j.RecordRun(journal.RunRecord{
		RunID:        runID,
		CreatedAt:    time.Now().UTC(),
		ParamsJSON:   string(paramsJSON),
		Trades:       result.Summary.Trades,
		Wins:         result.Summary.Wins,
		Losses:       result.Summary.Losses,
		WinRate:      result.Summary.WinRate,
		ExpectancyR:  result.Summary.ExpectancyR,
		TotalNetR:    result.Summary.TotalNetR,
		MaxDrawdownR: result.Summary.MaxDrawdownR,
	}, result.Trades)
}

func printSummary(runID string, result *backtest.Result) {
	s := result.Summary
	fmt.Printf("Backtest complete (run %s)\n", runID)
	fmt.Printf("  Closed trades: %d (wins %d, losses %d, unrealized %d)\n",
		s.Trades, s.Wins, s.Losses, s.Unrealized)
	fmt.Printf("  Win rate:      %.1f%%\n", 100*s.WinRate)
	fmt.Printf("  Expectancy:    %.2fR\n", s.ExpectancyR)
	if s.ProfitFactor != nil {
		fmt.Printf("  Profit factor: %.2f\n", *s.ProfitFactor)
	} else {
		fmt.Printf("  Profit factor: n/a (no losing trades)\n")
	}
	fmt.Printf("  Total net R:   %.2f\n", s.TotalNetR)
	fmt.Printf("  Max drawdown:  %.2fR\n", s.MaxDrawdownR)

	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	var s, e time.Time
	var err error
	if start != "" {
		s, err = time.Parse("2006-01-02", start)
		if err != nil {
			return s, e, fmt.Errorf("bad start date %q: %w", start, err)
		}
	}
	if end != "" {
		e, err = time.Parse("2006-01-02", end)
		if err != nil {
			return s, e, fmt.Errorf("bad end date %q: %w", end, err)
		}
	}
	return s, e, nil
}
