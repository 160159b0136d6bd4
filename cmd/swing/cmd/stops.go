package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matteolongo/swing-screener-sub002/book"
	"github.com/matteolongo/swing-screener-sub002/indicators"
	"github.com/matteolongo/swing-screener-sub002/market"
	"github.com/matteolongo/swing-screener-sub002/stops"
)

var stopsCmd = &cobra.Command{
	Use:   "stops",
	Short: "Suggest a stop adjustment for one open position",
	Long: `Stops evaluates the breakeven/trailing rules against the latest close
of a ticker's CSV bars and prints the suggested stop. The suggestion is
monotonic: it is never below the current stop.

Example:
  swing stops --data ./data --ticker ASML --entry 620 --stop 595 --initial-stop 595`,
	RunE: runStops,
}

var (
	stTicker      string
	stDataDir     string
	stConfigPath  string
	stEntry       float64
	stStop        float64
	stInitialStop float64
	stJSONOut     bool
)

func init() {
	rootCmd.AddCommand(stopsCmd)

	stopsCmd.Flags().StringVarP(&stTicker, "ticker", "t", "", "ticker symbol (required)")
	stopsCmd.Flags().StringVarP(&stDataDir, "data", "D", "", "directory of per-ticker OHLC CSV files (required)")
	stopsCmd.Flags().StringVarP(&stConfigPath, "config", "c", "", "path to config file (defaults apply if omitted)")
	stopsCmd.Flags().Float64VarP(&stEntry, "entry", "e", 0, "position entry price (required)")
	stopsCmd.Flags().Float64VarP(&stStop, "stop", "s", 0, "current stop price (required)")
	stopsCmd.Flags().Float64Var(&stInitialStop, "initial-stop", 0, "original stop at open (defaults to --stop)")
	stopsCmd.Flags().BoolVar(&stJSONOut, "json", false, "print the suggestion as JSON")

	stopsCmd.MarkFlagRequired("ticker")
	stopsCmd.MarkFlagRequired("data")
	stopsCmd.MarkFlagRequired("entry")
	stopsCmd.MarkFlagRequired("stop")
}

func runStops(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(stConfigPath)
	if err != nil {
		return err
	}

	bars, err := market.LoadCSV(fmt.Sprintf("%s/%s.csv", stDataDir, stTicker))
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	if err := market.ValidateSeries(stTicker, bars); err != nil {
		return err
	}
	if len(bars) < cfg.Stops.TrailSMAPeriod {
		return fmt.Errorf("%s: %d bars, need %d for the trailing SMA", stTicker, len(bars), cfg.Stops.TrailSMAPeriod)
	}

	initialStop := stInitialStop
	if initialStop == 0 {
		initialStop = stStop
	}

	sma, err := indicators.SMA(market.Closes(bars), cfg.Stops.TrailSMAPeriod)
	if err != nil {
		return err
	}

	lastClose := bars[len(bars)-1].Close
	pos := book.Position{
		Ticker:      stTicker,
		Status:      book.PositionOpen,
		EntryPrice:  stEntry,
		StopPrice:   stStop,
		Shares:      1,
		InitialRisk: stEntry - initialStop,
	}

	sug := stops.Suggest(pos, lastClose, sma, cfg.Stops)

	if stJSONOut {
		out, err := json.MarshalIndent(sug, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s: close %.4f, SMA(%d) %.4f\n", stTicker, lastClose, cfg.Stops.TrailSMAPeriod, sma)
	fmt.Printf("  %s: %s\n", sug.Action, sug.Reason)
	if sug.Action == stops.MoveStopUp {
		fmt.Printf("  suggested stop: %.4f\n", sug.Stop)
	}
	return nil
}
