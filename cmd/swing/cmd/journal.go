package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matteolongo/swing-screener-sub002/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded backtest runs",
	Long: `Query and display backtest runs from the SQLite journal.

Examples:
  swing journal runs
  swing journal run <run-id>`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent backtest runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Show one run and its trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalRunCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./swing.sqlite", "path to SQLite journal DB")
	journalRunsCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "max runs to list")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns(journalLimit)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	for _, r := range runs {
		fmt.Printf("%s  %s  trades=%d win=%.0f%% exp=%.2fR net=%.2fR dd=%.2fR\n",
			r.RunID, r.CreatedAt.Format("2006-01-02 15:04"),
			r.Trades, 100*r.WinRate, r.ExpectancyR, r.TotalNetR, r.MaxDrawdownR)
	}
	return nil
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runID := args[0]
	run, err := j.GetRun(runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	trades, err := j.ListTradesByRun(runID)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	fmt.Printf("Run %s (%s)\n", run.RunID, run.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  trades=%d wins=%d losses=%d exp=%.2fR net=%.2fR dd=%.2fR\n",
		run.Trades, run.Wins, run.Losses, run.ExpectancyR, run.TotalNetR, run.MaxDrawdownR)
	fmt.Printf("  params: %s\n\n", run.ParamsJSON)

	for _, t := range trades {
		fmt.Printf("  %-8s %s -> %s  %8.2f -> %8.2f  %+.2fR (%s, %dd)\n",
			t.Ticker,
			t.EntryDate.Format("2006-01-02"), t.ExitDate.Format("2006-01-02"),
			t.EntryPrice, t.ExitPrice, t.NetR, t.ExitReason, t.HoldingDays)
	}
	return nil
}
