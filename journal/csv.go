package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/matteolongo/swing-screener-sub002/backtest"
)

// CSVJournal appends trade rows to a single CSV file, one run at a time.
type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(tradesPath string) (*CSVJournal, error) {
	f, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"run_id", "ticker", "entry_date", "entry_price", "exit_date", "exit_price", "initial_stop", "gross_r", "net_r", "exit_reason", "holding_days"}); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordRun(run RunRecord, trades []backtest.Trade) error {
	for _, t := range trades {
		err := j.w.Write([]string{
			run.RunID,
			t.Ticker,
			t.EntryDate.Format(time.DateOnly),
			f(t.EntryPrice),
			t.ExitDate.Format(time.DateOnly),
			f(t.ExitPrice),
			f(t.InitialStop),
			f(t.GrossR),
			f(t.NetR),
			string(t.ExitReason),
			strconv.Itoa(t.HoldingDays),
		})
		if err != nil {
			return err
		}
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
