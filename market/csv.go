package market

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CSVProvider serves bars from a directory of per-ticker CSV files
// (TICKER.csv, rows of date,open,high,low,close with an optional
// header). It exists so backtests can run against offline datasets.
type CSVProvider struct {
	Dir string
}

func (p CSVProvider) FetchOHLCV(ctx context.Context, tickers []string, start, end time.Time) (map[string][]Bar, error) {
	out := make(map[string][]Bar, len(tickers))
	for _, tk := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars, err := LoadCSV(filepath.Join(p.Dir, tk+".csv"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tk, err)
		}
		out[tk] = clipRange(bars, start, end)
	}
	return out, nil
}

// ListTickers returns the ticker names for every .csv file in dir.
func (p CSVProvider) ListTickers() ([]string, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, err
	}
	var tickers []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		tickers = append(tickers, strings.TrimSuffix(e.Name(), ".csv"))
	}
	return tickers, nil
}

// LoadCSV reads one ticker's bars from a CSV file.
func LoadCSV(path string) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []Bar
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		if first {
			first = false
			// Skip a header row like date,open,high,low,close.
			if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}
		b, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}

	SortBars(bars)
	return bars, nil
}

func parseRow(row []string) (Bar, error) {
	if len(row) < 5 {
		return Bar{}, fmt.Errorf("bad row (need date,open,high,low,close): %v", row)
	}

	ds := strings.TrimSpace(row[0])
	t, err := time.Parse("2006-01-02", ds)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339, ds)
		if err2 != nil {
			return Bar{}, fmt.Errorf("bad date %q: %w", row[0], err)
		}
		t = t2
	}

	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad value %q: %w", row[i+1], err)
		}
		vals[i] = v
	}

	return Bar{Date: t, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3]}, nil
}

func clipRange(bars []Bar, start, end time.Time) []Bar {
	if start.IsZero() && end.IsZero() {
		return bars
	}
	var out []Bar
	for _, b := range bars {
		if !start.IsZero() && b.Date.Before(start) {
			continue
		}
		if !end.IsZero() && b.Date.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}
