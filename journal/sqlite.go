package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/matteolongo/swing-screener-sub002/backtest"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

// RecordRun writes the run header and all its trades in one transaction.
func (j *SQLiteJournal) RecordRun(run RunRecord, trades []backtest.Trade) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs
		(run_id, created_at, params_json, trades, wins, losses, win_rate, expectancy_r, total_net_r, max_drawdown_r)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.CreatedAt, run.ParamsJSON, run.Trades, run.Wins, run.Losses,
		run.WinRate, run.ExpectancyR, run.TotalNetR, run.MaxDrawdownR,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trades
		(run_id, ticker, entry_date, entry_price, exit_date, exit_price, initial_stop, gross_r, net_r, exit_reason, holding_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare trades: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err := stmt.Exec(run.RunID, t.Ticker, t.EntryDate, t.EntryPrice, t.ExitDate,
			t.ExitPrice, t.InitialStop, t.GrossR, t.NetR, string(t.ExitReason), t.HoldingDays)
		if err != nil {
			return fmt.Errorf("insert trade %s: %w", t.Ticker, err)
		}
	}

	return tx.Commit()
}

// GetRun loads one run header by ID.
func (j *SQLiteJournal) GetRun(runID string) (RunRecord, error) {
	var r RunRecord
	err := j.db.QueryRow(`
		SELECT run_id, created_at, params_json, trades, wins, losses, win_rate, expectancy_r, total_net_r, max_drawdown_r
		FROM runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.CreatedAt, &r.ParamsJSON, &r.Trades, &r.Wins, &r.Losses,
			&r.WinRate, &r.ExpectancyR, &r.TotalNetR, &r.MaxDrawdownR)
	if err != nil {
		return RunRecord{}, err
	}
	return r, nil
}

// ListRuns returns run headers, most recent first.
func (j *SQLiteJournal) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(`
		SELECT run_id, created_at, params_json, trades, wins, losses, win_rate, expectancy_r, total_net_r, max_drawdown_r
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.ParamsJSON, &r.Trades, &r.Wins, &r.Losses,
			&r.WinRate, &r.ExpectancyR, &r.TotalNetR, &r.MaxDrawdownR); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListTradesByRun returns a run's trades ordered by exit date, ties
// broken by ticker, matching the simulator's merge order.
func (j *SQLiteJournal) ListTradesByRun(runID string) ([]backtest.Trade, error) {
	rows, err := j.db.Query(`
		SELECT ticker, entry_date, entry_price, exit_date, exit_price, initial_stop, gross_r, net_r, exit_reason, holding_days
		FROM trades WHERE run_id = ? ORDER BY exit_date, ticker`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []backtest.Trade
	for rows.Next() {
		var (
			t      backtest.Trade
			reason string
		)
		if err := rows.Scan(&t.Ticker, &t.EntryDate, &t.EntryPrice, &t.ExitDate, &t.ExitPrice,
			&t.InitialStop, &t.GrossR, &t.NetR, &reason, &t.HoldingDays); err != nil {
			return nil, err
		}
		t.ExitReason = backtest.ExitReason(reason)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
