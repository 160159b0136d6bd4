package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	params_json TEXT NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	win_rate REAL NOT NULL,
	expectancy_r REAL NOT NULL,
	total_net_r REAL NOT NULL,
	max_drawdown_r REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	ticker TEXT NOT NULL,
	entry_date DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	exit_date DATETIME NOT NULL,
	exit_price REAL NOT NULL,
	initial_stop REAL NOT NULL,
	gross_r REAL NOT NULL,
	net_r REAL NOT NULL,
	exit_reason TEXT NOT NULL,
	holding_days INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
CREATE INDEX IF NOT EXISTS idx_trades_exit ON trades(exit_date);
`
