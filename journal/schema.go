package journal

// Schema creates the journal tables. Trades are deduplicated on their
// natural key since the backend's trade log carries no row IDs and the
// dashboard refetches it on every refresh. Equity keeps one row per calendar
// day, matching the series invariant.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	ticker TEXT NOT NULL,
	side TEXT NOT NULL,
	shares REAL NOT NULL,
	price REAL NOT NULL,
	reason TEXT NOT NULL,
	UNIQUE(date, ticker, side, shares, price, reason)
);

CREATE TABLE IF NOT EXISTS equity (
	day TEXT PRIMARY KEY,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
`
