package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/microfolio/microfolio/equity"
)

// SQLiteJournal persists journal rows to a SQLite database file.
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

// RecordTrade inserts a trade; a row already journaled under the same natural
// key is left untouched.
func (j *SQLiteJournal) RecordTrade(t TradeRow) error {
	_, err := j.db.Exec(`
		INSERT OR IGNORE INTO trades
		(id, date, ticker, side, shares, price, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date, t.Ticker, t.Side, t.Shares, t.Price, t.Reason,
	)
	return err
}

// RecordEquity upserts the equity value for a day.
func (j *SQLiteJournal) RecordEquity(e EquityRow) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (day, equity) VALUES (?, ?)
		ON CONFLICT(day) DO UPDATE SET equity = excluded.equity`,
		e.Day.String(), e.Equity,
	)
	return err
}

// ListTrades returns all journaled trades ordered by date, then ticker.
func (j *SQLiteJournal) ListTrades() ([]TradeRow, error) {
	rows, err := j.db.Query(`
		SELECT id, date, ticker, side, shares, price, reason
		FROM trades
		ORDER BY date ASC, ticker ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRow
	for rows.Next() {
		var t TradeRow
		if err := rows.Scan(&t.ID, &t.Date, &t.Ticker, &t.Side, &t.Shares, &t.Price, &t.Reason); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListEquity returns all journaled equity rows in chronological order.
func (j *SQLiteJournal) ListEquity() ([]EquityRow, error) {
	rows, err := j.db.Query(`SELECT day, equity FROM equity ORDER BY day ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRow
	for rows.Next() {
		var day string
		var e EquityRow
		if err := rows.Scan(&day, &e.Equity); err != nil {
			return nil, err
		}
		parsed, err := equity.ParseDay(day)
		if err != nil {
			return nil, err
		}
		e.Day = parsed
		out = append(out, e)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

var _ Journal = (*SQLiteJournal)(nil)
