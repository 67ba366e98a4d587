// Package journal keeps a local record of what the dashboard has seen:
// trade-log rows and daily equity points as fetched from the backend, plus
// trades submitted from this client. It exists for offline inspection and
// owes nothing to the backend's own persistence.
package journal

import "github.com/microfolio/microfolio/equity"

// TradeRow is one journaled trade. ID is a client-generated ULID; the
// remaining fields mirror the backend's trade-log rows.
type TradeRow struct {
	ID     string
	Date   string // calendar day, "2006-01-02"
	Ticker string
	Side   string
	Shares float64
	Price  float64
	Reason string
}

// EquityRow is one journaled daily equity value. At most one row per
// calendar day is kept; a later write for the same day replaces the value.
type EquityRow struct {
	Day    equity.Day
	Equity float64
}

// Journal records dashboard snapshots.
type Journal interface {
	RecordTrade(TradeRow) error
	RecordEquity(EquityRow) error
	Close() error
}
