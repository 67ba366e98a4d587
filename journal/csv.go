package journal

import (
	"encoding/csv"
	"os"
	"strconv"
)

// CSVJournal appends journal rows to two CSV files. Unlike the SQLite
// backend it performs no deduplication; refetched trade-log rows repeat.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, tNew, err := openAppend(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, eNew, err := openAppend(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if tNew {
		if err := tw.Write([]string{"id", "date", "ticker", "side", "shares", "price", "reason"}); err != nil {
			return nil, err
		}
		tw.Flush()
		if err := tw.Error(); err != nil {
			return nil, err
		}
	}
	if eNew {
		if err := ew.Write([]string{"day", "equity"}); err != nil {
			return nil, err
		}
		ew.Flush()
		if err := ew.Error(); err != nil {
			return nil, err
		}
	}

	return &CSVJournal{trades: tw, equity: ew, tf: tf, ef: ef}, nil
}

// openAppend opens path for appending, reporting whether the file was
// freshly created (and so still needs its header row).
func openAppend(path string) (*os.File, bool, error) {
	info, err := os.Stat(path)
	isNew := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, false, err
	}
	return f, isNew, nil
}

func (j *CSVJournal) RecordTrade(t TradeRow) error {
	err := j.trades.Write([]string{
		t.ID,
		t.Date,
		t.Ticker,
		t.Side,
		f(t.Shares),
		f(t.Price),
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquityRow) error {
	err := j.equity.Write([]string{
		e.Day.String(),
		f(e.Equity),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

var _ Journal = (*CSVJournal)(nil)
