package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microfolio/microfolio/equity"
)

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	tradesHeader := readHeader(t, tradesPath)
	equityHeader := readHeader(t, equityPath)

	assert.Equal(t, []string{"id", "date", "ticker", "side", "shares", "price", "reason"}, tradesHeader)
	assert.Equal(t, []string{"day", "equity"}, equityHeader)
}

func TestCSVJournalRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordTrade(TradeRow{
		ID: "01J", Date: "2024-01-02", Ticker: "ABEO", Side: "buy", Shares: 4, Price: 5.77, Reason: "thesis",
	}))
	require.NoError(t, j.RecordEquity(EquityRow{Day: equity.MustParseDay("2024-01-02"), Equity: 100.5}))
	require.NoError(t, j.Close())

	trades := readAll(t, tradesPath)
	require.Len(t, trades, 2)
	assert.Equal(t, []string{"01J", "2024-01-02", "ABEO", "buy", "4", "5.77", "thesis"}, trades[1])

	equityRows := readAll(t, equityPath)
	require.Len(t, equityRows, 2)
	assert.Equal(t, []string{"2024-01-02", "100.5"}, equityRows[1])
}

func TestCSVJournalAppendsAcrossRuns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	require.NoError(t, j.RecordEquity(EquityRow{Day: equity.MustParseDay("2024-01-01"), Equity: 1}))
	require.NoError(t, j.Close())

	j, err = NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	require.NoError(t, j.RecordEquity(EquityRow{Day: equity.MustParseDay("2024-01-02"), Equity: 2}))
	require.NoError(t, j.Close())

	rows := readAll(t, equityPath)
	require.Len(t, rows, 3, "one header plus two data rows; header is not repeated")
	assert.Equal(t, "2024-01-01", rows[1][0])
	assert.Equal(t, "2024-01-02", rows[2][0])
}

func readHeader(t *testing.T, path string) []string {
	t.Helper()
	rows := readAll(t, path)
	require.NotEmpty(t, rows)
	return rows[0]
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return rows
}
