package journal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	rows := []TradeRow{
		{Date: "2024-01-01", Ticker: "ABEO", Side: "buy", Shares: 4, Price: 5.77},
		{Date: "2024-01-02", Ticker: "ABEO", Side: "sell", Shares: 2, Price: 6.10},
		{Date: "2024-01-02", Ticker: "CADL", Side: "buy", Shares: 10, Price: 2.21},
		{Date: "2024-01-03", Ticker: "CADL", Side: "buy", Shares: 5, Price: 2.05},
	}

	got := Summarize(rows)
	require.Len(t, got, 2)

	abeo := got[0]
	assert.Equal(t, "ABEO", abeo.Ticker)
	assert.True(t, abeo.NetShares.Equal(decimal.NewFromInt(2)), "4 bought - 2 sold")
	assert.True(t, abeo.BuyValue.Equal(decimal.RequireFromString("23.08")))
	assert.True(t, abeo.SellValue.Equal(decimal.RequireFromString("12.2")))
	assert.True(t, abeo.NetCashFlow.Equal(decimal.RequireFromString("-10.88")))
	assert.Equal(t, 2, abeo.TradeCount)

	cadl := got[1]
	assert.Equal(t, "CADL", cadl.Ticker)
	assert.True(t, cadl.NetShares.Equal(decimal.NewFromInt(15)))
	// 10*2.21 + 5*2.05 = 32.35, exact in decimal where float64 would drift.
	assert.True(t, cadl.BuyValue.Equal(decimal.RequireFromString("32.35")))
}

func TestSummarizeEmptyAndUnknownSides(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Summarize(nil))

	got := Summarize([]TradeRow{{Ticker: "XYZ", Side: "split", Shares: 1, Price: 1}})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].TradeCount)
	assert.True(t, got[0].NetShares.IsZero())
}
