package journal

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// TickerSummary aggregates journaled trades for one ticker. Values are exact
// decimals: summing many float64 trade values would drift.
type TickerSummary struct {
	Ticker      string
	BuyShares   decimal.Decimal
	SellShares  decimal.Decimal
	NetShares   decimal.Decimal
	BuyValue    decimal.Decimal
	SellValue   decimal.Decimal
	NetCashFlow decimal.Decimal // sell proceeds minus buy cost
	TradeCount  int
}

// Summarize aggregates trades per ticker, sorted by ticker. Sides other than
// buy/sell are counted but contribute nothing to the totals.
func Summarize(rows []TradeRow) []TickerSummary {
	byTicker := make(map[string]*TickerSummary)

	for _, t := range rows {
		s, ok := byTicker[t.Ticker]
		if !ok {
			s = &TickerSummary{Ticker: t.Ticker}
			byTicker[t.Ticker] = s
		}
		s.TradeCount++

		shares := decimal.NewFromFloat(t.Shares)
		value := shares.Mul(decimal.NewFromFloat(t.Price))

		switch strings.ToLower(t.Side) {
		case "buy":
			s.BuyShares = s.BuyShares.Add(shares)
			s.BuyValue = s.BuyValue.Add(value)
		case "sell":
			s.SellShares = s.SellShares.Add(shares)
			s.SellValue = s.SellValue.Add(value)
		}
	}

	out := make([]TickerSummary, 0, len(byTicker))
	for _, s := range byTicker {
		s.NetShares = s.BuyShares.Sub(s.SellShares)
		s.NetCashFlow = s.SellValue.Sub(s.BuyValue)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}
