package dashboard

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/microfolio/microfolio/api"
	"github.com/microfolio/microfolio/equity"
	"github.com/microfolio/microfolio/journal"
)

// refreshPortfolio refetches the portfolio snapshot. Failures are reported
// and leave the previous snapshot in place.
func (c *Controller) refreshPortfolio(ctx context.Context) {
	p, err := c.client.Portfolio(ctx)
	if err != nil {
		c.fail("portfolio", err)
		return
	}

	c.mu.Lock()
	c.portfolio = p
	c.mu.Unlock()
	c.events.PortfolioUpdated(p)
}

// refreshSiblings fetches the trade log and the equity history concurrently.
// They are independent resources: one failing neither blocks nor rolls back
// the other.
func (c *Controller) refreshSiblings(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.refreshTradeLog(ctx)
	}()
	go func() {
		defer wg.Done()
		c.refreshEquity(ctx)
	}()
	wg.Wait()
}

func (c *Controller) refreshTradeLog(ctx context.Context) {
	entries, err := c.client.TradeLog(ctx)
	if err != nil {
		c.fail("trade-log", err)
		return
	}

	c.mu.Lock()
	c.tradeLog = entries
	c.mu.Unlock()
	c.events.TradeLogUpdated(entries)
	c.journalTrades(entries)
}

func (c *Controller) refreshEquity(ctx context.Context) {
	tag := c.nextTag()
	raw, err := c.client.EquityHistory(ctx)
	if err != nil {
		c.fail("equity-history", err)
		return
	}
	c.applyLoad(tag, raw)
}

// reconcileEquity applies a processing response to the series: the
// authoritative point for the processed day when the response carries one, a
// full history refetch otherwise.
func (c *Controller) reconcileEquity(ctx context.Context, res *api.ProcessResult) {
	if day, value, ok := res.TodayPoint(); ok {
		c.applyUpsert(c.nextTag(), day, value)
		return
	}
	c.refreshEquity(ctx)
}

// reconcileTotals patches the displayed totals from the processing response
// when it carries them, falling back to a portfolio refetch. A zero total is
// a present value and is applied, not treated as absent.
func (c *Controller) reconcileTotals(ctx context.Context, res *api.ProcessResult) {
	c.mu.Lock()
	p := c.portfolio
	if p != nil && (res.TotalEquity != nil || res.Cash != nil) {
		patched := *p
		if res.TotalEquity != nil {
			patched.TotalEquity = *res.TotalEquity
		}
		if res.Cash != nil {
			patched.Cash = *res.Cash
		}
		c.portfolio = &patched
		c.mu.Unlock()
		c.events.PortfolioUpdated(&patched)
		return
	}
	c.mu.Unlock()
	c.refreshPortfolio(ctx)
}

// nextTag hands out a tag at request start; applyLoad/applyUpsert compare
// tags at completion so a slow fetch cannot clobber a newer mutation.
func (c *Controller) nextTag() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqCounter++
	return c.reqCounter
}

// applyLoad installs a freshly fetched history unless a mutation from a
// later-started request already landed, and reports whether it applied.
func (c *Controller) applyLoad(tag uint64, raw []equity.RawPoint) bool {
	c.mu.Lock()
	if tag < c.appliedReq {
		applied := c.appliedReq
		c.mu.Unlock()
		c.log.Debug().Uint64("tag", tag).Uint64("applied", applied).Msg("discarding superseded equity load")
		return false
	}
	c.series.Load(raw)
	c.appliedReq = tag
	points := c.series.Points()
	c.mu.Unlock()

	c.events.EquityUpdated(points)
	c.journalEquity(points)
	return true
}

// applyUpsert patches one day's value under the same staleness rule as
// applyLoad.
func (c *Controller) applyUpsert(tag uint64, day equity.Day, value float64) bool {
	c.mu.Lock()
	if tag < c.appliedReq {
		c.mu.Unlock()
		return false
	}
	c.series.Upsert(day, value)
	c.appliedReq = tag
	points := c.series.Points()
	c.mu.Unlock()

	c.events.EquityUpdated(points)
	c.journalEquity([]equity.Point{{Day: day, Equity: value}})
	return true
}

func (c *Controller) journalTrades(entries []api.TradeLogEntry) {
	if c.jnl == nil {
		return
	}
	for _, e := range entries {
		row := journal.TradeRow{
			ID:     ulid.Make().String(),
			Date:   e.Date,
			Ticker: e.Ticker,
			Side:   e.Side,
			Shares: e.Shares,
			Price:  e.Price,
			Reason: e.Reason,
		}
		if err := c.jnl.RecordTrade(row); err != nil {
			c.log.Warn().Err(err).Str("ticker", e.Ticker).Msg("journaling trade")
		}
	}
}

func (c *Controller) journalEquity(points []equity.Point) {
	if c.jnl == nil {
		return
	}
	for _, p := range points {
		if err := c.jnl.RecordEquity(journal.EquityRow{Day: p.Day, Equity: p.Equity}); err != nil {
			c.log.Warn().Err(err).Stringer("day", p.Day).Msg("journaling equity")
		}
	}
}
