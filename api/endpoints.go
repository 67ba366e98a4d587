package api

import (
	"context"
	"io"
	"net/http"

	"github.com/microfolio/microfolio/equity"
	"github.com/microfolio/microfolio/trade"
)

// Position is one holding in the portfolio snapshot. It is read-only on the
// client; refreshes replace it wholesale.
type Position struct {
	Ticker    string  `json:"ticker"`
	Shares    float64 `json:"shares"`
	BuyPrice  float64 `json:"buy_price"`
	StopLoss  float64 `json:"stop_loss"`
	CostBasis float64 `json:"cost_basis"`
}

// Portfolio is the /api/portfolio response. StartingCapital is a pointer
// because the backend sends null before the initial deposit is set; zero is a
// valid, present value.
type Portfolio struct {
	Positions       []Position `json:"positions"`
	Cash            float64    `json:"cash"`
	StartingCapital *float64   `json:"starting_capital"`
	TotalEquity     float64    `json:"total_equity"`
	DeployedCapital float64    `json:"deployed_capital"`
}

// TradeLogEntry is one row of the /api/trade-log response.
type TradeLogEntry struct {
	Date   string  `json:"date"`
	Ticker string  `json:"ticker"`
	Side   string  `json:"side"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
	Reason string  `json:"reason"`
}

// TradeResult is the backend's acknowledgement of a submitted trade.
type TradeResult struct {
	Message string  `json:"message"`
	Cash    float64 `json:"cash"`
}

// ProcessResult is the /api/process-portfolio response. The totals and the
// (AsOfDate, Equity) pair are optional; pointers distinguish "absent" from a
// legitimate zero.
type ProcessResult struct {
	Message     string   `json:"message"`
	TotalEquity *float64 `json:"total_equity"`
	Cash        *float64 `json:"cash"`
	AsOfDate    string   `json:"as_of_date"`
	Equity      *float64 `json:"equity"`
}

// TodayPoint returns the authoritative equity point for the processed day,
// when the response carries one.
func (r *ProcessResult) TodayPoint() (equity.Day, float64, bool) {
	if r.Equity == nil || r.AsOfDate == "" {
		return equity.Day{}, 0, false
	}
	day, err := equity.ParseDay(r.AsOfDate)
	if err != nil {
		return equity.Day{}, 0, false
	}
	return day, *r.Equity, true
}

// NeedsCash reports whether the account still needs its initial cash deposit.
func (c *Client) NeedsCash(ctx context.Context) (bool, error) {
	var out struct {
		NeedsCash bool `json:"needs_cash"`
	}
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/api/needs-cash",
		fallback: "could not check the account's cash status",
	}, &out)
	return out.NeedsCash, err
}

// SetCash submits the initial cash deposit.
func (c *Client) SetCash(ctx context.Context, amount float64) error {
	body := struct {
		Cash float64 `json:"cash"`
	}{Cash: amount}
	return c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/set-cash",
		body:     body,
		fallback: "could not set the starting cash",
	}, nil)
}

// Portfolio fetches the current positions and totals.
func (c *Client) Portfolio(ctx context.Context) (*Portfolio, error) {
	var out Portfolio
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/api/portfolio",
		fallback: "could not load the portfolio",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TradeLog fetches the full trade history, oldest first.
func (c *Client) TradeLog(ctx context.Context) ([]TradeLogEntry, error) {
	var out struct {
		Trades []TradeLogEntry `json:"trades"`
	}
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/api/trade-log",
		fallback: "could not load the trade log",
	}, &out)
	return out.Trades, err
}

// EquityHistory fetches the daily equity series. It runs under the longer
// HistoryTimeout budget.
func (c *Client) EquityHistory(ctx context.Context) ([]equity.RawPoint, error) {
	var out struct {
		History []equity.RawPoint `json:"history"`
	}
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/api/equity-history",
		timeout:  c.historyTimeout,
		fallback: "could not load the equity history",
	}, &out)
	return out.History, err
}

// SubmitTrade posts a validated trade request.
func (c *Client) SubmitTrade(ctx context.Context, req trade.Request) (*TradeResult, error) {
	var out TradeResult
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/trade",
		body:     req,
		fallback: "the trade was rejected",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessPortfolio triggers a backend revaluation. force reprocesses a day
// the backend has already computed.
func (c *Client) ProcessPortfolio(ctx context.Context, force bool) (*ProcessResult, error) {
	body := struct {
		Force bool `json:"force"`
	}{Force: force}
	var out ProcessResult
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/process-portfolio",
		body:     body,
		fallback: "portfolio processing failed",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// EquityChartPNG fetches the pre-rendered equity chart image.
func (c *Client) EquityChartPNG(ctx context.Context) ([]byte, error) {
	res, err := c.send(ctx, call{
		method:      http.MethodGet,
		path:        "/api/equity-chart.png",
		timeout:     c.historyTimeout,
		contentType: "image/png",
		fallback:    "could not fetch the equity chart",
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Error{Category: Unknown, Message: "the chart image could not be read"}
	}
	return data, nil
}

// Login exchanges credentials for a session token. No bearer header is sent.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/login",
		body:     body,
		noAuth:   true,
		fallback: "login failed",
	}, &out)
	return out.Token, err
}

// Register creates a new account. No bearer header is sent.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Username: username, Email: email, Password: password}
	return c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/api/register",
		body:     body,
		noAuth:   true,
		fallback: "registration failed",
	}, nil)
}
