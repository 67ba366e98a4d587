// Package dashboard orchestrates the portfolio dashboard: the startup
// sequence, user actions (submit trade, process portfolio), and the
// reconciliation of backend responses into the locally held equity series.
package dashboard

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/microfolio/microfolio/api"
	"github.com/microfolio/microfolio/equity"
	"github.com/microfolio/microfolio/journal"
	"github.com/microfolio/microfolio/session"
	"github.com/microfolio/microfolio/trade"
)

// State is the controller's lifecycle position.
type State int

const (
	Uninitialized State = iota
	CheckingCash
	LoadingPortfolio
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case CheckingCash:
		return "checking-cash"
	case LoadingPortfolio:
		return "loading-portfolio"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// maxStartingCash is the inclusive upper bound for the initial deposit.
const maxStartingCash = 10000

var (
	// ErrNoSession means Start found no token; the login redirect has fired.
	ErrNoSession = errors.New("no session token")
	// ErrNotReady means an action arrived before startup completed.
	ErrNotReady = errors.New("dashboard is not ready")
	// ErrBusy means the same action is already in flight.
	ErrBusy = errors.New("operation already in progress")
)

// Controller owns the one equity.Series backing the chart and the session
// token lifecycle. All mutations of shared state happen under its lock;
// events are emitted outside it.
type Controller struct {
	client *api.Client
	sess   *session.Store
	events Events
	jnl    journal.Journal // nil when journaling is disabled
	log    zerolog.Logger

	mu        sync.Mutex
	state     State
	series    equity.Series
	portfolio *api.Portfolio
	tradeLog  []api.TradeLogEntry

	// Equity mutations are tagged with the request that produced them. A
	// fetch that completes after a later-started mutation has already been
	// applied is stale and gets discarded instead of clobbering the series.
	reqCounter uint64
	appliedReq uint64

	submitting bool
	processing bool
	expired    bool
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithJournal records fetched trades and equity points locally.
func WithJournal(j journal.Journal) Option {
	return func(c *Controller) { c.jnl = j }
}

// New creates a controller. events must not be nil.
func New(client *api.Client, sess *session.Store, events Events, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		sess:   sess,
		events: events,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Portfolio returns the last loaded portfolio snapshot, or nil.
func (c *Controller) Portfolio() *api.Portfolio {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.portfolio
}

// TradeLog returns the last loaded trade log.
func (c *Controller) TradeLog() []api.TradeLogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tradeLog
}

// EquityPoints returns the current series content, oldest first.
func (c *Controller) EquityPoints() []equity.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.series.Points()
}

// Start runs the startup sequence: session check, initial-cash prompt,
// portfolio load, then trade log and equity history concurrently. A failed
// sub-fetch is reported through Events and does not abort its siblings.
func (c *Controller) Start(ctx context.Context) error {
	if c.sess.Token() == "" {
		c.log.Info().Msg("no session token, redirecting to login")
		c.events.LoginRequired()
		return ErrNoSession
	}

	c.setState(CheckingCash)
	needs, err := c.client.NeedsCash(ctx)
	if err != nil {
		c.fail("needs-cash", err)
		return err
	}
	if needs {
		if amount, ok := c.promptCash(); ok {
			if err := c.client.SetCash(ctx, amount); err != nil {
				// Reported but not fatal: the dashboard still loads.
				c.fail("set-cash", err)
			}
		}
	}

	c.setState(LoadingPortfolio)
	c.refreshPortfolio(ctx)
	c.refreshSiblings(ctx)
	c.setState(Ready)
	return nil
}

// SubmitTrade validates and posts a trade. Validation failures return a
// *trade.RejectionError to the caller directly and never reach the network
// or the Events sink. On backend success the form-clear signal fires and
// portfolio, trade log and equity history are all refetched: the submission
// response does not carry the resulting equity, so no incremental patch is
// possible. On backend rejection nothing local changes.
func (c *Controller) SubmitTrade(ctx context.Context, raw trade.Raw) error {
	req, err := trade.Validate(raw)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.state != Ready {
		c.mu.Unlock()
		return ErrNotReady
	}
	if c.submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.submitting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	res, err := c.client.SubmitTrade(ctx, req)
	if err != nil {
		c.fail("submit-trade", err)
		return err
	}

	c.log.Info().Str("ticker", req.Ticker).Str("action", string(req.Action)).Msg("trade accepted")
	c.events.TradeAccepted(res.Message)

	c.refreshPortfolio(ctx)
	c.refreshSiblings(ctx)
	return nil
}

// Process triggers a backend revaluation. force reprocesses a day the
// backend already computed. Concurrent invocations are rejected with ErrBusy
// for the duration of the request.
func (c *Controller) Process(ctx context.Context, force bool) error {
	c.mu.Lock()
	if c.state != Ready {
		c.mu.Unlock()
		return ErrNotReady
	}
	if c.processing {
		c.mu.Unlock()
		return ErrBusy
	}
	c.processing = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.processing = false
		c.mu.Unlock()
	}()

	res, err := c.client.ProcessPortfolio(ctx, force)
	if err != nil {
		c.fail("process-portfolio", err)
		return err
	}

	c.reconcileEquity(ctx, res)
	c.reconcileTotals(ctx, res)
	return nil
}

// Refresh refetches everything, as after a manual reload.
func (c *Controller) Refresh(ctx context.Context) {
	c.refreshPortfolio(ctx)
	c.refreshSiblings(ctx)
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.log.Debug().Stringer("state", s).Msg("state change")
}

// promptCash asks until it gets a finite amount in [0, maxStartingCash] or a
// cancel.
func (c *Controller) promptCash() (float64, bool) {
	for {
		value, ok := c.events.PromptCash()
		if !ok {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > maxStartingCash {
			continue
		}
		return v, true
	}
}

// fail funnels every failure into the uniform Events shape. An Unauthorized
// failure additionally ends the session: the token is cleared exactly once
// and the login redirect fires.
func (c *Controller) fail(op string, err error) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		apiErr = &api.Error{Category: api.Unknown, Message: err.Error()}
	}

	c.log.Warn().Str("op", op).Str("category", string(apiErr.Category)).Str("request_id", apiErr.RequestID).Msg(apiErr.Message)

	if apiErr.Category == api.Unauthorized {
		c.mu.Lock()
		first := !c.expired
		c.expired = true
		c.mu.Unlock()
		if first {
			if cerr := c.sess.Clear(); cerr != nil {
				c.log.Warn().Err(cerr).Msg("clearing session token")
			}
			c.events.OperationFailed(op, apiErr)
			c.events.LoginRequired()
			return
		}
	}

	c.events.OperationFailed(op, apiErr)
}
