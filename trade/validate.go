// Package trade validates trade submissions before they are sent to the
// backend. Validation is purely local: it never touches the network and a
// failed validation never leaves a partially built request behind.
package trade

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Side is the direction of a trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Rejection codes. The first field to fail its constraint decides the code.
const (
	CodeMissingField    = "MISSING_FIELD"
	CodeInvalidAction   = "INVALID_ACTION"
	CodeInvalidPrice    = "INVALID_PRICE"
	CodeInvalidShares   = "INVALID_SHARES"
	CodeInvalidStopLoss = "INVALID_STOP_LOSS"
	CodeStopAboveBuy    = "STOP_ABOVE_BUY_PRICE"
)

// RejectionError describes why a submission was rejected. It carries a stable
// code for callers that branch on the reason and a message fit for display.
type RejectionError struct {
	Code  string
	Field string
	Msg   string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func reject(code, field, msg string) *RejectionError {
	return &RejectionError{Code: code, Field: field, Msg: msg}
}

// Raw holds the submission fields exactly as entered, before any parsing.
type Raw struct {
	Ticker   string
	Action   string
	Price    string
	Shares   string
	Reason   string
	StopLoss string
}

// Request is the normalized payload POSTed to /api/trade. StopLoss keeps its
// submitted form: an absolute price ("12.5") or a trailing percentage
// ("5%"), empty when no stop was requested.
type Request struct {
	Ticker   string  `json:"ticker"`
	Action   Side    `json:"action"`
	Price    float64 `json:"price"`
	Shares   float64 `json:"shares"`
	Reason   string  `json:"reason"`
	StopLoss string  `json:"stop_loss,omitempty"`
}

// Validate checks every field of a raw submission and returns the normalized
// request, or a *RejectionError naming the first constraint that failed.
//
// Stop-loss rules: a trailing-percentage stop ("5%") only needs a finite,
// non-negative numeric part; the backend interprets it relative to price. An
// absolute stop must be finite and non-negative, and on a buy it must sit
// strictly below the buy price — a protective sell-side stop conventionally
// sits above the price, so no such check applies to sells.
func Validate(raw Raw) (Request, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw.Ticker))
	if ticker == "" {
		return Request{}, reject(CodeMissingField, "ticker", "ticker is required")
	}

	action := Side(strings.ToLower(strings.TrimSpace(raw.Action)))
	if action != Buy && action != Sell {
		return Request{}, reject(CodeInvalidAction, "action", `action must be "buy" or "sell"`)
	}

	price, err := parsePositive(raw.Price)
	if err != nil {
		return Request{}, reject(CodeInvalidPrice, "price", "price must be a positive number")
	}

	shares, err := parsePositive(raw.Shares)
	if err != nil {
		return Request{}, reject(CodeInvalidShares, "shares", "shares must be a positive number")
	}

	stop := strings.TrimSpace(raw.StopLoss)
	if stop != "" {
		normalized, rerr := validateStopLoss(stop, action, price)
		if rerr != nil {
			return Request{}, rerr
		}
		stop = normalized
	}

	return Request{
		Ticker:   ticker,
		Action:   action,
		Price:    price,
		Shares:   shares,
		Reason:   strings.TrimSpace(raw.Reason),
		StopLoss: stop,
	}, nil
}

func validateStopLoss(stop string, action Side, price float64) (string, *RejectionError) {
	if strings.HasSuffix(stop, "%") {
		pct, err := parseFinite(strings.TrimSuffix(stop, "%"))
		if err != nil || pct < 0 {
			return "", reject(CodeInvalidStopLoss, "stop_loss", "trailing stop must be a non-negative percentage")
		}
		return formatNumber(pct) + "%", nil
	}

	abs, err := parseFinite(stop)
	if err != nil || abs < 0 {
		return "", reject(CodeInvalidStopLoss, "stop_loss", "stop loss must be a non-negative price or a trailing percentage")
	}
	if action == Buy && abs >= price {
		return "", reject(CodeStopAboveBuy, "stop_loss",
			fmt.Sprintf("stop loss %s must be below the buy price %s", formatNumber(abs), formatNumber(price)))
	}
	return formatNumber(abs), nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not finite: %s", s)
	}
	return v, nil
}

func parsePositive(s string) (float64, error) {
	v, err := parseFinite(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("not positive: %s", s)
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
