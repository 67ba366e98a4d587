package dashboard

import (
	"github.com/microfolio/microfolio/api"
	"github.com/microfolio/microfolio/equity"
)

// Events is the presentation boundary. The controller emits plain data
// through it and never renders anything itself. Implementations must not
// call back into the controller from inside an event handler.
type Events interface {
	// LoginRequired fires when there is no usable session: either none was
	// present at startup, or the backend reported the token expired.
	LoginRequired()

	// PromptCash asks the user for the initial cash deposit. ok=false means
	// the user cancelled; the flow then continues without setting cash.
	// The raw string is validated (finite, within bounds) by the controller,
	// which re-prompts until it gets a usable value or a cancel.
	PromptCash() (value string, ok bool)

	PortfolioUpdated(p *api.Portfolio)
	TradeLogUpdated(entries []api.TradeLogEntry)
	EquityUpdated(points []equity.Point)

	// TradeAccepted reports a successful submission; the presentation layer
	// clears the entry form on this signal.
	TradeAccepted(message string)

	// OperationFailed carries every classified failure. op names the
	// operation that failed ("portfolio", "trade-log", ...).
	OperationFailed(op string, errInfo *api.Error)
}
