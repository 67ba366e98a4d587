package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNormalizes(t *testing.T) {
	t.Parallel()

	req, err := Validate(Raw{
		Ticker: "  abc ",
		Action: "BUY",
		Price:  "10.50",
		Shares: "5",
		Reason: " looks cheap ",
	})

	require.NoError(t, err)
	assert.Equal(t, "ABC", req.Ticker)
	assert.Equal(t, Buy, req.Action)
	assert.Equal(t, 10.50, req.Price)
	assert.Equal(t, 5.0, req.Shares)
	assert.Equal(t, "looks cheap", req.Reason)
	assert.Empty(t, req.StopLoss)
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	valid := Raw{Ticker: "ABC", Action: "buy", Price: "10", Shares: "5"}

	tests := []struct {
		name     string
		mutate   func(r *Raw)
		wantCode string
	}{
		{
			name:     "empty_ticker",
			mutate:   func(r *Raw) { r.Ticker = "   " },
			wantCode: CodeMissingField,
		},
		{
			name:     "unknown_action",
			mutate:   func(r *Raw) { r.Action = "hold" },
			wantCode: CodeInvalidAction,
		},
		{
			name:     "missing_action",
			mutate:   func(r *Raw) { r.Action = "" },
			wantCode: CodeInvalidAction,
		},
		{
			name:     "zero_price",
			mutate:   func(r *Raw) { r.Price = "0" },
			wantCode: CodeInvalidPrice,
		},
		{
			name:     "negative_price",
			mutate:   func(r *Raw) { r.Price = "-1" },
			wantCode: CodeInvalidPrice,
		},
		{
			name:     "garbage_price",
			mutate:   func(r *Raw) { r.Price = "ten" },
			wantCode: CodeInvalidPrice,
		},
		{
			name:     "nan_price",
			mutate:   func(r *Raw) { r.Price = "NaN" },
			wantCode: CodeInvalidPrice,
		},
		{
			name:     "zero_shares",
			mutate:   func(r *Raw) { r.Shares = "0" },
			wantCode: CodeInvalidShares,
		},
		{
			name:     "garbage_shares",
			mutate:   func(r *Raw) { r.Shares = "many" },
			wantCode: CodeInvalidShares,
		},
		{
			name:     "garbage_stop",
			mutate:   func(r *Raw) { r.StopLoss = "around 9" },
			wantCode: CodeInvalidStopLoss,
		},
		{
			name:     "negative_stop",
			mutate:   func(r *Raw) { r.StopLoss = "-2" },
			wantCode: CodeInvalidStopLoss,
		},
		{
			name:     "negative_trailing_stop",
			mutate:   func(r *Raw) { r.StopLoss = "-5%" },
			wantCode: CodeInvalidStopLoss,
		},
		{
			name:     "garbage_trailing_stop",
			mutate:   func(r *Raw) { r.StopLoss = "five%" },
			wantCode: CodeInvalidStopLoss,
		},
		{
			name:     "infinite_stop",
			mutate:   func(r *Raw) { r.StopLoss = "+Inf" },
			wantCode: CodeInvalidStopLoss,
		},
		{
			name:     "buy_stop_above_price",
			mutate:   func(r *Raw) { r.StopLoss = "12" },
			wantCode: CodeStopAboveBuy,
		},
		{
			name:     "buy_stop_at_price",
			mutate:   func(r *Raw) { r.StopLoss = "10" },
			wantCode: CodeStopAboveBuy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := valid
			tt.mutate(&raw)

			_, err := Validate(raw)
			require.Error(t, err)

			var rej *RejectionError
			require.ErrorAs(t, err, &rej)
			assert.Equal(t, tt.wantCode, rej.Code)
			assert.NotEmpty(t, rej.Msg)
		})
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	t.Parallel()

	// Everything is wrong; the ticker check runs first.
	_, err := Validate(Raw{Ticker: "", Action: "hold", Price: "x", Shares: "y", StopLoss: "z"})

	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, CodeMissingField, rej.Code)
}

func TestValidateStopLossForms(t *testing.T) {
	t.Parallel()

	t.Run("buy_stop_below_price", func(t *testing.T) {
		req, err := Validate(Raw{Ticker: "ABC", Action: "buy", Price: "10", Shares: "5", StopLoss: "9.5"})
		require.NoError(t, err)
		assert.Equal(t, "9.5", req.StopLoss)
	})

	t.Run("sell_stop_above_price_allowed", func(t *testing.T) {
		req, err := Validate(Raw{Ticker: "ABC", Action: "sell", Price: "10", Shares: "5", StopLoss: "12"})
		require.NoError(t, err)
		assert.Equal(t, "12", req.StopLoss)
	})

	t.Run("trailing_percentage", func(t *testing.T) {
		req, err := Validate(Raw{Ticker: "ABC", Action: "buy", Price: "10", Shares: "5", StopLoss: "15%"})
		require.NoError(t, err)
		assert.Equal(t, "15%", req.StopLoss)
	})

	t.Run("trailing_percentage_not_compared_to_price", func(t *testing.T) {
		// 150% of anything is above the buy price; the backend owns that math.
		_, err := Validate(Raw{Ticker: "ABC", Action: "buy", Price: "10", Shares: "5", StopLoss: "150%"})
		assert.NoError(t, err)
	})

	t.Run("zero_stop_means_none", func(t *testing.T) {
		req, err := Validate(Raw{Ticker: "ABC", Action: "buy", Price: "10", Shares: "5", StopLoss: "0"})
		require.NoError(t, err)
		assert.Equal(t, "0", req.StopLoss)
	})
}
