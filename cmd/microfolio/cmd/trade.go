package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microfolio/microfolio/trade"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Submit a buy or sell trade",
	Long: `Submit a trade to the backend. The trade is validated locally first;
for buys, an absolute stop-loss must sit below the buy price. Stop-loss
accepts an absolute price ("9.50") or a trailing percentage ("15%").

Examples:
  microfolio trade --ticker ABEO --action buy --price 5.77 --shares 4 --stop-loss 4.90
  microfolio trade --ticker ABEO --action sell --price 6.10 --shares 4 --reason "take profit"`,
	RunE: runTrade,
}

var tradeRaw trade.Raw

func init() {
	rootCmd.AddCommand(tradeCmd)

	tradeCmd.Flags().StringVarP(&tradeRaw.Ticker, "ticker", "t", "", "ticker symbol (required)")
	tradeCmd.Flags().StringVarP(&tradeRaw.Action, "action", "a", "", "buy or sell (required)")
	tradeCmd.Flags().StringVarP(&tradeRaw.Price, "price", "p", "", "price per share (required)")
	tradeCmd.Flags().StringVarP(&tradeRaw.Shares, "shares", "s", "", "number of shares (required)")
	tradeCmd.Flags().StringVarP(&tradeRaw.Reason, "reason", "r", "", "free-form trade rationale")
	tradeCmd.Flags().StringVar(&tradeRaw.StopLoss, "stop-loss", "", `stop-loss: absolute price or trailing percent ("15%")`)
	tradeCmd.MarkFlagRequired("ticker")
	tradeCmd.MarkFlagRequired("action")
	tradeCmd.MarkFlagRequired("price")
	tradeCmd.MarkFlagRequired("shares")
}

func runTrade(cmd *cobra.Command, args []string) error {
	c, cleanup, err := startController(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := c.SubmitTrade(cmd.Context(), tradeRaw); err != nil {
		var rej *trade.RejectionError
		if errors.As(err, &rej) {
			return fmt.Errorf("invalid trade: %s", rej.Msg)
		}
		return err
	}
	return nil
}
