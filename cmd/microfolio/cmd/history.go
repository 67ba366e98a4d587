package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microfolio/microfolio/equity"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the full equity history",
	Long: `Fetch and print the account's daily equity history, one row per
calendar day in ascending order.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return err
	}

	raw, err := newClient(cfg, sess).EquityHistory(cmd.Context())
	if err != nil {
		return err
	}

	var series equity.Series
	series.Load(raw)
	if series.IsEmpty() {
		fmt.Println("No equity history yet.")
		return nil
	}

	fmt.Printf("%-12s %12s\n", "DATE", "EQUITY")
	for _, p := range series.Points() {
		fmt.Printf("%-12s %12.2f\n", p.Day, p.Equity)
	}
	return nil
}
