package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microfolio/microfolio/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the local trade journal",
	Long: `Query the local SQLite journal written by the dashboard.

Subcommands:
  trades  - List journaled trades
  equity  - List journaled daily equity points
  summary - Per-ticker aggregates across all journaled trades

Examples:
  microfolio journal trades --db microfolio.sqlite
  microfolio journal summary`,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List journaled trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalTrades,
}

var journalEquityCmd = &cobra.Command{
	Use:   "equity",
	Short: "List journaled daily equity points",
	Args:  cobra.NoArgs,
	RunE:  runJournalEquity,
}

var journalSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Per-ticker aggregates across all journaled trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalSummary,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalEquityCmd)
	journalCmd.AddCommand(journalSummaryCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (default: from config)")
}

func openJournalDB() (*journal.SQLiteJournal, error) {
	path := journalDBPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		if cfg.Journal.Type != "sqlite" || cfg.Journal.DBPath == "" {
			return nil, fmt.Errorf("no SQLite journal configured; pass --db or set journal.type to sqlite")
		}
		path = cfg.Journal.DBPath
	}
	return journal.NewSQLite(path)
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rows, err := j.ListTrades()
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("No journaled trades.")
		return nil
	}

	fmt.Printf("%-12s %-8s %-5s %10s %10s  %s\n", "DATE", "TICKER", "SIDE", "SHARES", "PRICE", "REASON")
	for _, r := range rows {
		fmt.Printf("%-12s %-8s %-5s %10.2f %10.2f  %s\n", r.Date, r.Ticker, r.Side, r.Shares, r.Price, r.Reason)
	}
	return nil
}

func runJournalEquity(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rows, err := j.ListEquity()
	if err != nil {
		return fmt.Errorf("query equity: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("No journaled equity points.")
		return nil
	}

	fmt.Printf("%-12s %12s\n", "DATE", "EQUITY")
	for _, r := range rows {
		fmt.Printf("%-12s %12.2f\n", r.Day, r.Equity)
	}
	return nil
}

func runJournalSummary(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rows, err := j.ListTrades()
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	summaries := journal.Summarize(rows)
	if len(summaries) == 0 {
		fmt.Println("No journaled trades.")
		return nil
	}

	fmt.Printf("%-8s %7s %12s %12s %12s %12s\n", "TICKER", "TRADES", "NET SHARES", "BUY VALUE", "SELL VALUE", "NET FLOW")
	for _, s := range summaries {
		fmt.Printf("%-8s %7d %12s %12s %12s %12s\n",
			s.Ticker, s.TradeCount,
			s.NetShares.StringFixed(2), s.BuyValue.StringFixed(2),
			s.SellValue.StringFixed(2), s.NetCashFlow.StringFixed(2))
	}
	return nil
}
