package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/microfolio/microfolio/api"
	"github.com/microfolio/microfolio/dashboard"
	"github.com/microfolio/microfolio/equity"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Load and display the portfolio dashboard",
	Long: `Load the full dashboard: portfolio positions, trade log and equity
history. If the account has no starting cash yet, an amount is prompted for
first.

Example:
  microfolio dashboard --config microfolio.yaml`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	// Everything of interest is rendered through events during startup.
	_, cleanup, err := startController(cmd)
	if err != nil {
		return err
	}
	cleanup()
	return nil
}

// startController builds a controller wired to a terminal renderer and runs
// the startup sequence. The cleanup closes the journal if one is configured.
func startController(cmd *cobra.Command) (*dashboard.Controller, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return nil, nil, err
	}
	jnl, err := newJournal(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if jnl != nil {
			jnl.Close()
		}
	}

	opts := []dashboard.Option{dashboard.WithLogger(logger)}
	if jnl != nil {
		opts = append(opts, dashboard.WithJournal(jnl))
	}
	c := dashboard.New(newClient(cfg, sess), sess, &terminal{}, opts...)

	if err := c.Start(cmd.Context()); err != nil {
		cleanup()
		if errors.Is(err, dashboard.ErrNoSession) {
			return nil, nil, errors.New("not logged in; run `microfolio login` first")
		}
		return nil, nil, err
	}
	return c, cleanup, nil
}

// terminal renders dashboard events as plain tables on stdout.
type terminal struct{}

func (t *terminal) LoginRequired() {
	fmt.Fprintln(os.Stderr, "Session expired; run `microfolio login` to start a new one.")
}

func (t *terminal) PromptCash() (string, bool) {
	fmt.Fprint(os.Stderr, "Starting cash (0-10000): ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (t *terminal) PortfolioUpdated(p *api.Portfolio) {
	fmt.Println()
	fmt.Println("PORTFOLIO")
	fmt.Printf("  %-8s %10s %10s %10s %12s\n", "TICKER", "SHARES", "BUY", "STOP", "COST BASIS")
	for _, pos := range p.Positions {
		fmt.Printf("  %-8s %10.2f %10.2f %10.2f %12.2f\n",
			pos.Ticker, pos.Shares, pos.BuyPrice, pos.StopLoss, pos.CostBasis)
	}
	if len(p.Positions) == 0 {
		fmt.Println("  (no open positions)")
	}
	fmt.Printf("  Cash: %.2f   Deployed: %.2f   Total equity: %.2f\n",
		p.Cash, p.DeployedCapital, p.TotalEquity)
	if p.StartingCapital != nil {
		fmt.Printf("  Starting capital: %.2f\n", *p.StartingCapital)
	}
}

func (t *terminal) TradeLogUpdated(entries []api.TradeLogEntry) {
	fmt.Println()
	fmt.Println("TRADE LOG")
	if len(entries) == 0 {
		fmt.Println("  (no trades yet)")
		return
	}
	fmt.Printf("  %-12s %-8s %-5s %10s %10s  %s\n", "DATE", "TICKER", "SIDE", "SHARES", "PRICE", "REASON")
	for _, e := range entries {
		fmt.Printf("  %-12s %-8s %-5s %10.2f %10.2f  %s\n",
			e.Date, e.Ticker, e.Side, e.Shares, e.Price, e.Reason)
	}
}

func (t *terminal) EquityUpdated(points []equity.Point) {
	fmt.Println()
	fmt.Printf("EQUITY (%d days)\n", len(points))
	if len(points) == 0 {
		return
	}
	first, last := points[0], points[len(points)-1]
	fmt.Printf("  %s  %10.2f\n", first.Day, first.Equity)
	if len(points) > 1 {
		fmt.Printf("  %s  %10.2f\n", last.Day, last.Equity)
		change := last.Equity - first.Equity
		fmt.Printf("  Change: %+.2f\n", change)
	}
}

func (t *terminal) TradeAccepted(message string) {
	fmt.Printf("✓ %s\n", message)
}

func (t *terminal) OperationFailed(op string, errInfo *api.Error) {
	fmt.Fprintf(os.Stderr, "✗ %s failed: %s\n", op, errInfo.Message)
}

var _ dashboard.Events = (*terminal)(nil)
