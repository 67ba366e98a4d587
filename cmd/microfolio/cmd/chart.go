package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Download the server-rendered equity chart",
	Long: `Download the equity curve as a PNG rendered by the backend.

Example:
  microfolio chart --out equity.png`,
	RunE: runChart,
}

var chartOut string

func init() {
	rootCmd.AddCommand(chartCmd)

	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "equity.png", "output PNG path")
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return err
	}

	png, err := newClient(cfg, sess).EquityChartPNG(cmd.Context())
	if err != nil {
		return err
	}
	if err := os.WriteFile(chartOut, png, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}

	fmt.Printf("✓ Wrote %s (%d bytes)\n", chartOut, len(png))
	return nil
}
