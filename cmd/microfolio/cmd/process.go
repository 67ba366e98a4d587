package cmd

import (
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Trigger end-of-day portfolio processing",
	Long: `Ask the backend to revalue the portfolio for the current trading day:
stop-losses are checked and a new equity point is recorded. Use --force to
reprocess a day the backend already computed.`,
	RunE: runProcess,
}

var processForce bool

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVarP(&processForce, "force", "f", false, "reprocess even if today was already processed")
}

func runProcess(cmd *cobra.Command, args []string) error {
	c, cleanup, err := startController(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.Process(cmd.Context(), processForce)
}
