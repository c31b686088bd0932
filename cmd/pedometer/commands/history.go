package commands

import (
	"context"

	"github.com/2beens/pedometer/internal"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			entries, err := app.Service.History(ctx)
			if err != nil {
				return err
			}
			if historyLimit > 0 && len(entries) > historyLimit {
				entries = entries[:historyLimit]
			}
			return renderHistory(cmd.OutOrStdout(), entries)
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Show at most this many sessions (0 for all)")
}
