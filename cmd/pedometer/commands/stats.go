package commands

import (
	"context"
	"encoding/json"

	"github.com/2beens/pedometer/internal"
	"github.com/2beens/pedometer/internal/pedometer/activity"

	"github.com/spf13/cobra"
)

var (
	statsWindow string
	statsMetric string
	statsJSON   bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Totals, averages and maxima over a rolling window",
	RunE: func(cmd *cobra.Command, args []string) error {
		window, err := activity.ParseWindow(statsWindow)
		if err != nil {
			return err
		}
		metric, err := activity.ParseMetric(statsMetric)
		if err != nil {
			return err
		}
		now, err := referenceInstant()
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			res, err := app.Service.Stats(ctx, window, metric, now)
			if err != nil {
				return err
			}
			if statsJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return renderStats(cmd.OutOrStdout(), res)
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsWindow, "window", "week", "Rolling window: week, month or year")
	statsCmd.Flags().StringVar(&statsMetric, "metric", "steps", "Charted metric: steps, distance or calories")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the raw result as JSON")
}
