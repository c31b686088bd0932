package commands

import (
	"context"
	"fmt"

	"github.com/2beens/pedometer/internal"
	"github.com/2beens/pedometer/internal/pedometer/activity"

	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage step, distance and calorie goals",
}

var (
	goalMetric string
	goalTarget float64
	goalPeriod string
)

var goalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a goal, replacing the active goal of the same metric",
	RunE: func(cmd *cobra.Command, args []string) error {
		now, err := referenceInstant()
		if err != nil {
			return err
		}
		params := activity.NewGoalParams{
			Metric:      goalMetric,
			TargetValue: goalTarget,
			Period:      goalPeriod,
		}
		// rejected before touching the database
		if _, err := activity.NewGoal(params, "", now); err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			goal, err := app.Service.AddGoal(ctx, params, now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s goal: %s %s (%s)\n",
				goal.Period, goal.Metric, displayValue(goal.Metric, goal.TargetValue), goal.Metric.Unit(), goal.ID)
			return nil
		})
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all goals, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			goals, err := app.Service.Goals(ctx)
			if err != nil {
				return err
			}
			return renderGoals(cmd.OutOrStdout(), goals)
		})
	},
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show progress of the active goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		now, err := referenceInstant()
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			overview, err := app.Service.GoalsOverview(ctx, now)
			if err != nil {
				return err
			}
			return renderProgress(cmd.OutOrStdout(), overview)
		})
	},
}

var goalDetailCmd = &cobra.Command{
	Use:   "detail <goal-id>",
	Short: "Show a goal's chart and the sessions counted towards it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		now, err := referenceInstant()
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			detail, err := app.Service.GoalDetail(ctx, args[0], now)
			if err != nil {
				return err
			}
			return renderGoalDetail(cmd.OutOrStdout(), detail)
		})
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalAddCmd, goalListCmd, goalProgressCmd, goalDetailCmd)

	goalAddCmd.Flags().StringVar(&goalMetric, "metric", "", "Metric: steps, distance (m) or calories (kcal)")
	goalAddCmd.Flags().Float64Var(&goalTarget, "target", 0, "Target value, greater than 0")
	goalAddCmd.Flags().StringVar(&goalPeriod, "period", "daily", "Period: daily, weekly or monthly")
	_ = goalAddCmd.MarkFlagRequired("metric")
	_ = goalAddCmd.MarkFlagRequired("target")
}
