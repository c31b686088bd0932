package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/pedometer/internal"
	"github.com/2beens/pedometer/internal/pedometer/repo"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the user profile used for calorie estimates",
}

var (
	userName   string
	userWeight float64
)

var userSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set name and weight (kg)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			profile, err := app.Service.SetProfile(ctx, userName, userWeight)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s (%.1f kg)\n", profile.Name, profile.WeightKg)
			return nil
		})
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			profile, err := app.Service.Profile(ctx)
			if errors.Is(err, repo.ErrProfileNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile configured, use `pedometer user set`")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\nWeight: %.1f kg\n", profile.Name, profile.WeightKg)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userSetCmd, userShowCmd)

	userSetCmd.Flags().StringVar(&userName, "name", "", "User name")
	userSetCmd.Flags().Float64Var(&userWeight, "weight", 0, "Body weight in kg")
	_ = userSetCmd.MarkFlagRequired("name")
	_ = userSetCmd.MarkFlagRequired("weight")
}
