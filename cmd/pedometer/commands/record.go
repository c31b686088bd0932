package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/pedometer/internal"
	"github.com/2beens/pedometer/internal/pedometer/activity"

	"github.com/spf13/cobra"
)

const localTimeLayout = "2006-01-02 15:04"

var (
	recordStart    string
	recordEnd      string
	recordSteps    int
	recordDistance float64
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a finished walking session",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := sessionFromFlags(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *internal.App) error {
			entry, err := app.Service.RecordSession(ctx, session)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s-%s: %d steps, %s m, %s kcal\n",
				entry.Date, entry.StartTime, entry.EndTime, entry.Steps,
				formatNumber(entry.Distance), formatNumber(entry.Kcal))
			return nil
		})
	},
}

func sessionFromFlags(cmd *cobra.Command) (activity.Session, error) {
	start, err := parseSessionTime("--start", recordStart)
	if err != nil {
		return activity.Session{}, err
	}
	end, err := parseSessionTime("--end", recordEnd)
	if err != nil {
		return activity.Session{}, err
	}

	session := activity.Session{
		Start: start,
		End:   end,
		Steps: recordSteps,
	}
	// distance is optional, without it no calories can be estimated
	if cmd.Flags().Changed("distance") {
		distance := recordDistance
		session.DistanceMeters = &distance
	}
	if err := session.Validate(); err != nil {
		return activity.Session{}, err
	}
	return session, nil
}

// parseSessionTime accepts RFC3339 or a local "YYYY-MM-DD HH:MM".
func parseSessionTime(flag, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(localTimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q (expected RFC3339 or %q)", flag, value, localTimeLayout)
	}
	return t, nil
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVar(&recordStart, "start", "", "Session start (RFC3339 or YYYY-MM-DD HH:MM)")
	recordCmd.Flags().StringVar(&recordEnd, "end", "", "Session end (RFC3339 or YYYY-MM-DD HH:MM)")
	recordCmd.Flags().IntVar(&recordSteps, "steps", 0, "Steps counted")
	recordCmd.Flags().Float64Var(&recordDistance, "distance", 0, "Distance in meters")
	_ = recordCmd.MarkFlagRequired("start")
	_ = recordCmd.MarkFlagRequired("end")
	_ = recordCmd.MarkFlagRequired("steps")
}
