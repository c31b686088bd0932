package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/2beens/pedometer/internal"
	"github.com/2beens/pedometer/internal/pedometer/activity"
	"github.com/2beens/pedometer/pkg"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	exportWindow string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the sessions of a rolling window as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		window, err := activity.ParseWindow(exportWindow)
		if err != nil {
			return err
		}
		now, err := referenceInstant()
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, app *internal.App) (err error) {
			var w io.Writer = cmd.OutOrStdout()
			if exportOut != "" {
				if err := pkg.EnsureParentDir(exportOut); err != nil {
					return err
				}
				var f *os.File
				f, err = os.Create(exportOut)
				if err != nil {
					return fmt.Errorf("create %s: %w", exportOut, err)
				}
				defer func() {
					if closeErr := f.Close(); closeErr != nil && err == nil {
						err = closeErr
					}
				}()
				w = f
			}

			if err := app.Service.ExportCSV(ctx, w, window, now); err != nil {
				return err
			}
			if exportOut != "" {
				log.Infof("exported %s window to %s", window, exportOut)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportWindow, "window", "month", "Rolling window: week, month or year")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}
