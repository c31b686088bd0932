package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/pedometer/internal"
	"github.com/2beens/pedometer/internal/config"
	"github.com/2beens/pedometer/internal/logging"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	env         string
	configPath  string
	dotenvPath  string
	atArg       string
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:           "pedometer",
	Short:         "pedometer keeps walking sessions, goals and activity statistics",
	Long:          "pedometer records walking sessions and reports goal progress, rolling window statistics and CSV exports.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&dotenvPath, "dotenv", ".env", "optional dotenv file with secrets")
	rootCmd.PersistentFlags().StringVar(&atArg, "at", "", "reference instant (RFC3339), defaults to now")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write prometheus textfile metrics here on exit")
}

// withApp loads config and secrets, sets up logging and runs fn against a
// fully wired App that is closed afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *internal.App) error) (err error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return err
	}
	secrets, err := config.LoadSecrets(dotenvPath)
	if err != nil {
		return err
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToConsole:  cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
	})
	log.Debugf("running [%s] in [%s] environment", cmd.CommandPath(), env)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := internal.NewApp(ctx, internal.NewAppParams{
		Config:      cfg,
		Secrets:     secrets,
		ServiceName: "pedometer-cli",
		MetricsFile: metricsFile,
	})
	if err != nil {
		return fmt.Errorf("new app: %w", err)
	}
	defer func() {
		// ctx may be cancelled already, spans still need flushing
		if closeErr := app.Close(context.WithoutCancel(ctx)); closeErr != nil {
			log.Errorf("close app: %s", closeErr)
		}
	}()

	return fn(ctx, app)
}

func referenceInstant() (time.Time, error) {
	return parseInstant(atArg, time.Now)
}

func parseInstant(at string, now func() time.Time) (time.Time, error) {
	if at == "" {
		return now(), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q (expected RFC3339, e.g. 2025-07-01T18:00:00+09:00)", at)
	}
	return t, nil
}
