package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dawnkit/wake-pipeline/internal/config"
	"github.com/dawnkit/wake-pipeline/internal/service/daemon"
	"github.com/dawnkit/wake-pipeline/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// metricsAddress overrides the metrics listen address from the config.
	metricsAddress string
	// debug skips the single-instance check.
	debug bool

	// rootCmd represents the base command for the resident wake service.
	rootCmd = &cobra.Command{
		Use:   "wake-daemon",
		Short: "Run the resident wake-up alarm service.",
		Long: `Background service that arms a timer for every configured alarm and drives
the full wake-up flow when one fires.

Each alarm escalates through warning and critical stages with rising volume
and haptic cues until the user requests an override and passes the configured
dismissal challenge. Completed wake-ups are appended to the JSON history file.
A minute-level sweep re-arms any timer lost to clock jumps or suspend cycles.

Alarm list, snooze delay, sound output and metrics address come from the
configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			daemonOptions := &daemon.Options{
				ConfigPath:     configPath,
				MetricsAddress: metricsAddress,
				Debug:          debug,
			}

			return daemon.Run(ctx, daemonOptions)
		},
	}
)

// Execute runs the wake-daemon CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&metricsAddress, "metrics-addr", "m", "", "metrics listen address override")

	// Hidden debug flag to allow a second instance while experimenting.
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "skip single-instance check")

	err := rootCmd.Flags().MarkHidden("debug")
	if err != nil {
		panic(err)
	}
}
