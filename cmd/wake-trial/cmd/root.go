package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dawnkit/wake-pipeline/internal/service/trial"
	"github.com/dawnkit/wake-pipeline/internal/version"
)

var (
	// sound names the tone profile for the rehearsal.
	sound string
	// challengeKind names the dismissal challenge variant.
	challengeKind string
	// intensity names the alarm strength.
	intensity string

	// rootCmd represents the base command for rehearsing a wake-up.
	rootCmd = &cobra.Command{
		Use:   "wake-trial",
		Short: "Rehearse a full wake-up in the terminal.",
		Long: `Run one complete wake-up without scheduling anything: real escalation
timing, real audio when a device is present, and the dismissal challenge
driven by coordinates typed on stdin.

The alarm escalates for a few seconds before the override window opens;
the challenge board is then printed and dismissal proceeds tap by tap.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			trialOptions := &trial.Options{
				Sound:     sound,
				Challenge: challengeKind,
				Intensity: intensity,
			}

			return trial.Run(ctx, trialOptions)
		},
	}
)

// Execute runs the wake-trial CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&sound, "sound", "s", "", "tone profile to play")
	rootCmd.Flags().StringVarP(&challengeKind, "challenge", "k", "", "dismissal challenge variant")
	rootCmd.Flags().StringVarP(&intensity, "intensity", "i", "", "alarm strength")
}
