package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dawnkit/wake-pipeline/internal/config"
	"github.com/dawnkit/wake-pipeline/internal/service/preview"
	"github.com/dawnkit/wake-pipeline/internal/synth"
	"github.com/dawnkit/wake-pipeline/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for previewing alarm sounds.
	rootCmd = &cobra.Command{
		Use:   "wake-preview [sound]",
		Short: "Play one quiet burst of an alarm sound.",
		Long: `Play a single burst of the named tone profile at reduced volume so a sound
can be judged before it is assigned to an alarm.

Without an argument the default sound is previewed. Run "wake-preview list"
to see the available profiles.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var sound string
			if len(args) > 0 {
				sound = args[0]
			}

			if sound == "list" {
				for _, id := range synth.SoundIDs() {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}

				return nil
			}

			previewOptions := &preview.Options{
				ConfigPath: configPath,
				Sound:      sound,
			}

			return preview.Run(ctx, previewOptions)
		},
	}
)

// Execute runs the wake-preview CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
