// Package preview plays one low-volume burst of a tone profile so a sound
// can be judged without scheduling an alarm.
package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/dawnkit/wake-pipeline/internal/config"
	"github.com/dawnkit/wake-pipeline/internal/logger"
	"github.com/dawnkit/wake-pipeline/internal/synth"
)

// Options controls which sound is previewed.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file. Optional;
	// previews fall back to defaults when it is absent.
	ConfigPath string
	// Sound names the tone profile to play. Empty previews the default.
	Sound string
}

// tailPad keeps the stream open briefly past the burst so the device
// drains its buffer before teardown.
const tailPad = 300 * time.Millisecond

// Run plays a single preview burst and returns once it has drained.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "wake-preview")

	sampleRate := synth.DefaultSampleRate

	// The settings file is optional here; only the sample rate matters.
	if cfg, err := config.Load(opts.ConfigPath); err == nil {
		sampleRate = cfg.SampleRate
	}

	id := synth.SoundClassic
	if opts.Sound != "" {
		id = synth.SoundID(opts.Sound)
	}

	profile, err := synth.Profile(id)
	if err != nil {
		return fmt.Errorf("resolve sound: %w", err)
	}

	output, err := synth.NewOtoOutput(sampleRate)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}

	engine := synth.NewEngine(output, sampleRate)
	defer engine.Stop(ctx)

	if err = engine.Preview(ctx, id); err != nil {
		return fmt.Errorf("start preview: %w", err)
	}

	logger.InfoKV(ctx, "Previewing sound", "sound", id, "burst", profile.BurstDuration)

	select {
	case <-ctx.Done():
	case <-time.After(profile.BurstDuration + tailPad):
	}

	return nil
}
