package synth

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dawnkit/wake-pipeline/internal/logger"
)

// DefaultSampleRate is used when no rate is configured.
const DefaultSampleRate = 44100

// PreviewVolume is the reduced volume used for single-burst previews.
const PreviewVolume = 0.2

// Stream is an open audio output stream. Closing it releases the device.
type Stream interface {
	Close() error
}

// Output acquires audio output streams. The production implementation is
// OtoOutput; tests substitute an in-memory sink.
type Output interface {
	// Open starts playback pulling PCM from src and returns a handle to
	// stop it. Open may fail when the device is busy; callers degrade to
	// silence rather than aborting.
	Open(src io.Reader) (Stream, error)
}

// Engine is the single-owner handle to the audio resource.
//
// At most one stream exists at any time: starting a pattern or a preview
// first tears down whatever is playing. All methods are safe to call from
// any goroutine, and Stop is an idempotent no-op once stopped.
type Engine struct {
	// output acquires device streams.
	output Output
	// sampleRate is the PCM sample rate shared with the output.
	sampleRate int

	// mu protects the active renderer/stream pair.
	mu      sync.Mutex
	current *renderer
	stream  Stream
}

// NewEngine creates an engine over the provided output.
func NewEngine(output Output, sampleRate int) *Engine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	return &Engine{
		output:     output,
		sampleRate: sampleRate,
	}
}

// SampleRate returns the engine's PCM sample rate.
func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// Start begins the endless burst/gap pattern for the profile at the given
// volume, replacing any pattern or preview already playing.
func (e *Engine) Start(ctx context.Context, profile ToneProfile, volume float64) error {
	return e.play(ctx, profile, volume, true)
}

// Preview plays one short burst of the identified sound at reduced volume.
// It shares the single audio resource with Start, so an in-progress pattern
// is torn down first; two streams never overlap.
func (e *Engine) Preview(ctx context.Context, id SoundID) error {
	profile, err := Profile(id)
	if err != nil {
		return err
	}

	return e.play(ctx, profile, PreviewVolume, false)
}

// play swaps in a fresh renderer under the lock. The profile is checked
// first so a malformed one cannot reach the device callback, and so a bad
// request leaves whatever is already playing untouched.
func (e *Engine) play(ctx context.Context, profile ToneProfile, volume float64, loop bool) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked(ctx)

	r := newRenderer(profile, volume, e.sampleRate, loop)

	stream, err := e.output.Open(r)
	if err != nil {
		r.stop()

		return fmt.Errorf("open output stream: %w", err)
	}

	e.current = r
	e.stream = stream

	logger.DebugKV(ctx, "Synth stream started",
		"volume", volume, "sweep", profile.Sweep, "loop", loop)

	return nil
}

// Stop halts output and releases the audio resource.
// Output ceases within one read of the renderer; calling Stop when nothing
// is playing is a silent no-op.
func (e *Engine) Stop(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked(ctx)
}

// stopLocked tears down the active renderer and stream. Callers hold mu.
func (e *Engine) stopLocked(ctx context.Context) {
	if e.current != nil {
		e.current.stop()
		e.current = nil
	}

	if e.stream != nil {
		if err := e.stream.Close(); err != nil {
			logger.Warnf(ctx, "Failed to close audio stream: %v", err)
		}

		e.stream = nil
	}
}

// Playing reports whether a stream is currently held.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stream != nil
}
