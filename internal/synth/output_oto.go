package synth

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
)

// OtoOutput drives the real audio device through ebitengine/oto.
// One oto context is shared by all streams; the OS mixer handles the rest.
type OtoOutput struct {
	ctx *oto.Context
}

// NewOtoOutput opens the audio device and waits until it is ready.
// Callers should treat failure as a degraded mode (haptic/visual only),
// not a fatal condition.
func NewOtoOutput(sampleRate int) (*OtoOutput, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	options := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}

	<-ready

	return &OtoOutput{ctx: ctx}, nil
}

// Open starts a player pulling PCM from src.
// The returned *oto.Player satisfies Stream; Close stops playback and
// releases the player.
func (o *OtoOutput) Open(src io.Reader) (Stream, error) {
	player := o.ctx.NewPlayer(src)
	player.Play()

	return player, nil
}
