package synth

import "io"

// DiscardOutput swallows every stream without touching an audio device.
// Daemons fall back to it when the device cannot be opened, keeping the
// escalation timeline alive with haptic and visual cues only.
type DiscardOutput struct{}

type discardStream struct{}

func (discardStream) Close() error { return nil }

// Open accepts the source and never reads from it.
func (DiscardOutput) Open(_ io.Reader) (Stream, error) {
	return discardStream{}, nil
}
