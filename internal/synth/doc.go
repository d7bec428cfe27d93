// Package synth implements the procedural tone synthesizer.
//
// Tones are generated in real time from sine oscillators arranged in a
// repeating burst/gap pattern; no pre-recorded samples are involved. The
// renderer owns explicit phase accumulators and exposes the pattern as an
// io.Reader of float32 PCM, which the playback engine feeds to the audio
// device. Engine is a single-owner resource handle: at most one output
// stream exists at any time, and Stop is idempotent from any goroutine.
package synth
