package synth

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
	"time"
)

const twoPi = 2 * math.Pi

// bytesPerSample is the width of one float32 PCM sample on the wire.
const bytesPerSample = 4

// renderer generates the burst/gap pattern as little-endian float32 PCM.
//
// All oscillator state lives in explicit phase accumulators owned by the
// renderer, advanced sample by sample inside Read. The audio device pulls
// from Read on its own callback goroutine; the only cross-goroutine signal
// is the stopped flag, which ends output on the next Read.
type renderer struct {
	profile    ToneProfile
	volume     float64
	sampleRate int
	// loop selects the endless alarm pattern; previews render a single
	// burst and then report io.EOF.
	loop bool

	// phases holds one accumulator per component frequency, wrapped
	// modulo 2π every sample to bound floating error.
	phases     []float64
	sweepPhase float64

	burstSamples    int
	gapSamples      int
	cycleGapSamples int

	inBurst   bool
	pos       int // sample index within the current burst or gap
	gapLen    int // length of the current gap in samples
	step      int // bursts completed since start; drives round-robin and cycles
	exhausted bool

	stopped atomic.Bool
}

// newRenderer prepares a renderer for the given profile.
// Durations are converted to whole sample counts once, up front.
func newRenderer(profile ToneProfile, volume float64, sampleRate int, loop bool) *renderer {
	r := &renderer{
		profile:         profile,
		volume:          volume,
		sampleRate:      sampleRate,
		loop:            loop,
		phases:          make([]float64, len(profile.Frequencies)),
		burstSamples:    durationSamples(profile.BurstDuration, sampleRate),
		gapSamples:      durationSamples(profile.GapDuration, sampleRate),
		cycleGapSamples: durationSamples(CycleGap, sampleRate),
		inBurst:         true,
	}

	return r
}

// durationSamples converts a duration to a sample count at the given rate.
func durationSamples(d time.Duration, sampleRate int) int {
	return int(d.Seconds() * float64(sampleRate))
}

// Read fills b with float32 little-endian PCM.
// It performs no blocking operations; a stopped renderer returns io.EOF
// immediately, halting output within one callback.
func (r *renderer) Read(b []byte) (int, error) {
	if r.stopped.Load() || r.exhausted {
		return 0, io.EOF
	}

	samples := len(b) / bytesPerSample

	for i := 0; i < samples; i++ {
		if r.exhausted {
			return i * bytesPerSample, io.EOF
		}

		binary.LittleEndian.PutUint32(
			b[i*bytesPerSample:],
			math.Float32bits(float32(r.next())),
		)
	}

	return samples * bytesPerSample, nil
}

// next advances the pattern state machine by one sample and returns it.
func (r *renderer) next() float64 {
	if !r.inBurst {
		r.pos++
		if r.pos >= r.gapLen {
			r.beginBurst()
		}

		return 0
	}

	var sample float64
	if r.profile.Sweep {
		sample = r.sweepSample()
	} else {
		sample = r.discreteSample()
	}

	r.pos++
	if r.pos >= r.burstSamples {
		r.finishBurst()
	}

	return sample
}

// discreteSample sums all component oscillators in equal proportion.
// The frequency list is rotated by the burst counter so successive bursts
// advance through it round-robin.
func (r *renderer) discreteSample() float64 {
	count := len(r.profile.Frequencies)

	var sum float64

	for k := range r.phases {
		freq := r.profile.Frequencies[(k+r.step)%count]

		r.phases[k] = wrapPhase(r.phases[k] + twoPi*freq/float64(r.sampleRate))
		sum += math.Sin(r.phases[k])
	}

	return r.volume * sum / float64(count)
}

// sweepSample interpolates the instantaneous frequency linearly from
// Frequencies[0] to Frequencies[1] across the burst, driving a single
// phase accumulator.
func (r *renderer) sweepSample() float64 {
	start, end := r.profile.Frequencies[0], r.profile.Frequencies[1]
	progress := float64(r.pos) / float64(r.burstSamples)
	freq := start + (end-start)*progress

	r.sweepPhase = wrapPhase(r.sweepPhase + twoPi*freq/float64(r.sampleRate))

	return r.volume * math.Sin(r.sweepPhase)
}

// finishBurst transitions into the gap following the burst that just ended,
// lengthening it at cycle boundaries. Previews end after their only burst.
func (r *renderer) finishBurst() {
	r.step++
	r.pos = 0

	if !r.loop {
		r.exhausted = true

		return
	}

	r.inBurst = false

	r.gapLen = r.gapSamples
	if r.profile.BurstsPerCycle > 0 && r.step%r.profile.BurstsPerCycle == 0 {
		r.gapLen += r.cycleGapSamples
	}
}

// beginBurst resets oscillator phases so every burst starts at a zero
// crossing, avoiding clicks.
func (r *renderer) beginBurst() {
	r.inBurst = true
	r.pos = 0
	r.sweepPhase = 0

	for k := range r.phases {
		r.phases[k] = 0
	}
}

// stop makes the next Read return io.EOF. Safe from any goroutine and
// idempotent.
func (r *renderer) stop() {
	r.stopped.Store(true)
}

// wrapPhase keeps a phase accumulator within [0, 2π).
// Per-sample increments never exceed 2π for audible frequencies, so a
// single subtraction suffices and keeps the bounded-error guarantee.
func wrapPhase(p float64) float64 {
	if p >= twoPi {
		p -= twoPi
	}

	return p
}
