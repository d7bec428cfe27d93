package escalation

import (
	"math"
	"time"
)

// Visual cue parameters. Both functions below are pure: the same elapsed
// value always yields the same output, so rendering stays deterministic
// regardless of tick delivery.
const (
	// pulseRate is the breathing rate of the alert indicator in Hz.
	pulseRate = 1.25
	// ringPeriod is how long one decorative ring takes to expand fully.
	ringPeriod = 2 * time.Second
)

// PulseAmplitude maps elapsed session time to the alert indicator's
// brightness in [0.2, 1.0]. The sine trough can undershoot the lower
// bound by a rounding error, so the result is clamped to the range.
func PulseAmplitude(elapsed time.Duration) float64 {
	s := elapsed.Seconds()

	amplitude := 0.6 + 0.4*math.Sin(2*math.Pi*pulseRate*s)

	return math.Min(1.0, math.Max(0.2, amplitude))
}

// RingExpansion maps elapsed session time to the decorative ring's radius
// fraction in [0, 1), restarting each period.
func RingExpansion(elapsed time.Duration) float64 {
	return math.Mod(elapsed.Seconds(), ringPeriod.Seconds()) / ringPeriod.Seconds()
}
