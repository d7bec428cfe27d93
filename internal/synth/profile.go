package synth

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// SoundID identifies a built-in tone profile.
type SoundID string

// Built-in sounds. Frequencies are musical pitches chosen for alarm
// character, not user-tunable.
const (
	// SoundClassic is a plain single-pitch beeper.
	SoundClassic SoundID = "classic"
	// SoundChime is a two-note C5/E5 chord.
	SoundChime SoundID = "chime"
	// SoundBeacon is a four-note major arpeggio chord.
	SoundBeacon SoundID = "beacon"
	// SoundPulse is a rapid single-pitch stutter.
	SoundPulse SoundID = "pulse"
	// SoundAscent is a rising A4-to-A5 sweep.
	SoundAscent SoundID = "ascent"
)

// ErrUnknownSound is returned when a sound identifier has no profile.
var ErrUnknownSound = errors.New("unknown sound")

// ErrInvalidProfile is returned when a tone profile's shape cannot be
// rendered.
var ErrInvalidProfile = errors.New("invalid tone profile")

// ToneProfile describes one alarm sound's rhythmic and harmonic signature.
// Profiles are immutable; the renderer copies what it needs.
type ToneProfile struct {
	// Frequencies holds one to four component pitches in Hz.
	// Sweep profiles use exactly two: start and end.
	Frequencies []float64
	// BurstDuration is the length of one audible burst.
	BurstDuration time.Duration
	// GapDuration is the silence between bursts within a cycle.
	GapDuration time.Duration
	// BurstsPerCycle is how many bursts play before the cycle gap.
	BurstsPerCycle int
	// Sweep selects linear frequency interpolation across the burst
	// instead of fixed pitches.
	Sweep bool
}

// Validate checks the profile's shape against what the renderer supports:
// one to four component frequencies, and exactly two for sweeps.
func (p ToneProfile) Validate() error {
	count := len(p.Frequencies)

	if p.Sweep {
		if count != 2 {
			return fmt.Errorf("%w: sweep needs exactly 2 frequencies, got %d", ErrInvalidProfile, count)
		}

		return nil
	}

	if count < 1 || count > 4 {
		return fmt.Errorf("%w: need 1 to 4 frequencies, got %d", ErrInvalidProfile, count)
	}

	return nil
}

// CycleGap is the extra silence appended after the last burst of a cycle so
// the pattern boundary is audible.
const CycleGap = 600 * time.Millisecond

// profiles is the static registry keyed by sound identifier.
var profiles = map[SoundID]ToneProfile{
	SoundClassic: {
		Frequencies:    []float64{880.0},
		BurstDuration:  250 * time.Millisecond,
		GapDuration:    150 * time.Millisecond,
		BurstsPerCycle: 3,
	},
	SoundChime: {
		Frequencies:    []float64{523.25, 659.25},
		BurstDuration:  200 * time.Millisecond,
		GapDuration:    120 * time.Millisecond,
		BurstsPerCycle: 4,
	},
	SoundBeacon: {
		Frequencies:    []float64{523.25, 659.25, 783.99, 1046.50},
		BurstDuration:  150 * time.Millisecond,
		GapDuration:    100 * time.Millisecond,
		BurstsPerCycle: 4,
	},
	SoundPulse: {
		Frequencies:    []float64{660.0},
		BurstDuration:  90 * time.Millisecond,
		GapDuration:    60 * time.Millisecond,
		BurstsPerCycle: 6,
	},
	SoundAscent: {
		Frequencies:    []float64{440.0, 880.0},
		BurstDuration:  700 * time.Millisecond,
		GapDuration:    300 * time.Millisecond,
		BurstsPerCycle: 2,
		Sweep:          true,
	},
}

// Profile looks up a built-in tone profile by identifier.
func Profile(id SoundID) (ToneProfile, error) {
	p, ok := profiles[id]
	if !ok {
		return ToneProfile{}, fmt.Errorf("%w: %q", ErrUnknownSound, id)
	}

	return p, nil
}

// SoundIDs returns all registered sound identifiers in stable order.
func SoundIDs() []SoundID {
	ids := make([]SoundID, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
