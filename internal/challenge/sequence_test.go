package challenge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSequenceOrderedCompletion walks the happy path: targets tapped in
// ascending order complete the challenge.
func TestSequenceOrderedCompletion(t *testing.T) {
	t.Parallel()

	s := NewSequence(testRng())
	s.GenerateLayout(Size{Width: 600, Height: 800})

	targets := s.Targets()
	require.Len(t, targets, DefaultSequenceTargets)

	for i, target := range targets {
		outcome := s.HandleInput(target)

		if i == len(targets)-1 {
			require.Equal(t, OutcomeComplete, outcome)
		} else {
			require.Equal(t, OutcomeAdvance, outcome)
		}
	}

	require.True(t, s.IsComplete())
	require.Zero(t, s.Misses())

	// Input after completion changes nothing.
	require.Equal(t, OutcomeNone, s.HandleInput(targets[0]))
}

// TestSequenceMisorderedTap verifies a wrong-order tap signals a miss
// without resetting progress.
func TestSequenceMisorderedTap(t *testing.T) {
	t.Parallel()

	s := NewSequence(testRng())
	s.GenerateLayout(Size{Width: 600, Height: 800})

	targets := s.Targets()

	require.Equal(t, OutcomeAdvance, s.HandleInput(targets[0]))
	require.Equal(t, 1, s.NextTarget())

	// Tapping target 4 while 2 is expected: miss, progress kept.
	require.Equal(t, OutcomeMiss, s.HandleInput(targets[3]))
	require.Equal(t, 1, s.NextTarget())
	require.Equal(t, 1, s.Misses())

	require.Equal(t, OutcomeAdvance, s.HandleInput(targets[1]))
	require.Equal(t, 2, s.NextTarget())
}

// TestSequenceEmptyCanvasTap verifies taps on empty canvas are ignored.
func TestSequenceEmptyCanvasTap(t *testing.T) {
	t.Parallel()

	s := NewSequence(testRng())
	s.GenerateLayout(Size{Width: 600, Height: 800})

	// A corner of the inset region is guaranteed target-free by the
	// placement inset.
	require.Equal(t, OutcomeNone, s.HandleInput(Point{X: 0, Y: 0}))
	require.Zero(t, s.Misses())
	require.Zero(t, s.NextTarget())
}

// TestSequenceRelayoutResetsProgress verifies a fresh layout restarts the
// session geometry and counters.
func TestSequenceRelayoutResetsProgress(t *testing.T) {
	t.Parallel()

	s := NewSequence(testRng())
	s.GenerateLayout(Size{Width: 600, Height: 800})
	require.Equal(t, OutcomeAdvance, s.HandleInput(s.Targets()[0]))

	s.GenerateLayout(Size{Width: 600, Height: 800})
	require.Zero(t, s.NextTarget())
	require.Zero(t, s.Misses())
	require.False(t, s.IsComplete())
}
