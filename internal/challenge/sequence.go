package challenge

import (
	"math/rand"
	"sync"
)

const (
	// DefaultSequenceTargets is how many numbered targets are placed.
	DefaultSequenceTargets = 6

	// tapRadius is how close a tap must land to count as touching a
	// target or circle.
	tapRadius = 30.0
)

// Sequence is the numbered-target challenge: tap targets 1..N in ascending
// order. A mis-ordered tap signals a miss without resetting progress.
type Sequence struct {
	rng *rand.Rand

	// mu protects session state below.
	mu      sync.Mutex
	targets []Point
	next    int
	misses  int
}

// NewSequence prepares a sequence challenge; call GenerateLayout before use.
func NewSequence(rng *rand.Rand) *Sequence {
	return &Sequence{rng: rng}
}

// Kind implements Challenge.
func (s *Sequence) Kind() Kind {
	return KindSequence
}

// GenerateLayout places the numbered targets with separation-guaranteed
// rejection sampling and resets progress.
func (s *Sequence) GenerateLayout(size Size) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.targets = scatterPoints(s.rng, size, DefaultSequenceTargets, MinSeparation)
	s.next = 0
	s.misses = 0
}

// HandleInput resolves a tap. Tapping the expected target advances;
// tapping any other target is a recoverable miss; empty canvas is ignored.
func (s *Sequence) HandleInput(p Point) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.targets) {
		return OutcomeNone
	}

	tapped := -1

	for i, target := range s.targets {
		if p.DistanceTo(target) <= tapRadius {
			tapped = i

			break
		}
	}

	switch {
	case tapped < 0:
		return OutcomeNone
	case tapped != s.next:
		s.misses++

		return OutcomeMiss
	default:
		s.next++

		if s.next == len(s.targets) {
			return OutcomeComplete
		}

		return OutcomeAdvance
	}
}

// IsComplete implements Challenge.
func (s *Sequence) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.targets) > 0 && s.next >= len(s.targets)
}

// Close implements Challenge. The sequence variant owns no timers.
func (s *Sequence) Close() {}

// Targets returns the placed target positions in numeric order.
func (s *Sequence) Targets() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Point(nil), s.targets...)
}

// NextTarget returns the zero-based index of the next expected target.
func (s *Sequence) NextTarget() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.next
}

// Misses returns how many mis-ordered taps occurred.
func (s *Sequence) Misses() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.misses
}
