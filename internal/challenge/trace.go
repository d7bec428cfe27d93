package challenge

import (
	"math/rand"
	"sync"
)

const (
	// DefaultTraceWaypoints is how many waypoints are placed on the path.
	DefaultTraceWaypoints = 5

	// hitRadius is how close the pointer must pass to visit a waypoint.
	hitRadius = 30.0
)

// Trace is the path-trace challenge: move the pointer through the waypoints
// in strict order. Pointer positions far from the current waypoint are not
// errors, just motion.
type Trace struct {
	rng *rand.Rand

	// mu protects session state below.
	mu        sync.Mutex
	waypoints []Point
	current   int
}

// NewTrace prepares a trace challenge; call GenerateLayout before use.
func NewTrace(rng *rand.Rand) *Trace {
	return &Trace{rng: rng}
}

// Kind implements Challenge.
func (t *Trace) Kind() Kind {
	return KindTrace
}

// GenerateLayout places the waypoint path and resets progress.
func (t *Trace) GenerateLayout(size Size) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.waypoints = scatterPoints(t.rng, size, DefaultTraceWaypoints, MinSeparation)
	t.current = 0
}

// HandleInput processes one pointer position from the continuous movement.
// Only the current not-yet-visited waypoint can be hit, enforcing order.
func (t *Trace) HandleInput(p Point) Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current >= len(t.waypoints) {
		return OutcomeNone
	}

	if p.DistanceTo(t.waypoints[t.current]) > hitRadius {
		return OutcomeNone
	}

	t.current++

	if t.current == len(t.waypoints) {
		return OutcomeComplete
	}

	return OutcomeAdvance
}

// IsComplete implements Challenge.
func (t *Trace) IsComplete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.waypoints) > 0 && t.current >= len(t.waypoints)
}

// Close implements Challenge. The trace variant owns no timers.
func (t *Trace) Close() {}

// Waypoints returns the path in visiting order.
func (t *Trace) Waypoints() []Point {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]Point(nil), t.waypoints...)
}

// Visited returns how many waypoints have been hit so far.
func (t *Trace) Visited() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.current
}
