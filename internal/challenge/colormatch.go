package challenge

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// DefaultRequiredHits is how many target-colored circles must be
	// tapped to pass.
	DefaultRequiredHits = 5

	// DefaultRoundDuration is the timer after which the board is laid
	// out afresh. Accumulated hits survive the re-layout.
	DefaultRoundDuration = 15 * time.Second

	// colorMatchCircles is how many circles are scattered per round.
	colorMatchCircles = 8
	// colorMatchDecoys is the controlled minority of wrong-colored
	// circles among them.
	colorMatchDecoys = 3
)

// Color names a palette entry.
type Color string

// palette is the small fixed set of circle colors.
var palette = []Color{"red", "blue", "green", "yellow", "purple"}

// Circle is one tappable circle on the color-match board.
type Circle struct {
	Pos   Point
	Color Color
}

// ColorMatch is the timed color-tap challenge: tap the required number of
// target-colored circles before giving up. Decoy taps signal errors without
// resetting the score, and the round timer re-scatters the board without
// penalty.
type ColorMatch struct {
	rng   *rand.Rand
	round time.Duration

	// mu protects session state below.
	mu       sync.Mutex
	target   Color
	circles  []Circle
	size     Size
	hits     int
	required int
	misses   int
	deadline time.Time
	timer    *time.Timer
	disposed bool
}

// NewColorMatch prepares a color-match challenge; call GenerateLayout
// before use.
func NewColorMatch(rng *rand.Rand) *ColorMatch {
	return &ColorMatch{
		rng:      rng,
		round:    DefaultRoundDuration,
		required: DefaultRequiredHits,
	}
}

// Kind implements Challenge.
func (c *ColorMatch) Kind() Kind {
	return KindColorMatch
}

// GenerateLayout picks the target color on first use, scatters a fresh
// board and arms the round timer. Accumulated hits are kept.
func (c *ColorMatch) GenerateLayout(size Size) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}

	c.size = size
	c.relayoutLocked()
}

// relayoutLocked scatters circles and re-arms the timer. Callers hold mu.
func (c *ColorMatch) relayoutLocked() {
	if c.target == "" {
		c.target = palette[c.rng.Intn(len(palette))]
	}

	positions := scatterPoints(c.rng, c.size, colorMatchCircles, MinSeparation)
	c.circles = make([]Circle, len(positions))

	// Majority target-colored, a controlled minority of decoys, shuffled
	// so position never betrays color.
	for i, pos := range positions {
		color := c.target
		if i < colorMatchDecoys {
			color = c.decoyColor()
		}

		c.circles[i] = Circle{Pos: pos, Color: color}
	}

	c.rng.Shuffle(len(c.circles), func(i, j int) {
		c.circles[i], c.circles[j] = c.circles[j], c.circles[i]
	})

	if c.timer != nil {
		c.timer.Stop()
	}

	c.deadline = time.Now().Add(c.round)
	c.timer = time.AfterFunc(c.round, c.onRoundExpired)
}

// decoyColor draws any palette color other than the target.
func (c *ColorMatch) decoyColor() Color {
	for {
		color := palette[c.rng.Intn(len(palette))]
		if color != c.target {
			return color
		}
	}
}

// onRoundExpired re-scatters the board when the round timer fires.
// A timer landing after Close or completion is a no-op.
func (c *ColorMatch) onRoundExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || c.hits >= c.required {
		return
	}

	c.relayoutLocked()
}

// HandleInput resolves a tap: target circles score, decoys signal a miss,
// empty canvas is ignored.
func (c *ColorMatch) HandleInput(p Point) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || c.hits >= c.required {
		return OutcomeNone
	}

	for _, circle := range c.circles {
		if p.DistanceTo(circle.Pos) > tapRadius {
			continue
		}

		if circle.Color != c.target {
			c.misses++

			return OutcomeMiss
		}

		c.hits++

		if c.hits >= c.required {
			c.stopTimerLocked()

			return OutcomeComplete
		}

		return OutcomeAdvance
	}

	return OutcomeNone
}

// IsComplete implements Challenge.
func (c *ColorMatch) IsComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits >= c.required
}

// Close implements Challenge: disarms the round timer. Idempotent.
func (c *ColorMatch) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disposed = true
	c.stopTimerLocked()
}

// stopTimerLocked disarms the round timer. Callers hold mu.
func (c *ColorMatch) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Target returns the color the user must tap.
func (c *ColorMatch) Target() Color {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.target
}

// Circles returns the current board.
func (c *ColorMatch) Circles() []Circle {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Circle(nil), c.circles...)
}

// Hits returns the accumulated score.
func (c *ColorMatch) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits
}

// Misses returns how many decoy taps occurred.
func (c *ColorMatch) Misses() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.misses
}

// Deadline returns when the current round expires.
func (c *ColorMatch) Deadline() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.deadline
}
