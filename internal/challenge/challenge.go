package challenge

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Kind selects a challenge variant.
type Kind string

const (
	// KindSequence is the numbered-target tap game.
	KindSequence Kind = "sequence"
	// KindTrace is the waypoint path-trace game.
	KindTrace Kind = "trace"
	// KindColorMatch is the timed color-tap game.
	KindColorMatch Kind = "color_match"
)

// ErrUnknownKind is returned when a challenge kind cannot be parsed.
var ErrUnknownKind = errors.New("unknown challenge kind")

// ParseKind maps a configuration string to a challenge kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequence", "":
		return KindSequence, nil
	case "trace":
		return KindTrace, nil
	case "color_match", "colormatch", "color-match":
		return KindColorMatch, nil
	default:
		return KindSequence, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Point is a position on the challenge canvas.
type Point struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Size is the challenge canvas extent.
type Size struct {
	Width  float64
	Height float64
}

// Outcome classifies one input event.
type Outcome int

const (
	// OutcomeNone means the input changed nothing, such as pointer
	// movement over empty canvas.
	OutcomeNone Outcome = iota
	// OutcomeMiss is a recoverable user error: wrong order or a decoy.
	// Progress is never reset by a miss.
	OutcomeMiss
	// OutcomeAdvance means progress was made.
	OutcomeAdvance
	// OutcomeComplete means this input finished the challenge.
	OutcomeComplete
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeMiss:
		return "miss"
	case OutcomeAdvance:
		return "advance"
	case OutcomeComplete:
		return "complete"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Challenge is the common contract of all dismissal mini-games.
// Implementations are safe for concurrent use; the host may feed input from
// a UI goroutine while internal timers fire elsewhere.
type Challenge interface {
	// Kind identifies the variant.
	Kind() Kind
	// GenerateLayout builds fresh session geometry for the canvas.
	GenerateLayout(size Size)
	// HandleInput processes one tap or pointer position.
	HandleInput(p Point) Outcome
	// IsComplete reports whether the challenge has been passed.
	IsComplete() bool
	// Close disposes internal timers. Idempotent; no timer remains armed
	// after it returns.
	Close()
}

// Options tunes challenge construction.
type Options struct {
	// Rng drives layout generation. Nil seeds from the clock.
	Rng *rand.Rand
}

// New constructs the configured challenge variant.
func New(kind Kind, opts Options) (Challenge, error) {
	rng := opts.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	switch kind {
	case KindSequence:
		return NewSequence(rng), nil
	case KindTrace:
		return NewTrace(rng), nil
	case KindColorMatch:
		return NewColorMatch(rng), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
