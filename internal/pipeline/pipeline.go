package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dawnkit/wake-pipeline/internal/challenge"
	"github.com/dawnkit/wake-pipeline/internal/domain/wake"
	"github.com/dawnkit/wake-pipeline/internal/escalation"
	"github.com/dawnkit/wake-pipeline/internal/logger"
	"github.com/dawnkit/wake-pipeline/internal/metrics"
	"github.com/dawnkit/wake-pipeline/internal/repository/history"
	"github.com/dawnkit/wake-pipeline/internal/scheduler"
	"github.com/dawnkit/wake-pipeline/internal/synth"
)

const (
	// DefaultSnoozeDelay is the fixed wait before a snoozed alarm
	// re-enters the pipeline.
	DefaultSnoozeDelay = 5 * time.Minute

	// Default challenge canvas, matching a phone-shaped host surface.
	defaultCanvasWidth  = 300.0
	defaultCanvasHeight = 500.0
)

// ErrPipelineClosed is returned when starting a session on a closed pipeline.
var ErrPipelineClosed = errors.New("pipeline closed")

// Alarm carries the per-invocation parameters of one wake-up.
type Alarm struct {
	// Sound identifies the tone profile.
	Sound synth.SoundID
	// Challenge selects the dismissal variant.
	Challenge challenge.Kind
	// Intensity is the alarm strength.
	Intensity escalation.Intensity
}

// Events is the host surface for pipeline milestones.
// Implementations must not block; calls arrive from internal goroutines.
type Events interface {
	PhaseChanged(phase escalation.Phase)
	OverrideAvailable()
	ChallengeRequested(kind challenge.Kind)
	ChallengeCompleted(event wake.Event)
	Cancelled()
}

// NopEvents discards all events.
type NopEvents struct{}

func (NopEvents) PhaseChanged(escalation.Phase)     {}
func (NopEvents) OverrideAvailable()                {}
func (NopEvents) ChallengeRequested(challenge.Kind) {}
func (NopEvents) ChallengeCompleted(wake.Event)     {}
func (NopEvents) Cancelled()                        {}

// Options configures a Pipeline.
type Options struct {
	// Sounder drives tone playback; usually a *synth.Engine.
	Sounder escalation.Sounder
	// Cues receives haptic side effects. Nil discards them.
	Cues escalation.Cues
	// Events receives host notifications. Nil discards them.
	Events Events
	// History records completed wake-ups. Nil disables recording.
	History history.Repository
	// Actor is stamped onto every recorded wake event.
	Actor wake.Actor
	// SnoozeDelay overrides DefaultSnoozeDelay when positive.
	SnoozeDelay time.Duration
	// Canvas overrides the default challenge canvas when non-zero.
	Canvas challenge.Size
	// Rng drives challenge layout. Nil seeds from the clock.
	Rng *rand.Rand
}

// Pipeline runs wake-up sessions one at a time.
type Pipeline struct {
	sounder     escalation.Sounder
	cues        escalation.Cues
	events      Events
	history     history.Repository
	actor       wake.Actor
	snoozeDelay time.Duration
	canvas      challenge.Size
	rng         *rand.Rand
	timers      *scheduler.Timers

	// mu protects the active session state below.
	mu         sync.Mutex
	controller *escalation.Controller
	chall      challenge.Challenge
	alarm      Alarm
	firedAt    time.Time
	misses     int
	closed     bool
}

// New builds a pipeline around the provided collaborators.
func New(opts Options) *Pipeline {
	events := opts.Events
	if events == nil {
		events = NopEvents{}
	}

	snoozeDelay := opts.SnoozeDelay
	if snoozeDelay <= 0 {
		snoozeDelay = DefaultSnoozeDelay
	}

	canvas := opts.Canvas
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = challenge.Size{Width: defaultCanvasWidth, Height: defaultCanvasHeight}
	}

	return &Pipeline{
		sounder:     opts.Sounder,
		cues:        opts.Cues,
		events:      events,
		history:     opts.History,
		actor:       opts.Actor,
		snoozeDelay: snoozeDelay,
		canvas:      canvas,
		rng:         opts.Rng,
		timers:      scheduler.NewTimers(),
	}
}

// controllerEvents forwards escalation milestones to the host and metrics.
type controllerEvents struct {
	p *Pipeline
}

func (e controllerEvents) PhaseChanged(phase escalation.Phase) {
	metrics.PhaseTransition(phase.String())
	e.p.events.PhaseChanged(phase)
}

func (e controllerEvents) OverrideAvailable() {
	e.p.events.OverrideAvailable()
}

// StartEscalation begins a fresh session for the alarm, first fully
// stopping any session already running. An unknown sound identifier is a
// configuration error; nothing else fails.
func (p *Pipeline) StartEscalation(ctx context.Context, alarm Alarm) error {
	profile, err := synth.Profile(alarm.Sound)
	if err != nil {
		return fmt.Errorf("resolve sound: %w", err)
	}

	if _, err = challenge.ParseKind(string(alarm.Challenge)); err != nil {
		return fmt.Errorf("resolve challenge: %w", err)
	}

	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()

		return ErrPipelineClosed
	}

	p.stopSessionLocked(ctx)

	p.alarm = alarm
	p.firedAt = time.Now()
	p.misses = 0
	p.controller = escalation.NewController(
		p.sounder, p.cues, controllerEvents{p: p}, profile, alarm.Intensity,
	)

	controller := p.controller
	p.mu.Unlock()

	controller.Start(ctx)
	metrics.AlarmFired()

	logger.InfoKV(ctx, "Wake session started",
		"sound", alarm.Sound, "challenge", alarm.Challenge, "intensity", alarm.Intensity)

	return nil
}

// RequestOverride accepts the user's override request, silencing escalation
// and opening the dismissal challenge. It reports false when no session is
// active or the override window has not opened yet.
func (p *Pipeline) RequestOverride(ctx context.Context) bool {
	p.mu.Lock()
	controller := p.controller
	p.mu.Unlock()

	if controller == nil || !controller.RequestOverride(ctx) {
		return false
	}

	p.mu.Lock()

	// The session may have changed hands while the lock was released: a
	// snooze fire or Close can swap or tear down the controller between
	// the accept above and this point. Hand the challenge over only when
	// the accepted controller is still the active one; otherwise leave
	// whatever replaced it untouched.
	if p.closed || p.controller != controller {
		p.mu.Unlock()

		return false
	}

	p.controller = nil

	metrics.OverrideLatency(time.Since(p.firedAt))

	kind := p.alarm.Challenge

	chall, err := challenge.New(kind, challenge.Options{Rng: p.rng})
	if err != nil {
		// Kind was validated at start; fall back rather than strand
		// the user with no way to dismiss.
		logger.Warnf(ctx, "Falling back to sequence challenge: %v", err)

		kind = challenge.KindSequence
		chall, _ = challenge.New(kind, challenge.Options{Rng: p.rng})
	}

	chall.GenerateLayout(p.canvas)
	p.chall = chall
	p.mu.Unlock()

	logger.InfoKV(ctx, "Challenge requested", "kind", kind)
	p.events.ChallengeRequested(kind)

	return true
}

// SubmitInput feeds one tap or pointer position into the active challenge.
// Misses are recoverable signals; completion records the wake event,
// disposes the session and notifies the host.
func (p *Pipeline) SubmitInput(ctx context.Context, point challenge.Point) challenge.Outcome {
	p.mu.Lock()
	chall := p.chall
	p.mu.Unlock()

	if chall == nil {
		return challenge.OutcomeNone
	}

	outcome := chall.HandleInput(point)

	switch outcome {
	case challenge.OutcomeMiss:
		p.mu.Lock()
		p.misses++
		p.mu.Unlock()

		metrics.ChallengeMiss(string(chall.Kind()))
	case challenge.OutcomeComplete:
		p.completeChallenge(ctx, chall)
	case challenge.OutcomeNone, challenge.OutcomeAdvance:
	}

	return outcome
}

// completeChallenge finalizes a passed challenge exactly once.
func (p *Pipeline) completeChallenge(ctx context.Context, chall challenge.Challenge) {
	p.mu.Lock()

	if p.chall != chall {
		p.mu.Unlock()

		return
	}

	event := wake.Event{
		FiredAt:     p.firedAt,
		CompletedAt: time.Now(),
		Sound:       string(p.alarm.Sound),
		Challenge:   string(chall.Kind()),
		Intensity:   p.alarm.Intensity.String(),
		Misses:      p.misses,
		Actor:       p.actor,
	}

	p.chall = nil
	p.controller = nil
	p.mu.Unlock()

	chall.Close()

	metrics.ChallengeCompleted(event.Challenge)
	metrics.DismissalDuration(event.Challenge, event.Duration())

	if p.history != nil {
		if err := p.history.Append(ctx, event); err != nil {
			logger.Errorf(ctx, "Failed to record wake event: %v", err)
		}
	}

	logger.InfoKV(ctx, "Wake-up completed",
		"challenge", event.Challenge, "duration", event.Duration(), "misses", event.Misses)

	p.events.ChallengeCompleted(event)
}

// Snooze schedules a fresh invocation of the last alarm after the snooze
// delay. It is plain re-entry, not special session state.
func (p *Pipeline) Snooze(ctx context.Context) {
	p.mu.Lock()
	alarm := p.alarm
	p.mu.Unlock()

	metrics.SnoozeScheduled()
	logger.InfoKV(ctx, "Snooze scheduled", "delay", p.snoozeDelay)

	p.timers.ScheduleAfter(ctx, p.snoozeDelay, func() {
		if err := p.StartEscalation(context.Background(), alarm); err != nil {
			logger.Errorf(context.Background(), "Snoozed alarm failed to start: %v", err)
		}
	})
}

// Cancel stops the active session from outside, if any, and notifies the
// host. Cancelling an idle pipeline is a no-op.
func (p *Pipeline) Cancel(ctx context.Context) {
	p.mu.Lock()

	active := p.controller != nil || p.chall != nil
	p.stopSessionLocked(ctx)
	p.mu.Unlock()

	if !active {
		return
	}

	metrics.SessionCancelled()
	logger.Info(ctx, "Wake session cancelled")
	p.events.Cancelled()
}

// Close tears the pipeline down: active session, snooze timers, everything.
// Idempotent; no timers or audio survive it.
func (p *Pipeline) Close(ctx context.Context) {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()

		return
	}

	p.closed = true
	p.stopSessionLocked(ctx)
	p.mu.Unlock()

	p.timers.Stop(ctx)

	logger.Info(ctx, "Pipeline closed")
}

// stopSessionLocked disposes the active controller and challenge.
// Callers hold mu.
func (p *Pipeline) stopSessionLocked(ctx context.Context) {
	if p.controller != nil {
		p.controller.Stop(ctx)
		p.controller = nil
	}

	if p.chall != nil {
		p.chall.Close()
		p.chall = nil
	}
}

// Session reports the escalation state of the active session, false when
// the pipeline is idle or already in the challenge stage.
func (p *Pipeline) Session() (escalation.Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.controller == nil {
		return escalation.Session{}, false
	}

	return p.controller.Session(), true
}

// ActiveChallenge returns the running challenge, if any.
func (p *Pipeline) ActiveChallenge() (challenge.Challenge, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.chall, p.chall != nil
}
