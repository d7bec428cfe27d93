package escalation

import (
	"context"
	"sync"
	"time"

	"github.com/dawnkit/wake-pipeline/internal/logger"
	"github.com/dawnkit/wake-pipeline/internal/synth"
)

// Escalation timing. Transitions are level-triggered on elapsed thresholds;
// any tick resolution at or below TickInterval preserves observable behavior.
const (
	// TickInterval is the controller's clock resolution.
	TickInterval = 50 * time.Millisecond
	// WarningAfter is when Standby gives way to Warning.
	WarningAfter = 3 * time.Second
	// CriticalAfter is when Warning gives way to Critical.
	CriticalAfter = 6 * time.Second
	// OverrideAfter is when the user may request override.
	OverrideAfter = 8 * time.Second

	// warningPulseEvery is the light haptic repeat interval during Warning.
	warningPulseEvery = time.Second
	// criticalPulseEvery is the rigid haptic repeat interval during Critical.
	criticalPulseEvery = 500 * time.Millisecond
)

// Sounder is the synthesizer surface the controller drives.
// *synth.Engine satisfies it.
type Sounder interface {
	Start(ctx context.Context, profile synth.ToneProfile, volume float64) error
	Stop(ctx context.Context)
}

// Controller runs one escalation session.
//
// The tick goroutine and the audio callback never share mutable state; the
// only cross-domain signal is an atomic start/stop command to the Sounder.
// Stop and RequestOverride are safe from any goroutine, and a tick delivered
// after teardown is a no-op.
type Controller struct {
	sounder   Sounder
	cues      Cues
	events    Events
	profile   synth.ToneProfile
	intensity Intensity

	// mu protects all session state below.
	mu                sync.Mutex
	phase             Phase
	overrideAvailable bool
	disposed          bool
	lastWarningStep   int
	lastCriticalStep  int
	elapsed           time.Duration
	startedAt         time.Time
	ticker            *time.Ticker
	done              chan struct{}
}

// NewController prepares a session in Standby. Nil cues or events are
// replaced with no-ops so tick processing never has to check.
func NewController(
	sounder Sounder,
	cues Cues,
	events Events,
	profile synth.ToneProfile,
	intensity Intensity,
) *Controller {
	if cues == nil {
		cues = NopCues{}
	}

	if events == nil {
		events = NopEvents{}
	}

	return &Controller{
		sounder:   sounder,
		cues:      cues,
		events:    events,
		profile:   profile,
		intensity: intensity,
		phase:     PhaseStandby,
	}
}

// Start launches the tick loop. Starting an already-started or disposed
// controller is a no-op.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()

	if c.disposed || c.ticker != nil {
		c.mu.Unlock()

		return
	}

	c.startedAt = time.Now()
	c.ticker = time.NewTicker(TickInterval)
	c.done = make(chan struct{})

	ticker, done := c.ticker, c.done
	c.mu.Unlock()

	logger.InfoKV(ctx, "Escalation started", "intensity", c.intensity)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.step(ctx, time.Since(c.startedAt))
			}
		}
	}()
}

// step evaluates all thresholds against the elapsed clock.
// Side effects are collected under the lock and emitted after releasing it
// so slow cue sinks cannot stall state transitions.
func (c *Controller) step(ctx context.Context, elapsed time.Duration) {
	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()

		return
	}

	c.elapsed = elapsed

	var (
		pulses     []HapticClass
		newPhases  []Phase
		overrideOn bool
		soundVol   = -1.0
	)

	if elapsed > WarningAfter && c.phase == PhaseStandby {
		c.phase = PhaseWarning
		pulses = append(pulses, HapticWarning)
		newPhases = append(newPhases, PhaseWarning)
		soundVol = warningVolume(c.intensity)
	}

	if elapsed > CriticalAfter && c.phase != PhaseCritical {
		c.phase = PhaseCritical
		pulses = append(pulses, HapticHeavy)
		newPhases = append(newPhases, PhaseCritical)
		soundVol = criticalVolume(c.intensity)
	}

	if elapsed > OverrideAfter && !c.overrideAvailable {
		c.overrideAvailable = true
		overrideOn = true

		pulses = append(pulses, HapticRigid)
	}

	// Repeating pulses track the last fired step explicitly: tick delivery
	// is not strictly periodic, so "every Nth tick" could skip or
	// double-fire an interval.
	switch c.phase {
	case PhaseWarning:
		if step := int(elapsed / warningPulseEvery); step > c.lastWarningStep {
			c.lastWarningStep = step

			pulses = append(pulses, HapticLight)
		}
	case PhaseCritical:
		if step := int(elapsed / criticalPulseEvery); step > c.lastCriticalStep {
			c.lastCriticalStep = step

			pulses = append(pulses, HapticRigid)
		}
	case PhaseStandby:
	}

	c.mu.Unlock()

	// The sounder start/stop is an atomic command, never an incremental
	// update stream. Losing the device degrades to haptics only.
	if soundVol >= 0 {
		c.sounder.Stop(ctx)

		if err := c.sounder.Start(ctx, c.profile, soundVol); err != nil {
			logger.Warnf(ctx, "Continuing without sound: %v", err)
		}
	}

	for _, class := range pulses {
		c.cues.HapticPulse(class)
	}

	if c.events != nil {
		for _, phase := range newPhases {
			logger.InfoKV(ctx, "Escalation phase changed", "phase", phase, "elapsed", elapsed)
			c.events.PhaseChanged(phase)
		}

		if overrideOn {
			logger.Info(ctx, "Override became available")
			c.events.OverrideAvailable()
		}
	}
}

// RequestOverride is the terminal user action: it silences the synthesizer
// and permanently disables tick processing. It reports false when the
// override window has not opened yet or the session is already gone.
func (c *Controller) RequestOverride(ctx context.Context) bool {
	c.mu.Lock()

	if c.disposed || !c.overrideAvailable {
		c.mu.Unlock()

		return false
	}

	c.teardownLocked()
	c.mu.Unlock()

	c.sounder.Stop(ctx)

	logger.Info(ctx, "Override accepted, escalation stopped")

	return true
}

// Stop cancels the session from outside. Idempotent; no side effects are
// observable after it returns apart from in-flight ticks hitting the
// disposed guard.
func (c *Controller) Stop(ctx context.Context) {
	c.mu.Lock()

	if c.disposed {
		c.mu.Unlock()

		return
	}

	c.teardownLocked()
	c.mu.Unlock()

	c.sounder.Stop(ctx)

	logger.Info(ctx, "Escalation stopped")
}

// teardownLocked marks the session disposed and stops the clock.
// Callers hold mu.
func (c *Controller) teardownLocked() {
	c.disposed = true

	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}

	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}

// Session returns a snapshot of the current session state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Session{
		Elapsed:           c.elapsed,
		Phase:             c.phase,
		OverrideAvailable: c.overrideAvailable,
		Intensity:         c.intensity,
	}
}
