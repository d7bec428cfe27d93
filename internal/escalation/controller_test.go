package escalation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dawnkit/wake-pipeline/internal/synth"
)

// fakeSounder records start/stop commands.
type fakeSounder struct {
	mu      sync.Mutex
	volumes []float64
	stops   int
	fail    bool
}

func (s *fakeSounder) Start(_ context.Context, _ synth.ToneProfile, volume float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return errors.New("device busy")
	}

	s.volumes = append(s.volumes, volume)

	return nil
}

func (s *fakeSounder) Stop(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stops++
}

func (s *fakeSounder) lastVolume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.volumes) == 0 {
		return -1
	}

	return s.volumes[len(s.volumes)-1]
}

// fakeCues counts pulses by class.
type fakeCues struct {
	mu     sync.Mutex
	pulses map[HapticClass]int
}

func newFakeCues() *fakeCues {
	return &fakeCues{pulses: make(map[HapticClass]int)}
}

func (c *fakeCues) HapticPulse(class HapticClass) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pulses[class]++
}

func (c *fakeCues) count(class HapticClass) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pulses[class]
}

// fakeEvents records milestone order.
type fakeEvents struct {
	mu  sync.Mutex
	log []string
}

func (e *fakeEvents) PhaseChanged(phase Phase) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log = append(e.log, "phase:"+phase.String())
}

func (e *fakeEvents) OverrideAvailable() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log = append(e.log, "override")
}

func (e *fakeEvents) entries() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.log...)
}

func newTestController(sounder *fakeSounder, cues *fakeCues, events *fakeEvents) *Controller {
	profile, _ := synth.Profile(synth.SoundChime)

	return NewController(sounder, cues, events, profile, IntensityModerate)
}

// TestPhaseIsPureFunctionOfElapsed verifies phase(6.5s) is Critical whether
// the session ticked every 50ms or jumped there in one step.
func TestPhaseIsPureFunctionOfElapsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	coarse := newTestController(&fakeSounder{}, newFakeCues(), &fakeEvents{})
	coarse.step(ctx, 6500*time.Millisecond)
	require.Equal(t, PhaseCritical, coarse.Session().Phase)

	fine := newTestController(&fakeSounder{}, newFakeCues(), &fakeEvents{})
	for elapsed := TickInterval; elapsed <= 6500*time.Millisecond; elapsed += TickInterval {
		fine.step(ctx, elapsed)
	}

	require.Equal(t, PhaseCritical, fine.Session().Phase)

	// Intermediate check: 4s is Warning, 2s is Standby.
	mid := newTestController(&fakeSounder{}, newFakeCues(), &fakeEvents{})
	mid.step(ctx, 2*time.Second)
	require.Equal(t, PhaseStandby, mid.Session().Phase)
	mid.step(ctx, 4*time.Second)
	require.Equal(t, PhaseWarning, mid.Session().Phase)
}

// TestPhaseTransitionSideEffects verifies the one-shot cues, synth volume
// changes and host events across the full escalation.
func TestPhaseTransitionSideEffects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sounder := &fakeSounder{}
	cues := newFakeCues()
	events := &fakeEvents{}
	c := newTestController(sounder, cues, events)

	c.step(ctx, 3050*time.Millisecond)
	require.Equal(t, PhaseWarning, c.Session().Phase)
	require.Equal(t, 1, cues.count(HapticWarning))
	require.Equal(t, warningVolume(IntensityModerate), sounder.lastVolume())

	c.step(ctx, 6050*time.Millisecond)
	require.Equal(t, PhaseCritical, c.Session().Phase)
	require.Equal(t, 1, cues.count(HapticHeavy))
	require.Equal(t, criticalVolume(IntensityModerate), sounder.lastVolume())

	c.step(ctx, 8050*time.Millisecond)
	require.True(t, c.Session().OverrideAvailable)

	require.Equal(t,
		[]string{"phase:warning", "phase:critical", "override"},
		events.entries())

	// Re-evaluation at a later elapsed is idempotent: no repeated
	// transition cues or events.
	c.step(ctx, 8100*time.Millisecond)
	require.Equal(t, 1, cues.count(HapticWarning))
	require.Equal(t, 1, cues.count(HapticHeavy))
	require.Len(t, events.entries(), 3)
}

// TestRepeatingPulsesFireOncePerInterval verifies the last-fired-step
// counter under jittery tick delivery: each half-second interval of
// Critical fires exactly one rigid pulse no matter how ticks land.
func TestRepeatingPulsesFireOncePerInterval(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cues := newFakeCues()
	c := newTestController(&fakeSounder{}, cues, &fakeEvents{})

	c.step(ctx, 6050*time.Millisecond)

	base := cues.count(HapticRigid)
	require.Equal(t, 1, base)

	// Jittered re-deliveries inside the same interval add nothing.
	c.step(ctx, 6060*time.Millisecond)
	c.step(ctx, 6090*time.Millisecond)
	c.step(ctx, 6490*time.Millisecond)
	require.Equal(t, base, cues.count(HapticRigid))

	// The next interval fires exactly once, even reached in one jump.
	c.step(ctx, 6510*time.Millisecond)
	require.Equal(t, base+1, cues.count(HapticRigid))

	c.step(ctx, 6530*time.Millisecond)
	require.Equal(t, base+1, cues.count(HapticRigid))
}

// TestWarningPulseInterval verifies the coarser light pulse during Warning.
func TestWarningPulseInterval(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cues := newFakeCues()
	c := newTestController(&fakeSounder{}, cues, &fakeEvents{})

	c.step(ctx, 3050*time.Millisecond)
	require.Equal(t, 1, cues.count(HapticLight))

	c.step(ctx, 3900*time.Millisecond)
	require.Equal(t, 1, cues.count(HapticLight))

	c.step(ctx, 4050*time.Millisecond)
	require.Equal(t, 2, cues.count(HapticLight))
}

// TestRequestOverrideLifecycle verifies gating before the window opens and
// the terminal stop semantics afterwards.
func TestRequestOverrideLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sounder := &fakeSounder{}
	cues := newFakeCues()
	c := newTestController(sounder, cues, &fakeEvents{})

	c.step(ctx, 5*time.Second)
	require.False(t, c.RequestOverride(ctx))

	c.step(ctx, 8050*time.Millisecond)
	require.True(t, c.RequestOverride(ctx))
	require.Positive(t, sounder.stops)

	// The session is gone: further overrides fail, further ticks are
	// no-ops with no trailing haptics.
	require.False(t, c.RequestOverride(ctx))

	rigid := cues.count(HapticRigid)
	c.step(ctx, 9*time.Second)
	require.Equal(t, rigid, cues.count(HapticRigid))
	require.Equal(t, PhaseCritical, c.Session().Phase)
}

// TestStopIdempotentAndDisposesTicks verifies external cancellation and the
// disposed guard on late ticks.
func TestStopIdempotentAndDisposesTicks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sounder := &fakeSounder{}
	cues := newFakeCues()
	c := newTestController(sounder, cues, &fakeEvents{})

	c.Start(ctx)
	c.Stop(ctx)
	c.Stop(ctx)

	require.Positive(t, sounder.stops)

	// A tick delivered after teardown must be a no-op, never resurrect
	// the synthesizer.
	starts := len(sounder.volumes)
	c.step(ctx, 4*time.Second)
	require.Len(t, sounder.volumes, starts)
	require.Equal(t, PhaseStandby, c.Session().Phase)

	// Start after dispose stays inert.
	c.Start(ctx)
	require.Equal(t, PhaseStandby, c.Session().Phase)
}

// TestEscalationContinuesWithoutAudio verifies a busy device degrades to
// haptics-only escalation instead of failing.
func TestEscalationContinuesWithoutAudio(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cues := newFakeCues()
	c := newTestController(&fakeSounder{fail: true}, cues, &fakeEvents{})

	c.step(ctx, 3050*time.Millisecond)
	require.Equal(t, PhaseWarning, c.Session().Phase)
	require.Equal(t, 1, cues.count(HapticWarning))

	c.step(ctx, 6050*time.Millisecond)
	require.Equal(t, PhaseCritical, c.Session().Phase)
}

// TestVolumeLadder pins the three-step volume mapping.
func TestVolumeLadder(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.3, warningVolume(IntensityGentle))
	require.Equal(t, 0.3, warningVolume(IntensityModerate))
	require.Equal(t, 0.5, warningVolume(IntensityIntense))

	require.Equal(t, 0.3, criticalVolume(IntensityGentle))
	require.Equal(t, 0.5, criticalVolume(IntensityModerate))
	require.Equal(t, 0.8, criticalVolume(IntensityIntense))
}

// TestVisualFunctionsDeterministic verifies same elapsed, same output, and
// sane ranges.
func TestVisualFunctionsDeterministic(t *testing.T) {
	t.Parallel()

	// 600ms and 3s land on the sine trough, where the raw value rounds
	// just below the lower bound without clamping.
	for _, elapsed := range []time.Duration{0, 600 * time.Millisecond, 700 * time.Millisecond, 3 * time.Second, time.Minute} {
		require.Equal(t, PulseAmplitude(elapsed), PulseAmplitude(elapsed))
		require.GreaterOrEqual(t, PulseAmplitude(elapsed), 0.2)
		require.LessOrEqual(t, PulseAmplitude(elapsed), 1.0)

		require.Equal(t, RingExpansion(elapsed), RingExpansion(elapsed))
		require.GreaterOrEqual(t, RingExpansion(elapsed), 0.0)
		require.Less(t, RingExpansion(elapsed), 1.0)
	}
}

// TestParseIntensity covers names, default and failure.
func TestParseIntensity(t *testing.T) {
	t.Parallel()

	i, err := ParseIntensity("Intense")
	require.NoError(t, err)
	require.Equal(t, IntensityIntense, i)

	i, err = ParseIntensity("")
	require.NoError(t, err)
	require.Equal(t, IntensityModerate, i)

	_, err = ParseIntensity("extreme")
	require.ErrorIs(t, err, ErrInvalidIntensity)
}
