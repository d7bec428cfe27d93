package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestTimersFireAndCleanup verifies an armed timer runs once and removes
// itself from the set.
func TestTimersFireAndCleanup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	timers := NewTimers()

	var fired atomic.Int32

	fn := func() { fired.Add(1) }

	id := timers.ScheduleAfter(ctx, 10*time.Millisecond, fn)
	require.NotEmpty(t, id)
	require.Equal(t, 1, timers.Active())

	require.Eventually(t, func() bool {
		return fired.Load() == 1 && timers.Active() == 0
	}, time.Second, 5*time.Millisecond)
}

// TestTimersCancel verifies a cancelled timer never fires and that unknown
// IDs are silent no-ops.
func TestTimersCancel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	timers := NewTimers()

	var fired atomic.Int32

	id := timers.ScheduleAfter(ctx, 30*time.Millisecond, func() { fired.Add(1) })
	timers.Cancel(ctx, id)
	timers.Cancel(ctx, id)
	timers.Cancel(ctx, "timer-999")

	require.Zero(t, timers.Active())

	time.Sleep(60 * time.Millisecond)
	require.Zero(t, fired.Load())
}

// TestTimersScheduleAtPast verifies past instants run immediately.
func TestTimersScheduleAtPast(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	timers := NewTimers()

	var fired atomic.Int32

	id := timers.ScheduleAt(ctx, time.Now().Add(-time.Second), func() { fired.Add(1) })
	require.Empty(t, id)

	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

// TestTimersScheduleAtPastAfterStop verifies stopped sets refuse past
// instants too instead of running them.
func TestTimersScheduleAtPastAfterStop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	timers := NewTimers()
	timers.Stop(ctx)

	var fired atomic.Int32

	id := timers.ScheduleAt(ctx, time.Now().Add(-time.Second), func() { fired.Add(1) })
	require.Empty(t, id)

	time.Sleep(30 * time.Millisecond)
	require.Zero(t, fired.Load())
}

// TestTimersStop verifies Stop disarms everything, blocks new arms and is
// idempotent.
func TestTimersStop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	timers := NewTimers()

	var fired atomic.Int32

	timers.ScheduleAfter(ctx, 30*time.Millisecond, func() { fired.Add(1) })
	timers.ScheduleAfter(ctx, 40*time.Millisecond, func() { fired.Add(1) })

	timers.Stop(ctx)
	timers.Stop(ctx)
	require.Zero(t, timers.Active())

	id := timers.ScheduleAfter(ctx, time.Millisecond, func() { fired.Add(1) })
	require.Empty(t, id)

	time.Sleep(60 * time.Millisecond)
	require.Zero(t, fired.Load())
}
