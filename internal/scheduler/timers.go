package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dawnkit/wake-pipeline/internal/logger"
)

// timerEntry tracks one armed timer.
type timerEntry struct {
	timer     *time.Timer
	expiresAt time.Time
}

// Timers arms callbacks at exact instants.
//
// Each armed timer gets an ID for cancellation; fired and cancelled timers
// clean themselves up. Stop disarms everything and is idempotent.
type Timers struct {
	// mu protects the entry map and the ID counter.
	mu      sync.Mutex
	entries map[string]*timerEntry
	nextID  int64
	stopped bool
}

// NewTimers creates an empty timer set.
func NewTimers() *Timers {
	return &Timers{
		entries: make(map[string]*timerEntry),
	}
}

// ScheduleAfter arms fn to run once after the delay and returns its ID.
func (t *Timers) ScheduleAfter(ctx context.Context, delay time.Duration, fn func()) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return ""
	}

	t.nextID++
	id := fmt.Sprintf("timer-%d", t.nextID)

	entry := &timerEntry{
		expiresAt: time.Now().Add(delay),
	}

	entry.timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		delete(t.entries, id)
		t.mu.Unlock()

		fn()
	})

	t.entries[id] = entry

	logger.DebugKV(ctx, "Timer armed", "id", id, "delay", delay)

	return id
}

// ScheduleAt arms fn to run at the given instant. Instants already in the
// past run on their own goroutine immediately, unless the set is stopped.
func (t *Timers) ScheduleAt(ctx context.Context, when time.Time, fn func()) string {
	delay := time.Until(when)
	if delay < 0 {
		t.mu.Lock()
		stopped := t.stopped
		t.mu.Unlock()

		if stopped {
			return ""
		}

		logger.WarnKV(ctx, "Timer instant already passed, running now", "when", when)

		go fn()

		return ""
	}

	return t.ScheduleAfter(ctx, delay, fn)
}

// Cancel disarms the identified timer. Unknown IDs are a no-op.
func (t *Timers) Cancel(ctx context.Context, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, ok := t.entries[id]; ok {
		entry.timer.Stop()
		delete(t.entries, id)

		logger.DebugKV(ctx, "Timer cancelled", "id", id)
	}
}

// Active returns how many timers are currently armed.
func (t *Timers) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}

// Stop disarms all timers and refuses further scheduling. Idempotent.
func (t *Timers) Stop(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}

	t.stopped = true

	for id, entry := range t.entries {
		entry.timer.Stop()
		delete(t.entries, id)
	}

	logger.Debug(ctx, "All timers disarmed")
}
