package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/dawnkit/wake-pipeline/internal/config"
	"github.com/dawnkit/wake-pipeline/internal/domain/alarm"
	"github.com/dawnkit/wake-pipeline/internal/logger"
	"github.com/dawnkit/wake-pipeline/internal/pipeline"
	"github.com/dawnkit/wake-pipeline/internal/scheduler"
)

// armedAlarm pairs one config entry with its resolved schedule.
type armedAlarm struct {
	entry    config.AlarmConfig
	schedule alarm.Schedule
	timerID  string
	nextFire time.Time
	// expired marks a one-time alarm that already fired.
	expired bool
}

// Resolver owns the timer per alarm. Every fire re-arms the next
// occurrence, and a minute-level sweep re-arms anything that lost its
// timer, so a missed callback delays an alarm by at most one sweep.
type Resolver struct {
	timers *scheduler.Timers
	pipe   *pipeline.Pipeline

	mu     sync.Mutex
	alarms []*armedAlarm
}

// NewResolver resolves schedules for every entry and keeps the valid ones.
// Entries that fail to parse are logged and skipped; Validate normally
// rejects them before this point.
func NewResolver(
	ctx context.Context,
	entries []config.AlarmConfig,
	timers *scheduler.Timers,
	pipe *pipeline.Pipeline,
) *Resolver {
	resolver := &Resolver{
		timers: timers,
		pipe:   pipe,
	}

	for _, entry := range entries {
		schedule, err := entry.Schedule()
		if err != nil {
			logger.ErrorKV(ctx, "Skipping unparseable alarm", "time", entry.Time, "error", err)

			continue
		}

		resolver.alarms = append(resolver.alarms, &armedAlarm{
			entry:    entry,
			schedule: schedule,
		})
	}

	return resolver
}

// ArmAll arms a timer for every alarm with an upcoming occurrence.
func (r *Resolver) ArmAll(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, armed := range r.alarms {
		r.armLocked(ctx, armed)
	}
}

// armLocked points the alarm's timer at its next occurrence. Callers hold mu.
func (r *Resolver) armLocked(ctx context.Context, armed *armedAlarm) {
	next, ok := armed.schedule.NextFire(time.Now())
	if !ok {
		armed.timerID = ""

		return
	}

	armed.nextFire = next
	armed.timerID = r.timers.ScheduleAt(ctx, next, func() {
		r.fire(ctx, armed)
	})

	logger.InfoKV(ctx, "Alarm armed",
		"time", armed.schedule.Time, "days", armed.schedule.RepeatDays, "next", next)
}

// fire starts the wake session and immediately re-arms repeating alarms.
func (r *Resolver) fire(ctx context.Context, armed *armedAlarm) {
	err := r.pipe.StartEscalation(ctx, pipeline.Alarm{
		Sound:     armed.entry.SoundID(),
		Challenge: armed.entry.ChallengeKind(),
		Intensity: armed.entry.IntensityLevel(),
	})
	if err != nil {
		logger.ErrorKV(ctx, "Alarm failed to start", "time", armed.entry.Time, "error", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	armed.timerID = ""

	if len(armed.schedule.RepeatDays) > 0 {
		r.armLocked(ctx, armed)
	} else {
		armed.expired = true
	}
}

// Sweep re-arms enabled alarms whose timers are gone, or whose armed
// instant drifted past without firing.
func (r *Resolver) Sweep(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	for _, armed := range r.alarms {
		if !armed.schedule.Enabled || armed.expired {
			continue
		}

		if armed.timerID != "" && armed.nextFire.After(now) {
			continue
		}

		if armed.timerID != "" {
			r.timers.Cancel(ctx, armed.timerID)
		}

		logger.WarnKV(ctx, "Sweep re-arming alarm", "time", armed.schedule.Time)
		r.armLocked(ctx, armed)
	}
}

// Armed returns how many alarms currently hold a timer.
func (r *Resolver) Armed() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0

	for _, armed := range r.alarms {
		if armed.timerID != "" {
			count++
		}
	}

	return count
}
