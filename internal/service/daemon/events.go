package daemon

import (
	"context"

	"github.com/dawnkit/wake-pipeline/internal/challenge"
	"github.com/dawnkit/wake-pipeline/internal/domain/wake"
	"github.com/dawnkit/wake-pipeline/internal/escalation"
	"github.com/dawnkit/wake-pipeline/internal/logger"
)

// logEvents surfaces pipeline milestones in the daemon log. A headless
// daemon has no screen to push them to; the log is the audit trail.
type logEvents struct {
	ctx context.Context
}

func (e logEvents) PhaseChanged(phase escalation.Phase) {
	logger.InfoKV(e.ctx, "Escalation phase changed", "phase", phase)
}

func (e logEvents) OverrideAvailable() {
	logger.Info(e.ctx, "Override window opened")
}

func (e logEvents) ChallengeRequested(kind challenge.Kind) {
	logger.InfoKV(e.ctx, "Dismissal challenge requested", "kind", kind)
}

func (e logEvents) ChallengeCompleted(event wake.Event) {
	logger.InfoKV(e.ctx, "Wake-up dismissed",
		"challenge", event.Challenge, "duration", event.Duration(), "misses", event.Misses)
}

func (e logEvents) Cancelled() {
	logger.Info(e.ctx, "Wake session cancelled")
}

// logCues records haptic pulses the host hardware would play.
type logCues struct {
	ctx context.Context
}

func (c logCues) HapticPulse(class escalation.HapticClass) {
	logger.DebugKV(c.ctx, "Haptic pulse", "class", class)
}
