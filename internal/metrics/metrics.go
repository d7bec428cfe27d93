// Package metrics registers prometheus instrumentation for the wake
// pipeline. All observe helpers are nil-safe so library code can call them
// whether or not the host initialised metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "wake_"

var (
	registerOnce sync.Once

	alarmsFired      prometheus.Counter
	phaseTransitions *prometheus.CounterVec

	challengesCompleted *prometheus.CounterVec
	challengeMisses     *prometheus.CounterVec

	cancellations prometheus.Counter
	snoozes       prometheus.Counter

	overrideLatency   prometheus.Histogram
	dismissalDuration *prometheus.HistogramVec
)

// Init registers all pipeline metrics with the provided registerer,
// typically prometheus.DefaultRegisterer. Safe to call more than once.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		alarmsFired = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "alarms_fired_total",
			Help: "Total escalation sessions started",
		})
		phaseTransitions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "phase_transitions_total",
				Help: "Escalation phase transitions by phase",
			},
			[]string{"phase"},
		)
		challengesCompleted = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "challenges_completed_total",
				Help: "Completed dismissal challenges by kind",
			},
			[]string{"kind"},
		)
		challengeMisses = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "challenge_misses_total",
				Help: "Recoverable challenge input errors by kind",
			},
			[]string{"kind"},
		)
		cancellations = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "sessions_cancelled_total",
			Help: "Escalation sessions cancelled before dismissal",
		})
		snoozes = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "snoozes_total",
			Help: "Snooze re-entries scheduled",
		})
		overrideLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "override_latency_seconds",
			Help:    "Seconds from alarm fire to override request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		})
		dismissalDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dismissal_duration_seconds",
				Help:    "Seconds from alarm fire to challenge completion by kind",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"kind"},
		)

		reg.MustRegister(
			alarmsFired, phaseTransitions,
			challengesCompleted, challengeMisses,
			cancellations, snoozes,
			overrideLatency, dismissalDuration,
		)
	})
}

// AlarmFired counts a started escalation session.
func AlarmFired() {
	if alarmsFired != nil {
		alarmsFired.Inc()
	}
}

// PhaseTransition counts one escalation phase change.
func PhaseTransition(phase string) {
	if phaseTransitions != nil {
		phaseTransitions.WithLabelValues(phase).Inc()
	}
}

// ChallengeCompleted counts a passed dismissal challenge.
func ChallengeCompleted(kind string) {
	if challengesCompleted != nil {
		challengesCompleted.WithLabelValues(kind).Inc()
	}
}

// ChallengeMiss counts a recoverable challenge input error.
func ChallengeMiss(kind string) {
	if challengeMisses != nil {
		challengeMisses.WithLabelValues(kind).Inc()
	}
}

// SessionCancelled counts an externally cancelled session.
func SessionCancelled() {
	if cancellations != nil {
		cancellations.Inc()
	}
}

// SnoozeScheduled counts a snooze re-entry.
func SnoozeScheduled() {
	if snoozes != nil {
		snoozes.Inc()
	}
}

// OverrideLatency records the elapsed time from fire to override request.
func OverrideLatency(elapsed time.Duration) {
	if overrideLatency != nil {
		overrideLatency.Observe(elapsed.Seconds())
	}
}

// DismissalDuration records the elapsed time from fire to completion.
func DismissalDuration(kind string, elapsed time.Duration) {
	if dismissalDuration != nil {
		dismissalDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}
