// Package wake contains the domain record for successful wake-ups.
//
// An Event marks one completed dismissal challenge; downstream sleep-pattern
// statistics are built from these timestamps.
package wake

import "time"

// Event is one recorded wake-up.
type Event struct {
	// FiredAt is when the alarm fired.
	FiredAt time.Time `json:"fired_at"`
	// CompletedAt is when the dismissal challenge was passed.
	CompletedAt time.Time `json:"completed_at"`
	// Sound is the alarm's tone identifier.
	Sound string `json:"sound"`
	// Challenge is the dismissal variant that gated this wake-up.
	Challenge string `json:"challenge"`
	// Intensity is the configured alarm strength.
	Intensity string `json:"intensity"`
	// Misses counts recoverable input errors during the challenge.
	Misses int `json:"misses"`
	// Actor records who dismissed the alarm on which machine.
	Actor Actor `json:"actor"`
}

// Duration returns how long dismissal took from firing to completion.
func (e Event) Duration() time.Duration {
	return e.CompletedAt.Sub(e.FiredAt)
}
