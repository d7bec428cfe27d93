// Package pipeline orchestrates one wake-up from alarm fire to dismissal.
//
// A Pipeline owns the escalation controller and the dismissal challenge for
// the active session and enforces the single-session invariant: starting a
// new escalation fully stops whatever was running. Hosts observe progress
// through the Events interface and feed user input back in; snooze re-entry
// is just a delayed fresh start with the same parameters.
package pipeline
