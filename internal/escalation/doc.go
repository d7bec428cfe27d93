// Package escalation implements the timed alert state machine.
//
// A Controller advances through Standby, Warning and Critical phases on a
// fixed coarse tick, driving the tone synthesizer and emitting haptic cues.
// Transitions are level-triggered comparisons against elapsed time, so
// re-evaluation is idempotent and tick jitter cannot skip or double-fire a
// phase. Repeating pulses use last-fired-step counters against elapsed time
// for the same reason. Once disposed, ticks are no-ops.
package escalation
