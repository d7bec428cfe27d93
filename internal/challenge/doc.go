// Package challenge implements the dismissal verification mini-games.
//
// Three variants (sequence-tap, path-trace, color-match) sit behind one
// polymorphic interface so the host treats the choice as configuration.
// Each variant owns its generated geometry for the session's lifetime and
// disposes every timer on completion or cancellation; wrong inputs are
// recoverable signals, never errors.
package challenge
