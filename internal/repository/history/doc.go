// Package history implements persistence for recorded wake Events.
//
// The FileRepository stores events as a JSON array on disk and exposes a
// Repository interface that the pipeline depends on. The format is plain
// host-side bookkeeping, not a wire contract.
package history
