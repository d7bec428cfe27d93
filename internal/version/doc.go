// Package version carries the build metadata stamped into every wake
// binary via ldflags and attaches the shared `version` subcommand.
package version
