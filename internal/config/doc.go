// Package config loads and persists the YAML settings shared by the wake
// binaries: the alarm list plus daemon-level knobs such as the history file
// location and the metrics listen address.
package config
