// Package daemon runs the resident wake service: it loads the alarm list,
// arms a timer per schedule, drives the escalation pipeline when an alarm
// fires and exposes Prometheus metrics while running.
package daemon
