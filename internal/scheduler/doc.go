// Package scheduler provides the timing machinery for arming alarms.
//
// Timers arms callbacks at exact instants and supports cancellation by ID;
// Cron runs the coarse recovery sweep that re-resolves schedules so an
// alarm missed while the process slept is re-armed within a minute.
package scheduler
