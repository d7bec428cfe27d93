// Package alarm contains core domain types for alarm scheduling.
//
// It defines TimeOfDay (the wall-clock firing time), Weekdays (the repeat
// set) and Schedule, whose NextFire method resolves the next absolute firing
// instant. Schedules are validated at construction and immutable afterwards;
// a new firing instant must be resolved after any edit.
package alarm
