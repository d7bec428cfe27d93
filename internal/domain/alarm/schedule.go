package alarm

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrHourOutOfRange is returned when the hour is outside [0, 23].
	ErrHourOutOfRange = errors.New("hour must be between 0 and 23")
	// ErrMinuteOutOfRange is returned when the minute is outside [0, 59].
	ErrMinuteOutOfRange = errors.New("minute must be between 0 and 59")
	// ErrInvalidWeekday is returned when a repeat day cannot be parsed.
	ErrInvalidWeekday = errors.New("unknown weekday")
)

// TimeOfDay is a wall-clock firing time without a date component.
type TimeOfDay struct {
	// Hour is the hour of day in 24-hour format, 0 to 23.
	Hour int
	// Minute is the minute within the hour, 0 to 59.
	Minute int
}

// Validate checks the time components against their allowed ranges.
// Out-of-range values are rejected, never clamped, so callers can surface
// the mistake to whoever edited the schedule.
func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("%w: %d", ErrHourOutOfRange, t.Hour)
	}

	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("%w: %d", ErrMinuteOutOfRange, t.Minute)
	}

	return nil
}

// String renders the time in zero-padded HH:MM form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses a zero-padded or plain "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("time of day %q: want HH:MM", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time of day %q: %w", s, err)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time of day %q: %w", s, err)
	}

	tod := TimeOfDay{Hour: hour, Minute: minute}
	if err = tod.Validate(); err != nil {
		return TimeOfDay{}, err
	}

	return tod, nil
}

// Weekdays is the set of weekdays an alarm repeats on.
// An empty set means the alarm fires once.
type Weekdays map[time.Weekday]struct{}

// NewWeekdays builds a set from the provided days.
func NewWeekdays(days ...time.Weekday) Weekdays {
	set := make(Weekdays, len(days))
	for _, day := range days {
		set[day] = struct{}{}
	}

	return set
}

// ParseWeekday maps a lowercase English day name or its three-letter
// abbreviation to time.Weekday.
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	case "tuesday", "tue":
		return time.Tuesday, nil
	case "wednesday", "wed":
		return time.Wednesday, nil
	case "thursday", "thu":
		return time.Thursday, nil
	case "friday", "fri":
		return time.Friday, nil
	case "saturday", "sat":
		return time.Saturday, nil
	default:
		return time.Sunday, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
	}
}

// Contains reports whether the set includes the provided day.
func (w Weekdays) Contains(day time.Weekday) bool {
	_, ok := w[day]

	return ok
}

// Clone returns a copy of the set to avoid leaking internal references.
func (w Weekdays) Clone() Weekdays {
	if w == nil {
		return nil
	}

	cloned := make(Weekdays, len(w))
	for day := range w {
		cloned[day] = struct{}{}
	}

	return cloned
}

// String renders the set as sorted three-letter day names, Sunday first.
func (w Weekdays) String() string {
	days := make([]int, 0, len(w))
	for day := range w {
		days = append(days, int(day))
	}

	sort.Ints(days)

	names := make([]string, 0, len(days))
	for _, day := range days {
		names = append(names, time.Weekday(day).String()[:3])
	}

	return strings.Join(names, ",")
}

// Schedule describes when an alarm fires.
type Schedule struct {
	// Time is the wall-clock time of day the alarm fires.
	Time TimeOfDay
	// RepeatDays is the set of weekdays the alarm repeats on.
	// Empty means one-time.
	RepeatDays Weekdays
	// Enabled indicates whether the alarm should fire at all.
	Enabled bool
}

// NewSchedule validates the time of day and returns an immutable schedule.
// Malformed input is a construction-time error, the only error class this
// package propagates.
func NewSchedule(tod TimeOfDay, repeatDays Weekdays, enabled bool) (Schedule, error) {
	if err := tod.Validate(); err != nil {
		return Schedule{}, err
	}

	return Schedule{
		Time:       tod,
		RepeatDays: repeatDays.Clone(),
		Enabled:    enabled,
	}, nil
}

// Clone returns a copy of the schedule with its own repeat-day set.
func (s Schedule) Clone() Schedule {
	cloned := s
	cloned.RepeatDays = s.RepeatDays.Clone()

	return cloned
}

// NextFire resolves the next absolute firing instant strictly after now,
// in now's location. It returns false when the schedule is disabled.
//
// With no repeat days the result is today's occurrence if it is still ahead,
// otherwise tomorrow's. With repeat days, each selected weekday yields the
// earliest candidate strictly after now and the minimum across candidates
// wins; the result does not depend on set iteration order.
func (s Schedule) NextFire(now time.Time) (time.Time, bool) {
	if !s.Enabled {
		return time.Time{}, false
	}

	today := time.Date(
		now.Year(), now.Month(), now.Day(),
		s.Time.Hour, s.Time.Minute, 0, 0,
		now.Location(),
	)

	if len(s.RepeatDays) == 0 {
		// An exact match with now still rolls forward: "next" is strictly
		// in the future.
		if !today.After(now) {
			return today.AddDate(0, 0, 1), true
		}

		return today, true
	}

	var next time.Time

	for day := range s.RepeatDays {
		offset := (int(day) - int(now.Weekday()) + 7) % 7

		candidate := today.AddDate(0, 0, offset)
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 7)
		}

		if next.IsZero() || candidate.Before(next) {
			next = candidate
		}
	}

	return next, true
}
