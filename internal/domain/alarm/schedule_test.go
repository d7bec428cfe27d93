package alarm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestNewScheduleValidation verifies that out-of-range time components are
// rejected at construction time instead of being clamped.
func TestNewScheduleValidation(t *testing.T) {
	t.Parallel()

	_, err := NewSchedule(TimeOfDay{Hour: 24, Minute: 0}, nil, true)
	require.ErrorIs(t, err, ErrHourOutOfRange)

	_, err = NewSchedule(TimeOfDay{Hour: -1, Minute: 0}, nil, true)
	require.ErrorIs(t, err, ErrHourOutOfRange)

	_, err = NewSchedule(TimeOfDay{Hour: 7, Minute: 60}, nil, true)
	require.ErrorIs(t, err, ErrMinuteOutOfRange)

	_, err = NewSchedule(TimeOfDay{Hour: 7, Minute: 30}, nil, true)
	require.NoError(t, err)
}

// TestParseTimeOfDay checks HH:MM parsing including range validation.
func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tod, err := ParseTimeOfDay("07:05")
	require.NoError(t, err)
	require.Equal(t, TimeOfDay{Hour: 7, Minute: 5}, tod)
	require.Equal(t, "07:05", tod.String())

	_, err = ParseTimeOfDay("25:00")
	require.ErrorIs(t, err, ErrHourOutOfRange)

	_, err = ParseTimeOfDay("0700")
	require.Error(t, err)
}

// TestNextFireDisabled verifies a disabled schedule never yields an instant.
func TestNextFireDisabled(t *testing.T) {
	t.Parallel()

	s, err := NewSchedule(TimeOfDay{Hour: 7, Minute: 0}, nil, false)
	require.NoError(t, err)

	_, ok := s.NextFire(time.Now())
	require.False(t, ok)
}

// TestNextFireOneTime covers the one-time schedule: same-day occurrence when
// still ahead, next day otherwise, and strictly-after semantics on an exact
// second match.
func TestNextFireOneTime(t *testing.T) {
	t.Parallel()

	s, err := NewSchedule(TimeOfDay{Hour: 7, Minute: 30}, nil, true)
	require.NoError(t, err)

	// Wednesday 2025-01-15.
	morning := time.Date(2025, time.January, 15, 6, 0, 0, 0, time.UTC)

	next, ok := s.NextFire(morning)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, time.January, 15, 7, 30, 0, 0, time.UTC), next)

	evening := time.Date(2025, time.January, 15, 20, 0, 0, 0, time.UTC)

	next, ok = s.NextFire(evening)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, time.January, 16, 7, 30, 0, 0, time.UTC), next)

	// Exactly at the scheduled second: must roll to tomorrow, never return now.
	exact := time.Date(2025, time.January, 15, 7, 30, 0, 0, time.UTC)

	next, ok = s.NextFire(exact)
	require.True(t, ok)
	require.True(t, next.After(exact))
	require.Equal(t, exact.AddDate(0, 0, 1), next)
}

// TestNextFireOneTimeWithin24Hours asserts the one-time result is always
// strictly in the future and within the next 24 hours.
func TestNextFireOneTimeWithin24Hours(t *testing.T) {
	t.Parallel()

	s, err := NewSchedule(TimeOfDay{Hour: 13, Minute: 45}, nil, true)
	require.NoError(t, err)

	now := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
	for hour := 0; hour < 24; hour++ {
		at := now.Add(time.Duration(hour) * time.Hour)

		next, ok := s.NextFire(at)
		require.True(t, ok)
		require.True(t, next.After(at))
		require.LessOrEqual(t, next.Sub(at), 24*time.Hour)
		require.Equal(t, 13, next.Hour())
		require.Equal(t, 45, next.Minute())
	}
}

// TestNextFireRepeating covers the per-weekday minimum: on Wednesday 08:00
// with repeat days Monday and Friday at 07:00, the next instant is Friday
// 07:00 because Monday's occurrence already passed this week.
func TestNextFireRepeating(t *testing.T) {
	t.Parallel()

	s, err := NewSchedule(
		TimeOfDay{Hour: 7, Minute: 0},
		NewWeekdays(time.Monday, time.Friday),
		true,
	)
	require.NoError(t, err)

	// Wednesday 2025-01-15 08:00.
	now := time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC)
	require.Equal(t, time.Wednesday, now.Weekday())

	next, ok := s.NextFire(now)
	require.True(t, ok)
	require.Equal(t, time.Friday, next.Weekday())
	require.Equal(t, time.Date(2025, time.January, 17, 7, 0, 0, 0, time.UTC), next)
}

// TestNextFireRepeatingSameDay checks that a repeat day matching today still
// fires today when the time of day is ahead, and next week when it passed.
func TestNextFireRepeatingSameDay(t *testing.T) {
	t.Parallel()

	s, err := NewSchedule(
		TimeOfDay{Hour: 7, Minute: 0},
		NewWeekdays(time.Wednesday),
		true,
	)
	require.NoError(t, err)

	before := time.Date(2025, time.January, 15, 6, 0, 0, 0, time.UTC)

	next, ok := s.NextFire(before)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, time.January, 15, 7, 0, 0, 0, time.UTC), next)

	after := time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC)

	next, ok = s.NextFire(after)
	require.True(t, ok)
	require.Equal(t, time.Date(2025, time.January, 22, 7, 0, 0, 0, time.UTC), next)
}

// TestNextFireRepeatingIsMinimum verifies the full-set result equals the
// minimum over singleton-set candidates, independent of iteration order.
func TestNextFireRepeatingIsMinimum(t *testing.T) {
	t.Parallel()

	days := NewWeekdays(
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	)

	s, err := NewSchedule(TimeOfDay{Hour: 5, Minute: 15}, days, true)
	require.NoError(t, err)

	now := time.Date(2025, time.March, 8, 12, 0, 0, 0, time.UTC)

	next, ok := s.NextFire(now)
	require.True(t, ok)

	for day := range days {
		single, err := NewSchedule(TimeOfDay{Hour: 5, Minute: 15}, NewWeekdays(day), true)
		require.NoError(t, err)

		candidate, ok := single.NextFire(now)
		require.True(t, ok)
		require.False(t, candidate.Before(next))
	}
}

// TestWeekdaysClone verifies Clone produces an independent set and handles nil.
func TestWeekdaysClone(t *testing.T) {
	t.Parallel()

	require.Nil(t, Weekdays(nil).Clone())

	original := NewWeekdays(time.Monday)
	cloned := original.Clone()
	cloned[time.Friday] = struct{}{}

	require.False(t, original.Contains(time.Friday))
	require.True(t, cloned.Contains(time.Monday))
}

// TestParseWeekday checks full names, abbreviations and failure on unknowns.
func TestParseWeekday(t *testing.T) {
	t.Parallel()

	day, err := ParseWeekday("Friday")
	require.NoError(t, err)
	require.Equal(t, time.Friday, day)

	day, err = ParseWeekday("mon")
	require.NoError(t, err)
	require.Equal(t, time.Monday, day)

	_, err = ParseWeekday("someday")
	require.ErrorIs(t, err, ErrInvalidWeekday)
}
