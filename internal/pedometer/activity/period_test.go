package activity_test

import (
	"testing"
	"time"

	"github.com/2beens/pedometer/internal/pedometer/activity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, key string) time.Time {
	t.Helper()
	d, err := activity.ParseDayKey(key, time.UTC)
	require.NoError(t, err)
	return d
}

func TestIsInPeriod_Daily(t *testing.T) {
	now := time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)
	assert.True(t, activity.IsInPeriod(day(t, "2025-07-01"), now, activity.PeriodDaily))
	assert.False(t, activity.IsInPeriod(day(t, "2025-06-30"), now, activity.PeriodDaily))
	assert.False(t, activity.IsInPeriod(day(t, "2024-07-01"), now, activity.PeriodDaily))
}

func TestIsInPeriod_WeeklyUsesISOWeeks(t *testing.T) {
	// Wednesday
	now := time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC)
	assert.True(t, activity.IsInPeriod(day(t, "2025-06-30"), now, activity.PeriodWeekly), "monday")
	assert.True(t, activity.IsInPeriod(day(t, "2025-07-06"), now, activity.PeriodWeekly), "sunday")
	assert.False(t, activity.IsInPeriod(day(t, "2025-06-29"), now, activity.PeriodWeekly))
	assert.False(t, activity.IsInPeriod(day(t, "2025-07-07"), now, activity.PeriodWeekly))

	// ISO week 1 of 2026 starts on 2025-12-29
	newYear := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, activity.IsInPeriod(day(t, "2025-12-29"), newYear, activity.PeriodWeekly))
	assert.False(t, activity.IsInPeriod(day(t, "2025-12-28"), newYear, activity.PeriodWeekly))
}

func TestIsInPeriod_Monthly(t *testing.T) {
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, activity.IsInPeriod(day(t, "2025-07-01"), now, activity.PeriodMonthly))
	assert.True(t, activity.IsInPeriod(day(t, "2025-07-31"), now, activity.PeriodMonthly))
	assert.False(t, activity.IsInPeriod(day(t, "2025-06-30"), now, activity.PeriodMonthly))
	assert.False(t, activity.IsInPeriod(day(t, "2024-07-15"), now, activity.PeriodMonthly))
}

func TestIsInPeriod_UnknownNeverMatches(t *testing.T) {
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	assert.False(t, activity.IsInPeriod(now, now, activity.Period("yearly")))
	assert.False(t, activity.InWindow(now, now, activity.Window("decade")))
}

func TestInWindow_Rolling(t *testing.T) {
	now := time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)

	assert.True(t, activity.InWindow(day(t, "2025-07-10"), now, activity.WindowWeek))
	assert.True(t, activity.InWindow(day(t, "2025-07-04"), now, activity.WindowWeek))
	assert.False(t, activity.InWindow(day(t, "2025-07-03"), now, activity.WindowWeek))
	assert.False(t, activity.InWindow(day(t, "2025-07-11"), now, activity.WindowWeek))

	// not calendar aligned
	assert.True(t, activity.InWindow(day(t, "2025-06-15"), now, activity.WindowMonth))
	assert.False(t, activity.InWindow(day(t, "2025-06-10"), now, activity.WindowMonth))

	assert.True(t, activity.InWindow(day(t, "2024-07-15"), now, activity.WindowYear))
	assert.False(t, activity.InWindow(day(t, "2024-07-10"), now, activity.WindowYear))
}

func TestWindow_Days(t *testing.T) {
	assert.Equal(t, 7, activity.WindowWeek.Days())
	assert.Equal(t, 30, activity.WindowMonth.Days())
	assert.Equal(t, 365, activity.WindowYear.Days())
	assert.Equal(t, 0, activity.Window("x").Days())
}

func TestParsers(t *testing.T) {
	p, err := activity.ParsePeriod("weekly")
	require.NoError(t, err)
	assert.Equal(t, activity.PeriodWeekly, p)
	_, err = activity.ParsePeriod("hourly")
	assert.ErrorIs(t, err, activity.ErrUnknownPeriod)

	w, err := activity.ParseWindow("year")
	require.NoError(t, err)
	assert.Equal(t, activity.WindowYear, w)
	_, err = activity.ParseWindow("day")
	assert.ErrorIs(t, err, activity.ErrUnknownWindow)

	m, err := activity.ParseMetric("calories")
	require.NoError(t, err)
	assert.Equal(t, activity.MetricCalories, m)
	assert.Equal(t, "kcal", m.Unit())
	_, err = activity.ParseMetric("heartbeats")
	assert.ErrorIs(t, err, activity.ErrUnknownMetric)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, activity.DaysInMonth(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 28, activity.DaysInMonth(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, activity.DaysInMonth(time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, activity.DaysInMonth(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseDayKey(t *testing.T) {
	d, err := activity.ParseDayKey("2025-07-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", activity.DayKey(d))

	for _, bad := range []string{"", "2025/07/01", "2025-13-01", "2025-02-30", "yesterday"} {
		_, err := activity.ParseDayKey(bad, time.UTC)
		assert.Error(t, err, bad)
	}
}
