package activity

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// CurrentValue is the goal metric total over the goal's current period.
func CurrentValue(goal Goal, entries []HistoryEntry, now time.Time) float64 {
	return Sum(FilterByPeriod(entries, goal.Period, now), goal.Metric)
}

// Progress is the completion ratio in [0, 1].
// A goal with a non-positive target has no measurable progress and yields 0.
func Progress(goal Goal, entries []HistoryEntry, now time.Time) float64 {
	if !(goal.TargetValue > 0) {
		return 0
	}
	ratio := CurrentValue(goal, entries, now) / goal.TargetValue
	if math.IsNaN(ratio) || ratio < 0 {
		return 0
	}
	return math.Min(ratio, 1)
}

func Remaining(goal Goal, entries []HistoryEntry, now time.Time) float64 {
	return math.Max(0, goal.TargetValue-CurrentValue(goal, entries, now))
}

// DailyTarget spreads the goal target over the days of its period.
func DailyTarget(goal Goal, now time.Time) float64 {
	switch goal.Period {
	case PeriodWeekly:
		return goal.TargetValue / 7
	case PeriodMonthly:
		return goal.TargetValue / float64(DaysInMonth(now))
	default:
		return goal.TargetValue
	}
}

// RelevantEntries are the entries counted towards the goal, newest day first.
func RelevantEntries(goal Goal, entries []HistoryEntry, now time.Time) []HistoryEntry {
	relevant := FilterByPeriod(entries, goal.Period, now)
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Date > relevant[j].Date
	})
	return relevant
}

// GoalSeries buckets the goal metric for charting: per hour of today for a
// daily goal, per day over the trailing 7 days (weekly) or the month's day
// count (monthly). Points are in chronological order.
func GoalSeries(goal Goal, entries []HistoryEntry, now time.Time) []ChartPoint {
	switch goal.Period {
	case PeriodDaily:
		return hourlySeries(goal.Metric, entries, now)
	case PeriodWeekly:
		return dailySeries(goal.Metric, entries, now, 7)
	case PeriodMonthly:
		return dailySeries(goal.Metric, entries, now, DaysInMonth(now))
	default:
		return nil
	}
}

func hourlySeries(m Metric, entries []HistoryEntry, now time.Time) []ChartPoint {
	today := DayKey(now)
	perHour := make(map[int][]HistoryEntry)
	for _, e := range entries {
		if e.Date != today {
			continue
		}
		hour, ok := StartHour(e)
		if !ok {
			continue
		}
		perHour[hour] = append(perHour[hour], e)
	}

	points := make([]ChartPoint, 0, now.Hour()+1)
	for hour := 0; hour <= now.Hour(); hour++ {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf("%02d:00", hour),
			Value: Sum(perHour[hour], m),
		})
	}
	return points
}

func dailySeries(m Metric, entries []HistoryEntry, now time.Time, days int) []ChartPoint {
	groups := GroupByDay(entries)
	points := make([]ChartPoint, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -i)
		points[days-1-i] = ChartPoint{
			Label: day.Format("01/02"),
			Value: Sum(groups[DayKey(day)], m),
		}
	}
	return points
}

var timeOfDayLayouts = []string{"15:04:05", "15:04"}

// StartHour returns the hour of the entry's start time-of-day.
func StartHour(e HistoryEntry) (int, bool) {
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, e.StartTime); err == nil {
			return t.Hour(), true
		}
	}
	return 0, false
}
