package activity

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// Sum adds up the metric over all entries. Steps are summed as integers.
func Sum(entries []HistoryEntry, m Metric) float64 {
	if m == MetricSteps {
		return float64(SumSteps(entries))
	}
	values := make(stats.Float64Data, 0, len(entries))
	for _, e := range entries {
		values = append(values, m.Value(e))
	}
	total, err := values.Sum()
	if err != nil {
		// empty input
		return 0
	}
	return total
}

func SumSteps(entries []HistoryEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Steps
	}
	return total
}

// GroupByDay groups entries by their day-key.
func GroupByDay(entries []HistoryEntry) map[string][]HistoryEntry {
	groups := make(map[string][]HistoryEntry)
	for _, e := range entries {
		groups[e.Date] = append(groups[e.Date], e)
	}
	return groups
}

// DayKeys returns the group keys in ascending (chronological) order.
func DayKeys(groups map[string][]HistoryEntry) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AveragePerDay divides the metric total by the number of distinct days.
// The steps average is truncated like an integer division.
func AveragePerDay(entries []HistoryEntry, m Metric) float64 {
	days := len(GroupByDay(entries))
	if days == 0 {
		return 0
	}
	if m == MetricSteps {
		return float64(SumSteps(entries) / days)
	}
	return Sum(entries, m) / float64(days)
}

// MaxPerDay is the highest per-day total of the metric.
func MaxPerDay(entries []HistoryEntry, m Metric) float64 {
	groups := GroupByDay(entries)
	perDay := make(stats.Float64Data, 0, len(groups))
	for _, dayEntries := range groups {
		perDay = append(perDay, Sum(dayEntries, m))
	}
	maxVal, err := perDay.Max()
	if err != nil {
		return 0
	}
	return maxVal
}
