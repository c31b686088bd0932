package activity

import "time"

// StatsResult holds the aggregates of a statistics window.
type StatsResult struct {
	Window Window `json:"window"`
	Metric Metric `json:"metric"`

	TotalSteps    int     `json:"totalSteps"`
	TotalDistance float64 `json:"totalDistance"`
	TotalCalories float64 `json:"totalCalories"`

	AverageStepsPerDay    int     `json:"averageStepsPerDay"`
	AverageDistancePerDay float64 `json:"averageDistancePerDay"`
	AverageCaloriesPerDay float64 `json:"averageCaloriesPerDay"`

	MaxStepsInOneDay    int     `json:"maxStepsInOneDay"`
	MaxDistanceInOneDay float64 `json:"maxDistanceInOneDay"`
	MaxCaloriesInOneDay float64 `json:"maxCaloriesInOneDay"`

	DaysWithData int          `json:"daysWithData"`
	ChartSeries  []ChartPoint `json:"chartSeries"`
}

// ComputeStats aggregates all metrics over the rolling window ending at now,
// and charts the selected metric with one point per day present.
func ComputeStats(entries []HistoryEntry, window Window, metric Metric, now time.Time) StatsResult {
	filtered := FilterByPeriod(entries, window, now)
	groups := GroupByDay(filtered)

	res := StatsResult{
		Window:                window,
		Metric:                metric,
		TotalSteps:            SumSteps(filtered),
		TotalDistance:         Sum(filtered, MetricDistance),
		TotalCalories:         Sum(filtered, MetricCalories),
		AverageStepsPerDay:    int(AveragePerDay(filtered, MetricSteps)),
		AverageDistancePerDay: AveragePerDay(filtered, MetricDistance),
		AverageCaloriesPerDay: AveragePerDay(filtered, MetricCalories),
		MaxStepsInOneDay:      int(MaxPerDay(filtered, MetricSteps)),
		MaxDistanceInOneDay:   MaxPerDay(filtered, MetricDistance),
		MaxCaloriesInOneDay:   MaxPerDay(filtered, MetricCalories),
		DaysWithData:          len(groups),
		ChartSeries:           []ChartPoint{},
	}

	for _, key := range DayKeys(groups) {
		res.ChartSeries = append(res.ChartSeries, ChartPoint{
			Label: chartLabel(key, window, now.Location()),
			Value: Sum(groups[key], metric),
		})
	}

	return res
}

func chartLabel(key string, window Window, loc *time.Location) string {
	date, err := ParseDayKey(key, loc)
	if err != nil {
		return key
	}
	if window == WindowYear {
		return date.Format("2006/01")
	}
	return date.Format("01/02")
}
