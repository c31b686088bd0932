package activity

// HistoryEntry is one finished activity session.
// Date is the canonical day-key (YYYY-MM-DD) used for grouping and sorting.
type HistoryEntry struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Steps     int     `json:"steps"`
	Distance  float64 `json:"distance"` // meters
	Kcal      float64 `json:"kcal"`
	UserName  string  `json:"userName"`
}

// ChartPoint is a single aggregated bucket, ready to be plotted.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MaxValue returns the highest value in the series, 0 for an empty one.
func MaxValue(points []ChartPoint) float64 {
	maxVal := 0.0
	for i, p := range points {
		if i == 0 || p.Value > maxVal {
			maxVal = p.Value
		}
	}
	return maxVal
}
