package activity

import (
	"errors"
	"fmt"
)

var ErrUnknownMetric = errors.New("unknown metric")

// Metric is the quantity aggregated over history entries.
type Metric string

const (
	MetricSteps    Metric = "steps"
	MetricDistance Metric = "distance"
	MetricCalories Metric = "calories"
)

var AllMetrics = []Metric{MetricSteps, MetricDistance, MetricCalories}

func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m Metric) Validate() error {
	switch m {
	case MetricSteps, MetricDistance, MetricCalories:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMetric, string(m))
	}
}

// Value extracts the metric from a single entry. Unknown metrics yield 0.
func (m Metric) Value(e HistoryEntry) float64 {
	switch m {
	case MetricSteps:
		return float64(e.Steps)
	case MetricDistance:
		return e.Distance
	case MetricCalories:
		return e.Kcal
	default:
		return 0
	}
}

// Unit is the display unit of the metric.
func (m Metric) Unit() string {
	switch m {
	case MetricSteps:
		return "歩"
	case MetricDistance:
		return "km"
	case MetricCalories:
		return "kcal"
	default:
		return ""
	}
}

func (m Metric) String() string {
	return string(m)
}
