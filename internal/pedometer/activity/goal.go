package activity

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidGoalTarget = errors.New("目標値は0より大きい値を入力してください")

// Goal is a user defined target for one metric over a calendar period.
type Goal struct {
	ID          string    `json:"id"`
	Metric      Metric    `json:"targetType"`
	TargetValue float64   `json:"targetValue"`
	Period      Period    `json:"periodType"`
	CreatedAt   time.Time `json:"createdAt"`
	IsActive    bool      `json:"isActive"`
}

type NewGoalParams struct {
	Metric      string  `json:"targetType" validate:"required,oneof=steps distance calories"`
	TargetValue float64 `json:"targetValue" validate:"gt=0"`
	Period      string  `json:"periodType" validate:"required,oneof=daily weekly monthly"`
}

// NewGoal validates params and returns a new active goal.
// A non-positive target is reported before any other problem.
func NewGoal(params NewGoalParams, id string, createdAt time.Time) (Goal, error) {
	if err := validate.Struct(params); err != nil {
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			return Goal{}, err
		}
		for _, fe := range vErrs {
			if fe.Field() == "TargetValue" {
				return Goal{}, fmt.Errorf("%w (got %v)", ErrInvalidGoalTarget, params.TargetValue)
			}
		}
		if _, mErr := ParseMetric(params.Metric); mErr != nil {
			return Goal{}, mErr
		}
		if _, pErr := ParsePeriod(params.Period); pErr != nil {
			return Goal{}, pErr
		}
		return Goal{}, err
	}

	return Goal{
		ID:          id,
		Metric:      Metric(params.Metric),
		TargetValue: params.TargetValue,
		Period:      Period(params.Period),
		CreatedAt:   createdAt,
		IsActive:    true,
	}, nil
}

// ActiveGoal returns the newest active goal for the metric.
func ActiveGoal(goals []Goal, m Metric) (Goal, bool) {
	var (
		found Goal
		ok    bool
	)
	for _, g := range goals {
		if !g.IsActive || g.Metric != m {
			continue
		}
		if !ok || g.CreatedAt.After(found.CreatedAt) {
			found, ok = g, true
		}
	}
	return found, ok
}

// ActiveGoals returns all active goals, newest first.
func ActiveGoals(goals []Goal) []Goal {
	active := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if g.IsActive {
			active = append(active, g)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active
}
