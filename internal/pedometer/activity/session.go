package activity

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidSession = errors.New("invalid session")

const timeOfDayLayout = "15:04:05"

// Session is a finished tracked session, as reported by the step sensor.
type Session struct {
	Start          time.Time
	End            time.Time
	Steps          int
	DistanceMeters *float64
}

func (s Session) Validate() error {
	switch {
	case s.Start.IsZero() || s.End.IsZero():
		return fmt.Errorf("%w: missing start or end", ErrInvalidSession)
	case s.End.Before(s.Start):
		return fmt.Errorf("%w: end before start", ErrInvalidSession)
	case s.Steps < 0:
		return fmt.Errorf("%w: negative steps", ErrInvalidSession)
	case s.DistanceMeters != nil && *s.DistanceMeters < 0:
		return fmt.Errorf("%w: negative distance", ErrInvalidSession)
	}
	return nil
}

// NewEntry turns a finished session into a history entry for the profile.
// Calories fall back to 0 when they cannot be estimated.
func NewEntry(id string, s Session, profile UserProfile) (HistoryEntry, error) {
	if err := s.Validate(); err != nil {
		return HistoryEntry{}, err
	}

	distance := 0.0
	if s.DistanceMeters != nil {
		distance = *s.DistanceMeters
	}
	kcal, ok := EstimateKcal(s.DistanceMeters, &profile)
	if !ok {
		kcal = 0
	}

	return HistoryEntry{
		ID:        id,
		Date:      DayKey(s.Start),
		StartTime: s.Start.Format(timeOfDayLayout),
		EndTime:   s.End.Format(timeOfDayLayout),
		Steps:     s.Steps,
		Distance:  distance,
		Kcal:      kcal,
		UserName:  profile.Name,
	}, nil
}
