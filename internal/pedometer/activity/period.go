package activity

import (
	"errors"
	"fmt"
	"time"
)

const DayKeyLayout = "2006-01-02"

var (
	ErrUnknownPeriod = errors.New("unknown period")
	ErrUnknownWindow = errors.New("unknown window")
)

// Range decides whether a calendar date belongs to a time span anchored at now.
type Range interface {
	Contains(date, now time.Time) bool
}

// Period is a calendar aligned span used to evaluate goals.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p Period) Validate() error {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
	}
}

func (p Period) Contains(date, now time.Time) bool {
	return IsInPeriod(date, now, p)
}

// Window is a rolling span of the trailing N days, used for statistics.
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

func ParseWindow(s string) (Window, error) {
	w := Window(s)
	if err := w.Validate(); err != nil {
		return "", err
	}
	return w, nil
}

func (w Window) Validate() error {
	if w.Days() == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownWindow, string(w))
	}
	return nil
}

// Days is the window length, 0 for an unknown window.
func (w Window) Days() int {
	switch w {
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	case WindowYear:
		return 365
	default:
		return 0
	}
}

func (w Window) Contains(date, now time.Time) bool {
	return InWindow(date, now, w)
}

// IsInPeriod reports whether date falls in the same calendar period as now,
// evaluated in now's location. Weeks follow ISO-8601 (Monday start).
func IsInPeriod(date, now time.Time, p Period) bool {
	date = date.In(now.Location())
	switch p {
	case PeriodDaily:
		y1, m1, d1 := date.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case PeriodWeekly:
		y1, w1 := date.ISOWeek()
		y2, w2 := now.ISOWeek()
		return y1 == y2 && w1 == w2
	case PeriodMonthly:
		return date.Year() == now.Year() && date.Month() == now.Month()
	default:
		return false
	}
}

// InWindow reports whether the day of date lies within the trailing window
// ending at now: startOfDay(date) in [now - N days, now].
func InWindow(date, now time.Time, w Window) bool {
	days := w.Days()
	if days == 0 {
		return false
	}
	day := StartOfDay(date.In(now.Location()))
	from := now.AddDate(0, 0, -days)
	return !day.Before(from) && !day.After(now)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDayKey parses a YYYY-MM-DD key as midnight in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DayKeyLayout, key, loc)
}

func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	return firstOfNext.AddDate(0, 0, -1).Day()
}
