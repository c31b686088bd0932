package service

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/2beens/pedometer/internal/cache"
	"github.com/2beens/pedometer/internal/pedometer/activity"
	"github.com/2beens/pedometer/internal/telemetry/metrics"
	"github.com/2beens/pedometer/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var ErrNoProfile = errors.New("no user profile, set one first")

type activityStore interface {
	ListEntries(ctx context.Context) ([]activity.HistoryEntry, error)
	AddEntry(ctx context.Context, entry activity.HistoryEntry) error
	ListGoals(ctx context.Context) ([]activity.Goal, error)
	GetGoal(ctx context.Context, id string) (*activity.Goal, error)
	AddGoal(ctx context.Context, goal activity.Goal) error
	GetProfile(ctx context.Context) (*activity.UserProfile, error)
	SaveProfile(ctx context.Context, profile activity.UserProfile) error
}

// Service loads activity data from the store and runs it through the
// statistics and goal engine.
type Service struct {
	store          activityStore
	metricsManager *metrics.Manager
	statsCache     cache.Cache
	cacheTTL       time.Duration
}

type NewServiceParams struct {
	MetricsManager *metrics.Manager
	// StatsCache is optional, nil disables caching.
	StatsCache cache.Cache
	CacheTTL   time.Duration
}

func NewService(store activityStore, params NewServiceParams) *Service {
	metricsManager := params.MetricsManager
	if metricsManager == nil {
		metricsManager = metrics.NewManager("pedometer", "service", prometheus.NewRegistry())
	}
	return &Service{
		store:          store,
		metricsManager: metricsManager,
		statsCache:     params.StatsCache,
		cacheTTL:       params.CacheTTL,
	}
}

// GoalProgress is the state of one goal at a reference instant.
type GoalProgress struct {
	Goal      activity.Goal `json:"goal"`
	Current   float64       `json:"current"`
	Progress  float64       `json:"progress"`
	Remaining float64       `json:"remaining"`
	Unit      string        `json:"unit"`
}

type GoalDetail struct {
	GoalProgress
	DailyTarget     float64                 `json:"dailyTarget"`
	Series          []activity.ChartPoint   `json:"series"`
	SeriesMax       float64                 `json:"seriesMax"`
	RelevantEntries []activity.HistoryEntry `json:"relevantEntries"`
}

func (s *Service) SetProfile(ctx context.Context, name string, weightKg float64) (_ *activity.UserProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.pedometer.set-profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	profile, err := activity.NewUserProfile(name, weightKg)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	log.Debugf("user profile saved: %s, %.1f kg", profile.Name, profile.WeightKg)
	return &profile, nil
}

func (s *Service) Profile(ctx context.Context) (*activity.UserProfile, error) {
	return s.store.GetProfile(ctx)
}

// RecordSession stores a finished session as a new history entry of the current user.
func (s *Service) RecordSession(ctx context.Context, session activity.Session) (_ *activity.HistoryEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.pedometer.record-session")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	profile, err := s.store.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoProfile, err)
	}

	entry, err := activity.NewEntry(uuid.NewString(), session, *profile)
	if err != nil {
		return nil, err
	}
	if session.DistanceMeters == nil {
		log.Warnf("session at %s has no distance, calories recorded as 0", entry.Date)
	}

	if err := s.store.AddEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}

	span.SetAttributes(attribute.String("entry.id", entry.ID))
	s.metricsManager.CounterEntriesRecorded.Inc()
	log.Debugf("history entry recorded: %s [%d steps]", entry.ID, entry.Steps)

	return &entry, nil
}

// History returns all stored entries, as the store orders them.
func (s *Service) History(ctx context.Context) ([]activity.HistoryEntry, error) {
	return s.loadEntries(ctx, time.Local)
}

// AddGoal validates and stores a new active goal. The previously active goal
// of the same metric is deactivated by the store.
func (s *Service) AddGoal(ctx context.Context, params activity.NewGoalParams, now time.Time) (_ *activity.Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.pedometer.add-goal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	goal, err := activity.NewGoal(params, uuid.NewString(), now)
	if err != nil {
		return nil, err
	}
	if err := s.store.AddGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("add goal: %w", err)
	}

	s.metricsManager.CounterGoalsCreated.WithLabelValues(string(goal.Metric), string(goal.Period)).Inc()
	log.Debugf("goal added: %s %s %v", goal.Period, goal.Metric, goal.TargetValue)

	return &goal, nil
}

func (s *Service) Goals(ctx context.Context) ([]activity.Goal, error) {
	return s.store.ListGoals(ctx)
}

// GoalsOverview computes the progress of every active goal at now, newest goal first.
func (s *Service) GoalsOverview(ctx context.Context, now time.Time) (_ []GoalProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.pedometer.goals-overview")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var (
		goals   []activity.Goal
		entries []activity.HistoryEntry
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goals, err = s.store.ListGoals(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.loadEntries(gCtx, now.Location())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	active := activity.ActiveGoals(goals)
	s.metricsManager.GaugeActiveGoals.Set(float64(len(active)))

	overview := make([]GoalProgress, 0, len(active))
	for _, goal := range active {
		overview = append(overview, goalProgress(goal, entries, now))
	}
	return overview, nil
}

func (s *Service) GoalDetail(ctx context.Context, goalID string, now time.Time) (_ *GoalDetail, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.pedometer.goal-detail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", goalID))

	var (
		goal    *activity.Goal
		entries []activity.HistoryEntry
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goal, err = s.store.GetGoal(gCtx, goalID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.loadEntries(gCtx, now.Location())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	series := activity.GoalSeries(*goal, entries, now)
	return &GoalDetail{
		GoalProgress:    goalProgress(*goal, entries, now),
		DailyTarget:     activity.DailyTarget(*goal, now),
		Series:          series,
		SeriesMax:       activity.MaxValue(series),
		RelevantEntries: activity.RelevantEntries(*goal, entries, now),
	}, nil
}

// Stats computes the statistics of the rolling window ending at now.
// Results are cached when a cache is configured.
func (s *Service) Stats(ctx context.Context, window activity.Window, metric activity.Metric, now time.Time) (_ *activity.StatsResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.pedometer.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("stats.window", string(window)),
		attribute.String("stats.metric", string(metric)),
	)

	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := metric.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.loadEntries(ctx, now.Location())
	if err != nil {
		return nil, err
	}

	key := statsCacheKey(entries, window, metric, now)
	if res, found := s.cachedStats(ctx, key); found {
		span.SetAttributes(attribute.Bool("stats.cached", true))
		return res, nil
	}

	start := time.Now()
	res := activity.ComputeStats(entries, window, metric, now)
	s.metricsManager.HistStatsComputeDuration.WithLabelValues(string(window)).Observe(time.Since(start).Seconds())
	s.metricsManager.CounterStatsComputed.WithLabelValues(string(window), string(metric)).Inc()

	s.cacheStats(ctx, key, res)
	return &res, nil
}

// ExportCSV writes the entries of the window ending at now as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, window activity.Window, now time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.pedometer.export-csv")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := window.Validate(); err != nil {
		return err
	}

	entries, err := s.loadEntries(ctx, now.Location())
	if err != nil {
		return err
	}
	if err := activity.WriteCSV(w, entries, window, now); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	s.metricsManager.CounterCSVExports.Inc()
	return nil
}

// loadEntries lists all entries and reports the ones the engine will skip.
func (s *Service) loadEntries(ctx context.Context, loc *time.Location) ([]activity.HistoryEntry, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	invalid := activity.InvalidEntries(entries, loc)
	for _, e := range invalid {
		log.Warnf("history entry [%s] has unparseable date [%s], skipping", e.ID, e.Date)
	}
	s.metricsManager.CounterSkippedUnparsable.Add(float64(len(invalid)))

	return entries, nil
}

func goalProgress(goal activity.Goal, entries []activity.HistoryEntry, now time.Time) GoalProgress {
	return GoalProgress{
		Goal:      goal,
		Current:   activity.CurrentValue(goal, entries, now),
		Progress:  activity.Progress(goal, entries, now),
		Remaining: activity.Remaining(goal, entries, now),
		Unit:      goal.Metric.Unit(),
	}
}
