package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/pedometer/internal/cache"
	"github.com/2beens/pedometer/internal/pedometer/activity"
	"github.com/2beens/pedometer/internal/pedometer/service"
	"github.com/2beens/pedometer/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC)

func testEntries() []activity.HistoryEntry {
	return []activity.HistoryEntry{
		{ID: "1", Date: "2025-07-01", StartTime: "09:00:00", EndTime: "09:30:00", Steps: 3000, Distance: 2000, Kcal: 21.0, UserName: "taro"},
		{ID: "2", Date: "2025-07-01", StartTime: "17:10:00", EndTime: "17:20:00", Steps: 1000, Distance: 500, Kcal: 5.25, UserName: "taro"},
	}
}

func newTestService(t *testing.T, statsCache cache.Cache) (*service.Service, *MockactivityStore, *metrics.Manager) {
	t.Helper()
	ctrl := gomock.NewController(t)
	storeMock := NewMockactivityStore(ctrl)
	metricsManager := metrics.NewTestManager()
	svc := service.NewService(storeMock, service.NewServiceParams{
		MetricsManager: metricsManager,
		StatsCache:     statsCache,
		CacheTTL:       time.Minute,
	})
	return svc, storeMock, metricsManager
}

func TestService_SetProfile(t *testing.T) {
	svc, storeMock, _ := newTestService(t, nil)
	ctx := context.Background()

	storeMock.EXPECT().SaveProfile(gomock.Any(), activity.UserProfile{Name: "taro", WeightKg: 60}).Return(nil)
	profile, err := svc.SetProfile(ctx, "taro", 60)
	require.NoError(t, err)
	assert.Equal(t, "taro", profile.Name)

	_, err = svc.SetProfile(ctx, "", 60)
	assert.ErrorIs(t, err, activity.ErrInvalidProfile)
	_, err = svc.SetProfile(ctx, "taro", -1)
	assert.ErrorIs(t, err, activity.ErrInvalidProfile)
}

func TestService_RecordSession(t *testing.T) {
	svc, storeMock, metricsManager := newTestService(t, nil)
	ctx := context.Background()

	distance := 5000.0
	session := activity.Session{
		Start:          time.Date(2025, 7, 1, 7, 0, 0, 0, time.UTC),
		End:            time.Date(2025, 7, 1, 7, 50, 0, 0, time.UTC),
		Steps:          6500,
		DistanceMeters: &distance,
	}

	storeMock.EXPECT().GetProfile(gomock.Any()).Return(&activity.UserProfile{Name: "taro", WeightKg: 60}, nil)
	var stored activity.HistoryEntry
	storeMock.EXPECT().AddEntry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry activity.HistoryEntry) error {
			stored = entry
			return nil
		},
	)

	entry, err := svc.RecordSession(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, stored, *entry)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "2025-07-01", entry.Date)
	assert.Equal(t, "07:00:00", entry.StartTime)
	assert.Equal(t, "07:50:00", entry.EndTime)
	assert.InDelta(t, 315.0, entry.Kcal, 1e-9)
	assert.Equal(t, "taro", entry.UserName)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterEntriesRecorded))
}

func TestService_RecordSession_NoProfile(t *testing.T) {
	svc, storeMock, _ := newTestService(t, nil)

	storeMock.EXPECT().GetProfile(gomock.Any()).Return(nil, errors.New("user profile not found"))
	_, err := svc.RecordSession(context.Background(), activity.Session{
		Start: testNow.Add(-time.Hour),
		End:   testNow,
	})
	assert.ErrorIs(t, err, service.ErrNoProfile)
}

func TestService_RecordSession_StoreFailure(t *testing.T) {
	svc, storeMock, metricsManager := newTestService(t, nil)

	storeMock.EXPECT().GetProfile(gomock.Any()).Return(&activity.UserProfile{Name: "taro", WeightKg: 60}, nil)
	storeMock.EXPECT().AddEntry(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := svc.RecordSession(context.Background(), activity.Session{
		Start: testNow.Add(-time.Hour),
		End:   testNow,
		Steps: 10,
	})
	assert.EqualError(t, err, "add entry: connection reset")
	assert.Zero(t, testutil.ToFloat64(metricsManager.CounterEntriesRecorded))
}

func TestService_AddGoal(t *testing.T) {
	svc, storeMock, metricsManager := newTestService(t, nil)
	ctx := context.Background()

	storeMock.EXPECT().AddGoal(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, goal activity.Goal) error {
			assert.True(t, goal.IsActive)
			assert.Equal(t, testNow, goal.CreatedAt)
			return nil
		},
	)

	goal, err := svc.AddGoal(ctx, activity.NewGoalParams{Metric: "steps", TargetValue: 8000, Period: "weekly"}, testNow)
	require.NoError(t, err)
	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, activity.PeriodWeekly, goal.Period)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterGoalsCreated.WithLabelValues("steps", "weekly")))
}

func TestService_AddGoal_ZeroTargetNeverStored(t *testing.T) {
	// no store expectations: any call fails the test
	svc, _, _ := newTestService(t, nil)

	_, err := svc.AddGoal(context.Background(), activity.NewGoalParams{Metric: "steps", TargetValue: 0, Period: "daily"}, testNow)
	assert.ErrorIs(t, err, activity.ErrInvalidGoalTarget)
}

func TestService_GoalsOverview(t *testing.T) {
	svc, storeMock, metricsManager := newTestService(t, nil)

	goals := []activity.Goal{
		{ID: "steps", Metric: activity.MetricSteps, TargetValue: 5000, Period: activity.PeriodDaily, CreatedAt: testNow.Add(-time.Hour), IsActive: true},
		{ID: "kcal", Metric: activity.MetricCalories, TargetValue: 10, Period: activity.PeriodWeekly, CreatedAt: testNow.Add(-2 * time.Hour), IsActive: true},
		{ID: "old", Metric: activity.MetricSteps, TargetValue: 100, Period: activity.PeriodDaily, CreatedAt: testNow.Add(-48 * time.Hour), IsActive: false},
	}
	storeMock.EXPECT().ListGoals(gomock.Any()).Return(goals, nil)
	storeMock.EXPECT().ListEntries(gomock.Any()).Return(testEntries(), nil)

	overview, err := svc.GoalsOverview(context.Background(), testNow)
	require.NoError(t, err)
	require.Len(t, overview, 2)

	assert.Equal(t, "steps", overview[0].Goal.ID)
	assert.InDelta(t, 0.8, overview[0].Progress, 1e-9)
	assert.Equal(t, 4000.0, overview[0].Current)
	assert.Equal(t, 1000.0, overview[0].Remaining)
	assert.Equal(t, "歩", overview[0].Unit)

	assert.Equal(t, "kcal", overview[1].Goal.ID)
	assert.Equal(t, 1.0, overview[1].Progress)
	assert.Zero(t, overview[1].Remaining)

	assert.Equal(t, 2.0, testutil.ToFloat64(metricsManager.GaugeActiveGoals))
}

func TestService_GoalsOverview_StoreError(t *testing.T) {
	svc, storeMock, _ := newTestService(t, nil)

	storeMock.EXPECT().ListGoals(gomock.Any()).Return(nil, errors.New("db down"))
	storeMock.EXPECT().ListEntries(gomock.Any()).Return(testEntries(), nil).AnyTimes()

	_, err := svc.GoalsOverview(context.Background(), testNow)
	assert.EqualError(t, err, "db down")
}

func TestService_GoalDetail(t *testing.T) {
	svc, storeMock, _ := newTestService(t, nil)

	goal := &activity.Goal{ID: "g1", Metric: activity.MetricDistance, TargetValue: 7000, Period: activity.PeriodWeekly, IsActive: true}
	storeMock.EXPECT().GetGoal(gomock.Any(), "g1").Return(goal, nil)
	storeMock.EXPECT().ListEntries(gomock.Any()).Return(testEntries(), nil)

	detail, err := svc.GoalDetail(context.Background(), "g1", testNow)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, detail.Current)
	assert.Equal(t, 4500.0, detail.Remaining)
	assert.Equal(t, 1000.0, detail.DailyTarget)
	require.Len(t, detail.Series, 7)
	assert.Equal(t, activity.ChartPoint{Label: "07/01", Value: 2500}, detail.Series[6])
	assert.Equal(t, 2500.0, detail.SeriesMax)
	assert.Len(t, detail.RelevantEntries, 2)
	assert.Equal(t, "km", detail.Unit)
}

func TestService_GoalDetail_NotFound(t *testing.T) {
	svc, storeMock, _ := newTestService(t, nil)
	errNotFound := errors.New("goal not found")

	storeMock.EXPECT().GetGoal(gomock.Any(), "nope").Return(nil, errNotFound)
	storeMock.EXPECT().ListEntries(gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := svc.GoalDetail(context.Background(), "nope", testNow)
	assert.ErrorIs(t, err, errNotFound)
}

func TestService_Stats(t *testing.T) {
	svc, storeMock, metricsManager := newTestService(t, nil)

	entries := append(testEntries(), activity.HistoryEntry{ID: "bad", Date: "07/01/2025", Steps: 99999})
	storeMock.EXPECT().ListEntries(gomock.Any()).Return(entries, nil)

	res, err := svc.Stats(context.Background(), activity.WindowWeek, activity.MetricSteps, testNow)
	require.NoError(t, err)
	assert.Equal(t, 4000, res.TotalSteps)
	assert.Equal(t, 4000, res.AverageStepsPerDay)
	assert.Equal(t, 4000, res.MaxStepsInOneDay)

	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterSkippedUnparsable))
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterStatsComputed.WithLabelValues("week", "steps")))
}

func TestService_Stats_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Stats(context.Background(), activity.Window("decade"), activity.MetricSteps, testNow)
	assert.ErrorIs(t, err, activity.ErrUnknownWindow)
	_, err = svc.Stats(context.Background(), activity.WindowWeek, activity.Metric("heartbeats"), testNow)
	assert.ErrorIs(t, err, activity.ErrUnknownMetric)
}

func TestService_Stats_Cached(t *testing.T) {
	statsCache := cache.NewTestCache()
	svc, storeMock, metricsManager := newTestService(t, statsCache)
	ctx := context.Background()

	changed := append(testEntries(), activity.HistoryEntry{ID: "3", Date: "2025-06-30", Steps: 500})
	gomock.InOrder(
		storeMock.EXPECT().ListEntries(gomock.Any()).Return(testEntries(), nil),
		storeMock.EXPECT().ListEntries(gomock.Any()).Return(testEntries(), nil),
		storeMock.EXPECT().ListEntries(gomock.Any()).Return(changed, nil),
	)

	first, err := svc.Stats(ctx, activity.WindowWeek, activity.MetricSteps, testNow)
	require.NoError(t, err)
	// same day, later instant
	second, err := svc.Stats(ctx, activity.WindowWeek, activity.MetricSteps, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := svc.Stats(ctx, activity.WindowWeek, activity.MetricSteps, testNow)
	require.NoError(t, err)
	assert.Equal(t, 4500, third.TotalSteps)

	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterCacheRequests.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metricsManager.CounterCacheRequests.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metricsManager.CounterStatsComputed.WithLabelValues("week", "steps")))
	assert.Equal(t, 2, statsCache.Len())
}

func TestService_ExportCSV(t *testing.T) {
	svc, storeMock, metricsManager := newTestService(t, nil)
	storeMock.EXPECT().ListEntries(gomock.Any()).Return(testEntries(), nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf, activity.WindowMonth, testNow))

	assert.Equal(t, activity.ToCSV(testEntries(), activity.WindowMonth, testNow), buf.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterCSVExports))
}
