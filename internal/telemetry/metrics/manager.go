package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterEntriesRecorded   prometheus.Counter
	CounterGoalsCreated      *prometheus.CounterVec
	CounterStatsComputed     *prometheus.CounterVec
	CounterCacheRequests     *prometheus.CounterVec
	CounterSkippedUnparsable prometheus.Counter
	CounterCSVExports        prometheus.Counter

	// gauges
	GaugeActiveGoals prometheus.Gauge

	// histograms
	HistStatsComputeDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("pedometer", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("pedometer", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterEntriesRecorded := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "entries_recorded",
		Help:      "The total number of recorded history entries",
	})
	counterGoalsCreated := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "goals_created",
		Help:      "The total number of created goals",
	}, []string{"metric", "period"})
	counterStatsComputed := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stats_computed",
		Help:      "The total number of statistics computations",
	}, []string{"window", "metric"})
	counterCacheRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stats_cache_requests",
		Help:      "Statistics cache lookups by result",
	}, []string{"result"})
	counterSkippedUnparsable := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "entries_skipped_unparseable",
		Help:      "History entries skipped because their date could not be parsed",
	})
	counterCSVExports := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "csv_exports",
		Help:      "The total number of CSV exports",
	})

	gaugeActiveGoals := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "active_goals",
		Help:      "Number of active goals seen in the last overview",
	})

	histStatsComputeDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stats_compute_duration_seconds",
		Help:      "Histogram of statistics computation time in seconds",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"window"})

	return &Manager{
		CounterEntriesRecorded:   counterEntriesRecorded,
		CounterGoalsCreated:      counterGoalsCreated,
		CounterStatsComputed:     counterStatsComputed,
		CounterCacheRequests:     counterCacheRequests,
		CounterSkippedUnparsable: counterSkippedUnparsable,
		CounterCSVExports:        counterCSVExports,
		GaugeActiveGoals:         gaugeActiveGoals,
		HistStatsComputeDuration: histStatsComputeDuration,
	}
}
