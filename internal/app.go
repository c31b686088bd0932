package internal

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/2beens/pedometer/internal/cache"
	"github.com/2beens/pedometer/internal/config"
	"github.com/2beens/pedometer/internal/db"
	"github.com/2beens/pedometer/internal/pedometer/repo"
	"github.com/2beens/pedometer/internal/pedometer/service"
	"github.com/2beens/pedometer/internal/telemetry/metrics"
	"github.com/2beens/pedometer/internal/telemetry/tracing"
	"github.com/2beens/pedometer/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// App owns the process wide resources behind the pedometer service.
type App struct {
	Service *service.Service

	config       *config.Config
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	promRegistry *prometheus.Registry
	traceFile    *os.File
	otelShutdown func(context.Context) error
}

type NewAppParams struct {
	Config      *config.Config
	Secrets     config.Secrets
	ServiceName string
	// MetricsFile overrides Config.MetricsFile when set.
	MetricsFile string
}

func NewApp(ctx context.Context, params NewAppParams) (_ *App, err error) {
	cfg := params.Config
	if params.MetricsFile != "" {
		cfg.MetricsFile = params.MetricsFile
	}

	app := &App{config: cfg}
	defer func() {
		if err != nil {
			if closeErr := app.Close(ctx); closeErr != nil {
				log.Errorf("close partially built app: %s", closeErr)
			}
		}
	}()

	tracingEnabled := cfg.TraceFile != ""
	if tracingEnabled {
		if err := pkg.EnsureParentDir(cfg.TraceFile); err != nil {
			return nil, fmt.Errorf("trace file dir: %w", err)
		}
		app.traceFile, err = os.OpenFile(cfg.TraceFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		app.otelShutdown, err = tracing.Setup(app.traceFile, params.ServiceName)
		if err != nil {
			return nil, fmt.Errorf("setup tracing: %w", err)
		}
	} else {
		log.Debugln("tracing disabled, no trace file configured")
	}

	app.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.Secrets.DBPassword,
		TracingEnabled: tracingEnabled && cfg.DBTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}
	if err := app.dbPool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		app.dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	app.promRegistry = metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("pedometer", "cli", app.promRegistry)

	statsCache, err := app.newStatsCache(ctx, params.Secrets.RedisPassword, tracingEnabled)
	if err != nil {
		return nil, err
	}

	pedometerRepo := repo.NewRepo(app.dbPool)
	if err := pedometerRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	app.Service = service.NewService(pedometerRepo, service.NewServiceParams{
		MetricsManager: metricsManager,
		StatsCache:     statsCache,
		CacheTTL:       cfg.CacheTTL(),
	})

	return app, nil
}

func (a *App) newStatsCache(ctx context.Context, redisPassword string, tracingEnabled bool) (cache.Cache, error) {
	switch a.config.CacheBackend {
	case config.CacheBackendMemory:
		log.Debugf("stats cache: in memory, %d MB", a.config.CacheSizeMB)
		return cache.NewFreeCache(a.config.CacheSizeMB), nil
	case config.CacheBackendRedis:
		a.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(a.config.RedisHost, a.config.RedisPort),
			Password: redisPassword,
			DB:       0, // use default DB
		})
		if tracingEnabled {
			a.redisClient.AddHook(redisotel.NewTracingHook())
		}

		rdbStatus := a.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		log.Debugf("redis ping: %s", rdbStatus.Val())

		return cache.NewRedisCache(a.redisClient, "pedometer:stats:"), nil
	default:
		log.Debugln("stats cache disabled")
		return nil, nil
	}
}

// WriteMetrics dumps the collected metrics to the configured textfile, if any.
func (a *App) WriteMetrics() error {
	if a.config.MetricsFile == "" || a.promRegistry == nil {
		return nil
	}
	if err := pkg.EnsureParentDir(a.config.MetricsFile); err != nil {
		return fmt.Errorf("metrics file dir: %w", err)
	}
	if err := metrics.WriteTextfile(a.promRegistry, a.config.MetricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// Close flushes telemetry and releases connections. Safe on a partially built App.
func (a *App) Close(ctx context.Context) error {
	var err error

	if writeErr := a.WriteMetrics(); writeErr != nil {
		err = multierr.Append(err, writeErr)
	}
	if a.redisClient != nil {
		err = multierr.Append(err, a.redisClient.Close())
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	if a.otelShutdown != nil {
		if shutdownErr := a.otelShutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown tracing: %w", shutdownErr))
		}
	}
	if a.traceFile != nil {
		err = multierr.Append(err, a.traceFile.Close())
	}

	return err
}
