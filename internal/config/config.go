package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	EnvDBPassword    = "PEDOMETER_DB_PASSWORD"
	EnvRedisPassword = "PEDOMETER_REDIS_PASSWORD"
)

type Config struct {
	// logging
	LogLevel      string `toml:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	// postgres
	PostgresHost     string `toml:"postgres_host" validate:"required"`
	PostgresPort     string `toml:"postgres_port" validate:"required,numeric"`
	PostgresDBName   string `toml:"postgres_db_name" validate:"required"`
	PostgresUser     string `toml:"postgres_user"`
	DBTracingEnabled bool   `toml:"db_tracing_enabled"`
	// telemetry
	TraceFile   string `toml:"trace_file"`
	MetricsFile string `toml:"metrics_file"`
	// stats cache
	CacheBackend    string `toml:"cache_backend" validate:"oneof=none memory redis"`
	CacheSizeMB     int    `toml:"cache_size_mb" validate:"gte=0"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds" validate:"gte=0"`
	RedisHost       string `toml:"redis_host" validate:"required_if=CacheBackend redis"`
	RedisPort       string `toml:"redis_port" validate:"omitempty,numeric"`
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the validated section for env.
func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not found in %s", env, path)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.CacheBackend == "" {
		c.CacheBackend = CacheBackendNone
	}
	if c.CacheSizeMB == 0 {
		c.CacheSizeMB = 16
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 300
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

type Secrets struct {
	DBPassword    string
	RedisPassword string
}

// LoadSecrets reads secrets from the environment, after loading the optional
// dotenv files. Variables already set in the environment win.
func LoadSecrets(dotenvFiles ...string) (Secrets, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return Secrets{
		DBPassword:    os.Getenv(EnvDBPassword),
		RedisPassword: os.Getenv(EnvRedisPassword),
	}, nil
}
