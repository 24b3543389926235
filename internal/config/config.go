package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/example/genius/internal/spaced_repetition"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// DBType selects the driver: "sqlite" or "postgres"
	DBType string
	// DBPath is the sqlite database file
	DBPath string
	// DatabaseURL is the postgres connection string
	DatabaseURL string

	LogLevel       string
	LogDevelopment bool

	// ScheduleEvery is how often all facts are rescheduled
	ScheduleEvery time.Duration
	// MetricsAddr is where `serve` exposes /metrics; empty disables it
	MetricsAddr string

	// Engine holds the prediction and interval constants
	Engine spaced_repetition.Parameters
}

// Default returns the default configuration
func Default() Config {
	return Config{
		DBType:        "sqlite",
		DBPath:        "data/genius.db",
		LogLevel:      "info",
		ScheduleEvery: time.Hour,
		MetricsAddr:   ":9090",
		Engine:        spaced_repetition.DefaultParameters(),
	}
}

// Load reads an optional .env file and then the environment.
// Variables that are unset keep their defaults.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	r := reader{lookup: lookup}

	r.str("DB_TYPE", &cfg.DBType)
	r.str("DB_PATH", &cfg.DBPath)
	r.str("DATABASE_URL", &cfg.DatabaseURL)
	r.str("LOG_LEVEL", &cfg.LogLevel)
	r.boolean("LOG_DEVELOPMENT", &cfg.LogDevelopment)
	r.duration("SCHEDULE_EVERY", &cfg.ScheduleEvery)
	r.str("METRICS_ADDR", &cfg.MetricsAddr)

	r.float("NEUTRAL_PRIOR", &cfg.Engine.NeutralPrior)
	r.duration("BASE_HALF_LIFE", &cfg.Engine.BaseHalfLife)
	r.float("HALF_LIFE_GAIN", &cfg.Engine.HalfLifeGain)
	r.float("RECENCY_WEIGHT", &cfg.Engine.RecencyWeight)
	r.duration("BASE_INTERVAL", &cfg.Engine.BaseInterval)
	r.float("INTERVAL_MULTIPLIER", &cfg.Engine.IntervalMultiplier)
	r.float("MULTIPLIER_GROWTH", &cfg.Engine.MultiplierGrowth)
	r.float("MAX_MULTIPLIER", &cfg.Engine.MaxMultiplier)

	if r.err != nil {
		return Config{}, r.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency
func (c Config) Validate() error {
	switch c.DBType {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	if c.ScheduleEvery <= 0 {
		return fmt.Errorf("SCHEDULE_EVERY must be positive, got %v", c.ScheduleEvery)
	}
	return c.Engine.Validate()
}

// reader keeps the first parse error so FromEnv can read every key in a row.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) get(key string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	v, ok := r.lookup(key)
	return v, ok && v != ""
}

func (r *reader) str(key string, dst *string) {
	if v, ok := r.get(key); ok {
		*dst = v
	}
}

func (r *reader) boolean(key string, dst *bool) {
	if v, ok := r.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.err = fmt.Errorf("invalid %s %q: %w", key, v, err)
			return
		}
		*dst = b
	}
}

func (r *reader) float(key string, dst *float64) {
	if v, ok := r.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.err = fmt.Errorf("invalid %s %q: %w", key, v, err)
			return
		}
		*dst = f
	}
}

func (r *reader) duration(key string, dst *time.Duration) {
	if v, ok := r.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			r.err = fmt.Errorf("invalid %s %q: %w", key, v, err)
			return
		}
		*dst = d
	}
}
