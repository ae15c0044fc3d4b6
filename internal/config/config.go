package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/epiwatch/hfmd-dashboard/internal/domain"
)

// Config holds all service settings, populated from environment variables.
// A local .env file is applied first when present.
type Config struct {
	// Dataset source: exactly one of DatasetURL / DatasetPath.
	DatasetURL    string
	DatasetPath   string
	DatasetFormat string // "csv" or "xlsx"
	FetchTimeout  time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	CacheTTL  time.Duration
	CacheSize int

	// Pipeline knobs the source data leaves ambiguous; see internal/domain.
	MonthLabel     domain.PeriodLabeling
	DedupePolicy   domain.DedupePolicy
	RequireWeather bool
}

// Load reads configuration from the environment, applying defaults where
// unset. Validation errors name the offending variable.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env for local development

	fetchTimeout, err := durationEnv("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	// Mirrors the published dashboard's hour-long dataset cache.
	cacheTTL, err := durationEnv("CACHE_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	cacheSize, err := intEnv("CACHE_SIZE", 16)
	if err != nil {
		return nil, err
	}
	requireWeather, err := boolEnv("REQUIRE_WEATHER", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatasetURL:    os.Getenv("DATASET_URL"),
		DatasetPath:   os.Getenv("DATASET_PATH"),
		DatasetFormat: envOrDefault("DATASET_FORMAT", "csv"),
		FetchTimeout:  fetchTimeout,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CacheTTL:  cacheTTL,
		CacheSize: cacheSize,

		RequireWeather: requireWeather,
	}

	switch envOrDefault("MONTH_LABEL", "end") {
	case "end":
		cfg.MonthLabel = domain.LabelMonthEnd
	case "start":
		cfg.MonthLabel = domain.LabelMonthStart
	default:
		return nil, errors.New("invalid MONTH_LABEL (want end or start)")
	}

	switch envOrDefault("DEDUPE_POLICY", "first") {
	case "first":
		cfg.DedupePolicy = domain.DedupeKeepFirst
	case "last":
		cfg.DedupePolicy = domain.DedupeKeepLast
	default:
		return nil, errors.New("invalid DEDUPE_POLICY (want first or last)")
	}

	if cfg.DatasetFormat != "csv" && cfg.DatasetFormat != "xlsx" {
		return nil, errors.New("invalid DATASET_FORMAT (want csv or xlsx)")
	}
	if (cfg.DatasetURL == "") == (cfg.DatasetPath == "") {
		return nil, errors.New("exactly one of DATASET_URL or DATASET_PATH is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: want a positive duration", key)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: want a positive integer", key)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: want a boolean", key)
	}
	return b, nil
}
