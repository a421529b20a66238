package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gridforge/load-forecast-prep/internal/cleaning"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Input/output.
	DataPath   string
	OutputPath string
	CutoffDate time.Time

	// Cleaning parameters. When SearchMode is true the pipeline draws
	// them from a seeded trial instead of these literals.
	WindowSize          int
	IQRMultiplier       float64
	HurricaneWindowDays int
	SearchMode          bool
	SearchSeed          int64

	// AnomalyDates are the hurricane anchor dates to mask.
	AnomalyDates []time.Time

	// Optional Kafka sink for cleaned rows.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	cutoff, err := time.Parse("2006-01-02", envOrDefault("CUTOFF_DATE", "2015-04-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid CUTOFF_DATE: %w", err)
	}

	windowSize, err := parseIntEnv("WINDOW_SIZE", 168)
	if err != nil {
		return nil, err
	}
	iqrMultiplier, err := parseFloatEnv("IQR_MULTIPLIER", 3.0)
	if err != nil {
		return nil, err
	}
	hurricaneDays, err := parseIntEnv("HURRICANE_WINDOW_DAYS", 3)
	if err != nil {
		return nil, err
	}
	searchSeed, err := parseIntEnv("SEARCH_SEED", 1)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	anomalyDates, err := parseAnomalyDates(os.Getenv("ANOMALY_DATES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataPath:   envOrDefault("DATA_PATH", "data/PJME_hourly.csv"),
		OutputPath: envOrDefault("OUTPUT_PATH", "data/clean/train_clean.csv"),
		CutoffDate: cutoff,

		WindowSize:          windowSize,
		IQRMultiplier:       iqrMultiplier,
		HurricaneWindowDays: hurricaneDays,
		SearchMode:          os.Getenv("SEARCH_MODE") == "true",
		SearchSeed:          int64(searchSeed),

		AnomalyDates: anomalyDates,

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "clean-load-data"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if !cfg.SearchMode {
		if err := cfg.CleaningParams().Validate(); err != nil {
			return nil, err
		}
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
		}
	}

	return cfg, nil
}

// CleaningParams bundles the literal cleaning parameters.
func (c *Config) CleaningParams() cleaning.Params {
	return cleaning.Params{
		WindowSize:          c.WindowSize,
		IQRMultiplier:       c.IQRMultiplier,
		HurricaneWindowDays: c.HurricaneWindowDays,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseIntEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

// parseAnomalyDates parses a comma-separated list of YYYY-MM-DD dates.
// An empty value falls back to the built-in hurricane calendar.
func parseAnomalyDates(s string) ([]time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return cleaning.DefaultAnomalyDates(), nil
	}
	var dates []time.Time
	for _, part := range strings.Split(s, ",") {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid ANOMALY_DATES entry %q: %w", part, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}
