package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Report rendering.
	ReportFormat   string
	ReportLocation *time.Location

	// Ingestion behaviour.
	StrictNumeric bool
	MaxStates     int

	// Optional HTTP exposition. Empty disables serve mode.
	HTTPAddr string

	// Optional summary publishing. An empty sink topic disables it.
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	loc, err := parseReportTimezone()
	if err != nil {
		return nil, err
	}

	strict, err := parseBool("STRICT_NUMERIC", false)
	if err != nil {
		return nil, err
	}

	maxStates, err := parseMaxStates()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,
		ReportFormat:    sharedcfg.EnvOrDefault("REPORT_FORMAT", "text"),
		ReportLocation:  loc,
		StrictNumeric:   strict,
		MaxStates:       maxStates,
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:  os.Getenv("KAFKA_SINK_TOPIC"),
	}

	switch cfg.ReportFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid REPORT_FORMAT %q: want text or json", cfg.ReportFormat)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}
	if cfg.KafkaSinkTopic != "" && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_SINK_TOPIC is set")
	}

	return cfg, nil
}

// PublishEnabled reports whether summaries should be written to Kafka.
func (c *Config) PublishEnabled() bool {
	return c.KafkaSinkTopic != ""
}

// ServeEnabled reports whether the HTTP server should run.
func (c *Config) ServeEnabled() bool {
	return c.HTTPAddr != ""
}

func parseReportTimezone() (*time.Location, error) {
	name := sharedcfg.EnvOrDefault("REPORT_TIMEZONE", "Local")
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

func parseMaxStates() (int, error) {
	s := os.Getenv("MAX_STATES")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid MAX_STATES %q: want a non-negative integer", s)
	}
	return n, nil
}
