package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/heat-stress-etl/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Source candidate chain, highest priority first. SourceURL and
	// InputFile are optional; the synthetic generator is always the final
	// candidate.
	SourceURL     string
	InputFile     string
	SyntheticSeed int64
	FetchTimeout  time.Duration

	// Normalization.
	DecimalCommaColumns []string

	// Aggregation and output.
	Granularity domain.Granularity
	OutputDir   string

	HTTPAddr  string
	LogLevel  string
	LogFormat string

	// Optional Kafka result publishing, enabled when brokers are set.
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	fetchTimeoutStr := sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "30s")
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	seed, err := parseSeed()
	if err != nil {
		return nil, err
	}

	// An unrecognized granularity value falls back to daily; that quirk is
	// part of the command surface and deliberately not an error here.
	granularity, _ := domain.ParseGranularity(sharedcfg.EnvOrDefault("HEAT_GRANULARITY", "daily"))

	brokersRaw := os.Getenv("KAFKA_BROKERS")
	var brokers []string
	if brokersRaw != "" {
		brokers = sharedcfg.ParseBrokers(brokersRaw)
	}

	cfg := &Config{
		SourceURL:     os.Getenv("HEAT_SOURCE_URL"),
		InputFile:     os.Getenv("HEAT_INPUT_FILE"),
		SyntheticSeed: seed,
		FetchTimeout:  fetchTimeout,

		DecimalCommaColumns: splitColumns(os.Getenv("DECIMAL_COMMA_COLUMNS")),

		Granularity: granularity,
		OutputDir:   sharedcfg.EnvOrDefault("HEAT_OUTPUT_DIR", "out"),

		HTTPAddr:  os.Getenv("HTTP_ADDR"),
		LogLevel:  sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),

		KafkaBrokers:   brokers,
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "heat-index-results"),
		KafkaEnabled:   len(brokers) > 0,
	}

	if cfg.OutputDir == "" {
		return nil, errors.New("HEAT_OUTPUT_DIR must not be empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_SINK_TOPIC is empty")
	}

	return cfg, nil
}

func parseSeed() (int64, error) {
	s := sharedcfg.EnvOrDefault("HEAT_SYNTH_SEED", "42")
	seed, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("invalid HEAT_SYNTH_SEED")
	}
	return seed, nil
}

func splitColumns(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cols = append(cols, trimmed)
		}
	}
	return cols
}
