package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultGeoJSONURL is the county boundary FeatureCollection keyed by FIPS.
const DefaultGeoJSONURL = "https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Source tables.
	DataDir           string
	SummaryCSV        string
	EventsCSV         string
	ClassificationCSV string

	// County boundaries.
	GeoJSONURL        string
	GeoJSONTimeout    time.Duration
	BoundaryCacheSize int

	BaselineYear   int
	NationwideView bool
	SessionTTL     time.Duration

	// Interaction stream.
	KafkaEnabled          bool
	KafkaBrokers          []string
	KafkaInteractionTopic string
	KafkaPublishTimeout   time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	geojsonTimeout, err := parsePositiveDuration("GEOJSON_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	sessionTTL, err := parsePositiveDuration("SESSION_TTL", "30m")
	if err != nil {
		return nil, err
	}

	publishTimeout, err := parsePositiveDuration("KAFKA_PUBLISH_TIMEOUT", "500ms")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("BOUNDARY_CACHE_SIZE", 64)
	if err != nil {
		return nil, err
	}
	baselineYear, err := parsePositiveInt("BASELINE_YEAR", 1997)
	if err != nil {
		return nil, err
	}

	nationwide, err := parseBool("NATIONWIDE_VIEW", true)
	if err != nil {
		return nil, err
	}
	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}

	dataDir := sharedcfg.EnvOrDefault("DATA_DIR", "data")

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir:           dataDir,
		SummaryCSV:        sharedcfg.EnvOrDefault("SUMMARY_CSV", filepath.Join(dataDir, "by_county_epa_df.csv")),
		EventsCSV:         sharedcfg.EnvOrDefault("EVENTS_CSV", filepath.Join(dataDir, "epa_df_counties.csv")),
		ClassificationCSV: sharedcfg.EnvOrDefault("CLASSIFICATION_CSV", filepath.Join(dataDir, "aqi_table_classifications.csv")),

		GeoJSONURL:        sharedcfg.EnvOrDefault("GEOJSON_URL", DefaultGeoJSONURL),
		GeoJSONTimeout:    geojsonTimeout,
		BoundaryCacheSize: cacheSize,

		BaselineYear:   baselineYear,
		NationwideView: nationwide,
		SessionTTL:     sessionTTL,

		KafkaEnabled:          kafkaEnabled,
		KafkaBrokers:          sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaInteractionTopic: sharedcfg.EnvOrDefault("KAFKA_INTERACTION_TOPIC", "aqi-dashboard-interactions"),
		KafkaPublishTimeout:   publishTimeout,
	}

	if cfg.GeoJSONURL == "" {
		return nil, errors.New("GEOJSON_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaInteractionTopic == "" {
		return nil, errors.New("KAFKA_INTERACTION_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q is not a boolean", key, s)
	}
	return b, nil
}
