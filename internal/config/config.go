package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultAPIBaseURL is the public DPClim v1 endpoint.
const DefaultAPIBaseURL = "https://public-api.meteofrance.fr/public/DPClim/v1"

// Config holds all service settings, populated from environment variables.
type Config struct {
	// DPClim provider.
	APIBaseURL         string
	APIKey             string
	HTTPTimeout        time.Duration
	InsecureSkipVerify bool

	// Nominatim geocoding.
	NominatimURL       string
	NominatimUserAgent string
	GeocodeMinDelay    time.Duration

	// Durable storage.
	StationsDir string
	OutputDir   string

	// Batch behavior: "abort" stops the run on the first hard failure,
	// "skip" records it and continues with the next location.
	FailurePolicy string

	LogLevel  string
	LogFormat string

	// HTTPAddr enables the health/metrics server when non-empty.
	HTTPAddr string

	// Optional outcome publishing.
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaOutcomeTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset and validating the result.
func Load() (*Config, error) {
	httpTimeout, err := durationEnv("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	minDelay, err := durationEnv("GEOCODE_MIN_DELAY", time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:         envOrDefault("METEOFRANCE_API_URL", DefaultAPIBaseURL),
		APIKey:             os.Getenv("METEOFRANCE_API_KEY"),
		HTTPTimeout:        httpTimeout,
		InsecureSkipVerify: os.Getenv("INSECURE_SKIP_VERIFY") == "true",

		NominatimURL:       envOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: envOrDefault("NOMINATIM_USER_AGENT", "meteo-extract/1.0"),
		GeocodeMinDelay:    minDelay,

		StationsDir: envOrDefault("STATIONS_DIR", "departements"),
		OutputDir:   envOrDefault("OUTPUT_DIR", "cities"),

		FailurePolicy: envOrDefault("FAILURE_POLICY", "abort"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:  os.Getenv("HTTP_ADDR"),

		KafkaEnabled:      os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:      splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaOutcomeTopic: envOrDefault("KAFKA_OUTCOME_TOPIC", "location-outcomes"),
	}

	if cfg.APIKey == "" {
		return nil, errors.New("METEOFRANCE_API_KEY is required")
	}
	if cfg.FailurePolicy != "abort" && cfg.FailurePolicy != "skip" {
		return nil, fmt.Errorf("invalid FAILURE_POLICY %q: want abort or skip", cfg.FailurePolicy)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaOutcomeTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_OUTCOME_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
