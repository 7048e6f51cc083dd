package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("METEOFRANCE_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, testAPIKey, cfg.APIKey)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimURL)
	assert.Equal(t, "meteo-extract/1.0", cfg.NominatimUserAgent)
	assert.Equal(t, time.Second, cfg.GeocodeMinDelay)
	assert.Equal(t, "departements", cfg.StationsDir)
	assert.Equal(t, "cities", cfg.OutputDir)
	assert.Equal(t, "abort", cfg.FailurePolicy)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.HTTPAddr)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "location-outcomes", cfg.KafkaOutcomeTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("METEOFRANCE_API_KEY", testAPIKey)
	t.Setenv("METEOFRANCE_API_URL", "https://dpclim.example.test/v1")
	t.Setenv("HTTP_TIMEOUT", "30s")
	t.Setenv("INSECURE_SKIP_VERIFY", "true")
	t.Setenv("NOMINATIM_URL", "https://nominatim.example.test")
	t.Setenv("GEOCODE_MIN_DELAY", "2s")
	t.Setenv("STATIONS_DIR", "/var/cache/stations")
	t.Setenv("OUTPUT_DIR", "/var/data/extracts")
	t.Setenv("FAILURE_POLICY", "skip")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_OUTCOME_TOPIC", "custom-outcomes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://dpclim.example.test/v1", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.Equal(t, "https://nominatim.example.test", cfg.NominatimURL)
	assert.Equal(t, 2*time.Second, cfg.GeocodeMinDelay)
	assert.Equal(t, "/var/cache/stations", cfg.StationsDir)
	assert.Equal(t, "/var/data/extracts", cfg.OutputDir)
	assert.Equal(t, "skip", cfg.FailurePolicy)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-outcomes", cfg.KafkaOutcomeTopic)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "METEOFRANCE_API_KEY")
}

func TestLoad_InvalidHTTPTimeout(t *testing.T) {
	t.Setenv("METEOFRANCE_API_KEY", testAPIKey)
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
}

func TestLoad_NegativeGeocodeMinDelay(t *testing.T) {
	t.Setenv("METEOFRANCE_API_KEY", testAPIKey)
	t.Setenv("GEOCODE_MIN_DELAY", "-1s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODE_MIN_DELAY")
}

func TestLoad_InvalidFailurePolicy(t *testing.T) {
	t.Setenv("METEOFRANCE_API_KEY", testAPIKey)
	t.Setenv("FAILURE_POLICY", "retry")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FAILURE_POLICY")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("METEOFRANCE_API_KEY", testAPIKey)
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
