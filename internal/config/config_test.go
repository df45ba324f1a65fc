package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(":8081")
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.ListenAddr)
	assert.Equal(t, "http", cfg.Relay.Mode)
	assert.Equal(t, defaultRelayURL, cfg.Relay.URL)
	assert.Equal(t, 10*time.Second, cfg.Relay.Timeout)
	assert.Equal(t, 32000, cfg.Cities.Limit)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Identity.RoleCacheTTL)
	assert.True(t, cfg.PrometheusEnabled)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_LISTEN_ADDR", ":9999")
	t.Setenv("RELAY_TIMEOUT", "3s")
	t.Setenv("APP_TRUSTED_PROXIES", "10.0.0.1, 10.0.0.0/8 ,")
	t.Setenv("APP_PROMETHEUS_ENDPOINT_ENABLED", "off")
	t.Setenv("SESSION_TTL", "15m")

	cfg, err := Load(":8081")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.Relay.Timeout)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0/8"}, cfg.TrustedProxies)
	assert.False(t, cfg.PrometheusEnabled)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown relay mode", env: map[string]string{"RELAY_MODE": "carrier-pigeon"}},
		{name: "kafka relay without brokers", env: map[string]string{"RELAY_MODE": "kafka"}},
		{name: "bad timeout", env: map[string]string{"RELAY_TIMEOUT": "soon"}},
		{name: "non-numeric city limit", env: map[string]string{"CITIES_LIMIT": "lots"}},
		{name: "zero city limit", env: map[string]string{"CITIES_LIMIT": "0"}},
		{name: "negative session ttl", env: map[string]string{"SESSION_TTL": "-1m"}},
		{name: "zero role cache ttl", env: map[string]string{"ROLE_CACHE_TTL": "0s"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(":8081")
			assert.Error(t, err)
		})
	}
}

func TestLoadKafkaRelay(t *testing.T) {
	t.Setenv("RELAY_MODE", "KAFKA")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load(":8081")
	require.NoError(t, err)
	assert.Equal(t, "kafka", cfg.Relay.Mode)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}
