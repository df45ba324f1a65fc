package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultRelayURL = "https://script.google.com/macros/s/AKfycbxCxJH-Ie2UOzuilq1y2VPvYlmggNH1QAhx776YuNtQmlQa-WH_74o6_KUS8_ysT-Za/exec"

type Config struct {
	ListenAddr string
	LogLevel   string

	Gateway struct {
		StorefrontURL  string
		MarketplaceURL string
	}

	Relay struct {
		Mode    string
		URL     string
		Timeout time.Duration
		Topic   string
	}

	Kafka struct {
		Brokers   []string
		AuthTopic string
		GroupID   string
	}

	Cities struct {
		APIURL     string
		ResourceID string
		Limit      int
	}

	DB struct {
		DSN string
	}

	Redis struct {
		Addr string
	}

	Blob struct {
		Dir     string
		BaseURL string
	}

	Session struct {
		TTL time.Duration
	}

	Identity struct {
		RoleCacheTTL time.Duration
	}

	OTLPEndpoint      string
	PrometheusEnabled bool
	TrustedProxies    []string
}

// Load reads the configuration from the environment. A .env file in the
// working directory or one of its parents is applied first when present.
func Load(defaultAddr string) (*Config, error) {
	loadDotEnv()

	cfg := &Config{}

	cfg.ListenAddr = getenvDefault("APP_LISTEN_ADDR", defaultAddr)
	cfg.LogLevel = getenvDefault("APP_LOG_LEVEL", "info")

	cfg.Gateway.StorefrontURL = getenvDefault("STOREFRONT_SERVICE_URL", "http://localhost:8081")
	cfg.Gateway.MarketplaceURL = getenvDefault("MARKETPLACE_SERVICE_URL", "http://localhost:8082")

	cfg.Relay.Mode = strings.ToLower(getenvDefault("RELAY_MODE", "http"))
	cfg.Relay.URL = getenvDefault("RELAY_URL", defaultRelayURL)
	cfg.Relay.Topic = getenvDefault("RELAY_TOPIC", "storefront.orders")
	timeout, err := getenvDuration("RELAY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Relay.Timeout = timeout

	cfg.Kafka.Brokers = getenvList("KAFKA_BROKERS")
	cfg.Kafka.AuthTopic = getenvDefault("KAFKA_AUTH_TOPIC", "identity.auth-state")
	cfg.Kafka.GroupID = getenvDefault("KAFKA_GROUP_ID", "marketplace")

	cfg.Cities.APIURL = getenvDefault("CITIES_API_URL", "https://data.gov.il/api/3/action/datastore_search")
	cfg.Cities.ResourceID = getenvDefault("CITIES_RESOURCE_ID", "5c78e9fa-c2e2-4771-93ff-7f400a12f7ba")
	limit, err := getenvInt("CITIES_LIMIT", 32000)
	if err != nil {
		return nil, err
	}
	cfg.Cities.Limit = limit

	cfg.DB.DSN = os.Getenv("DATABASE_URL")
	cfg.Redis.Addr = getenvDefault("REDIS_ADDR", "localhost:6379")

	cfg.Blob.Dir = getenvDefault("BLOB_DIR", "./data/blobs")
	cfg.Blob.BaseURL = getenvDefault("BLOB_BASE_URL", "/blobs")

	ttl, err := getenvDuration("SESSION_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.Session.TTL = ttl

	roleTTL, err := getenvDuration("ROLE_CACHE_TTL", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.Identity.RoleCacheTTL = roleTTL

	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.PrometheusEnabled = getenvBool("APP_PROMETHEUS_ENDPOINT_ENABLED", true)
	cfg.TrustedProxies = getenvList("APP_TRUSTED_PROXIES")

	switch cfg.Relay.Mode {
	case "http":
		if cfg.Relay.URL == "" {
			return nil, errors.New("RELAY_URL is required when RELAY_MODE=http")
		}
	case "kafka":
		if len(cfg.Kafka.Brokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when RELAY_MODE=kafka")
		}
	default:
		return nil, fmt.Errorf("unsupported RELAY_MODE %q (want http or kafka)", cfg.Relay.Mode)
	}
	if cfg.Cities.Limit <= 0 {
		return nil, fmt.Errorf("CITIES_LIMIT must be positive (got %d)", cfg.Cities.Limit)
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive (got %s)", cfg.Session.TTL)
	}
	if cfg.Identity.RoleCacheTTL <= 0 {
		return nil, fmt.Errorf("ROLE_CACHE_TTL must be positive (got %s)", cfg.Identity.RoleCacheTTL)
	}

	return cfg, nil
}

func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	for _, p := range []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	} {
		if err := godotenv.Load(p); err == nil {
			log.Printf("loaded environment from %s", p)
			return
		}
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getenvList(key string) []string {
	if v := os.Getenv(key); v != "" {
		var result []string
		for _, item := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return nil
}
