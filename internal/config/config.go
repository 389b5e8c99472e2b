package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime setting of the server, dbtool and collector.
type Config struct {
	AppEnv string
	Port   string

	TomTomAPIKey        string
	TomTomBaseURL       string
	ProviderTimeout     time.Duration
	ProviderMaxAttempts int
	GeocodeCountrySet   string

	CostPerKm float64
	CO2PerKm  float64

	DatabaseURL string
	RedisURL    string
	POICacheTTL time.Duration

	CORSOrigins []string

	KafkaBrokers    []string
	KafkaTopic      string
	CollectInterval time.Duration
}

// Get returns the environment value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from the environment. Callers are expected to have
// run godotenv.Load beforehand. Malformed numbers and durations are errors.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:            Get("APP_ENV", "development"),
		Port:              Get("PORT", "8080"),
		TomTomAPIKey:      Get("TOMTOM_API_KEY", ""),
		TomTomBaseURL:     strings.TrimRight(Get("TOMTOM_BASE_URL", "https://api.tomtom.com"), "/"),
		GeocodeCountrySet: Get("GEOCODE_COUNTRY_SET", ""),
		DatabaseURL:       Get("DATABASE_URL", ""),
		RedisURL:          Get("REDIS_URL", ""),
		CORSOrigins:       splitList(Get("CORS_ORIGINS", "http://localhost:5173")),
		KafkaBrokers:      splitList(Get("KAFKA_BROKERS", "")),
		KafkaTopic:        Get("KAFKA_TOPIC", "traffic.snapshots"),
	}

	var errs []error
	cfg.ProviderTimeout = duration("PROVIDER_TIMEOUT", 8*time.Second, &errs)
	cfg.POICacheTTL = duration("POI_CACHE_TTL", 10*time.Minute, &errs)
	cfg.CollectInterval = duration("COLLECT_INTERVAL", 5*time.Minute, &errs)
	cfg.ProviderMaxAttempts = integer("PROVIDER_MAX_ATTEMPTS", 3, &errs)
	cfg.CostPerKm = float("COST_PER_KM", 0.15, &errs)
	cfg.CO2PerKm = float("CO2_PER_KM", 0.12, &errs)

	if cfg.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must be positive"))
	}
	if cfg.ProviderMaxAttempts < 1 {
		errs = append(errs, errors.New("PROVIDER_MAX_ATTEMPTS must be at least 1"))
	}
	if cfg.CostPerKm < 0 || cfg.CO2PerKm < 0 {
		errs = append(errs, errors.New("COST_PER_KM and CO2_PER_KM must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func duration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func integer(key string, fallback int, errs *[]error) int {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func float(key string, fallback float64, errs *[]error) float64 {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}
