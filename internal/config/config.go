package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Provider settings.
	ProviderTimeout        time.Duration
	GooglePlacesAPIKey     string
	OlaMapsAPIKey          string
	NominatimBaseURL       string
	NominatimUserAgent     string
	NominatimRatePerSecond float64

	// Locale and default origin used when callers send no coordinates.
	DefaultLat         float64
	DefaultLng         float64
	TargetCountryCode  string
	TargetCountryNames []string

	// Result cache and response shaping.
	CacheTTL            time.Duration
	CacheSweepThreshold int
	MaxResults          int

	// Inbound rate limiting and CORS for the HTTP API.
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string

	// Search event publishing.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaSearchTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	providerTimeout, err := parseDuration("PROVIDER_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}

	sweepThreshold, err := parsePositiveInt("CACHE_SWEEP_THRESHOLD", 1000)
	if err != nil {
		return nil, err
	}
	maxResults, err := parsePositiveInt("MAX_RESULTS", 12)
	if err != nil {
		return nil, err
	}
	rateBurst, err := parsePositiveInt("RATE_LIMIT_BURST", 40)
	if err != nil {
		return nil, err
	}

	rateRPS, err := parsePositiveFloat("RATE_LIMIT_RPS", 20)
	if err != nil {
		return nil, err
	}
	nominatimRate, err := parsePositiveFloat("NOMINATIM_RATE_PER_SECOND", 1)
	if err != nil {
		return nil, err
	}

	defaultLat, err := parseFloat("DEFAULT_LAT", 12.9716)
	if err != nil {
		return nil, err
	}
	defaultLng, err := parseFloat("DEFAULT_LNG", 77.5946)
	if err != nil {
		return nil, err
	}

	brokers := parseList(envOrDefault("KAFKA_BROKERS", "localhost:9092"))
	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ProviderTimeout:        providerTimeout,
		GooglePlacesAPIKey:     os.Getenv("GOOGLE_PLACES_API_KEY"),
		OlaMapsAPIKey:          os.Getenv("OLA_MAPS_API_KEY"),
		NominatimBaseURL:       strings.TrimRight(envOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"), "/"),
		NominatimUserAgent:     envOrDefault("NOMINATIM_USER_AGENT", "place-search/1.0"),
		NominatimRatePerSecond: nominatimRate,

		DefaultLat:         defaultLat,
		DefaultLng:         defaultLng,
		TargetCountryCode:  strings.ToUpper(envOrDefault("TARGET_COUNTRY_CODE", "IN")),
		TargetCountryNames: parseList(envOrDefault("TARGET_COUNTRY_NAMES", "India,Bharat")),

		CacheTTL:            cacheTTL,
		CacheSweepThreshold: sweepThreshold,
		MaxResults:          maxResults,

		RateLimitRPS:       rateRPS,
		RateLimitBurst:     rateBurst,
		CORSAllowedOrigins: parseList(envOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		KafkaEnabled:     kafkaEnabled,
		KafkaBrokers:     brokers,
		KafkaSearchTopic: envOrDefault("KAFKA_SEARCH_TOPIC", "place-search-events"),
	}

	if cfg.DefaultLat < -90 || cfg.DefaultLat > 90 {
		return nil, errors.New("DEFAULT_LAT must be within [-90, 90]")
	}
	if cfg.DefaultLng < -180 || cfg.DefaultLng > 180 {
		return nil, errors.New("DEFAULT_LNG must be within [-180, 180]")
	}
	if len(cfg.TargetCountryCode) != 2 {
		return nil, errors.New("TARGET_COUNTRY_CODE must be a two-letter ISO code")
	}
	if cfg.NominatimUserAgent == "" {
		return nil, errors.New("NOMINATIM_USER_AGENT is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSearchTopic == "" {
		return nil, errors.New("KAFKA_SEARCH_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parsePositiveFloat(key string, fallback float64) (float64, error) {
	v, err := parseFloat(key, fallback)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return v, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
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

// parseList splits a comma-separated value, dropping empty items.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
