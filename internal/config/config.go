package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	AdminJWTSecret     string
	AdminJWTIssuer     string
	CORSAllowedOrigins []string

	CurrencyCode string
	HomeCountry  string
	VATRate      float64

	ShippingDomesticRate      int64
	ShippingInternationalRate int64

	CartTTL            time.Duration
	IdempotencyTTL     time.Duration
	PaymentReplayTTL   time.Duration
	CodeApplyRateLimit string

	SettlementQueue       string
	SettlementMaxRetry    int
	SettlementConcurrency int
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		AdminJWTSecret:     k.String("ADMIN_JWT_SECRET"),
		AdminJWTIssuer:     valueOrDefault(k.String("ADMIN_JWT_ISSUER"), "b8shield-admin"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		CurrencyCode: valueOrDefault(k.String("CURRENCY_CODE"), "SEK"),
		HomeCountry:  valueOrDefault(k.String("SHIPPING_HOME_COUNTRY"), "SE"),
		VATRate:      parseFloat(k.String("PRICING_VAT_RATE"), 0.25),

		ShippingDomesticRate:      parseInt64(k.String("SHIPPING_DOMESTIC_RATE"), 29),
		ShippingInternationalRate: parseInt64(k.String("SHIPPING_INTERNATIONAL_RATE"), 49),

		CartTTL:            parseDuration(k.String("CART_TTL"), "168h"),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		PaymentReplayTTL:   parseDuration(k.String("PAYMENT_REPLAY_TTL"), "72h"),
		CodeApplyRateLimit: valueOrDefault(k.String("CODE_APPLY_RATE_LIMIT"), "30-M"),

		SettlementQueue:       valueOrDefault(k.String("SETTLEMENT_QUEUE"), "commission"),
		SettlementMaxRetry:    parseInt(k.String("SETTLEMENT_MAX_RETRY"), 5),
		SettlementConcurrency: parseInt(k.String("SETTLEMENT_CONCURRENCY"), 4),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.AdminJWTSecret == "" {
		return nil, errors.New("ADMIN_JWT_SECRET is required")
	}
	if cfg.VATRate <= 0 || cfg.VATRate >= 1 {
		return nil, fmt.Errorf("PRICING_VAT_RATE out of range: %v", cfg.VATRate)
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseInt64(value string, fallback int64) int64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
