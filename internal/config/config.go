package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	defaultAppPort         = "8080"
	defaultDataAPITimeout  = 15 * time.Second
	defaultTaxRate         = "18"
	defaultSearchRateLimit = 5.0
	defaultDraftTTL        = 2 * time.Hour
)

var ErrMissingDataAPIURL = errors.New("DATA_API_URL is required")

type Config struct {
	AppEnv  string
	AppPort string

	// Remote data API (GraphQL) that owns customers and orders.
	DataAPIURL     string
	DataAPIToken   string
	DataAPITimeout time.Duration

	DefaultTaxRate  decimal.Decimal
	SearchRateLimit float64
	DraftTTL        time.Duration
	CORSOrigins     []string

	// Optional: when set, invoices are POSTed here instead of only being logged.
	InvoiceWebhookURL   string
	InvoiceWebhookToken string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:          os.Getenv("APP_ENV"),
		AppPort:         envOr("APP_PORT", defaultAppPort),
		DataAPIURL:      os.Getenv("DATA_API_URL"),
		DataAPIToken:    os.Getenv("DATA_API_TOKEN"),
		DataAPITimeout:  durationOr("DATA_API_TIMEOUT", defaultDataAPITimeout),
		SearchRateLimit: floatOr("SEARCH_RATE_LIMIT", defaultSearchRateLimit),
		DraftTTL:        durationOr("DRAFT_TTL", defaultDraftTTL),
		CORSOrigins:     splitList(envOr("CORS_ORIGINS", "http://localhost:3000")),

		InvoiceWebhookURL:   os.Getenv("INVOICE_WEBHOOK_URL"),
		InvoiceWebhookToken: os.Getenv("INVOICE_WEBHOOK_TOKEN"),
	}

	rate, err := decimal.NewFromString(envOr("DEFAULT_TAX_RATE", defaultTaxRate))
	if err != nil || rate.IsNegative() {
		rate = decimal.RequireFromString(defaultTaxRate)
	}
	cfg.DefaultTaxRate = rate

	if cfg.DataAPIURL == "" {
		return nil, ErrMissingDataAPIURL
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// floatOr accepts zero: SEARCH_RATE_LIMIT=0 turns search throttling off.
func floatOr(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f < 0 {
		return fallback
	}
	return f
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
