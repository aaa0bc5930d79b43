package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/commerce"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/logging"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port        string
	LogLevel    string
	Environment string

	SalesforceClientID     string
	SalesforceClientSecret string
	SalesforceUsername     string
	SalesforcePassword     string
	SalesforceBaseEndpoint string
	SalesforceAPIVersion   string
	SalesforcePricebookID  string
	SalesforceOrderUser    string

	ShowcaseCategory       string
	TokenCacheTTL          string
	SessionTTL             string
	SessionCleanupInterval string
	SubmissionTimeout      string
	CatalogRetryMax        string
	LedgerPath             string

	RateLimitEnabled                 string
	RateLimitType                    string
	RateLimitRequestsPerMinute       string
	RateLimitWindowMinutes           string
	RateLimitSubmitRequestsPerMinute string
	RateLimitAdminRequestsPerMinute  string

	APIKeys         string
	AdminAPIKeys    string
	MetricsExporter string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() *Config {
	// Existing environment variables win over .env
	err := godotenv.Load()
	if err != nil {
		slog.Warn("Could not load .env file, continuing with system environment variables only", "error", err)
	} else {
		slog.Info("Successfully loaded .env file")
	}

	config := FromEnv()

	logging.SetupLogging(config.LogLevel)

	slog.Info("Configuration loaded",
		"port", config.Port,
		"environment", config.Environment,
		"log_level", config.LogLevel,
		"salesforce_base_endpoint", config.SalesforceBaseEndpoint,
		"salesforce_api_version", config.SalesforceAPIVersion,
		"showcase_category", config.ShowcaseCategory,
		"token_cache_ttl", config.TokenCacheTTL,
		"session_ttl", config.SessionTTL,
		"submission_timeout", config.SubmissionTimeout,
		"ledger_path", config.LedgerPath,
		"rate_limit_enabled", config.RateLimitEnabled,
		"metrics_exporter", config.MetricsExporter)

	return config
}

// FromEnv reads the configuration from the process environment only
func FromEnv() *Config {
	return &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),

		SalesforceClientID:     os.Getenv(commerce.KeyClientID),
		SalesforceClientSecret: os.Getenv(commerce.KeyClientSecret),
		SalesforceUsername:     os.Getenv(commerce.KeyUsername),
		SalesforcePassword:     os.Getenv(commerce.KeyPassword),
		SalesforceBaseEndpoint: os.Getenv(commerce.KeyBaseEndpoint),
		SalesforceAPIVersion:   os.Getenv(commerce.KeyAPIVersion),
		SalesforcePricebookID:  os.Getenv(commerce.KeyPricebookID),
		SalesforceOrderUser:    os.Getenv(commerce.KeyOrderUser),

		ShowcaseCategory:       getEnvWithDefault("SHOWCASE_CATEGORY", "Dream Lease"),
		TokenCacheTTL:          getEnvWithDefault("TOKEN_CACHE_TTL", "10m"),
		SessionTTL:             getEnvWithDefault("SESSION_TTL", "30m"),
		SessionCleanupInterval: getEnvWithDefault("SESSION_CLEANUP_INTERVAL", "1m"),
		SubmissionTimeout:      getEnvWithDefault("SUBMISSION_TIMEOUT", "30s"),
		CatalogRetryMax:        getEnvWithDefault("CATALOG_RETRY_MAX", "3"),
		LedgerPath:             getEnvWithDefault("LEDGER_PATH", "./data/submissions.db"),

		RateLimitEnabled:                 getEnvWithDefault("RATE_LIMIT_ENABLED", "true"),
		RateLimitType:                    getEnvWithDefault("RATE_LIMIT_TYPE", "ip"),
		RateLimitRequestsPerMinute:       getEnvWithDefault("RATE_LIMIT_REQUESTS_PER_MINUTE", "120"),
		RateLimitWindowMinutes:           getEnvWithDefault("RATE_LIMIT_WINDOW_MINUTES", "1"),
		RateLimitSubmitRequestsPerMinute: getEnvWithDefault("RATE_LIMIT_SUBMIT_REQUESTS_PER_MINUTE", "10"),
		RateLimitAdminRequestsPerMinute:  getEnvWithDefault("RATE_LIMIT_ADMIN_REQUESTS_PER_MINUTE", "50"),

		APIKeys:         getEnvWithDefault("API_KEYS", "demo"),
		AdminAPIKeys:    os.Getenv("ADMIN_API_KEYS"),
		MetricsExporter: getEnvWithDefault("METRICS_EXPORTER", "scraper"),
	}
}

// Commerce returns the upstream connection settings. The returned Config is
// usable even when err is non-nil; err lists the keys still missing so
// startup can warn while each request reports what it needs.
func (c *Config) Commerce() (commerce.Config, error) {
	cfg := commerce.Config{
		ClientID:          c.SalesforceClientID,
		ClientSecret:      c.SalesforceClientSecret,
		Username:          c.SalesforceUsername,
		Password:          c.SalesforcePassword,
		BaseEndpoint:      c.SalesforceBaseEndpoint,
		APIVersion:        c.SalesforceAPIVersion,
		PricebookID:       c.SalesforcePricebookID,
		OrderUser:         c.SalesforceOrderUser,
		TokenCacheTTL:     ParseDuration(c.TokenCacheTTL, 10*time.Minute),
		SubmissionTimeout: ParseDuration(c.SubmissionTimeout, 30*time.Second),
		RetryMax:          ParseInt(c.CatalogRetryMax, 3),
	}
	return cfg, cfg.Validate()
}

// getEnvWithDefault gets an environment variable with a default fallback
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ParseBool parses a string to bool with a default value
func ParseBool(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}

	switch strings.ToLower(value) {
	case "true", "1", "yes", "on", "enabled":
		return true
	case "false", "0", "no", "off", "disabled":
		return false
	default:
		slog.Warn("Invalid boolean value, using default",
			"value", value, "default", defaultValue)
		return defaultValue
	}
}

// ParseInt parses a string to int with a default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("Invalid integer value, using default",
			"value", value, "default", defaultValue, "error", err)
		return defaultValue
	}

	return parsed
}

// ParseDuration parses a Go duration string; invalid or non-positive values
// fall back to the default
func ParseDuration(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		slog.Warn("Invalid duration value, using default",
			"value", value, "default", defaultValue.String(), "error", err)
		return defaultValue
	}

	return parsed
}

// SplitList splits a comma separated setting, dropping blanks
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
