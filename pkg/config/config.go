package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Screening
	Screener ScreenerConfig

	// External data provider
	Yahoo YahooConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// ScreenerConfig bounds a single screening run.
type ScreenerConfig struct {
	// MaxTickers caps the tickers accepted per request so the whole
	// sequential run stays inside typical platform timeouts.
	MaxTickers int

	// FetchDelay is the pause inserted between consecutive tickers to
	// respect the provider's rate limits.
	FetchDelay time.Duration

	// RequestTimeout bounds a single provider call.
	RequestTimeout time.Duration
}

// YahooConfig holds Yahoo Finance endpoint configuration.
type YahooConfig struct {
	QuoteBaseURL      string
	ChartBaseURL      string
	TimeseriesBaseURL string
	ProfileBaseURL    string
	UserAgent         string
	RatePerSecond     float64
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Screener: ScreenerConfig{
			MaxTickers:     getEnvAsInt("SCREENER_MAX_TICKERS", 45),
			FetchDelay:     getEnvAsDuration("SCREENER_FETCH_DELAY", "1s"),
			RequestTimeout: getEnvAsDuration("SCREENER_REQUEST_TIMEOUT", "30s"),
		},

		Yahoo: YahooConfig{
			QuoteBaseURL:      getEnv("YAHOO_QUOTE_BASE_URL", "https://query1.finance.yahoo.com/v10/finance/quoteSummary"),
			ChartBaseURL:      getEnv("YAHOO_CHART_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			TimeseriesBaseURL: getEnv("YAHOO_TIMESERIES_BASE_URL", "https://query1.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries"),
			ProfileBaseURL:    getEnv("YAHOO_PROFILE_BASE_URL", "https://finance.yahoo.com/quote"),
			UserAgent:         getEnv("YAHOO_USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
			RatePerSecond:     getEnvAsFloat("YAHOO_RATE_PER_SECOND", 2.0),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Screener.MaxTickers <= 0 {
		return fmt.Errorf("SCREENER_MAX_TICKERS must be positive")
	}

	if c.Screener.FetchDelay < 0 {
		return fmt.Errorf("SCREENER_FETCH_DELAY must not be negative")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
