package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be 8080, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Screener.MaxTickers != 45 {
		t.Errorf("Expected MaxTickers to be 45, got %d", cfg.Screener.MaxTickers)
	}

	if cfg.Screener.FetchDelay != time.Second {
		t.Errorf("Expected FetchDelay to be 1s, got %v", cfg.Screener.FetchDelay)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("SCREENER_MAX_TICKERS", "10")
	os.Setenv("SCREENER_FETCH_DELAY", "250ms")
	os.Setenv("LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("SCREENER_MAX_TICKERS")
		os.Unsetenv("SCREENER_FETCH_DELAY")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Screener.MaxTickers != 10 {
		t.Errorf("Expected MaxTickers to be 10, got %d", cfg.Screener.MaxTickers)
	}

	if cfg.Screener.FetchDelay != 250*time.Millisecond {
		t.Errorf("Expected FetchDelay to be 250ms, got %v", cfg.Screener.FetchDelay)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "invalid")
	defer os.Unsetenv("ENV")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateInvalidMaxTickers(t *testing.T) {
	os.Setenv("SCREENER_MAX_TICKERS", "-1")
	defer os.Unsetenv("SCREENER_MAX_TICKERS")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when SCREENER_MAX_TICKERS is negative, got nil")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "2h")
	defer os.Unsetenv("TEST_DURATION")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	expected := 2 * time.Hour

	if duration != expected {
		t.Errorf("Expected duration to be %v, got %v", expected, duration)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	os.Setenv("TEST_INT", "100")
	defer os.Unsetenv("TEST_INT")

	value := getEnvAsInt("TEST_INT", 50)
	if value != 100 {
		t.Errorf("Expected value to be 100, got %d", value)
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	os.Setenv("TEST_FLOAT", "2.5")
	defer os.Unsetenv("TEST_FLOAT")

	value := getEnvAsFloat("TEST_FLOAT", 1.0)
	if value != 2.5 {
		t.Errorf("Expected value to be 2.5, got %f", value)
	}
}
