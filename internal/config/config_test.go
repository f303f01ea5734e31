package config

import (
	"os"
	"testing"
	"time"
)

var envVars = []string{
	"STRUCTCHECK_BASE_URL", "STRUCTCHECK_TESTID_ATTR", "STRUCTCHECK_HEADLESS",
	"STRUCTCHECK_CONCURRENCY", "STRUCTCHECK_NETWORK_IDLE_TIMEOUT_MS",
	"STRUCTCHECK_SELECTOR_TIMEOUT_MS", "STRUCTCHECK_DOM_TIMEOUT_MS",
	"STRUCTCHECK_GRACE_MS", "STRUCTCHECK_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BaseURL != "http://localhost:3000" {
		t.Errorf("BaseURL = %s, want http://localhost:3000", cfg.BaseURL)
	}
	if cfg.TestIDAttribute != "data-testid" {
		t.Errorf("TestIDAttribute = %s, want data-testid", cfg.TestIDAttribute)
	}
	if !cfg.Headless {
		t.Error("Headless = false, want true")
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}
	if cfg.Wait.GracePeriod != 500*time.Millisecond {
		t.Errorf("Wait.GracePeriod = %s, want 500ms", cfg.Wait.GracePeriod)
	}
	if !cfg.Wait.NetworkIdle {
		t.Error("Wait.NetworkIdle = false, want true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRUCTCHECK_BASE_URL", "https://staging.example.com")
	t.Setenv("STRUCTCHECK_TESTID_ATTR", "data-qa")
	t.Setenv("STRUCTCHECK_HEADLESS", "false")
	t.Setenv("STRUCTCHECK_CONCURRENCY", "2")
	t.Setenv("STRUCTCHECK_NETWORK_IDLE_TIMEOUT_MS", "0")
	t.Setenv("STRUCTCHECK_SELECTOR_TIMEOUT_MS", "1500")
	t.Setenv("STRUCTCHECK_DOM_TIMEOUT_MS", "250")
	t.Setenv("STRUCTCHECK_GRACE_MS", "0")
	t.Setenv("STRUCTCHECK_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BaseURL != "https://staging.example.com" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.TestIDAttribute != "data-qa" {
		t.Errorf("TestIDAttribute = %s, want data-qa", cfg.TestIDAttribute)
	}
	if cfg.Headless {
		t.Error("Headless = true, want false")
	}
	if cfg.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", cfg.Concurrency)
	}
	if cfg.Wait.NetworkIdle {
		t.Error("a zero network-idle budget should disable the stage")
	}
	if cfg.Wait.SelectorTimeout != 1500*time.Millisecond {
		t.Errorf("Wait.SelectorTimeout = %s, want 1.5s", cfg.Wait.SelectorTimeout)
	}
	if cfg.Wait.DOMTimeout != 250*time.Millisecond {
		t.Errorf("Wait.DOMTimeout = %s, want 250ms", cfg.Wait.DOMTimeout)
	}
	if cfg.Wait.GracePeriod != 0 {
		t.Errorf("Wait.GracePeriod = %s, want 0", cfg.Wait.GracePeriod)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRUCTCHECK_CONCURRENCY", "lots")
	t.Setenv("STRUCTCHECK_HEADLESS", "maybe")
	t.Setenv("STRUCTCHECK_DOM_TIMEOUT_MS", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want default 8", cfg.Concurrency)
	}
	if !cfg.Headless {
		t.Error("Headless should fall back to true")
	}
	if cfg.Wait.DOMTimeout != 5*time.Second {
		t.Errorf("Wait.DOMTimeout = %s, want default 5s", cfg.Wait.DOMTimeout)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, true},
		{"empty attribute", func(c *Config) { c.TestIDAttribute = " " }, true},
		{"attribute with quote", func(c *Config) { c.TestIDAttribute = `data-"x` }, true},
		{"non-http base url", func(c *Config) { c.BaseURL = "ftp://example.com" }, true},
		{"empty base url", func(c *Config) { c.BaseURL = "" }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"negative grace", func(c *Config) { c.Wait.GracePeriod = -time.Millisecond }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestURL(t *testing.T) {
	cfg := &Config{BaseURL: "http://localhost:3000/"}
	if got := cfg.URL("/risks"); got != "http://localhost:3000/risks" {
		t.Errorf("URL(/risks) = %s", got)
	}
	if got := cfg.URL("https://other.example.com/x"); got != "https://other.example.com/x" {
		t.Errorf("absolute URLs should pass through, got %s", got)
	}
}
