package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Stefan/ppm-saas-sub008/internal/platform"
)

// Config holds runtime configuration read from the environment.
type Config struct {
	// Browser target
	BaseURL         string
	TestIDAttribute string
	Headless        bool

	// Verification
	Concurrency int
	Wait        platform.WaitOptions

	// Logging: trace, debug, info, warn, error
	LogLevel string
}

// Load reads .env (if present) and then the STRUCTCHECK_* environment
// variables, falling back to defaults.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	wait := platform.DefaultWaitOptions()
	cfg := &Config{
		BaseURL:         getEnv("STRUCTCHECK_BASE_URL", "http://localhost:3000"),
		TestIDAttribute: getEnv("STRUCTCHECK_TESTID_ATTR", platform.DefaultTestIDAttribute),
		Headless:        getEnvBool("STRUCTCHECK_HEADLESS", true),
		Concurrency:     getEnvInt("STRUCTCHECK_CONCURRENCY", 8),
		Wait: platform.WaitOptions{
			NetworkIdle:        wait.NetworkIdle,
			NetworkIdleTimeout: getEnvMillis("STRUCTCHECK_NETWORK_IDLE_TIMEOUT_MS", wait.NetworkIdleTimeout),
			SelectorTimeout:    getEnvMillis("STRUCTCHECK_SELECTOR_TIMEOUT_MS", wait.SelectorTimeout),
			DOMTimeout:         getEnvMillis("STRUCTCHECK_DOM_TIMEOUT_MS", wait.DOMTimeout),
			GracePeriod:        getEnvMillis("STRUCTCHECK_GRACE_MS", wait.GracePeriod),
		},
		LogLevel: getEnv("STRUCTCHECK_LOG_LEVEL", "info"),
	}
	if cfg.Wait.NetworkIdleTimeout == 0 {
		cfg.Wait.NetworkIdle = false
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return fmt.Errorf("STRUCTCHECK_CONCURRENCY must be positive, got %d", c.Concurrency)
	}
	if strings.TrimSpace(c.TestIDAttribute) == "" || strings.ContainsAny(c.TestIDAttribute, " \"'=[]") {
		return fmt.Errorf("STRUCTCHECK_TESTID_ATTR is not a valid attribute name: %q", c.TestIDAttribute)
	}
	if c.BaseURL != "" && platform.TargetKind(c.BaseURL) != platform.KindBrowser {
		return fmt.Errorf("STRUCTCHECK_BASE_URL must be an http(s) URL, got %q", c.BaseURL)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("STRUCTCHECK_LOG_LEVEL: %w", err)
	}
	for name, d := range map[string]time.Duration{
		"STRUCTCHECK_NETWORK_IDLE_TIMEOUT_MS": c.Wait.NetworkIdleTimeout,
		"STRUCTCHECK_SELECTOR_TIMEOUT_MS":     c.Wait.SelectorTimeout,
		"STRUCTCHECK_DOM_TIMEOUT_MS":          c.Wait.DOMTimeout,
		"STRUCTCHECK_GRACE_MS":                c.Wait.GracePeriod,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// URL joins BaseURL and a page path.
func (c *Config) URL(path string) string {
	if platform.TargetKind(path) == platform.KindBrowser {
		return path
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvMillis(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}
