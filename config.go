package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values
type Config struct {
	NodeID      string
	Domain      string
	RetryCount  int
	RetryDelay  time.Duration
	Timeout     time.Duration
	CycleDelay  time.Duration
	RolesFile   string
	PhrasesFile string
	LogFile     string // empty disables the file sink
	LogLevel    string
	DatabaseURL string // optional cycle journal
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return loadConfig(os.LookupEnv)
}

func loadConfig(lookup LookupFunc) (*Config, error) {
	cfg := &Config{
		NodeID:      envOr(lookup, "NODE_ID", ""),
		Domain:      envOr(lookup, "DOMAIN", ""),
		RolesFile:   envOr(lookup, "ROLES_FILE", "roles.txt"),
		PhrasesFile: envOr(lookup, "PHRASES_FILE", "phrases.txt"),
		LogLevel:    envOr(lookup, "LOG_LEVEL", "info"),
		DatabaseURL: envOr(lookup, "DATABASE_URL", ""),
		LogFile:     "gaia_bot.log",
	}
	if cfg.NodeID == "" && cfg.Domain == "" {
		return nil, fmt.Errorf("NODE_ID not specified in environment variables")
	}
	if v, ok := lookup("LOG_FILE"); ok {
		cfg.LogFile = strings.TrimSpace(v)
	}

	var err error
	if cfg.RetryCount, err = envInt(lookup, "RETRY_COUNT", 3, 0); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = envSeconds(lookup, "RETRY_DELAY", 5, 0); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = envSeconds(lookup, "TIMEOUT", 60, 1); err != nil {
		return nil, err
	}
	if cfg.CycleDelay, err = envSeconds(lookup, "CYCLE_DELAY", 1, 0); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envOr returns the trimmed value of key, or fallback if unset or blank.
func envOr(lookup LookupFunc, key, fallback string) string {
	if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(lookup LookupFunc, key string, fallback, minVal int) (int, error) {
	raw := envOr(lookup, key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if v < minVal {
		return 0, fmt.Errorf("invalid %s %d: must be at least %d", key, v, minVal)
	}
	return v, nil
}

func envSeconds(lookup LookupFunc, key string, fallback, minVal int) (time.Duration, error) {
	v, err := envInt(lookup, key, fallback, minVal)
	if err != nil {
		return 0, err
	}
	return time.Duration(v) * time.Second, nil
}
