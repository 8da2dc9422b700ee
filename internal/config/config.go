// Package config loads engine tuning from environment variables, with an
// optional .env file for development setups.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds engine and server tuning.
type Config struct {
	// VisitedNodeCap bounds every traversal; a pathological tree stops
	// scanning at this many nodes instead of running away.
	VisitedNodeCap int

	// Wait engine backoff bounds.
	PollMin time.Duration
	PollMax time.Duration

	// DefaultTimeout applies when a query carries no timeout of its own.
	DefaultTimeout time.Duration

	// MCP server settings.
	Transport string
	Port      int
	CacheTTL  time.Duration

	Debug bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present; a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		VisitedNodeCap: 10000,
		PollMin:        50 * time.Millisecond,
		PollMax:        time.Second,
		DefaultTimeout: 0,
		Transport:      getEnv("UIACTL_MCP_TRANSPORT", "stdio"),
		Port:           8931,
		CacheTTL:       2 * time.Second,
		Debug:          getEnvBool("UIACTL_DEBUG", false),
	}

	var err error
	if cfg.VisitedNodeCap, err = getEnvInt("UIACTL_NODE_CAP", cfg.VisitedNodeCap); err != nil {
		return nil, err
	}
	if cfg.VisitedNodeCap < 1 {
		return nil, fmt.Errorf("UIACTL_NODE_CAP must be >= 1")
	}
	if cfg.PollMin, err = getEnvDuration("UIACTL_POLL_MIN", cfg.PollMin); err != nil {
		return nil, err
	}
	if cfg.PollMax, err = getEnvDuration("UIACTL_POLL_MAX", cfg.PollMax); err != nil {
		return nil, err
	}
	if cfg.PollMin <= 0 || cfg.PollMax < cfg.PollMin {
		return nil, fmt.Errorf("poll bounds invalid: min=%s max=%s", cfg.PollMin, cfg.PollMax)
	}
	if cfg.DefaultTimeout, err = getEnvDuration("UIACTL_DEFAULT_TIMEOUT", cfg.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.Port, err = getEnvInt("UIACTL_MCP_PORT", cfg.Port); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvDuration("UIACTL_CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
