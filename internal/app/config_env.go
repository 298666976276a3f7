package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.URL == "" {
		cfg.URL = os.Getenv("MEDALS_URL")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("MEDALS_USER_AGENT")
	}
	if cfg.TopN == 0 {
		if n, ok := envInt("MEDALS_TOP_N"); ok {
			cfg.TopN = n
		}
	}
	if cfg.Timeout == 0 {
		if d, ok := envDuration("MEDALS_TIMEOUT"); ok {
			cfg.Timeout = d
		}
	}
	if !cfg.Verbose {
		if b, ok := envBool("VERBOSE"); ok {
			cfg.Verbose = b
		}
	}
}

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when they are set. This lets env take precedence over a config file while
// flags remain highest precedence.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	if v := os.Getenv("MEDALS_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("MEDALS_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if n, ok := envInt("MEDALS_TOP_N"); ok {
		cfg.TopN = n
	}
	if d, ok := envDuration("MEDALS_TIMEOUT"); ok {
		cfg.Timeout = d
	}
	if b, ok := envBool("VERBOSE"); ok {
		cfg.Verbose = b
	}
}

func envInt(key string) (int, bool) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func envDuration(key string) (time.Duration, bool) {
	return parseDuration(os.Getenv(key))
}

// parseDuration accepts Go durations ("30s") and bare milliseconds ("1500").
// Zero and negative values are rejected.
func parseDuration(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if ms, err := strconv.Atoi(s); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond, true
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
