package config

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

	setString := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "LLM_API_KEY")
	setString(&cfg.AuthSecret, "AUTH_SECRET")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.ProfilePath, "PROFILE_FILE")
	setString(&cfg.DefaultProfile, "PROFILE")

	setDuration := func(dst *time.Duration, key string) {
		if *dst != 0 {
			return
		}
		if s := os.Getenv(key); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDuration(&cfg.GenTimeout, "GEN_TIMEOUT")
	setDuration(&cfg.FetchTimeout, "FETCH_TIMEOUT")
	setDuration(&cfg.TokenTTL, "TOKEN_TTL")

	setInt := func(dst *int, key string) {
		if *dst != 0 {
			return
		}
		if s := os.Getenv(key); s != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
				*dst = n
			}
		}
	}
	setInt(&cfg.MaxOutputTokens, "MAX_OUTPUT_TOKENS")
	setInt(&cfg.FetchMaxBytes, "FETCH_MAX_BYTES")

	if !cfg.Verbose {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				cfg.Verbose = true
			}
		}
	}
}
