package config

import (
	"errors"
	"time"
)

// Config holds runtime configuration for the service. It is constructed once
// at startup and passed explicitly; no component reads ambient state.
type Config struct {
	// HTTP
	ListenAddr string

	// LLM backend
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Generation behavior
	GenTimeout      time.Duration
	MaxOutputTokens int
	DefaultProfile  string
	ProfilePath     string

	// Auth
	AuthSecret string
	TokenTTL   time.Duration

	// Page fetch
	FetchTimeout  time.Duration
	FetchMaxBytes int

	Verbose bool
}

// Defaults returns a Config populated with sensible defaults; callers layer
// flags and environment on top.
func Defaults() Config {
	return Config{
		ListenAddr:      ":8080",
		LLMModel:        "gpt-4o",
		GenTimeout:      120 * time.Second,
		MaxOutputTokens: 8192,
		DefaultProfile:  DefaultProfileName,
		TokenTTL:        12 * time.Hour,
		FetchTimeout:    15 * time.Second,
		FetchMaxBytes:   2 << 20,
	}
}

// ErrMissingAPIKey indicates the generation backend credential is absent in
// the runtime. It is a configuration error, surfaced before any processing.
var ErrMissingAPIKey = errors.New("LLM API key is not configured")

// ErrMissingAuthSecret indicates no token signing secret is configured for
// serving mode.
var ErrMissingAuthSecret = errors.New("auth secret is not configured")

// Validate checks that the configuration can support a generation run.
// requireAuth is set for serving mode, where tokens must be issuable.
func (c Config) Validate(requireAuth bool) error {
	if c.LLMAPIKey == "" {
		return ErrMissingAPIKey
	}
	if requireAuth && c.AuthSecret == "" {
		return ErrMissingAuthSecret
	}
	if _, ok := Profile(c.DefaultProfile); !ok {
		return errors.New("unknown default constraint profile: " + c.DefaultProfile)
	}
	return nil
}
