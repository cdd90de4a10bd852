// Package app holds process configuration: defaults, environment overlay,
// and the optional config file.
package app

import (
	"os"
	"strconv"
	"time"
)

// Config carries every knob the service reads at startup. It is built once
// in main and passed down; nothing reads the environment after that.
type Config struct {
	// Port the HTTP server listens on.
	Port int
	// StaticDir is served at / when it exists.
	StaticDir string

	// LLMAPIKey enables model-backed summaries. Empty means every request
	// uses basic-tier analysis; it is never an error.
	LLMAPIKey string
	// LLMBaseURL points at an OpenAI-compatible endpoint. Empty targets
	// the default.
	LLMBaseURL string
	LLMModel   string
	// LLMMaxTokens bounds the summary completion.
	LLMMaxTokens int

	// FetchTimeout bounds the outbound page fetch.
	FetchTimeout time.Duration
	// FetchUserAgent overrides the default browser-like identity header.
	FetchUserAgent string

	Verbose bool
}

// Defaults returns the baseline configuration before flags, environment,
// or file overlays.
func Defaults() Config {
	return Config{
		Port:         3000,
		StaticDir:    "public",
		LLMModel:     "gpt-4o-mini",
		LLMMaxTokens: 1000,
		FetchTimeout: 10 * time.Second,
	}
}

// ApplyEnv overlays environment variables onto cfg for fields still at
// their default. Flags already parsed take precedence; callers apply this
// after flag parsing with the defaults as the comparison base.
func ApplyEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	def := Defaults()
	if cfg.Port == def.Port {
		if v, err := strconv.Atoi(os.Getenv("PORT")); err == nil && v > 0 {
			cfg.Port = v
		}
	}
	if cfg.StaticDir == def.StaticDir {
		if v := os.Getenv("STATIC_DIR"); v != "" {
			cfg.StaticDir = v
		}
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == def.LLMModel {
		if v := os.Getenv("LLM_MODEL"); v != "" {
			cfg.LLMModel = v
		}
	}
}
