// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hammamikhairi/ottotype/internal/domain"
)

// Env var names.
const (
	EnvAPIKey     = "DEEPGRAM_API_KEY"
	EnvModel      = "OTTOTYPE_MODEL"
	EnvLanguage   = "OTTOTYPE_LANGUAGE"
	EnvSampleRate = "OTTOTYPE_SAMPLE_RATE"
	EnvDataDir    = "OTTOTYPE_DATA_DIR"
)

// Defaults.
const (
	DefaultModel      = "nova-2"
	DefaultLanguage   = "en-US"
	DefaultSampleRate = 16000
	DefaultDataDir    = "."
)

// Config is everything the app needs at startup.
type Config struct {
	APIKey     string
	Model      string
	Language   string
	SampleRate int
	DataDir    string
}

// Load reads the environment and validates it. The API key is the one
// hard requirement; everything else falls back to defaults.
func Load() (*Config, error) {
	cfg := &Config{
		APIKey:     os.Getenv(EnvAPIKey),
		Model:      envOr(EnvModel, DefaultModel),
		Language:   envOr(EnvLanguage, DefaultLanguage),
		SampleRate: DefaultSampleRate,
		DataDir:    envOr(EnvDataDir, DefaultDataDir),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s not set: %w", EnvAPIKey, domain.ErrMissingAPIKey)
	}

	if raw := os.Getenv(EnvSampleRate); raw != "" {
		rate, err := strconv.Atoi(raw)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", EnvSampleRate, raw)
		}
		cfg.SampleRate = rate
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
