package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when no NASA API key could be found.
var ErrMissingAPIKey = errors.New("NASA API key not found; set NASA_API_KEY in the secrets file, a .env file or the environment")

const defaultSecretsFile = ".streamlit/secrets.toml"

type AppConfig struct {
	NASAAPIKey     string `validate:"required"`
	NASAAPIBaseURL string `validate:"required,url"`

	// CacheTTL is how long fetched NASA responses are reused.
	CacheTTL time.Duration `validate:"gt=0"`
	// CacheSweepInterval controls how often expired entries are dropped from memory.
	CacheSweepInterval time.Duration `validate:"gt=0"`

	DefaultNumPhotos int `validate:"gt=0,lte=25"`
	MaxSolsForChart  int `validate:"gt=0"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from the secrets file, .env and environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	key, err := loadAPIKey(getenvDefault("SECRETS_FILE", defaultSecretsFile))
	if err != nil {
		return nil, err
	}
	cfg.NASAAPIKey = key
	cfg.NASAAPIBaseURL = getenvDefault("NASA_API_BASE_URL", "https://api.nasa.gov")

	ttlSeconds, err := getenvInt("CACHE_TTL_SECONDS", 3600)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	if cfg.CacheSweepInterval, err = getenvDuration("CACHE_SWEEP_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.DefaultNumPhotos, err = getenvInt("DEFAULT_NUM_PHOTOS", 5); err != nil {
		return nil, err
	}
	if cfg.MaxSolsForChart, err = getenvInt("MAX_SOLS_FOR_CHART", 7); err != nil {
		return nil, err
	}
	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type secrets struct {
	NASAAPIKey string `toml:"NASA_API_KEY"`
}

// loadAPIKey prefers the secrets file and falls back to the NASA_API_KEY variable.
// A missing secrets file is not an error; an unreadable one is.
func loadAPIKey(path string) (string, error) {
	if path != "" {
		var s secrets
		_, err := toml.DecodeFile(path, &s)
		switch {
		case err == nil && s.NASAAPIKey != "":
			return s.NASAAPIKey, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("read secrets file %s: %w", path, err)
		}
	}

	if v := os.Getenv("NASA_API_KEY"); v != "" {
		return v, nil
	}
	return "", ErrMissingAPIKey
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
