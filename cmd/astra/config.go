package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = ".astra/config.yaml"

// Config is the on-disk configuration. Flags override it.
type Config struct {
	BaseURL      string        `yaml:"base_url"`
	WSURL        string        `yaml:"ws_url"`
	Token        string        `yaml:"token"`
	Transport    string        `yaml:"transport"`
	RateLimitRPM int           `yaml:"rate_limit_rpm"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	LogLevel     string        `yaml:"log_level"`
	ReadSize     int           `yaml:"read_size"`
}

func defaultConfig() Config {
	return Config{
		BaseURL:      "http://localhost:8000/api",
		WSURL:        "ws://localhost:8000/api",
		Transport:    "http",
		MaxRetries:   2,
		RetryBackoff: 500 * time.Millisecond,
		LogLevel:     "warn",
	}
}

// loadConfig reads a YAML config file, expands environment variables, and
// applies it over the defaults. A missing file is an error only when
// required is set.
func loadConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !required:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("config file not found: %s", path)
	default:
		return Config{}, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	switch cfg.Transport {
	case "http", "websocket":
	default:
		return Config{}, fmt.Errorf("%s: unknown transport %q", path, cfg.Transport)
	}
	return cfg, nil
}
