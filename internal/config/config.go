package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	History  HistoryConfig  `yaml:"history"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
	// APIURL overrides api.telegram.org, e.g. for a self-hosted
	// Bot API server. Empty means the default.
	APIURL         string        `yaml:"api_url"`
	PollTimeout    time.Duration `yaml:"poll_timeout"`
	ConnectRetries int           `yaml:"connect_retries"`
	ConnectBackoff time.Duration `yaml:"connect_backoff"`
}

type GeminiConfig struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxRetries     int           `yaml:"max_retries"`
}

type HistoryConfig struct {
	Path string `yaml:"path"`
}

func defaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			PollTimeout:    10 * time.Second,
			ConnectRetries: 5,
			ConnectBackoff: 2 * time.Second,
		},
		Gemini: GeminiConfig{
			BaseURL:        "https://generativelanguage.googleapis.com/v1beta",
			Model:          "gemini-2.5-pro",
			RequestTimeout: 30 * time.Second,
			MaxRetries:     3,
		},
		History: HistoryConfig{
			Path: "./geolens.db",
		},
	}
}

// Load builds the configuration from an optional YAML file (path in
// GEOLENS_CONFIG) with environment variables taking precedence.
// The container starts the bot with no arguments, so env is the
// authoritative source.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("GEOLENS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.Telegram.Token = getEnv("TELEGRAM_TOKEN", cfg.Telegram.Token)
	cfg.Telegram.APIURL = getEnv("TELEGRAM_API_URL", cfg.Telegram.APIURL)
	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.BaseURL = getEnv("GEMINI_URL", cfg.Gemini.BaseURL)
	cfg.Gemini.Model = getEnv("GEMINI_MODEL", cfg.Gemini.Model)
	cfg.History.Path = getEnv("GEOLENS_DB", cfg.History.Path)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("config: TELEGRAM_TOKEN is required")
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("config: GEMINI_API_KEY is required")
	}
	if c.Gemini.BaseURL == "" {
		return fmt.Errorf("config: gemini base URL must not be empty")
	}
	if c.Telegram.PollTimeout <= 0 {
		return fmt.Errorf("config: poll_timeout must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
