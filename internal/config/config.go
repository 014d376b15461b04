// Package config loads the relay's settings from defaults, an optional YAML
// file, a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

// Config holds every setting of the relay server
type Config struct {
	Port           string   `yaml:"port"`
	Debug          bool     `yaml:"debug"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	APIKeys        []string `yaml:"api_keys"`
	MaxMessageSize int64    `yaml:"max_message_size"`

	ResultsBackend string `yaml:"results_backend"`
	ResultsKept    int    `yaml:"results_kept"`
	RedisURL       string `yaml:"redis_url"`
	DatabaseURL    string `yaml:"database_url"`
}

// Default returns the settings used when nothing overrides them
func Default() *Config {
	return &Config{
		Port:           "8080",
		MaxMessageSize: 4096,
		ResultsBackend: "memory",
		ResultsKept:    1000,
	}
}

// Load builds the configuration. The YAML file is named by CONFIG_FILE; a
// missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		c.Port = v
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		c.AllowedOrigins = SplitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("API_KEYS")); v != "" {
		c.APIKeys = SplitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("RESULTS_BACKEND")); v != "" {
		c.ResultsBackend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		c.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		c.DatabaseURL = v
	}

	if v := strings.TrimSpace(os.Getenv("MAX_MESSAGE_SIZE")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid MAX_MESSAGE_SIZE %q", v)
		}
		c.MaxMessageSize = n
	}
	if v := strings.TrimSpace(os.Getenv("RESULTS_KEPT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid RESULTS_KEPT %q", v)
		}
		c.ResultsKept = n
	}
	if v := strings.TrimSpace(os.Getenv("DEBUG")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG %q", v)
		}
		c.Debug = b
	}

	return nil
}

// SplitList splits a comma separated value, dropping blanks
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}

	return out
}
