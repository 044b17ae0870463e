package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHost    = "127.0.0.1"
	DefaultPort    = 5000
	DefaultModel   = "gemini-flash-latest"
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultTimeout = 60 * time.Second
)

// Config represents the structure of the configuration file.
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`
	Gemini struct {
		APIKeys []string      `yaml:"api_keys"`
		Model   string        `yaml:"model"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"gemini"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Tracing struct {
		Endpoint    string `yaml:"endpoint"`
		ServiceName string `yaml:"service_name"`
	} `yaml:"tracing"`
}

// Load reads an optional YAML file from the given path, then applies .env and
// process environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	// Real environment variables win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.fillDefaults()

	return cfg, nil
}

// Default returns a Config populated with default values.
func Default() *Config {
	cfg := &Config{}
	cfg.fillDefaults()
	return cfg
}

func (c *Config) fillDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultModel
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = DefaultBaseURL
	}
	if c.Gemini.Timeout == 0 {
		c.Gemini.Timeout = DefaultTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "policyrelay"
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("GOOGLE_API_KEY"); ok && strings.TrimSpace(v) != "" {
		keys := []string{strings.TrimSpace(v)}
		for _, k := range c.Gemini.APIKeys {
			if k != keys[0] {
				keys = append(keys, k)
			}
		}
		c.Gemini.APIKeys = keys
	}
	if v, ok := lookup("HOST"); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("GEMINI_MODEL"); ok && v != "" {
		c.Gemini.Model = v
	}
	if v, ok := lookup("GEMINI_BASE_URL"); ok && v != "" {
		c.Gemini.BaseURL = v
	}
	if v, ok := lookup("GEMINI_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GEMINI_TIMEOUT %q: %w", v, err)
		}
		c.Gemini.Timeout = d
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("OTEL_EXPORTER_OTLP_ENDPOINT"); ok && v != "" {
		c.Tracing.Endpoint = v
	}
	return nil
}

// Validate checks the configuration once at startup. Structural problems are
// returned as an error; conditions the relay can run with, such as a missing
// API key, are returned as warnings.
func (c *Config) Validate() (warnings []string, err error) {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return nil, fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Gemini.Timeout <= 0 {
		return nil, fmt.Errorf("gemini timeout must be positive, got %s", c.Gemini.Timeout)
	}
	u, err := url.Parse(c.Gemini.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid gemini base url %q", c.Gemini.BaseURL)
	}

	if len(c.Gemini.APIKeys) == 0 {
		warnings = append(warnings, "no Gemini API key configured (GOOGLE_API_KEY); every analysis will fail with a provider authorization error")
	}
	return warnings, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
