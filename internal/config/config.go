package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Camb-ai/camb-go/internal/api"
)

// EnvAPIKey is the environment variable consulted when the config file
// carries no key. The key is never written back or logged.
const EnvAPIKey = "CAMB_API_KEY"

// Config represents the complete client configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Poll    PollConfig    `yaml:"poll"`
	Batch   BatchConfig   `yaml:"batch"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig contains remote API connection configuration
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Timeout int    `yaml:"timeout"` // seconds
}

// PollConfig contains task polling configuration
type PollConfig struct {
	IntervalMs     int `yaml:"interval_ms"`
	MaxWaitSeconds int `yaml:"max_wait_seconds"` // 0 means unbounded
}

// BatchConfig contains batch processing configuration
type BatchConfig struct {
	ContinueOnFail bool   `yaml:"continue_on_fail"`
	OutputDir      string `yaml:"output_dir"`
}

// HTTPConfig contains monitoring HTTP server configuration
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file. The API key falls back to
// the CAMB_API_KEY environment variable when absent from the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config.applyDefaults()
	if config.API.APIKey == "" {
		config.API.APIKey = os.Getenv(EnvAPIKey)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = api.DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 30
	}
	if c.Poll.IntervalMs == 0 {
		c.Poll.IntervalMs = 3000
	}
	if c.Batch.OutputDir == "" {
		c.Batch.OutputDir = "./output"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api config: %w", err)
	}

	if err := c.Poll.Validate(); err != nil {
		return fmt.Errorf("poll config: %w", err)
	}

	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch config: %w", err)
	}

	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates API configuration
func (a *APIConfig) Validate() error {
	if a.BaseURL == "" {
		return fmt.Errorf("base_url cannot be empty")
	}

	if a.APIKey == "" {
		return fmt.Errorf("api_key cannot be empty (set it in the config file or via %s)", EnvAPIKey)
	}

	if a.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", a.Timeout)
	}

	return nil
}

// Validate validates polling configuration
func (p *PollConfig) Validate() error {
	if p.IntervalMs < 100 {
		return fmt.Errorf("interval_ms must be at least 100, got %d", p.IntervalMs)
	}

	if p.MaxWaitSeconds < 0 {
		return fmt.Errorf("max_wait_seconds cannot be negative, got %d", p.MaxWaitSeconds)
	}

	return nil
}

// Validate validates batch configuration
func (b *BatchConfig) Validate() error {
	if b.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Enabled {
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("http port must be between 1 and 65535, got %d", h.Port)
		}

		if h.Address == "" {
			return fmt.Errorf("http address cannot be empty when HTTP is enabled")
		}
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	validOutputs := map[string]bool{"stdout": true, "stderr": true}
	if !validOutputs[l.Output] {
		return fmt.Errorf("output must be 'stdout' or 'stderr', got '%s'", l.Output)
	}

	return nil
}

// GetTimeoutDuration returns the API timeout as a time.Duration
func (a *APIConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

// GetIntervalDuration returns the polling interval as a time.Duration
func (p *PollConfig) GetIntervalDuration() time.Duration {
	return time.Duration(p.IntervalMs) * time.Millisecond
}

// GetMaxWaitDuration returns the polling budget as a time.Duration; zero
// means the poller waits without a ceiling
func (p *PollConfig) GetMaxWaitDuration() time.Duration {
	return time.Duration(p.MaxWaitSeconds) * time.Second
}
