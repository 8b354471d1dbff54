package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Abraxas-365/localembed/embedding"
)

// Prefix is the environment variable prefix, e.g. LOCALAI_SERVER_URL
const Prefix = "LOCALAI"

// Config holds the settings of a LocalAI embedding client process
type Config struct {
	ServerURL string `envconfig:"SERVER_URL" default:"http://localhost:8080"`
	Model     string `envconfig:"MODEL" default:"text-embedding-ada-002"`

	// PriceFile is an optional YAML price table
	PriceFile string `envconfig:"PRICE_FILE" default:""`

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	TimeoutSeconds int    `envconfig:"TIMEOUT_SECONDS" default:"10"`
}

// New reads the configuration from LOCALAI_ prefixed environment variables
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("SERVER_URL is required")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid SERVER_URL: %q", c.ServerURL)
	}
	if c.Model == "" {
		return errors.New("MODEL is required")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("TIMEOUT_SECONDS must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

// Timeout returns the request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Credentials returns the credentials bag for the configured server
func (c *Config) Credentials() embedding.Credentials {
	return embedding.Credentials{embedding.CredentialServerURL: c.ServerURL}
}
