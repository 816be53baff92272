/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamodb

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	dserrors "github.com/suparena/dynasource/errors"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. DYNASOURCE_REGION -> region.
const EnvPrefix = "DYNASOURCE_"

// Config holds the connection parameters for the table client. The engine
// passes it through opaquely; only this package interprets it.
type Config struct {
	// Endpoint overrides the DynamoDB endpoint (useful for local stacks).
	Endpoint string `koanf:"endpoint" json:"endpoint,omitempty"`
	// Region is the AWS region of the target tables.
	Region string `koanf:"region" json:"region"`
	// AccessKeyID and SecretAccessKey are static credentials. When empty,
	// the default AWS credential chain is used.
	AccessKeyID     string `koanf:"access_key_id" json:"access_key_id,omitempty"`
	SecretAccessKey string `koanf:"secret_access_key" json:"secret_access_key,omitempty"`

	// SampleSize is the row limit for schema inference during discovery.
	SampleSize int `koanf:"sample_size" json:"sample_size,omitempty"`
	// PageSize is the item limit per scan page.
	PageSize int32 `koanf:"page_size" json:"page_size,omitempty"`
	// MaxRetries bounds retries of retryable scan errors.
	MaxRetries int `koanf:"max_retries" json:"max_retries,omitempty"`
	// RetryBackoff is the base backoff between retries.
	RetryBackoff time.Duration `koanf:"retry_backoff" json:"retry_backoff,omitempty"`
}

// ApplyDefaults fills zero fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.SampleSize == 0 {
		c.SampleSize = 1000
	}
	if c.PageSize == 0 {
		c.PageSize = 100
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = time.Second
	}
}

// Validate checks the config for required fields.
func (c *Config) Validate() error {
	if c.Region == "" && c.Endpoint == "" {
		return dserrors.NewValidationError("region", "must not be empty")
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return dserrors.NewValidationError("access_key_id", "static credentials require both key id and secret")
	}
	return nil
}

// LoadConfig reads a config file (YAML or JSON; YAML is a superset of JSON)
// and applies DYNASOURCE_-prefixed environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
