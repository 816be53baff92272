/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamodb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "github.com/suparena/dynasource/errors"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", `
region: us-east-1
access_key_id: AKIATEST
secret_access_key: secret
sample_size: 50
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "AKIATEST", cfg.AccessKeyID)
	assert.Equal(t, 50, cfg.SampleSize)
	// Unset fields get defaults
	assert.Equal(t, int32(100), cfg.PageSize)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryBackoff)
}

func TestLoadConfigJSON(t *testing.T) {
	// JSON configs parse through the YAML parser.
	path := writeConfigFile(t, "config.json",
		`{"region": "eu-west-1", "endpoint": "http://localhost:8000", "access_key_id": "k", "secret_access_key": "s"}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "http://localhost:8000", cfg.Endpoint)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", "region: us-east-1\naccess_key_id: k\nsecret_access_key: s\n")
	t.Setenv("DYNASOURCE_REGION", "ap-southeast-2")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ap-southeast-2", cfg.Region)
}

func TestLoadConfigMissingRegion(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", "sample_size: 10\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.True(t, dserrors.IsValidationError(err))
}

func TestValidateLopsidedCredentials(t *testing.T) {
	cfg := &Config{Region: "us-east-1", AccessKeyID: "only-key"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, dserrors.IsValidationError(err))
}

func TestValidateEndpointOnly(t *testing.T) {
	// A local endpoint without a region is acceptable for local stacks.
	cfg := &Config{Endpoint: "http://localhost:8000"}
	assert.NoError(t, cfg.Validate())
}
