// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig() {
	once = sync.Once{}
	instance = nil
	configPath = ""
	loadErr = nil
}

func TestLoadConfig_File(t *testing.T) {
	resetConfig()
	t.Cleanup(resetConfig)

	path := filepath.Join(t.TempDir(), "netgen.yml")
	data := `server:
  port: 9100
generator:
  defaultProfile: debian
  format: ifupdown
sessions:
  idleTimeout: 10m
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg := LoadConfig(path)
	require.NotNil(t, cfg)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debian", cfg.Generator.DefaultProfile)
	assert.Equal(t, "ifupdown", cfg.Generator.Format)
	assert.Equal(t, 10*time.Minute, cfg.IdleTimeout())
	assert.Equal(t, time.Minute, cfg.SweepInterval())
	assert.Equal(t, path, GetLoadedConfigPath())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	resetConfig()
	t.Cleanup(resetConfig)

	cfg := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NotNil(t, cfg)
	assert.Equal(t, 8044, cfg.Server.Port)
	assert.Equal(t, "ubuntu_22_04", cfg.Generator.DefaultProfile)
	assert.Equal(t, "netplan", cfg.Generator.Format)
	assert.Equal(t, 30*time.Minute, cfg.IdleTimeout())
	assert.Equal(t, 5*time.Second, cfg.HealthTimeout())
	assert.NoError(t, LoadError())
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.ErrorCode
	}{
		{"malformed yaml", "server: [port\n", errors.ConfigInvalid},
		{"wrong type", "server:\n  port: high\n", errors.ConfigUnmarshalFailed},
		{"invalid value", "generator:\n  format: xml\n", errors.ConfigValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetConfig()
			t.Cleanup(resetConfig)

			path := filepath.Join(t.TempDir(), "netgen.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))

			cfg := LoadConfig(path)
			require.NotNil(t, cfg)
			err := LoadError()
			require.Error(t, err)
			assert.True(t, errors.IsRodentError(err, tt.code), "got %v", err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Server.Port = 8044
		cfg.Generator.Format = "ifupdown"
		cfg.Sessions.IdleTimeout = "30m"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"max sessions", func(c *Config) { c.Sessions.MaxSessions = -1 }, "sessions.maxSessions"},
		{"format", func(c *Config) { c.Generator.Format = "systemd" }, "generator.format"},
		{"idle timeout", func(c *Config) { c.Sessions.IdleTimeout = "soon" }, "sessions.idleTimeout"},
		{"health timeout", func(c *Config) { c.Health.Timeout = "-5s" }, "health.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsRodentError(err, errors.ConfigValidationFailed))
			assert.Equal(t, tt.key, err.(*errors.RodentError).Metadata["key"])
		})
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	resetConfig()
	t.Cleanup(resetConfig)
	t.Setenv("NETGEN_SERVER_PORT", "9200")

	cfg := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Equal(t, 9200, cfg.Server.Port)
}

func TestSaveConfig(t *testing.T) {
	resetConfig()
	t.Cleanup(resetConfig)

	LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	out := filepath.Join(t.TempDir(), "nested", "netgen.yml")
	require.NoError(t, SaveConfig(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "defaultprofile: ubuntu_22_04")
	assert.Equal(t, out, GetLoadedConfigPath())
}

func TestSaveConfig_Errors(t *testing.T) {
	resetConfig()
	t.Cleanup(resetConfig)
	LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := SaveConfig(filepath.Join(blocker, "netgen.yml"))
	require.Error(t, err)
	assert.True(t, errors.IsRodentError(err, errors.ConfigDirectoryError))

	dir := filepath.Join(t.TempDir(), "as-dir.yml")
	require.NoError(t, os.Mkdir(dir, 0755))
	err = SaveConfig(dir)
	require.Error(t, err)
	assert.True(t, errors.IsRodentError(err, errors.ConfigWriteFailed))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseDuration(""))
	assert.Equal(t, time.Duration(0), parseDuration("soon"))
	assert.Equal(t, time.Duration(0), parseDuration("-1m"))
	assert.Equal(t, 90*time.Second, parseDuration("1m30s"))
}
