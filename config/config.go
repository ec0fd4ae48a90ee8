// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/internal/constants"
	"github.com/stratastor/netgen/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	instance   *Config
	once       sync.Once
	configPath string // Tracks where the config was loaded from
	loadErr    error  // Read, decode or validation failure of the last load
)

// Formats accepted by generator.format
var outputFormats = []string{"netplan", "ifupdown"}

type Config struct {
	Server struct {
		Port      int    `mapstructure:"port"`
		LogLevel  string `mapstructure:"logLevel"`
		Daemonize bool   `mapstructure:"daemonize"`
	} `mapstructure:"server"`

	Health struct {
		Endpoint string `mapstructure:"endpoint"`
		Timeout  string `mapstructure:"timeout"`
	} `mapstructure:"health"`

	Logger struct {
		LogLevel     string `mapstructure:"logLevel"`
		EnableSentry bool   `mapstructure:"enableSentry"`
		SentryDSN    string `mapstructure:"sentryDSN"`
	} `mapstructure:"logger"`

	Generator struct {
		DefaultProfile string `mapstructure:"defaultProfile"`
		Format         string `mapstructure:"format"`
	} `mapstructure:"generator"`

	Sessions struct {
		IdleTimeout   string `mapstructure:"idleTimeout"`
		SweepInterval string `mapstructure:"sweepInterval"`
		MaxSessions   int    `mapstructure:"maxSessions"`
	} `mapstructure:"sessions"`

	Environment string `mapstructure:"environment"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "dev")
	v.SetDefault("server.port", 8044)
	v.SetDefault("server.logLevel", "info")
	v.SetDefault("server.daemonize", false)
	v.SetDefault("health.endpoint", constants.HealthPath)
	v.SetDefault("health.timeout", "5s")
	v.SetDefault("logger.logLevel", "info")
	v.SetDefault("logger.enableSentry", false)
	v.SetDefault("logger.sentryDSN", "")
	v.SetDefault("generator.defaultProfile", "ubuntu_22_04")
	v.SetDefault("generator.format", "netplan")
	v.SetDefault("sessions.idleTimeout", "30m")
	v.SetDefault("sessions.sweepInterval", "1m")
	v.SetDefault("sessions.maxSessions", 256)
}

// LoadConfig loads the configuration with precedence rules.
func LoadConfig(configFilePath string) *Config {
	once.Do(func() {
		// Setup basic logger for initialization
		logConfig := logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
		l, err := logger.NewTag(logConfig, "config")
		if err != nil {
			fmt.Printf("Failed to create logger: %v\n", err)
			os.Exit(1)
		}

		// Reset viper to avoid any potential carryover
		viper.Reset()
		viper.SetConfigType("yaml")

		// Determine which config file to use with clear priorities
		defaultConfigPath := filepath.Join(GetConfigDir(), constants.ConfigFileName)

		if configFilePath != "" {
			// 1. Priority: Explicit path from command line
			configPath = configFilePath
		} else if envPath := os.Getenv("NETGEN_CONFIG"); envPath != "" {
			// 2. Priority: Environment variable
			configPath = envPath
		} else {
			// 3. Priority: Per-user or system config directory
			configPath = defaultConfigPath
		}

		l.Debug("Using config file", "path", configPath)

		// Convert to absolute path if possible for consistency
		absPath, err := filepath.Abs(configPath)
		if err == nil {
			configPath = absPath
		}

		viper.SetConfigFile(configPath)
		setDefaults(viper.GetViper())

		// Bind environment variables
		viper.AutomaticEnv()
		viper.SetEnvPrefix("NETGEN")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		var cfg Config
		err = readConfig(viper.GetViper(), configPath)
		switch {
		case err == nil:
			l.Debug("Config file loaded successfully", "path", viper.ConfigFileUsed())
			configPath = viper.ConfigFileUsed()
		case errors.IsRodentError(err, errors.ConfigNotFound):
			// Running without a config file is normal for one-shot commands
			l.Debug("Config file not found, using defaults", "path", configPath)
		default:
			l.Error("Error reading config file, using defaults", "err", err)
			loadErr = err
		}

		if err := viper.Unmarshal(&cfg); err != nil {
			l.Error("Failed to parse configuration", "err", err)
			loadErr = errors.Wrap(err, errors.ConfigUnmarshalFailed).
				WithMetadata("path", configPath)
		}
		if err := cfg.Validate(); err != nil && loadErr == nil {
			l.Error("Invalid configuration", "err", err)
			loadErr = err
		}
		instance = &cfg

		l.Debug("Loaded configuration", "config", fmt.Sprintf("%+v", cfg))
	})

	return instance
}

// LoadError returns why the last LoadConfig fell back to defaults or
// produced an invalid configuration. A missing config file is not an error.
func LoadError() error {
	return loadErr
}

// readConfig reads the config file into v and classifies failures
func readConfig(v *viper.Viper, path string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var parseErr viper.ConfigParseError
	var code errors.ErrorCode = errors.ConfigLoadFailed
	switch {
	case isNotFound(err):
		code = errors.ConfigNotFound
	case stderrors.Is(err, fs.ErrPermission):
		code = errors.ConfigPermissionDenied
	case stderrors.As(err, &parseErr):
		code = errors.ConfigInvalid
	}
	return errors.Wrap(err, code).WithMetadata("path", path)
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound) || stderrors.Is(err, fs.ErrNotExist)
}

// SaveConfig persists the current configuration to a specified path.
func SaveConfig(path string) error {
	if path == "" {
		path = filepath.Join(GetConfigDir(), constants.ConfigFileName)
	}

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ConfigDirectoryError).
			WithMetadata("path", filepath.Dir(path))
	}

	// Save configuration
	configYAML, err := yaml.Marshal(GetConfig())
	if err != nil {
		return errors.Wrap(err, errors.ConfigMarshalFailed)
	}

	if err := os.WriteFile(path, configYAML, 0644); err != nil {
		var code errors.ErrorCode = errors.ConfigWriteFailed
		if stderrors.Is(err, fs.ErrPermission) {
			code = errors.ConfigPermissionDenied
		}
		return errors.Wrap(err, code).WithMetadata("path", path)
	}

	// Update the tracked config path
	configPath = path

	return nil
}

// GetLoadedConfigPath returns the path of the currently loaded configuration file.
func GetLoadedConfigPath() string {
	return configPath
}

// GetConfig returns the current configuration instance.
func GetConfig() *Config {
	if instance == nil {
		return LoadConfig("")
	}
	return instance
}

func NewLoggerConfig(cfg *Config) logger.Config {
	if cfg == nil {
		return logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
	}

	return logger.Config{
		LogLevel:     cfg.Logger.LogLevel,
		EnableSentry: cfg.Logger.EnableSentry,
		SentryDSN:    cfg.Logger.SentryDSN,
	}
}

// Validate checks the values LoadConfig cannot type check. It reports the
// first offending key.
func (c *Config) Validate() error {
	invalid := func(key, value, reason string) error {
		return errors.New(errors.ConfigValidationFailed, reason).
			WithMetadata("key", key).
			WithMetadata("value", value)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", strconv.Itoa(c.Server.Port), "port must be between 0 and 65535")
	}
	if c.Sessions.MaxSessions < 0 {
		return invalid("sessions.maxSessions", strconv.Itoa(c.Sessions.MaxSessions), "must not be negative")
	}
	if c.Generator.Format != "" && !slices.Contains(outputFormats, c.Generator.Format) {
		return invalid("generator.format", c.Generator.Format,
			"must be one of: "+strings.Join(outputFormats, ", "))
	}

	durations := []struct{ key, value string }{
		{"sessions.idleTimeout", c.Sessions.IdleTimeout},
		{"sessions.sweepInterval", c.Sessions.SweepInterval},
		{"health.timeout", c.Health.Timeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		if v, err := time.ParseDuration(d.value); err != nil || v < 0 {
			return invalid(d.key, d.value, "must be a non-negative duration such as 30s or 5m")
		}
	}

	return nil
}

// IdleTimeout parses sessions.idleTimeout. Zero means the store default.
func (c *Config) IdleTimeout() time.Duration {
	return parseDuration(c.Sessions.IdleTimeout)
}

// SweepInterval parses sessions.sweepInterval. Zero means the store default.
func (c *Config) SweepInterval() time.Duration {
	return parseDuration(c.Sessions.SweepInterval)
}

// HealthTimeout parses health.timeout
func (c *Config) HealthTimeout() time.Duration {
	if d := parseDuration(c.Health.Timeout); d > 0 {
		return d
	}
	return 5 * time.Second
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
