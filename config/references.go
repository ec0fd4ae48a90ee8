// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stratastor/netgen/internal/constants"
	"github.com/stratastor/netgen/pkg/errors"
)

var (
	configDir string // Directory for configuration files
	stateDir  string // Directory for pid and daemon log files
)

func init() {
	if dir := os.Getenv("NETGEN_HOME"); dir != "" {
		configDir = dir
	} else if os.Geteuid() == 0 {
		configDir = "/etc/netgen"
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(fmt.Sprintf("failed to get home directory: %v", err))
		}
		configDir = filepath.Join(homeDir, ".netgen")
	}

	stateDir = filepath.Join(configDir, "run")
}

// GetConfigDir returns the appropriate configuration directory
// If running as root, it returns the system config directory
// Otherwise, it returns the user config directory
func GetConfigDir() string {
	return configDir
}

// GetStateDir returns the directory holding the pid file and daemon log
func GetStateDir() string {
	return stateDir
}

// GetPIDFilePath returns where the server records its pid
func GetPIDFilePath() string {
	return filepath.Join(stateDir, constants.PIDFileName)
}

// GetLogFilePath returns the daemon log file path
func GetLogFilePath() string {
	return filepath.Join(stateDir, constants.LogFileName)
}

// EnsureDirectories creates necessary directories if they do not exist
func EnsureDirectories() error {
	for _, dir := range []string{configDir, stateDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, errors.ConfigDirectoryError).
				WithMetadata("path", dir)
		}
	}
	return nil
}
