// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package common holds helpers shared by the netgen subcommands.
package common

import (
	"io"
	"os"
	"path/filepath"

	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage"
	"github.com/stratastor/netgen/pkg/netmage/types"
)

// StdinPath selects standard input as the document source
const StdinPath = "-"

// NewLogger creates a tagged logger from the loaded configuration
func NewLogger(tag string) (logger.Logger, error) {
	return logger.NewTag(config.NewLoggerConfig(config.GetConfig()), tag)
}

// ReadDocument loads an interface document from path, or YAML from in when
// path is StdinPath.
func ReadDocument(path string, in io.Reader) (types.Document, error) {
	if path != StdinPath {
		return netmage.LoadDocument(path)
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return types.Document{}, errors.Wrap(err, errors.NetworkDocumentReadFailed).
			WithMetadata("path", "stdin")
	}
	return netmage.ParseDocument(data, netmage.DocumentYAML)
}

// ResolveProfile picks the profile id: the flag wins over the document,
// which wins over the configured default.
func ResolveProfile(flag string, doc types.Document, cfg *config.Config) string {
	switch {
	case flag != "":
		return flag
	case doc.Profile != "":
		return doc.Profile
	case cfg != nil && cfg.Generator.DefaultProfile != "":
		return cfg.Generator.DefaultProfile
	}
	return netmage.DefaultProfileID
}

// ResolveFormat picks the output format: flag first, then configuration
func ResolveFormat(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg != nil && cfg.Generator.Format != "" {
		return cfg.Generator.Format
	}
	return netmage.FormatNetplan
}

// OutputMode is the file mode rendered output is written with
func OutputMode(format string) os.FileMode {
	if format == netmage.FormatNetplan {
		return types.NetplanTargetMode
	}
	return 0644
}

// WriteOutput writes rendered content to path, creating parent directories
func WriteOutput(path, format, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.RenderOutputWriteFailed).WithMetadata("path", path)
	}
	mode := OutputMode(format)
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return errors.Wrap(err, errors.RenderOutputWriteFailed).WithMetadata("path", path)
	}
	// WriteFile leaves the mode of an existing file untouched
	if err := os.Chmod(path, mode); err != nil {
		return errors.Wrap(err, errors.RenderOutputWriteFailed).WithMetadata("path", path)
	}
	return nil
}
