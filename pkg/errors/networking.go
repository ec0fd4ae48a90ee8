// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"maps"
	"net/http"
)

const (
	DomainNetwork Domain = "NETWORK"
)

// Network error codes (1900-1999)
const (
	// Interface model and documents (1900-1919)
	NetworkOperationFailed      = 1900 + iota // Generic network operation failed
	NetworkInterfaceNotFound                  // Network interface not found
	NetworkValidationFailed                   // Network configuration validation failed
	NetworkDocumentReadFailed                 // Interface document could not be read
	NetworkDocumentWriteFailed                // Interface document could not be written
	NetworkDocumentParseError                 // Interface document parse error
	NetworkDocumentFormatInvalid              // Unsupported interface document format
)

const (
	// Rendering errors (1920-1949)
	NetplanRenderFailed      = 1920 + iota // Netplan rendering failed
	NetplanYAMLMarshalFailed               // Netplan YAML serialization failed
	RenderFormatInvalid                    // Unknown output format
	RenderOutputWriteFailed                // Rendered output could not be written
	RenderDiffFailed                       // Diff against installed file failed
	OSProfileNotFound                      // Unknown OS profile
)

const (
	// Editing sessions (1950-1969)
	SessionNotFound       = 1950 + iota // Editing session not found
	SessionCreateFailed                 // Editing session could not be created
	SessionSweepFailed                  // Idle session sweeper failed
	SessionLimitExceeded                // Too many editing sessions
)

func init() {
	networkErrorDefinitions := map[ErrorCode]struct {
		message    string
		domain     Domain
		httpStatus int
	}{
		NetworkOperationFailed: {
			"Network operation failed",
			DomainNetwork,
			http.StatusInternalServerError,
		},
		NetworkInterfaceNotFound: {
			"Network interface not found",
			DomainNetwork,
			http.StatusNotFound,
		},
		NetworkValidationFailed: {
			"Network configuration validation failed",
			DomainNetwork,
			http.StatusBadRequest,
		},
		NetworkDocumentReadFailed: {
			"Failed to read interface document",
			DomainNetwork,
			http.StatusInternalServerError,
		},
		NetworkDocumentWriteFailed: {
			"Failed to write interface document",
			DomainNetwork,
			http.StatusInternalServerError,
		},
		NetworkDocumentParseError: {
			"Interface document parse error",
			DomainNetwork,
			http.StatusBadRequest,
		},
		NetworkDocumentFormatInvalid: {
			"Unsupported interface document format",
			DomainNetwork,
			http.StatusBadRequest,
		},
		NetplanRenderFailed: {
			"Netplan rendering failed",
			DomainNetwork,
			http.StatusInternalServerError,
		},
		NetplanYAMLMarshalFailed: {
			"Netplan YAML serialization failed",
			DomainNetwork,
			http.StatusInternalServerError,
		},
		RenderFormatInvalid: {
			"Unknown output format",
			DomainNetwork,
			http.StatusBadRequest,
		},
		RenderOutputWriteFailed: {
			"Failed to write rendered configuration",
			DomainNetwork,
			http.StatusInternalServerError,
		},
		RenderDiffFailed: {
			"Failed to diff rendered configuration",
			DomainNetwork,
			http.StatusInternalServerError,
		},
		OSProfileNotFound: {
			"OS profile not found",
			DomainNetwork,
			http.StatusNotFound,
		},
		SessionNotFound: {
			"Editing session not found",
			DomainNetwork,
			http.StatusNotFound,
		},
		SessionCreateFailed: {
			"Failed to create editing session",
			DomainNetwork,
			http.StatusInternalServerError,
		},
		SessionSweepFailed: {
			"Idle session sweeper failed",
			DomainNetwork,
			http.StatusInternalServerError,
		},
		SessionLimitExceeded: {
			"Too many editing sessions",
			DomainNetwork,
			http.StatusTooManyRequests,
		},
	}

	// Add to the global errorDefinitions map
	maps.Copy(errorDefinitions, networkErrorDefinitions)
}
