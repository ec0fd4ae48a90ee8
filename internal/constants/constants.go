// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package constants

// Build-time variables set via ldflags
var (
	Version   = "v0.0.1-dev" // Set via -X flag during build
	CommitSHA = "unknown"    // Set via -X flag during build
	BuildTime = "unknown"    // Set via -X flag during build
)

const (
	NetgenVersion  = "v0.0.1"
	PIDFileName    = "netgen.pid"
	LogFileName    = "netgen.log"
	ConfigFileName = "netgen.yml"

	// routes
	APIVersion = "v1"
	APIBase    = "/api/" + APIVersion + "/netgen"

	// HealthPath is served outside APIBase so probes skip access logging
	HealthPath = "/health"
)
