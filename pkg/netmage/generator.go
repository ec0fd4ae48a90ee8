// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netmage

import (
	"strings"
	"time"

	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage/types"
)

// Output formats
const (
	FormatNetplan  = "netplan"
	FormatIfupdown = "ifupdown"
)

// Formats lists the supported output formats
var Formats = []string{FormatNetplan, FormatIfupdown}

// DateLayout is the layout of the generation date embedded in headers
const DateLayout = "2006-01-02"

// Generator renders interface collections into configuration text. It holds
// no per-render state and is safe for concurrent use.
type Generator struct {
	logger logger.Logger
	now    func() time.Time
}

// GeneratorOption customizes a Generator
type GeneratorOption func(*Generator)

// WithClock overrides the clock used for the header date
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator creates a Generator
func NewGenerator(l logger.Logger, opts ...GeneratorOption) (*Generator, error) {
	if l == nil {
		return nil, errors.New(errors.NetworkOperationFailed, "logger cannot be nil")
	}

	g := &Generator{
		logger: l,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *Generator) date() string {
	return g.now().Format(DateLayout)
}

// RenderNetplan renders ifaces as a netplan YAML document for the given
// OS profile. Unknown profiles fall back to DefaultProfileID.
func (g *Generator) RenderNetplan(profileID string, ifaces []types.Interface) (string, error) {
	profile, fellBack := ResolveProfile(profileID)
	if fellBack {
		g.logger.Warn("Unknown OS profile, using default",
			"requested", profileID,
			"profile", profile.ID)
	}

	g.logSkipped(ifaces)

	cfg := BuildNetplanConfig(profile, ifaces)
	body, err := MarshalNetplan(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.NetplanRenderFailed).
			WithMetadata("profile", profile.ID)
	}

	var sb strings.Builder
	sb.WriteString(netplanHeader(profile, g.date()))
	sb.WriteString("\n")
	sb.Write(body)
	sb.WriteString("\n")
	sb.WriteString(netplanFooter)

	g.logger.Debug("Rendered netplan configuration",
		"profile", profile.ID,
		"interfaces", len(ifaces),
		"bytes", sb.Len())

	return sb.String(), nil
}

// RenderIfupdown renders ifaces as an /etc/network/interfaces document
func (g *Generator) RenderIfupdown(ifaces []types.Interface) string {
	g.logSkipped(ifaces)

	out := buildIfupdown(ifaces, g.date())

	g.logger.Debug("Rendered ifupdown configuration",
		"interfaces", len(ifaces),
		"bytes", len(out))

	return out
}

// Render dispatches on format. profileID only applies to netplan.
func (g *Generator) Render(format, profileID string, ifaces []types.Interface) (string, error) {
	switch format {
	case FormatNetplan, "":
		return g.RenderNetplan(profileID, ifaces)
	case FormatIfupdown:
		return g.RenderIfupdown(ifaces), nil
	default:
		return "", errors.New(errors.RenderFormatInvalid, format).
			WithMetadata("supported", strings.Join(Formats, ","))
	}
}

func (g *Generator) logSkipped(ifaces []types.Interface) {
	for i, iface := range ifaces {
		if strings.TrimSpace(iface.Name) == "" {
			g.logger.Debug("Skipping interface without name",
				"index", i,
				"id", iface.ID)
		}
	}
}
