// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package diff

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `profile: debian
interfaces:
  - name: eth0
    type: ethernet
    dhcp4: true
`

func runDiff(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewDiffCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(document))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SilenceUsage = true
	err := cmd.Execute()
	return out.String(), err
}

func TestUnifiedDiff_IgnoresDateLine(t *testing.T) {
	a := "# header\n# Date: 2026-01-01\nnetwork:\n  version: 2\n"
	b := "# header\n# Date: 2026-10-17\nnetwork:\n  version: 2\n"

	text, err := unifiedDiff(a, b, "installed")
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = unifiedDiff(a, strings.Replace(b, "version: 2", "version: 3", 1), "installed")
	require.NoError(t, err)
	assert.Contains(t, text, "--- installed\n")
	assert.Contains(t, text, "+++ rendered\n")
	assert.Contains(t, text, "-  version: 3\n")
	assert.Contains(t, text, "+  version: 2\n")

	text, err = unifiedDiff("# Generated by netgen - Date: 2026-10-17\nauto lo\n",
		"# Generated by netgen - Date: 2025-01-01\nauto lo\n", "interfaces")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestDiffCmd_Differs(t *testing.T) {
	installed := filepath.Join(t.TempDir(), "01-netcfg.yaml")
	require.NoError(t, os.WriteFile(installed, []byte("network:\n  version: 2\n"), 0600))

	out, err := runDiff(t, "-f", "netplan", "-", installed)
	assert.ErrorIs(t, err, ErrDiffers)
	assert.Contains(t, out, "+# Debian (Standard) Netplan Configuration\n")
}

func TestDiffCmd_MatchesRenderedOutput(t *testing.T) {
	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.diff")
	require.NoError(t, err)
	generator, err := netmage.NewGenerator(l, netmage.WithClock(func() time.Time {
		return time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)

	doc, err := netmage.ParseDocument([]byte(document), netmage.DocumentYAML)
	require.NoError(t, err)
	rendered, err := generator.RenderNetplan(doc.Profile, doc.Interfaces)
	require.NoError(t, err)

	installed := filepath.Join(t.TempDir(), "01-netcfg.yaml")
	require.NoError(t, os.WriteFile(installed, []byte(rendered), 0600))

	out, err := runDiff(t, "-f", "netplan", "-", installed)
	require.NoError(t, err)
	assert.Equal(t, "No differences\n", out)
}

func TestDiffCmd_MissingInstalledFile(t *testing.T) {
	_, err := runDiff(t, "-", filepath.Join(t.TempDir(), "absent"))
	assert.True(t, errors.IsRodentError(err, errors.RenderDiffFailed))
}
