// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDocument_Stdin(t *testing.T) {
	doc, err := ReadDocument(StdinPath, strings.NewReader("profile: debian\ninterfaces:\n  - name: eth0\n    type: ethernet\n"))
	require.NoError(t, err)
	assert.Equal(t, "debian", doc.Profile)
	require.Len(t, doc.Interfaces, 1)
	assert.NotEmpty(t, doc.Interfaces[0].ID)
}

func TestReadDocument_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"interfaces":[{"name":"eth0","type":"ethernet"}]}`), 0644))

	doc, err := ReadDocument(path, nil)
	require.NoError(t, err)
	assert.Len(t, doc.Interfaces, 1)
}

func TestResolveProfileAndFormat(t *testing.T) {
	cfg := &config.Config{}
	cfg.Generator.DefaultProfile = "ubuntu_24_04"
	cfg.Generator.Format = "ifupdown"

	doc := types.Document{Profile: "debian"}
	assert.Equal(t, "ubuntu_20_04", ResolveProfile("ubuntu_20_04", doc, cfg))
	assert.Equal(t, "debian", ResolveProfile("", doc, cfg))
	assert.Equal(t, "ubuntu_24_04", ResolveProfile("", types.Document{}, cfg))
	assert.Equal(t, "ubuntu_22_04", ResolveProfile("", types.Document{}, nil))

	assert.Equal(t, "netplan", ResolveFormat("netplan", cfg))
	assert.Equal(t, "ifupdown", ResolveFormat("", cfg))
	assert.Equal(t, "netplan", ResolveFormat("", nil))
}

func TestWriteOutput_Modes(t *testing.T) {
	dir := t.TempDir()

	netplanPath := filepath.Join(dir, "netplan", "01-netcfg.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(netplanPath), 0755))
	require.NoError(t, os.WriteFile(netplanPath, []byte("old"), 0644))
	require.NoError(t, WriteOutput(netplanPath, "netplan", "network:\n"))

	info, err := os.Stat(netplanPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	ifPath := filepath.Join(dir, "interfaces")
	require.NoError(t, WriteOutput(ifPath, "ifupdown", "auto lo\n"))
	info, err = os.Stat(ifPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriteOutput_Failure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := WriteOutput(filepath.Join(blocker, "out.yaml"), "netplan", "x")
	assert.True(t, errors.IsRodentError(err, errors.RenderOutputWriteFailed))
}
