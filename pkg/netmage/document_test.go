// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netmage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocumentYAML = `profile: ubuntu_20_04
interfaces:
  - name: eth0
    type: ethernet
    dhcp4: false
    ipv4_addresses:
      - 192.168.1.10/24
    gateway4: 192.168.1.1
  - id: fixed-id
    name: bond0
    type: bond
    dhcp4: true
    bond:
      interfaces: [eth1, eth2]
      mode: 802.3ad
`

func TestParseDocument_YAML(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleDocumentYAML), DocumentYAML)
	require.NoError(t, err)

	assert.Equal(t, "ubuntu_20_04", doc.Profile)
	require.Len(t, doc.Interfaces, 2)
	assert.NotEmpty(t, doc.Interfaces[0].ID)
	assert.Equal(t, "fixed-id", doc.Interfaces[1].ID)
	assert.Equal(t, []string{"192.168.1.10/24"}, doc.Interfaces[0].IPv4Addresses)
	assert.True(t, doc.Interfaces[0].IPv4Enabled())
	require.NotNil(t, doc.Interfaces[1].Bond)
	assert.Equal(t, types.BondMode8023AD, doc.Interfaces[1].Bond.Mode)
}

func TestParseDocument_JSON(t *testing.T) {
	data := `{"profile":"debian","interfaces":[{"name":"wlan0","type":"wifi","dhcp4":true,` +
		`"enable_ipv6":true,"wifi":{"ssid":"home","password":"secret"}}]}`

	doc, err := ParseDocument([]byte(data), DocumentJSON)
	require.NoError(t, err)
	require.Len(t, doc.Interfaces, 1)
	assert.True(t, doc.Interfaces[0].IPv6Enabled())
	assert.Equal(t, "home", doc.Interfaces[0].WiFi.SSID)
}

func TestParseDocument_Errors(t *testing.T) {
	_, err := ParseDocument([]byte("interfaces: [\n"), DocumentYAML)
	assert.True(t, errors.IsRodentError(err, errors.NetworkDocumentParseError))

	_, err = ParseDocument([]byte("interfaces: []\nbogus: 1\n"), DocumentYAML)
	assert.True(t, errors.IsRodentError(err, errors.NetworkDocumentParseError))

	_, err = ParseDocument([]byte(`{"interfaces": 3}`), DocumentJSON)
	assert.True(t, errors.IsRodentError(err, errors.NetworkDocumentParseError))

	_, err = ParseDocument([]byte(`{}`), "toml")
	assert.True(t, errors.IsRodentError(err, errors.NetworkDocumentFormatInvalid))
}

func TestParseDocument_Empty(t *testing.T) {
	doc, err := ParseDocument(nil, DocumentYAML)
	require.NoError(t, err)
	assert.Empty(t, doc.Interfaces)
}

func TestDocument_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src, err := ParseDocument([]byte(sampleDocumentYAML), DocumentYAML)
	require.NoError(t, err)

	for _, name := range []string{"net.yaml", "nested/net.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveDocument(path, src))

			loaded, err := LoadDocument(path)
			require.NoError(t, err)
			assert.Equal(t, src, loaded)
		})
	}
}

func TestLoadDocument_Missing(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsRodentError(err, errors.NetworkDocumentReadFailed))
}

func TestLoadDocument_ParseErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("interfaces: {"), 0644))

	_, err := LoadDocument(path)
	require.Error(t, err)
	re, ok := err.(*errors.RodentError)
	require.True(t, ok)
	assert.Equal(t, path, re.Metadata["path"])
}
