// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFormat(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewFormatCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestFormatCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"v4 shortcuts", []string{"192.168", "10.", "172.16.0.5"}, "192.168.0.1/24\n10.0.0.1/24\n172.16.0.5/24\n"},
		{"v6 default prefix", []string{"--family", "v6", "2001:db8::1"}, "2001:db8::1/64\n"},
		{"unrecognised input", []string{"abc"}, "abc\t(invalid)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runFormat(tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestFormatCmd_BadFamily(t *testing.T) {
	_, err := runFormat("--family", "ipx", "10")
	assert.Error(t, err)
}
