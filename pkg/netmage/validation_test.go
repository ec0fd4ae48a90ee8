// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netmage

import (
	"testing"

	"github.com/stratastor/netgen/pkg/netmage/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGateway(t *testing.T) {
	tests := []struct {
		name    string
		gateway string
		cidrs   []string
		family  types.Family
		want    string
	}{
		{"same network", "192.168.1.1", []string{"192.168.1.10/24"}, types.FamilyIPv4, ""},
		{"other network", "10.0.0.1", []string{"192.168.1.10/24"}, types.FamilyIPv4, MsgGatewayNotInNet},
		{"empty gateway", "", []string{"192.168.1.10/24"}, types.FamilyIPv4, ""},
		{"blank gateway", "   ", []string{"192.168.1.10/24"}, types.FamilyIPv4, ""},
		{"no cidrs", "10.0.0.1", nil, types.FamilyIPv4, ""},
		{"only invalid cidrs", "10.0.0.1", []string{"bogus", "", "192.168.1.10"}, types.FamilyIPv4, ""},
		{"second cidr matches", "10.0.0.1", []string{"192.168.1.10/24", "10.0.0.5/8"}, types.FamilyIPv4, ""},
		{"malformed v4 gateway", "192.168.1", []string{"192.168.1.10/24"}, types.FamilyIPv4, MsgInvalidIPv4Format},
		{"v6 same network", "2001:db8::1", []string{"2001:db8::10/64"}, types.FamilyIPv6, ""},
		{"v6 other network", "2001:db9::1", []string{"2001:db8::10/64"}, types.FamilyIPv6, MsgGatewayNotInNet},
		{"malformed v6 gateway", "2001:db8::zz", []string{"2001:db8::10/64"}, types.FamilyIPv6, MsgInvalidIPv6Format},
		{"v4 cidrs ignored for v6", "2001:db8::1", []string{"192.168.1.10/24"}, types.FamilyIPv6, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateGateway(tt.gateway, tt.cidrs, tt.family))
		})
	}
}

func TestIsValidCIDR(t *testing.T) {
	v4 := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"192.168.1.10/24", true},
		{"192.168.1.10/0", true},
		{"192.168.1.10/32", true},
		{"192.168.1.10/33", false},
		{"192.168.1.10/08", false},
		{"192.168.1.10", false},
		{"192.168.1/24", false},
		{"1234.1.1.1/8", false},
		{"999.1.1.1/8", true},
		{"a.b.c.d/8", false},
		{"192.168.1.10/-1", false},
	}
	for _, tt := range v4 {
		t.Run("v4_"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCIDR(tt.input, types.FamilyIPv4))
		})
	}

	v6 := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"2001:db8::1/64", true},
		{"2001:db8::1/128", true},
		{"::/0", true},
		{"2001:db8::1/129", false},
		{"2001:db8::1", false},
		{"2001:db8::g/64", false},
		{"fe80::1/abc", false},
	}
	for _, tt := range v6 {
		t.Run("v6_"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCIDR(tt.input, types.FamilyIPv6))
		})
	}
}

func TestAutoFormat(t *testing.T) {
	tests := []struct {
		input  string
		family types.Family
		want   string
	}{
		{"192.168.1.10", types.FamilyIPv4, "192.168.1.10/24"},
		{"192.168", types.FamilyIPv4, "192.168.0.1/24"},
		{"192.168.", types.FamilyIPv4, "192.168.0.1/24"},
		{"10", types.FamilyIPv4, "10.0.0.1/24"},
		{"10.", types.FamilyIPv4, "10.0.0.1/24"},
		{"10.0.0.1/8", types.FamilyIPv4, "10.0.0.1/8"},
		{"hello", types.FamilyIPv4, "hello"},
		{"", types.FamilyIPv4, ""},
		{"fe80::1", types.FamilyIPv6, "fe80::1/64"},
		{"fe80::1/48", types.FamilyIPv6, "fe80::1/48"},
		{"", types.FamilyIPv6, ""},
		{"192.168.1.1", types.FamilyIPv6, "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.family.String()+"_"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, AutoFormat(tt.input, tt.family))
		})
	}
}

func findingFields(findings []types.Finding) []string {
	fields := make([]string, 0, len(findings))
	for _, f := range findings {
		fields = append(fields, f.Field)
	}
	return fields
}

func TestValidateInterface(t *testing.T) {
	t.Run("DefaultsAreClean", func(t *testing.T) {
		for _, dt := range []types.DeviceType{
			types.DeviceTypeEthernet,
			types.DeviceTypeWiFi,
			types.DeviceTypeBond,
			types.DeviceTypeBridge,
		} {
			assert.Empty(t, ValidateInterface(NewInterface("if0", dt)), dt)
		}
	})

	t.Run("StaticAddressing", func(t *testing.T) {
		iface := NewInterface("eth0", types.DeviceTypeEthernet)
		iface.DHCP4 = false
		iface.IPv4Addresses = []string{"192.168.1.10/24", "bogus"}
		iface.Gateway4 = "10.0.0.1"

		findings := ValidateInterface(iface)
		assert.Equal(t, []string{"ipv4_addresses[1]", "gateway4", "ipv4_addresses"}, findingFields(findings))
		assert.Equal(t, MsgGatewayNotInNet, findings[1].Message)
		assert.Equal(t, iface.ID, findings[0].InterfaceID)
		assert.Equal(t, "eth0", findings[0].InterfaceName)
	})

	t.Run("DHCPIgnoresStaticFields", func(t *testing.T) {
		iface := NewInterface("eth0", types.DeviceTypeEthernet)
		iface.IPv4Addresses = []string{"bogus"}
		iface.Gateway4 = "10.0.0.1"

		assert.Empty(t, ValidateInterface(iface))
	})

	t.Run("IPv6", func(t *testing.T) {
		iface := NewInterface("eth0", types.DeviceTypeEthernet)
		iface.EnableIPv6 = types.BoolPtr(true)
		iface.IPv6Addresses = []string{"2001:db8::10/64"}
		iface.Gateway6 = "2001:db9::1"

		findings := ValidateInterface(iface)
		require.Len(t, findings, 1)
		assert.Equal(t, "gateway6", findings[0].Field)
	})

	t.Run("BlankName", func(t *testing.T) {
		findings := ValidateInterface(NewInterface("  ", types.DeviceTypeEthernet))
		assert.Equal(t, []string{"name"}, findingFields(findings))
	})

	t.Run("UnknownType", func(t *testing.T) {
		iface := types.Interface{Name: "eth0", Type: "token-ring", DHCP4: true}

		findings := ValidateInterface(iface)
		assert.Equal(t, []string{"type"}, findingFields(findings))
		assert.Equal(t, `Unknown type "token-ring", rendered as ethernet`, findings[0].Message)
	})

	t.Run("StructRanges", func(t *testing.T) {
		iface := NewInterface("vlan10", types.DeviceTypeVLAN)
		iface.VLAN.ID = 5000
		iface.MTU = 20
		iface.LinkLocal = []string{"ipv4"}

		findings := ValidateInterface(iface)
		assert.ElementsMatch(t,
			[]string{"mtu", "link_local[0]", "vlan.id", "vlan.link"},
			findingFields(findings))
	})

	t.Run("InactiveBlocksIgnored", func(t *testing.T) {
		iface := NewInterface("eth0", types.DeviceTypeEthernet)
		iface.VLAN = &types.VLANSettings{ID: 0}
		iface.Bond = &types.BondSettings{Mode: "bogus"}

		assert.Empty(t, ValidateInterface(iface))
	})

	t.Run("BondMode", func(t *testing.T) {
		iface := NewInterface("bond0", types.DeviceTypeBond)
		iface.Bond.Mode = "round-robin"

		assert.Equal(t, []string{"bond.mode"}, findingFields(ValidateInterface(iface)))
	})

	t.Run("Routes", func(t *testing.T) {
		iface := NewInterface("eth0", types.DeviceTypeEthernet)
		iface.Routes = []types.Route{
			{To: "10.10.0.0/16", Via: "192.168.1.254"},
			{To: "", Via: ""},
			{To: "10.20.0.0/16"},
			{To: "nowhere", Via: "192.168.1.254"},
			{To: "2001:db8:1::/48", Via: "2001:db8::1"},
		}

		assert.Equal(t, []string{"routes[2]", "routes[3].to"}, findingFields(ValidateInterface(iface)))
	})
}

func TestValidateInterfaces(t *testing.T) {
	good := NewInterface("eth0", types.DeviceTypeEthernet)
	bad := NewInterface("", types.DeviceTypeEthernet)

	findings := ValidateInterfaces([]types.Interface{good, bad})
	require.Len(t, findings, 1)
	assert.Equal(t, bad.ID, findings[0].InterfaceID)
}
