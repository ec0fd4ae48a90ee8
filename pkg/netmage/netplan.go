// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netmage

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage/types"
	"gopkg.in/yaml.v3"
)

const (
	defaultRouteV4 = "default"
	defaultRouteV6 = "::/0"
)

// BuildNetplanConfig assembles the netplan tree for ifaces. Interfaces
// without a name are skipped and sections left empty are omitted. When two
// interfaces of the same type share a name the later one wins.
func BuildNetplanConfig(profile types.OSProfile, ifaces []types.Interface) *types.NetplanConfig {
	network := &types.NetworkConfig{
		Version:  types.DefaultNetplanConfigVersion,
		Renderer: types.RendererNetworkd,
	}

	for _, iface := range ifaces {
		name := strings.TrimSpace(iface.Name)
		if name == "" {
			continue
		}

		eff := iface.Effective()
		base := buildBaseDevice(eff, profile.Style)

		switch eff.Type {
		case types.DeviceTypeEthernet:
			addEthernet(network, name, base)
		case types.DeviceTypeWiFi:
			addWiFi(network, name, base, eff.WiFi)
		case types.DeviceTypeBond:
			addBond(network, name, base, eff.Bond)
		case types.DeviceTypeBridge:
			addBridge(network, name, base, eff.Bridge)
		case types.DeviceTypeVLAN:
			addVLAN(network, name, base, eff.VLAN)
		}
	}

	return &types.NetplanConfig{Network: network}
}

// MarshalNetplan serializes the tree as YAML with a two space indent
func MarshalNetplan(cfg *types.NetplanConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, errors.NetplanYAMLMarshalFailed)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.NetplanYAMLMarshalFailed)
	}

	return buf.Bytes(), nil
}

func buildBaseDevice(iface types.Interface, style types.RouteStyle) types.BaseDeviceConfig {
	var base types.BaseDeviceConfig

	if iface.IPv4Enabled() {
		if iface.DHCP4 {
			base.DHCPv4 = types.BoolPtr(true)
		} else {
			base.Addresses = append(base.Addresses, nonBlank(iface.IPv4Addresses)...)
			if gw := strings.TrimSpace(iface.Gateway4); gw != "" {
				if style == types.RouteStyleModern {
					base.Routes = append(base.Routes, &types.RouteConfig{To: defaultRouteV4, Via: gw})
				} else {
					base.Gateway4 = gw
				}
			}
		}
	}

	if iface.IPv6Enabled() {
		if iface.DHCP6 {
			base.DHCPv6 = types.BoolPtr(true)
		} else {
			if v6 := nonBlank(iface.IPv6Addresses); len(v6) > 0 {
				base.Addresses = append(base.Addresses, v6...)
				base.AcceptRA = types.BoolPtr(false)
			}
			if gw := strings.TrimSpace(iface.Gateway6); gw != "" {
				if style == types.RouteStyleModern {
					base.Routes = append(base.Routes, &types.RouteConfig{To: defaultRouteV6, Via: gw})
				} else {
					base.Gateway6 = gw
				}
			}
		}
	}

	if iface.KeepsIPv6LinkLocal() {
		base.LinkLocal = []string{"ipv6"}
	}

	for _, r := range customRoutes(iface.Routes) {
		base.Routes = append(base.Routes, &types.RouteConfig{To: r.To, Via: r.Via})
	}

	if iface.MTU > 0 && iface.MTU != types.DefaultMTU {
		base.MTU = types.IntPtr(iface.MTU)
	}

	if ns := mergedNameservers(iface); len(ns) > 0 {
		base.Nameservers = &types.NameserverConfig{Addresses: ns}
	}

	return base
}

// mergedNameservers returns the IPv4 servers followed by the IPv6 servers
// of the enabled families with duplicates removed.
func mergedNameservers(iface types.Interface) []string {
	var all []string
	if iface.IPv4Enabled() {
		all = append(all, nameserversV4(iface)...)
	}
	if iface.IPv6Enabled() {
		all = append(all, nonBlank(iface.Nameservers6)...)
	}
	return lo.Uniq(all)
}

// nameserversV4 combines the per-family list with the legacy unqualified one
func nameserversV4(iface types.Interface) []string {
	v4 := append(nonBlank(iface.Nameservers4), nonBlank(iface.Nameservers)...)
	return lo.Uniq(v4)
}

// customRoutes keeps routes that have both a destination and a gateway
func customRoutes(routes []types.Route) []types.Route {
	return lo.FilterMap(routes, func(r types.Route, _ int) (types.Route, bool) {
		r.To, r.Via = strings.TrimSpace(r.To), strings.TrimSpace(r.Via)
		return r, r.To != "" && r.Via != ""
	})
}

func addEthernet(n *types.NetworkConfig, name string, base types.BaseDeviceConfig) {
	if n.Ethernets == nil {
		n.Ethernets = make(map[string]*types.EthernetConfig)
	}
	n.Ethernets[name] = &types.EthernetConfig{BaseDeviceConfig: base}
}

func addWiFi(n *types.NetworkConfig, name string, base types.BaseDeviceConfig, wifi *types.WiFiSettings) {
	if n.WiFis == nil {
		n.WiFis = make(map[string]*types.WiFiConfig)
	}

	cfg := &types.WiFiConfig{BaseDeviceConfig: base}
	if wifi != nil {
		if ssid := strings.TrimSpace(wifi.SSID); ssid != "" {
			cfg.AccessPoints = map[string]*types.APConfig{
				ssid: {Password: wifi.Password},
			}
		}
	}
	n.WiFis[name] = cfg
}

func addBond(n *types.NetworkConfig, name string, base types.BaseDeviceConfig, bond *types.BondSettings) {
	if n.Bonds == nil {
		n.Bonds = make(map[string]*types.BondConfig)
	}

	cfg := &types.BondConfig{
		BaseDeviceConfig: base,
		Interfaces:       []string{},
		Parameters: &types.BondParameters{
			MIIMonitorInterval: types.DefaultBondMIIMonitorInterval,
		},
	}
	if bond != nil {
		if members := nonBlank(bond.Interfaces); len(members) > 0 {
			cfg.Interfaces = members
		}
		cfg.Parameters.Mode = string(bond.Mode)
	}
	n.Bonds[name] = cfg
}

func addBridge(n *types.NetworkConfig, name string, base types.BaseDeviceConfig, bridge *types.BridgeSettings) {
	if n.Bridges == nil {
		n.Bridges = make(map[string]*types.BridgeConfig)
	}

	cfg := &types.BridgeConfig{
		BaseDeviceConfig: base,
		Parameters:       &types.BridgeParameters{STP: types.BoolPtr(false)},
	}
	if bridge != nil {
		cfg.Interfaces = nonBlank(bridge.Interfaces)
		cfg.Parameters.STP = types.BoolPtr(bridge.STP)
	}
	n.Bridges[name] = cfg
}

func addVLAN(n *types.NetworkConfig, name string, base types.BaseDeviceConfig, vlan *types.VLANSettings) {
	if n.VLANs == nil {
		n.VLANs = make(map[string]*types.VLANConfig)
	}

	cfg := &types.VLANConfig{BaseDeviceConfig: base}
	if vlan != nil {
		cfg.ID = vlan.ID
		cfg.Link = strings.TrimSpace(vlan.Link)
	}
	n.VLANs[name] = cfg
}

// netplanHeader names the target OS, the generation date and where the file
// goes.
func netplanHeader(profile types.OSProfile, date string) string {
	return fmt.Sprintf(`# %s Netplan Configuration
# Generated by netgen
# Date: %s
# Save this file as %s
# Restrict its permissions: sudo chmod %o %s
`, profile.DisplayName, date, types.NetplanTargetPath, types.NetplanTargetMode, types.NetplanTargetPath)
}

const netplanFooter = `# Apply configuration: sudo netplan apply
# Test configuration: sudo netplan try
# Debug: sudo netplan --debug apply
`
