// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"slices"
	"strings"
)

const (
	DefaultNetplanConfigVersion = 2 // YAML network.version field

	// DefaultMTU is treated as "unset" and never rendered
	DefaultMTU = 1500

	DefaultBondMIIMonitorInterval = 100
	DefaultBondUpDelay            = 200
	DefaultBondDownDelay          = 200
)

// Installation targets and hints for rendered output
const (
	NetplanTargetPath  = "/etc/netplan/01-netcfg.yaml"
	NetplanTargetMode  = 0600
	IfupdownTargetPath = "/etc/network/interfaces"
)

// Renderer names the netplan backend
type Renderer string

const RendererNetworkd Renderer = "networkd"

// Network family constants
type Family int

const (
	FamilyIPv4 Family = 2
	FamilyIPv6 Family = 10
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "v4"
	case FamilyIPv6:
		return "v6"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// ParseFamily accepts the spellings used by callers: v4/ipv4/inet/4 and
// v6/ipv6/inet6/6.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v4", "ipv4", "inet", "4":
		return FamilyIPv4, nil
	case "v6", "ipv6", "inet6", "6":
		return FamilyIPv6, nil
	default:
		return 0, fmt.Errorf("unknown address family %q", s)
	}
}

func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Family) UnmarshalText(text []byte) error {
	parsed, err := ParseFamily(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Network device types
type DeviceType string

const (
	DeviceTypeEthernet DeviceType = "ethernet"
	DeviceTypeWiFi     DeviceType = "wifi"
	DeviceTypeBond     DeviceType = "bond"
	DeviceTypeVLAN     DeviceType = "vlan"
	DeviceTypeBridge   DeviceType = "bridge"
)

// DeviceTypes lists the supported interface types in display order
var DeviceTypes = []DeviceType{
	DeviceTypeEthernet,
	DeviceTypeWiFi,
	DeviceTypeBond,
	DeviceTypeVLAN,
	DeviceTypeBridge,
}

// BondMode is a Linux bonding driver mode
type BondMode string

const (
	BondModeUnset        BondMode = ""
	BondModeBalanceRR    BondMode = "balance-rr"
	BondModeActiveBackup BondMode = "active-backup"
	BondModeBalanceXOR   BondMode = "balance-xor"
	BondModeBroadcast    BondMode = "broadcast"
	BondMode8023AD       BondMode = "802.3ad"
	BondModeBalanceTLB   BondMode = "balance-tlb"
	BondModeBalanceALB   BondMode = "balance-alb"
)

// BondModes lists the selectable bond modes; BondModeUnset omits the mode
var BondModes = []BondMode{
	BondModeUnset,
	BondModeBalanceRR,
	BondModeActiveBackup,
	BondModeBalanceXOR,
	BondModeBroadcast,
	BondMode8023AD,
	BondModeBalanceTLB,
	BondModeBalanceALB,
}

// RouteStyle selects how a default route is expressed in netplan
type RouteStyle string

const (
	// RouteStyleLegacy uses gateway4/gateway6 keys
	RouteStyleLegacy RouteStyle = "legacy"
	// RouteStyleModern uses explicit default route entries
	RouteStyleModern RouteStyle = "modern"
)

// OSProfile describes a target operating system release
type OSProfile struct {
	ID          string     `json:"id"           yaml:"id"`
	DisplayName string     `json:"display_name" yaml:"display_name"`
	Style       RouteStyle `json:"style"        yaml:"style"`
}

// Route is a user-defined static route attached to an interface
type Route struct {
	To  string `json:"to"  yaml:"to"`
	Via string `json:"via" yaml:"via"`
}

// WiFiSettings applies to DeviceTypeWiFi
type WiFiSettings struct {
	SSID     string `json:"ssid"               yaml:"ssid"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// BondSettings applies to DeviceTypeBond
type BondSettings struct {
	Interfaces []string `json:"interfaces"     yaml:"interfaces"`
	Mode       BondMode `json:"mode,omitempty" yaml:"mode,omitempty" validate:"omitempty,oneof=balance-rr active-backup balance-xor broadcast 802.3ad balance-tlb balance-alb"`
}

// VLANSettings applies to DeviceTypeVLAN
type VLANSettings struct {
	ID   int    `json:"id"   yaml:"id"   validate:"min=1,max=4094"`
	Link string `json:"link" yaml:"link" validate:"required"`
}

// BridgeSettings applies to DeviceTypeBridge
type BridgeSettings struct {
	Interfaces []string `json:"interfaces" yaml:"interfaces"`
	STP        bool     `json:"stp"        yaml:"stp"`
}

// Interface is the editable model of one network interface. The type
// specific blocks form a tagged variant keyed by Type: only the block Type
// selects is ever rendered or validated.
type Interface struct {
	ID   string     `json:"id"   yaml:"id"`
	Name string     `json:"name" yaml:"name"`
	Type DeviceType `json:"type" yaml:"type" validate:"required,oneof=ethernet wifi bond vlan bridge"`

	// nil means enabled for IPv4 and disabled for IPv6
	EnableIPv4 *bool `json:"enable_ipv4,omitempty" yaml:"enable_ipv4,omitempty"`
	EnableIPv6 *bool `json:"enable_ipv6,omitempty" yaml:"enable_ipv6,omitempty"`

	DHCP4 bool `json:"dhcp4" yaml:"dhcp4"`
	DHCP6 bool `json:"dhcp6" yaml:"dhcp6"`

	IPv4Addresses []string `json:"ipv4_addresses,omitempty" yaml:"ipv4_addresses,omitempty"`
	IPv6Addresses []string `json:"ipv6_addresses,omitempty" yaml:"ipv6_addresses,omitempty"`
	Gateway4      string   `json:"gateway4,omitempty"       yaml:"gateway4,omitempty"`
	Gateway6      string   `json:"gateway6,omitempty"       yaml:"gateway6,omitempty"`

	Nameservers  []string `json:"nameservers,omitempty"  yaml:"nameservers,omitempty"`
	Nameservers4 []string `json:"nameservers4,omitempty" yaml:"nameservers4,omitempty"`
	Nameservers6 []string `json:"nameservers6,omitempty" yaml:"nameservers6,omitempty"`

	MTU       int      `json:"mtu,omitempty"        yaml:"mtu,omitempty"        validate:"omitempty,min=68,max=65536"`
	Routes    []Route  `json:"routes,omitempty"     yaml:"routes,omitempty"`
	LinkLocal []string `json:"link_local,omitempty" yaml:"link_local,omitempty" validate:"dive,eq=ipv6"`

	WiFi   *WiFiSettings   `json:"wifi,omitempty"   yaml:"wifi,omitempty"`
	Bond   *BondSettings   `json:"bond,omitempty"   yaml:"bond,omitempty"`
	VLAN   *VLANSettings   `json:"vlan,omitempty"   yaml:"vlan,omitempty"`
	Bridge *BridgeSettings `json:"bridge,omitempty" yaml:"bridge,omitempty"`
}

// IPv4Enabled reports whether the IPv4 block is emitted at all
func (i Interface) IPv4Enabled() bool {
	return i.EnableIPv4 == nil || *i.EnableIPv4
}

// IPv6Enabled reports whether the IPv6 block is emitted at all
func (i Interface) IPv6Enabled() bool {
	return i.EnableIPv6 != nil && *i.EnableIPv6
}

// KeepsIPv6LinkLocal reports whether IPv6 link-local autoconfiguration stays on
func (i Interface) KeepsIPv6LinkLocal() bool {
	return slices.Contains(i.LinkLocal, "ipv6")
}

// Clone returns a deep copy
func (i Interface) Clone() Interface {
	c := i
	c.EnableIPv4 = cloneBool(i.EnableIPv4)
	c.EnableIPv6 = cloneBool(i.EnableIPv6)
	c.IPv4Addresses = slices.Clone(i.IPv4Addresses)
	c.IPv6Addresses = slices.Clone(i.IPv6Addresses)
	c.Nameservers = slices.Clone(i.Nameservers)
	c.Nameservers4 = slices.Clone(i.Nameservers4)
	c.Nameservers6 = slices.Clone(i.Nameservers6)
	c.Routes = slices.Clone(i.Routes)
	c.LinkLocal = slices.Clone(i.LinkLocal)

	if i.WiFi != nil {
		w := *i.WiFi
		c.WiFi = &w
	}
	if i.Bond != nil {
		b := *i.Bond
		b.Interfaces = slices.Clone(i.Bond.Interfaces)
		c.Bond = &b
	}
	if i.VLAN != nil {
		v := *i.VLAN
		c.VLAN = &v
	}
	if i.Bridge != nil {
		br := *i.Bridge
		br.Interfaces = slices.Clone(i.Bridge.Interfaces)
		c.Bridge = &br
	}

	return c
}

// Known reports whether t is one of DeviceTypes
func (t DeviceType) Known() bool {
	return slices.Contains(DeviceTypes, t)
}

// Effective returns a copy carrying only the type block selected by Type.
// A missing block for the selected type is filled with its zero value. An
// empty or unknown Type is treated as ethernet.
func (i Interface) Effective() Interface {
	c := i.Clone()
	if !c.Type.Known() {
		c.Type = DeviceTypeEthernet
	}
	wifi, bond, vlan, bridge := c.WiFi, c.Bond, c.VLAN, c.Bridge
	c.WiFi, c.Bond, c.VLAN, c.Bridge = nil, nil, nil, nil

	switch c.Type {
	case DeviceTypeWiFi:
		if wifi == nil {
			wifi = &WiFiSettings{}
		}
		c.WiFi = wifi
	case DeviceTypeBond:
		if bond == nil {
			bond = &BondSettings{}
		}
		c.Bond = bond
	case DeviceTypeVLAN:
		if vlan == nil {
			vlan = &VLANSettings{}
		}
		c.VLAN = vlan
	case DeviceTypeBridge:
		if bridge == nil {
			bridge = &BridgeSettings{}
		}
		c.Bridge = bridge
	}

	return c
}

// WithType switches the variant. Blocks of other types are kept so that
// switching back restores them; they are ignored while inactive.
func (i Interface) WithType(t DeviceType) Interface {
	c := i.Clone()
	c.Type = t
	switch t {
	case DeviceTypeWiFi:
		if c.WiFi == nil {
			c.WiFi = &WiFiSettings{}
		}
	case DeviceTypeBond:
		if c.Bond == nil {
			c.Bond = &BondSettings{Mode: BondModeActiveBackup}
		}
	case DeviceTypeVLAN:
		if c.VLAN == nil {
			c.VLAN = &VLANSettings{ID: 1}
		}
	case DeviceTypeBridge:
		if c.Bridge == nil {
			c.Bridge = &BridgeSettings{}
		}
	}
	return c
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// IntPtr returns a pointer to n
func IntPtr(n int) *int {
	return &n
}

// Finding is an advisory validation message attached to one field
type Finding struct {
	InterfaceID   string `json:"interface_id,omitempty"`
	InterfaceName string `json:"interface_name,omitempty"`
	Field         string `json:"field"`
	Message       string `json:"message"`
}

// Document is the on-disk form of an editing session
type Document struct {
	Profile    string      `json:"profile,omitempty" yaml:"profile,omitempty"`
	Interfaces []Interface `json:"interfaces"        yaml:"interfaces"`
}

// NetplanConfig represents the complete Netplan configuration
type NetplanConfig struct {
	Network *NetworkConfig `yaml:"network" json:"network"`
}

// NetworkConfig represents the network section of Netplan configuration
type NetworkConfig struct {
	Version   int                        `yaml:"version"             json:"version"`
	Renderer  Renderer                   `yaml:"renderer,omitempty"  json:"renderer,omitempty"`
	Ethernets map[string]*EthernetConfig `yaml:"ethernets,omitempty" json:"ethernets,omitempty"`
	WiFis     map[string]*WiFiConfig     `yaml:"wifis,omitempty"     json:"wifis,omitempty"`
	Bonds     map[string]*BondConfig     `yaml:"bonds,omitempty"     json:"bonds,omitempty"`
	Bridges   map[string]*BridgeConfig   `yaml:"bridges,omitempty"   json:"bridges,omitempty"`
	VLANs     map[string]*VLANConfig     `yaml:"vlans,omitempty"     json:"vlans,omitempty"`
}

// BaseDeviceConfig represents common configuration for all network devices
type BaseDeviceConfig struct {
	DHCPv4      *bool             `yaml:"dhcp4,omitempty"       json:"dhcp4,omitempty"`
	DHCPv6      *bool             `yaml:"dhcp6,omitempty"       json:"dhcp6,omitempty"`
	AcceptRA    *bool             `yaml:"accept-ra,omitempty"   json:"accept_ra,omitempty"`
	LinkLocal   []string          `yaml:"link-local,omitempty"  json:"link_local,omitempty"`
	Addresses   []string          `yaml:"addresses,omitempty"   json:"addresses,omitempty"`
	Gateway4    string            `yaml:"gateway4,omitempty"    json:"gateway4,omitempty"`
	Gateway6    string            `yaml:"gateway6,omitempty"    json:"gateway6,omitempty"`
	Routes      []*RouteConfig    `yaml:"routes,omitempty"      json:"routes,omitempty"`
	Nameservers *NameserverConfig `yaml:"nameservers,omitempty" json:"nameservers,omitempty"`
	MTU         *int              `yaml:"mtu,omitempty"         json:"mtu,omitempty"`
}

// EthernetConfig represents Ethernet interface configuration
type EthernetConfig struct {
	BaseDeviceConfig `yaml:",inline"`
}

// BondConfig represents bond interface configuration
type BondConfig struct {
	BaseDeviceConfig `                yaml:",inline"`
	Interfaces       []string        `yaml:"interfaces"           json:"interfaces"`
	Parameters       *BondParameters `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// BridgeConfig represents bridge interface configuration
type BridgeConfig struct {
	BaseDeviceConfig `                  yaml:",inline"`
	Interfaces       []string          `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	Parameters       *BridgeParameters `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// VLANConfig represents VLAN interface configuration
type VLANConfig struct {
	BaseDeviceConfig `       yaml:",inline"`
	ID               int    `yaml:"id"      json:"id"`
	Link             string `yaml:"link"    json:"link"`
}

// WiFiConfig represents WiFi interface configuration
type WiFiConfig struct {
	BaseDeviceConfig `                     yaml:",inline"`
	AccessPoints     map[string]*APConfig `yaml:"access-points,omitempty" json:"access_points,omitempty"`
}

// NameserverConfig represents DNS configuration
type NameserverConfig struct {
	Addresses []string `yaml:"addresses,omitempty" json:"addresses,omitempty"`
}

// RouteConfig represents route configuration
type RouteConfig struct {
	To  string `yaml:"to,omitempty"  json:"to,omitempty"`
	Via string `yaml:"via,omitempty" json:"via,omitempty"`
}

// BondParameters represents bond-specific parameters
type BondParameters struct {
	Mode               string `yaml:"mode,omitempty"                 json:"mode,omitempty"`
	MIIMonitorInterval int    `yaml:"mii-monitor-interval,omitempty" json:"mii_monitor_interval,omitempty"`
}

// BridgeParameters represents bridge-specific parameters
type BridgeParameters struct {
	STP *bool `yaml:"stp,omitempty" json:"stp,omitempty"`
}

// APConfig represents WiFi access point configuration
type APConfig struct {
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
}

// Request types for API operations

// RenderRequest carries a full interface collection for stateless rendering
type RenderRequest struct {
	Profile    string      `json:"profile,omitempty"`
	Interfaces []Interface `json:"interfaces"`
}

// GatewayValidationRequest asks whether a gateway fits the given CIDRs
type GatewayValidationRequest struct {
	Gateway string   `json:"gateway"`
	CIDRs   []string `json:"cidrs"`
	Family  Family   `json:"family"  binding:"required"`
}

// CIDRRequest carries one CIDR text for validation or formatting
type CIDRRequest struct {
	Text   string `json:"text"`
	Family Family `json:"family" binding:"required"`
}

// InterfaceCreateRequest creates an interface with default settings
type InterfaceCreateRequest struct {
	Name string     `json:"name,omitempty"`
	Type DeviceType `json:"type,omitempty"`
}

// ProfileRequest selects the OS profile of a session
type ProfileRequest struct {
	Profile string `json:"profile" binding:"required"`
}

// SessionRequest opens a new editing session
type SessionRequest struct {
	Profile string `json:"profile,omitempty"`
}
