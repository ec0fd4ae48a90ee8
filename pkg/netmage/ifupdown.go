// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netmage

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/stratastor/netgen/pkg/netmage/addr"
	"github.com/stratastor/netgen/pkg/netmage/types"
)

const ifupdownIndent = "    "

// stanzaWriter collects ifupdown lines for one document
type stanzaWriter struct {
	lines []string
}

func (w *stanzaWriter) line(format string, args ...any) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func (w *stanzaWriter) option(format string, args ...any) {
	w.lines = append(w.lines, ifupdownIndent+fmt.Sprintf(format, args...))
}

func (w *stanzaWriter) blank() {
	w.lines = append(w.lines, "")
}

func (w *stanzaWriter) String() string {
	return strings.Join(w.lines, "\n")
}

// buildIfupdown renders /etc/network/interfaces for ifaces. Only the first
// non-blank address of each family is representable; the rest are dropped.
func buildIfupdown(ifaces []types.Interface, date string) string {
	w := &stanzaWriter{}

	w.line("# %s", types.IfupdownTargetPath)
	w.line("# Generated by netgen - Date: %s", date)
	w.blank()
	w.line("source /etc/network/interfaces.d/*")
	w.blank()
	w.line("# The loopback network interface")
	w.line("auto lo")
	w.line("iface lo inet loopback")
	w.blank()

	for _, iface := range ifaces {
		name := strings.TrimSpace(iface.Name)
		if name == "" {
			continue
		}
		eff := iface.Effective()
		eff.Name = name
		writeInterfaceStanza(w, eff)
	}

	return w.String()
}

func writeInterfaceStanza(w *stanzaWriter, iface types.Interface) {
	name := iface.Name
	qname := shellquote.Join(name)

	w.line("# %s - %s", name, iface.Type)
	w.line("auto %s", name)

	if iface.IPv4Enabled() {
		writeInetStanza(w, iface)
	}

	// Link-local suppression is emitted whether or not IPv6 is enabled
	if !iface.KeepsIPv6LinkLocal() {
		w.option("pre-up ip link set dev %s addrgenmode none", qname)
		w.option("post-up sleep 10 && ip addr flush dev %s scope link", qname)
	}

	if iface.IPv6Enabled() {
		writeInet6Stanza(w, iface)
	}

	for _, r := range customRoutes(iface.Routes) {
		to, via := shellquote.Join(r.To), shellquote.Join(r.Via)
		if strings.Contains(r.To, ":") {
			w.option("up ip -6 route add %s via %s dev %s", to, via, qname)
			w.option("down ip -6 route del %s via %s dev %s", to, via, qname)
		} else {
			w.option("up route add -net %s gw %s dev %s", to, via, qname)
			w.option("down route del -net %s gw %s dev %s", to, via, qname)
		}
	}

	if iface.MTU > 0 && iface.MTU != types.DefaultMTU {
		w.option("mtu %d", iface.MTU)
	}

	switch iface.Type {
	case types.DeviceTypeBond:
		writeBondOptions(w, iface.Bond)
	case types.DeviceTypeBridge:
		writeBridgeOptions(w, iface.Bridge)
	case types.DeviceTypeVLAN:
		if iface.VLAN != nil {
			if link := strings.TrimSpace(iface.VLAN.Link); link != "" {
				w.option("vlan-raw-device %s", link)
			}
		}
	case types.DeviceTypeWiFi:
		if iface.WiFi != nil {
			if ssid := strings.TrimSpace(iface.WiFi.SSID); ssid != "" {
				w.option("wpa-ssid %s", ssid)
				if iface.WiFi.Password != "" {
					w.option("wpa-psk %s", iface.WiFi.Password)
				}
			}
		}
	}

	w.blank()
}

func writeInetStanza(w *stanzaWriter, iface types.Interface) {
	name := iface.Name

	if iface.DHCP4 {
		w.line("iface %s inet dhcp", name)
		return
	}

	v4 := nonBlank(iface.IPv4Addresses)
	if len(v4) == 0 {
		w.line("iface %s inet manual", name)
		return
	}

	w.line("iface %s inet static", name)

	address, netmask := v4[0], ""
	if cidr, ok := addr.ParseCIDR(v4[0]); ok {
		address = cidr.Address
		netmask = addr.NetmaskV4(cidr.PrefixLength)
	}
	w.option("address %s", address)
	if netmask != "" {
		w.option("netmask %s", netmask)
	}

	if gw := strings.TrimSpace(iface.Gateway4); gw != "" {
		w.option("gateway %s", gw)
	}
	if dns := nameserversV4(iface); len(dns) > 0 {
		w.option("dns-nameservers %s", strings.Join(dns, " "))
	}
}

func writeInet6Stanza(w *stanzaWriter, iface types.Interface) {
	name := iface.Name

	if iface.DHCP6 {
		w.line("iface %s inet6 dhcp", name)
		return
	}

	v6 := nonBlank(iface.IPv6Addresses)
	if len(v6) == 0 {
		w.line("iface %s inet6 manual", name)
		return
	}

	w.line("iface %s inet6 static", name)
	w.option("address %s", v6[0])

	if gw := strings.TrimSpace(iface.Gateway6); gw != "" {
		w.option("gateway %s", gw)
	}
	if dns := nonBlank(iface.Nameservers6); len(dns) > 0 {
		w.option("dns-nameservers %s", strings.Join(dns, " "))
	}

	w.option("post-up sysctl -w %s", shellquote.Join("net.ipv6.conf."+name+".autoconf=0"))
	w.option("post-up sysctl -w %s", shellquote.Join("net.ipv6.conf."+name+".accept_ra=0"))
}

func writeBondOptions(w *stanzaWriter, bond *types.BondSettings) {
	var members []string
	var mode types.BondMode
	if bond != nil {
		members = nonBlank(bond.Interfaces)
		mode = bond.Mode
	}

	if len(members) > 0 {
		w.option("bond-slaves %s", strings.Join(members, " "))
	} else {
		w.option("bond-slaves none")
	}
	if mode != types.BondModeUnset {
		w.option("bond-mode %s", mode)
	}
	w.option("bond-miimon %d", types.DefaultBondMIIMonitorInterval)
	w.option("bond-downdelay %d", types.DefaultBondDownDelay)
	w.option("bond-updelay %d", types.DefaultBondUpDelay)
}

func writeBridgeOptions(w *stanzaWriter, bridge *types.BridgeSettings) {
	var ports []string
	stp := false
	if bridge != nil {
		ports = nonBlank(bridge.Interfaces)
		stp = bridge.STP
	}

	if len(ports) > 0 {
		w.option("bridge_ports %s", strings.Join(ports, " "))
	} else {
		w.option("bridge_ports none")
	}
	if stp {
		w.option("bridge_stp on")
	} else {
		w.option("bridge_stp off")
	}
}
