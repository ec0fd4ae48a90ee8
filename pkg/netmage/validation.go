// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netmage

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/stratastor/netgen/pkg/netmage/addr"
	"github.com/stratastor/netgen/pkg/netmage/types"
)

// Gateway validation messages
const (
	MsgInvalidIPv4Format = "Invalid IPv4 address format"
	MsgInvalidIPv6Format = "Invalid IPv6 address format"
	MsgGatewayNotInNet   = "Gateway must be in the same network as at least one IP address"
)

// Maximum IPv6 prefix length accepted by IsValidCIDR
const maxIPv6Prefix = 128

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateGateway checks that gateway belongs to at least one of the given
// subnets. An empty return value means valid. The result is advisory and
// never blocks rendering.
func ValidateGateway(gateway string, cidrs []string, family types.Family) string {
	gateway = strings.TrimSpace(gateway)
	if gateway == "" {
		return ""
	}

	candidates := lo.Filter(cidrs, func(c string, _ int) bool {
		return strings.TrimSpace(c) != "" && IsValidCIDR(c, family)
	})
	if len(candidates) == 0 {
		return ""
	}

	var contains func(gateway, cidr string) bool
	switch family {
	case types.FamilyIPv6:
		if !addr.IsHexColon(gateway) {
			return MsgInvalidIPv6Format
		}
		contains = addr.IPv6InNetwork
	default:
		if !isDottedQuadShape(gateway) {
			return MsgInvalidIPv4Format
		}
		contains = addr.IPv4InNetwork
	}

	for _, cidr := range candidates {
		if contains(gateway, strings.TrimSpace(cidr)) {
			return ""
		}
	}

	return MsgGatewayNotInNet
}

// IsValidCIDR reports whether text is an acceptable CIDR for family. Blank
// text is valid since the field is optional. IPv4 octets are checked for
// shape only (1 to 3 digits); the prefix must be 0-32 written without
// leading zeros. IPv6 accepts the hex/colon charset with a prefix of at
// most 128.
func IsValidCIDR(text string, family types.Family) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}

	address, prefix, found := strings.Cut(text, "/")
	if !found || !addr.IsDecimal(prefix) {
		return false
	}

	switch family {
	case types.FamilyIPv6:
		if !addr.IsHexColon(address) {
			return false
		}
		n, err := strconv.Atoi(prefix)
		return err == nil && n <= maxIPv6Prefix
	default:
		if !isDottedQuadShape(address) {
			return false
		}
		n, err := strconv.Atoi(prefix)
		if err != nil || n > 32 {
			return false
		}
		return strconv.Itoa(n) == prefix
	}
}

// AutoFormat completes a partially typed address for the editor. Inputs it
// does not recognise are returned unchanged, and the output is not
// guaranteed to pass IsValidCIDR.
func AutoFormat(text string, family types.Family) string {
	switch family {
	case types.FamilyIPv6:
		if addr.IsHexColon(text) {
			return text + "/64"
		}
	default:
		switch text {
		case "192.168", "192.168.":
			return "192.168.0.1/24"
		case "10", "10.":
			return "10.0.0.1/24"
		}
		if isDottedQuadShape(text) {
			return text + "/24"
		}
	}
	return text
}

// isDottedQuadShape matches four dot separated runs of 1 to 3 digits
// without checking octet ranges.
func isDottedQuadShape(s string) bool {
	octets := strings.Split(s, ".")
	if len(octets) != 4 {
		return false
	}
	for _, o := range octets {
		if len(o) > 3 || !addr.IsDecimal(o) {
			return false
		}
	}
	return true
}

// ValidateInterface runs every advisory check against one interface and
// returns the findings in field order. An empty result means nothing to
// report.
func ValidateInterface(iface types.Interface) []types.Finding {
	eff := iface.Effective()
	var findings []types.Finding

	add := func(field, format string, args ...any) {
		findings = append(findings, types.Finding{
			InterfaceID:   eff.ID,
			InterfaceName: eff.Name,
			Field:         field,
			Message:       fmt.Sprintf(format, args...),
		})
	}

	if strings.TrimSpace(eff.Name) == "" {
		add("name", "Interface has no name and will not be rendered")
	}

	if !iface.Type.Known() {
		add("type", "Unknown type %q, rendered as ethernet", iface.Type)
	}

	if err := structValidator.Struct(eff); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				add(fieldPath(fe), "%s", describeFieldError(fe))
			}
		} else {
			add("interface", "%s", err.Error())
		}
	}

	if eff.IPv4Enabled() && !eff.DHCP4 {
		v4 := nonBlank(eff.IPv4Addresses)
		for i, cidr := range eff.IPv4Addresses {
			if !IsValidCIDR(cidr, types.FamilyIPv4) {
				add(fmt.Sprintf("ipv4_addresses[%d]", i), "Invalid IPv4 CIDR %q", cidr)
			}
		}
		if msg := ValidateGateway(eff.Gateway4, v4, types.FamilyIPv4); msg != "" {
			add("gateway4", "%s", msg)
		}
		if len(v4) > 1 {
			add("ipv4_addresses", "ifupdown output keeps only the primary address %s", v4[0])
		}
	}

	if eff.IPv6Enabled() && !eff.DHCP6 {
		v6 := nonBlank(eff.IPv6Addresses)
		for i, cidr := range eff.IPv6Addresses {
			if !IsValidCIDR(cidr, types.FamilyIPv6) {
				add(fmt.Sprintf("ipv6_addresses[%d]", i), "Invalid IPv6 CIDR %q", cidr)
			}
		}
		if msg := ValidateGateway(eff.Gateway6, v6, types.FamilyIPv6); msg != "" {
			add("gateway6", "%s", msg)
		}
		if len(v6) > 1 {
			add("ipv6_addresses", "ifupdown output keeps only the primary address %s", v6[0])
		}
	}

	for i, r := range eff.Routes {
		to, via := strings.TrimSpace(r.To), strings.TrimSpace(r.Via)
		switch {
		case to == "" && via == "":
			continue
		case to == "" || via == "":
			add(fmt.Sprintf("routes[%d]", i), "Route needs both a destination and a gateway")
			continue
		}
		family := types.FamilyIPv4
		if strings.Contains(to, ":") {
			family = types.FamilyIPv6
		}
		if to != "default" && !IsValidCIDR(to, family) {
			add(fmt.Sprintf("routes[%d].to", i), "Invalid %s route destination %q", family, to)
		}
	}

	return findings
}

// ValidateInterfaces validates every interface in order
func ValidateInterfaces(ifaces []types.Interface) []types.Finding {
	var findings []types.Finding
	for _, iface := range ifaces {
		findings = append(findings, ValidateInterface(iface)...)
	}
	return findings
}

// fieldPath drops the root struct name from the validator namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return ns
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Value is required"
	case "oneof":
		return fmt.Sprintf("Value %v must be one of: %s", fe.Value(), fe.Param())
	case "min":
		return fmt.Sprintf("Value %v must be at least %s", fe.Value(), fe.Param())
	case "max":
		return fmt.Sprintf("Value %v must be at most %s", fe.Value(), fe.Param())
	case "eq":
		return fmt.Sprintf("Value %v must be %s", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("Value %v failed %s check", fe.Value(), fe.Tag())
	}
}

// nonBlank drops entries that are empty after trimming. Kept entries are
// returned trimmed.
func nonBlank(values []string) []string {
	return lo.FilterMap(values, func(v string, _ int) (string, bool) {
		v = strings.TrimSpace(v)
		return v, v != ""
	})
}
