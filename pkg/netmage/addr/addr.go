// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package addr implements the textual IPv4/IPv6 address arithmetic used by
// validation and rendering. Every parser reports failure through a boolean
// instead of an error: half-typed addresses are the normal state of an
// interface being edited.
//
// The parsers are intentionally narrower than net/netip. IPv6 accepts at most
// one "::" and no embedded IPv4 tail, and CIDR prefixes are not range checked
// at parse time.
package addr

import (
	"fmt"
	"strconv"
	"strings"
)

// CIDR is a parsed "address/prefix" pair. Address is kept verbatim.
type CIDR struct {
	Address      string
	PrefixLength int
}

func (c CIDR) String() string {
	return c.Address + "/" + strconv.Itoa(c.PrefixLength)
}

// ParseCIDR splits text on the first "/". It fails when there is no "/" or the
// prefix is not a base-10 integer.
func ParseCIDR(text string) (CIDR, bool) {
	address, prefix, found := strings.Cut(text, "/")
	if !found || !IsDecimal(prefix) {
		return CIDR{}, false
	}

	n, err := strconv.Atoi(prefix)
	if err != nil {
		return CIDR{}, false
	}

	return CIDR{Address: address, PrefixLength: n}, true
}

// IPv4ToUint32 converts a dotted quad into its numeric form.
func IPv4ToUint32(text string) (uint32, bool) {
	octets := strings.Split(text, ".")
	if len(octets) != 4 {
		return 0, false
	}

	var value uint32
	for _, octet := range octets {
		if len(octet) > 3 || !IsDecimal(octet) {
			return 0, false
		}
		n, err := strconv.Atoi(octet)
		if err != nil || n > 255 {
			return 0, false
		}
		value = value<<8 | uint32(n)
	}

	return value, true
}

// IPv6ToSegments expands text into its eight 16-bit segments.
func IPv6ToSegments(text string) ([8]uint16, bool) {
	var segments [8]uint16

	if strings.Count(text, "::") > 1 {
		return segments, false
	}

	var hextets []string
	if left, right, compressed := strings.Cut(text, "::"); compressed {
		leftParts := splitHextets(left)
		rightParts := splitHextets(right)
		fill := 8 - len(leftParts) - len(rightParts)
		if fill < 0 {
			return segments, false
		}
		hextets = append(hextets, leftParts...)
		for range fill {
			hextets = append(hextets, "0")
		}
		hextets = append(hextets, rightParts...)
	} else {
		hextets = strings.Split(text, ":")
	}

	if len(hextets) != 8 {
		return segments, false
	}

	for i, h := range hextets {
		if h == "" || len(h) > 4 {
			return segments, false
		}
		n, err := strconv.ParseUint(h, 16, 16)
		if err != nil {
			return segments, false
		}
		segments[i] = uint16(n)
	}

	return segments, true
}

func splitHextets(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}

// maskV4 returns the network mask for prefix. ok is false outside [0,32].
func maskV4(prefix int) (uint32, bool) {
	if prefix < 0 || prefix > 32 {
		return 0, false
	}
	if prefix == 0 {
		return 0, true
	}
	return uint32(0xFFFFFFFF) << (32 - prefix), true
}

// IPv4InNetwork reports whether gateway lies inside cidr.
func IPv4InNetwork(gateway, cidr string) bool {
	network, ok := ParseCIDR(cidr)
	if !ok {
		return false
	}

	gw, ok := IPv4ToUint32(gateway)
	if !ok {
		return false
	}
	netAddr, ok := IPv4ToUint32(network.Address)
	if !ok {
		return false
	}
	mask, ok := maskV4(network.PrefixLength)
	if !ok {
		return false
	}

	return gw&mask == netAddr&mask
}

// IPv6InNetwork reports whether gateway lies inside cidr. Whole segments are
// compared first, then the leading bits of the segment the prefix ends in.
func IPv6InNetwork(gateway, cidr string) bool {
	network, ok := ParseCIDR(cidr)
	if !ok || network.PrefixLength < 0 {
		return false
	}

	gw, ok := IPv6ToSegments(gateway)
	if !ok {
		return false
	}
	netSegs, ok := IPv6ToSegments(network.Address)
	if !ok {
		return false
	}

	prefix := network.PrefixLength
	if prefix >= 128 {
		return gw == netSegs
	}

	full := prefix / 16
	for i := 0; i < full; i++ {
		if gw[i] != netSegs[i] {
			return false
		}
	}

	if rem := prefix % 16; rem != 0 && full < 8 {
		mask := uint16(0xFFFF << (16 - rem))
		if gw[full]&mask != netSegs[full]&mask {
			return false
		}
	}

	return true
}

// NetmaskV4 renders the mask for prefix as a dotted quad. It returns "" for
// prefixes outside [0,32].
func NetmaskV4(prefix int) string {
	mask, ok := maskV4(prefix)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d.%d", mask>>24, mask>>16&0xFF, mask>>8&0xFF, mask&0xFF)
}

// Uint32ToIPv4 is the inverse of IPv4ToUint32.
func Uint32ToIPv4(v uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", v>>24, v>>16&0xFF, v>>8&0xFF, v&0xFF)
}

// IsDecimal reports whether s is a non-empty run of ASCII digits.
func IsDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsHexColon reports whether s is a non-empty run of hex digits and colons.
func IsHexColon(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F', c == ':':
		default:
			return false
		}
	}
	return true
}
