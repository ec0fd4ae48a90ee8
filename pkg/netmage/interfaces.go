// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netmage

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage/types"
)

// NewInterface creates an interface with a fresh id and the default field
// set: IPv4 enabled with DHCP, IPv6 disabled.
func NewInterface(name string, deviceType types.DeviceType) types.Interface {
	if deviceType == "" {
		deviceType = types.DeviceTypeEthernet
	}

	iface := types.Interface{
		ID:         uuid.New().String(),
		Name:       name,
		EnableIPv4: types.BoolPtr(true),
		EnableIPv6: types.BoolPtr(false),
		DHCP4:      true,
	}

	return iface.WithType(deviceType)
}

// InterfaceSet is an ordered, immutable snapshot of interfaces. Every
// mutation returns a new set and leaves the receiver untouched.
type InterfaceSet struct {
	items []types.Interface
}

// NewInterfaceSet builds a snapshot from ifaces. The input is copied.
func NewInterfaceSet(ifaces ...types.Interface) InterfaceSet {
	items := make([]types.Interface, len(ifaces))
	for i, iface := range ifaces {
		items[i] = iface.Clone()
	}
	return InterfaceSet{items: items}
}

// Len returns the number of interfaces
func (s InterfaceSet) Len() int {
	return len(s.items)
}

// All returns a deep copy of the interfaces in order
func (s InterfaceSet) All() []types.Interface {
	out := make([]types.Interface, len(s.items))
	for i, iface := range s.items {
		out[i] = iface.Clone()
	}
	return out
}

// Get looks up an interface by id
func (s InterfaceSet) Get(id string) (types.Interface, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return types.Interface{}, false
	}
	return s.items[idx].Clone(), true
}

// Add appends iface. Names are not required to be unique.
func (s InterfaceSet) Add(iface types.Interface) InterfaceSet {
	items := s.All()
	items = append(items, iface.Clone())
	return InterfaceSet{items: items}
}

// AddDefault appends a new ethernet interface named after its position
// (eth0, eth1, ...) and returns it along with the new set.
func (s InterfaceSet) AddDefault() (InterfaceSet, types.Interface) {
	iface := NewInterface(fmt.Sprintf("eth%d", len(s.items)), types.DeviceTypeEthernet)
	return s.Add(iface), iface
}

// Replace swaps the interface whose id matches iface.ID for iface as a
// whole record.
func (s InterfaceSet) Replace(iface types.Interface) (InterfaceSet, error) {
	idx := s.indexOf(iface.ID)
	if idx < 0 {
		return s, errors.New(errors.NetworkInterfaceNotFound, "no interface with the given id").
			WithMetadata("interface_id", iface.ID)
	}

	items := s.All()
	items[idx] = iface.Clone()
	return InterfaceSet{items: items}, nil
}

// Remove drops the interface with the given id
func (s InterfaceSet) Remove(id string) (InterfaceSet, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return s, errors.New(errors.NetworkInterfaceNotFound, "no interface with the given id").
			WithMetadata("interface_id", id)
	}

	items := s.All()
	items = slices.Delete(items, idx, idx+1)
	return InterfaceSet{items: items}, nil
}

func (s InterfaceSet) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.items, func(iface types.Interface) bool {
		return iface.ID == id
	})
}

// EnsureIDs assigns fresh ids to interfaces that have none and returns the
// updated copy.
func EnsureIDs(ifaces []types.Interface) []types.Interface {
	out := make([]types.Interface, len(ifaces))
	for i, iface := range ifaces {
		out[i] = iface.Clone()
		if out[i].ID == "" {
			out[i].ID = uuid.New().String()
		}
	}
	return out
}
