// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package netmage

import (
	"slices"

	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage/types"
)

// DefaultProfileID is used when no profile, or an unknown one, is requested
const DefaultProfileID = "ubuntu_22_04"

var profiles = []types.OSProfile{
	{ID: "ubuntu_20_04", DisplayName: "Ubuntu 20.04 LTS (Focal)", Style: types.RouteStyleLegacy},
	{ID: "ubuntu_22_04", DisplayName: "Ubuntu 22.04 LTS (Jammy)", Style: types.RouteStyleModern},
	{ID: "ubuntu_24_04", DisplayName: "Ubuntu 24.04 LTS (Noble)", Style: types.RouteStyleModern},
	{ID: "ubuntu_26_04", DisplayName: "Ubuntu 26.04 LTS", Style: types.RouteStyleModern},
	{ID: "debian", DisplayName: "Debian (Standard)", Style: types.RouteStyleModern},
}

// Profiles returns the built-in OS profile catalog
func Profiles() []types.OSProfile {
	return slices.Clone(profiles)
}

// LookupProfile finds a profile by id
func LookupProfile(id string) (types.OSProfile, error) {
	idx := slices.IndexFunc(profiles, func(p types.OSProfile) bool { return p.ID == id })
	if idx < 0 {
		return types.OSProfile{}, errors.New(errors.OSProfileNotFound, id).
			WithMetadata("profile", id)
	}
	return profiles[idx], nil
}

// ResolveProfile returns the profile for id, or the default profile when id
// is empty or unknown. fellBack reports whether an unknown id was replaced.
func ResolveProfile(id string) (profile types.OSProfile, fellBack bool) {
	if id == "" {
		id = DefaultProfileID
	}
	if p, err := LookupProfile(id); err == nil {
		return p, false
	}
	p, _ := LookupProfile(DefaultProfileID)
	return p, true
}
