// go-wiegand
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-wiegand.
//
// go-wiegand is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-wiegand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-wiegand; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package detection finds serial ports that may host a Wiegand bridge.
package detection

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// DeviceInfo describes a candidate bridge port
type DeviceInfo struct {
	Path         string
	VIDPID       string
	Name         string
	SerialNumber string
	Known        bool
}

// Options controls which ports FindBridges returns
type Options struct {
	// Blocklist holds VID:PID pairs that are never returned
	Blocklist []string
	// IgnorePaths holds device paths that are never returned
	IgnorePaths []string
	// IncludeNonUSB also returns ports without USB descriptors
	IncludeNonUSB bool
}

// DefaultOptions returns the default detection options
func DefaultOptions() Options {
	return Options{
		Blocklist: DefaultBlocklist(),
	}
}

// portLister is swapped out in tests
var portLister = enumerator.GetDetailedPortsList

// FindBridges lists serial ports that may be Wiegand bridges. Ports built
// on well-known USB-serial chips sort first.
func FindBridges(opts Options) ([]DeviceInfo, error) {
	ports, err := portLister()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	return filterPorts(ports, opts), nil
}

func filterPorts(ports []*enumerator.PortDetails, opts Options) []DeviceInfo {
	devices := make([]DeviceInfo, 0, len(ports))
	for _, port := range ports {
		if port == nil || port.Name == "" {
			continue
		}
		if !port.IsUSB && !opts.IncludeNonUSB {
			continue
		}
		if IsPathIgnored(port.Name, opts.IgnorePaths) {
			continue
		}

		var vidpid string
		if port.IsUSB {
			vidpid = normalizeVIDPID(port.VID + ":" + port.PID)
		}
		if IsBlocked(vidpid, opts.Blocklist) {
			continue
		}

		devices = append(devices, DeviceInfo{
			Path:         port.Name,
			VIDPID:       vidpid,
			Name:         filepath.Base(port.Name),
			SerialNumber: strings.TrimSpace(port.SerialNumber),
			Known:        IsKnownBridge(vidpid),
		})
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Known && !devices[j].Known
	})
	return devices
}
