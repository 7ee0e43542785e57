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

package detection

import (
	"path/filepath"
	"strings"
)

// DefaultBlocklist returns USB devices that enumerate as serial ports but
// are never Wiegand bridges.
// Format: VID:PID in hexadecimal (case-insensitive).
func DefaultBlocklist() []string {
	return []string{
		"1D6B:0002", // Linux root hub gadget serial
		"0483:5740", // STM32 virtual COM port in DFU/CDC demo mode
	}
}

// IsBlocked checks if a USB device is in the blocklist.
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = normalizeVIDPID(vidpid)
	if vidpid == "" {
		return false
	}

	for _, blocked := range blocklist {
		if vidpid == normalizeVIDPID(blocked) {
			return true
		}
	}
	return false
}

// knownBridges lists USB-serial chips commonly used to build bridges.
var knownBridges = []string{
	"1A86:7523", // WinChipHead CH340
	"10C4:EA60", // Silicon Labs CP210x
	"0403:6001", // FTDI FT232R
	"2341:0043", // Arduino Uno
	"2341:8036", // Arduino Leonardo
	"2E8A:000A", // Raspberry Pi Pico
}

// IsKnownBridge reports whether vidpid belongs to a common bridge chip.
func IsKnownBridge(vidpid string) bool {
	vidpid = normalizeVIDPID(vidpid)
	for _, known := range knownBridges {
		if vidpid == known {
			return true
		}
	}
	return false
}

// normalizeVIDPID upper-cases and pads a VID:PID pair. It returns "" for
// anything that is not two hex fields.
func normalizeVIDPID(vidpid string) string {
	vid, pid, ok := strings.Cut(strings.TrimSpace(vidpid), ":")
	if !ok || !isHex(vid) || !isHex(pid) || len(vid) > 4 || len(pid) > 4 {
		return ""
	}
	pad := func(s string) string {
		return strings.Repeat("0", 4-len(s)) + strings.ToUpper(s)
	}
	return pad(vid) + ":" + pad(pid)
}

// isHex checks if a string contains only hexadecimal characters.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

// IsPathIgnored reports whether devicePath matches one of ignorePaths.
// Paths compare cleaned and case-folded, and symlinks such as
// /dev/serial/by-id entries match the tty they point to.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" || len(ignorePaths) == 0 {
		return false
	}

	device := portKey(devicePath)
	for _, ignorePath := range ignorePaths {
		if ignorePath != "" && portKey(ignorePath) == device {
			return true
		}
	}
	return false
}

// portKey resolves symlinks where possible; COM names on Windows are
// case-insensitive, so keys are lower-cased.
func portKey(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return strings.ToLower(filepath.Clean(path))
}
