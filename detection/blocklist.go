// go-cc1120
// Copyright (c) 2025 The go-cc1120 Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-cc1120.
//
// go-cc1120 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-cc1120 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-cc1120; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package detection

import (
	"path/filepath"
	"strings"
)

// DefaultBlocklist returns USB VID:PID pairs that are never probed. Entries
// are hexadecimal and case-insensitive.
func DefaultBlocklist() []string {
	return []string{
		"04D8:FB01", // Bus Pirate v4 bootloader
		"0483:DF11", // STM32 DFU bootloader
	}
}

// IsBlocked reports whether vidpid appears in blocklist
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = strings.ToUpper(strings.TrimSpace(vidpid))
	for _, blocked := range blocklist {
		if strings.ToUpper(strings.TrimSpace(blocked)) == vidpid {
			return true
		}
	}
	return false
}

// ParseVIDPID normalizes a USB id descriptor to "VVVV:PPPP". Accepted
// forms include "1234:5678", "VID:1234 PID:5678", "VID_1234&PID_5678",
// "USB VID:PID=1234:5678" and "vendor=1234 product=5678". It returns ""
// when no id is found.
func ParseVIDPID(descriptor string) string {
	descriptor = strings.ToUpper(descriptor)

	// pyserial style hwid: "USB VID:PID=0403:6001 SER=..."
	if idx := strings.Index(descriptor, "VID:PID="); idx >= 0 {
		rest := descriptor[idx+len("VID:PID="):]
		vid := leadingHex(rest)
		if len(vid) < len(rest) && rest[len(vid)] == ':' {
			if pid := leadingHex(rest[len(vid)+1:]); vid != "" && pid != "" {
				return vid + ":" + pid
			}
		}
		return ""
	}

	vid := fieldHex(descriptor, "VID:", "VID_", "VID=", "VENDOR=")
	pid := fieldHex(descriptor, "PID:", "PID_", "PID=", "PRODUCT=")
	if vid != "" && pid != "" {
		return vid + ":" + pid
	}

	parts := strings.Split(descriptor, ":")
	if len(parts) == 2 && isHex(parts[0]) && isHex(parts[1]) {
		return descriptor
	}
	return ""
}

// FormatVIDPID joins separate vendor and product ids
func FormatVIDPID(vid, pid string) string {
	if vid == "" || pid == "" {
		return ""
	}
	return strings.ToUpper(vid) + ":" + strings.ToUpper(pid)
}

func fieldHex(s string, keys ...string) string {
	for _, key := range keys {
		if idx := strings.Index(s, key); idx >= 0 {
			return leadingHex(strings.TrimLeft(s[idx+len(key):], " "))
		}
	}
	return ""
}

// leadingHex returns the run of hex digits at the start of s
func leadingHex(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool { return !isHexRune(r) })
	if end < 0 {
		return s
	}
	return s[:end]
}

func isHexRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
}

func isHex(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !isHexRune(r) }) < 0
}

// IsPathIgnored reports whether devicePath matches one of ignorePaths after
// cleaning. The comparison is case-insensitive so COM port names match.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" {
		return false
	}
	device := normalizedPath(devicePath)
	for _, p := range ignorePaths {
		if p != "" && normalizedPath(p) == device {
			return true
		}
	}
	return false
}

func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
