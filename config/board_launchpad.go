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

//go:build launchpad

package config

import (
	"time"

	cc1120 "github.com/orbital-obc/go-cc1120"
)

// Default returns the RM46 LaunchPad bench setup
func Default() *Board {
	return &Board{
		Name:           "rm46_launchpad",
		SPIPort:        "/dev/spidev1.0",
		CSPin:          "GPIO24",
		ResetChip:      "gpiochip0",
		ResetLine:      25,
		ClockHz:        1_000_000,
		BusTimeout:     100 * time.Millisecond,
		StatusAttempts: cc1120.DefaultStatusAttempts,
	}
}
