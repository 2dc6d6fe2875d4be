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

// Package spiframe provides header-byte construction and protocol constants
// for CC1120 SPI transactions
package spiframe

// Header flag bits
const (
	ReadBit  = 0x80 // R/W bit: set for read access
	BurstBit = 0x40 // Burst bit: set when more than one byte follows
)

// Opcodes that occupy the address field of a header
const (
	ExtAddr       = 0x2F // Extended register space follows in the next byte
	FIFODirect    = 0x3E // Direct FIFO access, offset follows in the next byte
	FIFOStandard  = 0x3F // Buffered FIFO access
	MaxBurstBytes = 255  // Largest length a single transaction accepts
)

// StatusChipNotReady is the CHIP_RDYn bit of the status byte
const StatusChipNotReady = 0x80

// Header builds the first byte of a transaction. The burst flag is set iff
// n > 1 and the read flag iff read is true.
func Header(read bool, n int, addr byte) byte {
	header := addr
	if read {
		header |= ReadBit
	}
	if n > 1 {
		header |= BurstBit
	}
	return header
}

// IsRead reports whether header carries the read flag
func IsRead(header byte) bool {
	return header&ReadBit != 0
}

// IsBurst reports whether header carries the burst flag
func IsBurst(header byte) bool {
	return header&BurstBit != 0
}

// Address strips the flag bits from header
func Address(header byte) byte {
	return header &^ (ReadBit | BurstBit)
}
