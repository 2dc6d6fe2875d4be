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

package cc1120

import (
	"fmt"

	"github.com/orbital-obc/go-cc1120/internal/retry"
	"github.com/orbital-obc/go-cc1120/internal/spiframe"
)

// DefaultStatusAttempts is how many status exchanges are made before the
// chip is declared not ready
const DefaultStatusAttempts = 5

// StatusByte is the byte the CC1120 shifts out while it receives a header
// or strobe
type StatusByte byte

// State is the main radio control state carried in bits 6:4 of the status
// byte
type State byte

const (
	StateIdle State = iota
	StateRX
	StateTX
	StateFSTXON
	StateCalibrate
	StateSettling
	StateRXFIFOError
	StateTXFIFOError
)

var stateNames = [...]string{
	StateIdle:        "IDLE",
	StateRX:          "RX",
	StateTX:          "TX",
	StateFSTXON:      "FSTXON",
	StateCalibrate:   "CALIBRATE",
	StateSettling:    "SETTLING",
	StateRXFIFOError: "RX_FIFO_ERROR",
	StateTXFIFOError: "TX_FIFO_ERROR",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", byte(s))
}

// ChipReady reports whether CHIP_RDYn is low, i.e. the crystal is running
// and the chip will act on the byte it just received
func (s StatusByte) ChipReady() bool {
	return byte(s)&spiframe.StatusChipNotReady == 0
}

// State returns the main radio control state
func (s StatusByte) State() State {
	return State(byte(s)>>4) & 0x07
}

func (s StatusByte) String() string {
	ready := "ready"
	if !s.ChipReady() {
		ready = "not-ready"
	}
	return fmt.Sprintf("%s %s", ready, s.State())
}

// exchangeStatus sends b and validates the returned status byte. While the
// chip reports not ready the exchange is repeated, up to x.attempts in
// total. Transport failures are returned at once. Logging is left to the
// caller.
func (x *txn) exchangeStatus(b byte) (StatusByte, error) {
	config := retry.Config{
		Attempts: x.attempts,
		OnExhausted: func() error {
			return NewError(x.op, KindInvalidStatus,
				fmt.Errorf("chip not ready after %d status exchanges", x.attempts))
		},
	}

	return retry.Do(config, func() (StatusByte, bool, error) {
		rx, err := x.transport.Transfer(b)
		if err != nil {
			return 0, false, newTransportError(x.op, err)
		}
		status := StatusByte(rx)
		return status, !status.ChipReady(), nil
	})
}
