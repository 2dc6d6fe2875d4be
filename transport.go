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

import "errors"

// ErrTransportClosed is returned by transports used after Close
var ErrTransportClosed = errors.New("transport closed")

// Transport is the chip-select and byte-exchange primitive the driver is
// built on. It can be implemented by a Linux spidev port, a USB SPI bridge,
// or a simulator.
//
// Implementations are not required to be safe for concurrent use; the
// Device serializes every transaction through a Bus.
type Transport interface {
	// Transfer performs one full-duplex byte exchange
	Transfer(tx byte) (rx byte, err error)

	// Select asserts chip select
	Select() error

	// Deselect deasserts chip select
	Deselect() error

	// Close closes the transport connection
	Close() error

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportSPI represents a spidev SPI port with a GPIO chip select.
	TransportSPI TransportType = "spi"
	// TransportBusPirate represents a Bus Pirate in binary SPI mode.
	TransportBusPirate TransportType = "buspirate"
	// TransportSim represents the simulated chip.
	TransportSim TransportType = "sim"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)
