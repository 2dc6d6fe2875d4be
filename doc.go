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

/*
Package cc1120 drives a Texas Instruments CC1120 sub-GHz transceiver over
SPI.

The chip is reached through a Transport that exchanges single bytes while
the chip select is held low. Every access is one transaction: the shared
Bus is acquired, chip select asserted, the header byte exchanged, the body
clocked out and chip select released again, even on failure.

Features:
  - Standard and extended register access, single and burst
  - FIFO access through the standard FIFO port and by direct address
  - Command strobes with status byte validation and retry
  - Variable-length packet transmit and receive on top of the FIFOs
  - Typed errors that carry the failed operation and a Kind
  - Transports for Linux spidev with a GPIO chip select and for a Bus Pirate
    bridge, plus a simulated chip for tests

Basic Usage:

	import (
	    cc1120 "github.com/orbital-obc/go-cc1120"
	    "github.com/orbital-obc/go-cc1120/transport/spi"
	)

	transport, err := spi.New(spi.Config{Port: "/dev/spidev0.0", CSPin: "GPIO8"})
	if err != nil {
	    log.Fatal(err)
	}

	device, err := cc1120.New(transport, cc1120.WithBusTimeout(100*time.Millisecond))
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	if err := device.Verify(ctx); err != nil {
	    log.Fatal(err)
	}

	if err := device.Transmit(ctx, []byte("hello")); err != nil {
	    log.Fatal(err)
	}

Sharing a Bus:

Peripherals on the same SPI bus must share one Bus so their transactions
never interleave:

	bus := cc1120.NewBus("spi1")
	radio, _ := cc1120.New(radioTransport, cc1120.WithBus(bus))

	release, err := bus.Acquire(ctx, 100*time.Millisecond)
	if err != nil {
	    return err
	}
	defer release()
	// talk to another device on the bus

Errors:

Failures are returned as *Error values. Use errors.Is with the package
sentinels or KindOf to tell an invalid argument from a chip that never
became ready:

	if _, err := device.ReadRegisters(ctx, cc1120.RegSYNC3, 4); err != nil {
	    switch cc1120.KindOf(err) {
	    case cc1120.KindInvalidStatus:
	        // chip stayed in reset or powered down
	    case cc1120.KindBusUnavailable:
	        // another peripheral held the bus
	    }
	}

Receiving packets in the background is handled by the polling package;
board wiring and register settings files are loaded by the config package.
*/
package cc1120
