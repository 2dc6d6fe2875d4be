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

// Package spi provides a spidev transport for the CC1120 with the chip-select
// line driven as a GPIO, so that it stays asserted across the single-byte
// exchanges of one transaction.
package spi

import (
	"errors"
	"fmt"

	cc1120 "github.com/orbital-obc/go-cc1120"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultFrequency is the SPI clock used when Config.Frequency is zero
const DefaultFrequency = 4 * physic.MegaHertz

// MaxFrequency is the highest SPI clock the CC1120 accepts
const MaxFrequency = 8 * physic.MegaHertz

// Config selects the SPI port and chip-select line
type Config struct {
	// Port is the spireg port name, e.g. "/dev/spidev0.0" or "SPI0.0". An
	// empty name opens the first port found.
	Port string
	// CSPin is the gpioreg name of the chip-select line
	CSPin     string
	Frequency physic.Frequency
}

// Transport implements cc1120.Transport over a periph SPI port
type Transport struct {
	port spi.PortCloser
	conn spi.Conn
	cs   gpio.PinOut
	name string
	tx   [1]byte
	rx   [1]byte
}

var _ cc1120.Transport = (*Transport)(nil)

// New initializes the periph host drivers and opens the port and
// chip-select line named in config
func New(config Config) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	if config.CSPin == "" {
		return nil, errors.New("chip select pin is required")
	}
	cs := gpioreg.ByName(config.CSPin)
	if cs == nil {
		return nil, fmt.Errorf("unknown chip select pin %q", config.CSPin)
	}

	port, err := spireg.Open(config.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", config.Port, err)
	}

	t, err := NewWithPort(port, cs, config.Frequency)
	if err != nil {
		return nil, err
	}
	t.name = config.Port
	return t, nil
}

// NewWithPort builds a transport on an already opened port. The port is
// closed if the connection cannot be set up.
func NewWithPort(port spi.PortCloser, cs gpio.PinOut, freq physic.Frequency) (*Transport, error) {
	if freq == 0 {
		freq = DefaultFrequency
	}
	if freq > MaxFrequency {
		_ = port.Close()
		return nil, fmt.Errorf("SPI clock %s above %s", freq, MaxFrequency)
	}

	conn, err := port.Connect(freq, spi.Mode0|spi.NoCS, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to configure SPI port: %w", err)
	}

	// idle high
	if err := cs.Out(gpio.High); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to drive chip select: %w", err)
	}

	return &Transport{port: port, conn: conn, cs: cs}, nil
}

// Transfer exchanges one byte
func (t *Transport) Transfer(b byte) (byte, error) {
	t.tx[0] = b
	if err := t.conn.Tx(t.tx[:], t.rx[:]); err != nil {
		return 0, fmt.Errorf("SPI transfer failed: %w", err)
	}
	return t.rx[0], nil
}

// Select drives chip select low
func (t *Transport) Select() error {
	if err := t.cs.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to assert chip select: %w", err)
	}
	return nil
}

// Deselect drives chip select high
func (t *Transport) Deselect() error {
	if err := t.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to release chip select: %w", err)
	}
	return nil
}

// Close releases chip select and closes the port
func (t *Transport) Close() error {
	desErr := t.Deselect()
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close SPI port %s: %w", t.name, err)
	}
	return desErr
}

// Type returns the transport type
func (*Transport) Type() cc1120.TransportType {
	return cc1120.TransportSPI
}
