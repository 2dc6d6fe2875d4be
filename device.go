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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orbital-obc/go-cc1120/internal/spiframe"
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// BusTimeout bounds how long a transaction waits to acquire the bus
	BusTimeout time.Duration
	// StatusAttempts is the number of status exchanges made while the chip
	// reports not ready
	StatusAttempts int
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		BusTimeout:     100 * time.Millisecond,
		StatusAttempts: DefaultStatusAttempts,
	}
}

// Validate checks the configuration
func (c *DeviceConfig) Validate() error {
	if c.BusTimeout <= 0 {
		return errors.New("bus timeout must be positive")
	}
	if c.StatusAttempts < 1 {
		return errors.New("status attempts must be at least 1")
	}
	return nil
}

// Resetter drives the chip's RESET_N line
type Resetter interface {
	Reset(ctx context.Context) error
}

// Device represents a CC1120 transceiver on a (possibly shared) SPI bus.
//
// Thread Safety: every operation holds the Device's Bus for its whole
// chip-select window, so a Device may be used from several goroutines, and
// several devices may share one Bus. The Device keeps no chip state between
// calls.
type Device struct {
	transport Transport
	bus       *Bus
	config    *DeviceConfig
	resetter  Resetter
}

// New creates a new CC1120 device with the given transport
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, errors.New("nil transport")
	}

	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	if device.bus == nil {
		device.bus = NewBus(string(transport.Type()))
	}

	return device, nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Bus returns the bus lock the device transacts on
func (d *Device) Bus() *Bus {
	return d.bus
}

// Config returns a copy of the device configuration
func (d *Device) Config() DeviceConfig {
	return *d.config
}

// Close closes the device connection
func (d *Device) Close() error {
	if d.transport != nil {
		if err := d.transport.Close(); err != nil {
			return fmt.Errorf("failed to close transport: %w", err)
		}
	}
	return nil
}

// addressPhase is what follows the header byte before the data phase
type addressPhase int

const (
	noAddress       addressPhase = iota
	extendedAddress              // address byte, chip must echo 0x00
	fifoOffset                   // offset byte, echo ignored
)

type access struct {
	op     string
	opcode byte // address field of the header
	phase  addressPhase
	addr   byte // payload of the address phase
	kind   ErrorKind
}

// ReadRegisters reads n consecutive standard registers starting at addr
func (d *Device) ReadRegisters(ctx context.Context, addr byte, n int) ([]byte, error) {
	const op = "read registers"
	if err := checkLength(op, n); err != nil {
		return nil, d.fail(err)
	}
	if !IsStandardRegister(addr) {
		return nil, d.fail(newInvalidArgument(op, "address 0x%02X is not a standard register", addr))
	}
	return d.read(ctx, access{op: op, opcode: addr}, n)
}

// WriteRegisters writes data to consecutive standard registers starting at
// addr
func (d *Device) WriteRegisters(ctx context.Context, addr byte, data []byte) error {
	const op = "write registers"
	if err := checkLength(op, len(data)); err != nil {
		return d.fail(err)
	}
	if !IsStandardRegister(addr) {
		return d.fail(newInvalidArgument(op, "address 0x%02X is not a standard register", addr))
	}
	return d.write(ctx, access{op: op, opcode: addr}, data)
}

// ReadExtendedRegisters reads n consecutive extended registers starting at
// addr
func (d *Device) ReadExtendedRegisters(ctx context.Context, addr byte, n int) ([]byte, error) {
	const op = "read extended registers"
	if !IsExtendedRegister(addr) {
		return nil, d.fail(newInvalidArgument(op, "address 0x%02X is not an extended register", addr))
	}
	if err := checkLength(op, n); err != nil {
		return nil, d.fail(err)
	}
	return d.read(ctx, access{
		op:     op,
		opcode: ExtAddr,
		phase:  extendedAddress,
		addr:   addr,
		kind:   KindExtendedAddressRead,
	}, n)
}

// WriteExtendedRegisters writes data to consecutive extended registers
// starting at addr
func (d *Device) WriteExtendedRegisters(ctx context.Context, addr byte, data []byte) error {
	const op = "write extended registers"
	if !IsExtendedRegister(addr) {
		return d.fail(newInvalidArgument(op, "address 0x%02X is not an extended register", addr))
	}
	if err := checkLength(op, len(data)); err != nil {
		return d.fail(err)
	}
	return d.write(ctx, access{
		op:     op,
		opcode: ExtAddr,
		phase:  extendedAddress,
		addr:   addr,
		kind:   KindExtendedAddressWrite,
	}, data)
}

// ReadFIFO pops n bytes from the RX FIFO
func (d *Device) ReadFIFO(ctx context.Context, n int) ([]byte, error) {
	const op = "read fifo"
	if err := checkLength(op, n); err != nil {
		return nil, d.fail(err)
	}
	return d.read(ctx, access{op: op, opcode: FIFOAccessStandard}, n)
}

// WriteFIFO pushes data onto the TX FIFO
func (d *Device) WriteFIFO(ctx context.Context, data []byte) error {
	const op = "write fifo"
	if err := checkLength(op, len(data)); err != nil {
		return d.fail(err)
	}
	return d.write(ctx, access{op: op, opcode: FIFOAccessStandard}, data)
}

// ReadFIFODirect reads n bytes of FIFO memory starting at offset, without
// moving the FIFO pointers. Offsets 0x00-0x7F are the TX FIFO and 0x80-0xFF
// the RX FIFO.
func (d *Device) ReadFIFODirect(ctx context.Context, offset byte, n int) ([]byte, error) {
	const op = "read fifo direct"
	if err := checkLength(op, n); err != nil {
		return nil, d.fail(err)
	}
	return d.read(ctx, access{op: op, opcode: FIFOAccessDirect, phase: fifoOffset, addr: offset}, n)
}

// WriteFIFODirect writes data into FIFO memory starting at offset
func (d *Device) WriteFIFODirect(ctx context.Context, offset byte, data []byte) error {
	const op = "write fifo direct"
	if err := checkLength(op, len(data)); err != nil {
		return d.fail(err)
	}
	return d.write(ctx, access{op: op, opcode: FIFOAccessDirect, phase: fifoOffset, addr: offset}, data)
}

// Strobe issues a command strobe
func (d *Device) Strobe(ctx context.Context, cmd byte) error {
	_, err := d.strobe(ctx, "strobe", cmd)
	return err
}

// strobe issues a command strobe and returns the validated status byte
func (d *Device) strobe(ctx context.Context, op string, cmd byte) (StatusByte, error) {
	if !IsStrobe(cmd) {
		return 0, d.fail(newInvalidArgument(op, "0x%02X is not a command strobe", cmd))
	}

	var status StatusByte
	err := d.transact(ctx, op, func(x *txn) error {
		var err error
		status, err = x.exchangeStatus(cmd)
		return err
	})
	if err != nil {
		return 0, err
	}
	debugf("%s %s -> %s", op, StrobeName(cmd), status)
	return status, nil
}

func (d *Device) read(ctx context.Context, a access, n int) ([]byte, error) {
	var data []byte
	err := d.transact(ctx, a.op, func(x *txn) error {
		if err := x.begin(a, true, n); err != nil {
			return err
		}
		var err error
		data, err = x.read(n)
		return err
	})
	if err != nil {
		return nil, err
	}
	debugf("%s 0x%02X/0x%02X: % X", a.op, a.opcode, a.addr, data)
	return data, nil
}

func (d *Device) write(ctx context.Context, a access, data []byte) error {
	err := d.transact(ctx, a.op, func(x *txn) error {
		if err := x.begin(a, false, len(data)); err != nil {
			return err
		}
		return x.write(data)
	})
	if err != nil {
		return err
	}
	debugf("%s 0x%02X/0x%02X: % X", a.op, a.opcode, a.addr, data)
	return nil
}

// begin sends the header and, when the access needs one, the address phase
func (x *txn) begin(a access, read bool, n int) error {
	if _, err := x.exchangeStatus(spiframe.Header(read, n, a.opcode)); err != nil {
		return err
	}

	switch a.phase {
	case extendedAddress:
		echo, err := x.exchange(a.addr)
		if err != nil {
			return err
		}
		// SO is all zeros while the extended address is shifted in
		if echo != 0x00 {
			return NewError(x.op, a.kind,
				fmt.Errorf("address 0x%02X echoed 0x%02X", a.addr, echo))
		}
	case fifoOffset:
		if _, err := x.exchange(a.addr); err != nil {
			return err
		}
	case noAddress:
	}
	return nil
}

func checkLength(op string, n int) error {
	if n < 1 || n > spiframe.MaxBurstBytes {
		return newInvalidArgument(op, "length %d out of range 1-%d", n, spiframe.MaxBurstBytes)
	}
	return nil
}
