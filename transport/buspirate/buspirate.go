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

// Package buspirate provides a CC1120 transport over a Bus Pirate in binary
// SPI mode, for bench work from a workstation.
package buspirate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	cc1120 "github.com/orbital-obc/go-cc1120"
	"go.bug.st/serial"
)

// Binary mode commands
const (
	cmdReset      = 0x00 // from SPI mode: back to bitbang; from bitbang: BBIO1
	cmdEnterSPI   = 0x01
	cmdCSLow      = 0x02
	cmdCSHigh     = 0x03
	cmdExitBinary = 0x0F
	cmdBulk       = 0x10 // low nibble is count-1
	cmdPeripheral = 0x40 // 0100 power pullups aux cs
	cmdSpeed      = 0x60 // low bits select the clock
	cmdConfig     = 0x80 // 1000 output ckp cke smp

	ack = 0x01

	// power on, CS high
	peripheralPowerCS = cmdPeripheral | 0x08 | 0x01
	// 3.3V outputs, idle low, sample on active-to-idle edge: SPI mode 0
	configMode0 = cmdConfig | 0x08 | 0x02

	enterAttempts = 20
	baudRate      = 115200
)

// Speed selects the Bus Pirate SPI clock
type Speed byte

const (
	Speed30kHz   Speed = 0
	Speed125kHz  Speed = 1
	Speed250kHz  Speed = 2
	Speed1MHz    Speed = 3
	Speed2MHz    Speed = 4
	Speed2600kHz Speed = 5
	Speed4MHz    Speed = 6
	Speed8MHz    Speed = 7
)

var (
	bbioBanner = []byte("BBIO1")
	spiBanner  = []byte("SPI1")

	// ErrNoAck is returned when the Bus Pirate does not acknowledge a command
	ErrNoAck = errors.New("bus pirate did not acknowledge")
	// ErrNoBinaryMode is returned when binary mode cannot be entered
	ErrNoBinaryMode = errors.New("bus pirate did not enter binary mode")
)

// Port is the part of serial.Port the transport uses
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Transport implements cc1120.Transport over a Bus Pirate
type Transport struct {
	port    Port
	name    string
	timeout time.Duration
	buf     [2]byte
}

var _ cc1120.Transport = (*Transport)(nil)

// New opens the serial device and puts the Bus Pirate in SPI mode
func New(device string, speed Speed) (*Transport, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", device, err)
	}

	t, err := NewWithPort(port, speed)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	t.name = device
	return t, nil
}

// NewWithPort configures an open port
func NewWithPort(port Port, speed Speed) (*Transport, error) {
	t := &Transport{port: port, timeout: 100 * time.Millisecond}
	if err := port.SetReadTimeout(t.timeout); err != nil {
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	if err := t.enterBinary(); err != nil {
		return nil, err
	}
	if err := t.expect([]byte{cmdEnterSPI}, spiBanner); err != nil {
		return nil, fmt.Errorf("failed to enter SPI mode: %w", err)
	}

	for _, cmd := range []byte{cmdSpeed | byte(speed&0x07), configMode0, peripheralPowerCS} {
		if err := t.command(cmd); err != nil {
			return nil, fmt.Errorf("failed to configure SPI (0x%02X): %w", cmd, err)
		}
	}
	return t, nil
}

func (t *Transport) enterBinary() error {
	if err := t.port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("failed to flush input: %w", err)
	}
	for range enterAttempts {
		if err := t.expect([]byte{cmdReset}, bbioBanner); err == nil {
			return nil
		}
	}
	return ErrNoBinaryMode
}

// expect writes cmd and checks the reply
func (t *Transport) expect(cmd, reply []byte) error {
	if _, err := t.port.Write(cmd); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	got := make([]byte, len(reply))
	if err := t.readFull(got); err != nil {
		return err
	}
	if !bytes.Equal(got, reply) {
		return fmt.Errorf("unexpected reply %q", got)
	}
	return nil
}

func (t *Transport) command(cmd byte) error {
	if err := t.expect([]byte{cmd}, []byte{ack}); err != nil {
		return fmt.Errorf("%w: %w", ErrNoAck, err)
	}
	return nil
}

// readFull reads len(p) bytes. A zero-length read is a timeout.
func (t *Transport) readFull(p []byte) error {
	for off := 0; off < len(p); {
		n, err := t.port.Read(p[off:])
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("read timed out after %s", t.timeout)
		}
		off += n
	}
	return nil
}

// Transfer exchanges one byte with a one-byte bulk transfer
func (t *Transport) Transfer(b byte) (byte, error) {
	if _, err := t.port.Write([]byte{cmdBulk, b}); err != nil {
		return 0, fmt.Errorf("write failed: %w", err)
	}
	if err := t.readFull(t.buf[:]); err != nil {
		return 0, err
	}
	if t.buf[0] != ack {
		return 0, ErrNoAck
	}
	return t.buf[1], nil
}

// Select drives CS low
func (t *Transport) Select() error {
	return t.command(cmdCSLow)
}

// Deselect drives CS high
func (t *Transport) Deselect() error {
	return t.command(cmdCSHigh)
}

// Close returns the Bus Pirate to its user terminal and closes the port
func (t *Transport) Close() error {
	_, _ = t.port.Write([]byte{cmdReset, cmdExitBinary})
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", t.name, err)
	}
	return nil
}

// Type returns the transport type
func (*Transport) Type() cc1120.TransportType {
	return cc1120.TransportBusPirate
}
