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

package buspirate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	cc1120 "github.com/orbital-obc/go-cc1120"
	"github.com/orbital-obc/go-cc1120/transport/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pirateMode int

const (
	modeTerminal pirateMode = iota
	modeBitbang
	modeSPI
)

// fakePirate emulates the Bus Pirate binary SPI protocol in front of a
// simulated chip. Reads return 0 bytes when nothing is pending, like a
// serial port after its read timeout.
type fakePirate struct {
	chip     *sim.Chip
	out      []byte
	written  []byte
	mu       sync.Mutex
	mode     pirateMode
	bulk     int
	mute     bool
	closed   bool
	noAckCmd byte
}

func newFakePirate() *fakePirate {
	return &fakePirate{chip: sim.New()}
}

func (f *fakePirate) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, p...)
	for _, b := range p {
		f.handle(b)
	}
	return len(p), nil
}

func (f *fakePirate) reply(b ...byte) {
	if !f.mute {
		f.out = append(f.out, b...)
	}
}

func (f *fakePirate) ackOrNot(cmd byte) {
	if f.noAckCmd != 0 && cmd == f.noAckCmd {
		f.reply(0x00)
		return
	}
	f.reply(ack)
}

func (f *fakePirate) handle(b byte) {
	if f.bulk > 0 {
		f.bulk--
		rx, _ := f.chip.Transfer(b)
		f.reply(rx)
		return
	}

	switch f.mode {
	case modeTerminal, modeBitbang:
		switch b {
		case cmdReset:
			f.mode = modeBitbang
			f.reply(bbioBanner...)
		case cmdEnterSPI:
			if f.mode == modeBitbang {
				f.mode = modeSPI
				f.reply(spiBanner...)
			}
		case cmdExitBinary:
			f.mode = modeTerminal
			f.reply(ack)
		}
	case modeSPI:
		switch {
		case b == cmdReset:
			f.mode = modeBitbang
			f.reply(bbioBanner...)
		case b == cmdCSLow:
			_ = f.chip.Select()
			f.ackOrNot(b)
		case b == cmdCSHigh:
			_ = f.chip.Deselect()
			f.ackOrNot(b)
		case b&0xF0 == cmdBulk:
			f.bulk = int(b&0x0F) + 1
			f.reply(ack)
		default:
			f.ackOrNot(b)
		}
	}
}

func (f *fakePirate) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := copy(p, f.out)
	f.out = f.out[n:]
	return n, nil
}

func (f *fakePirate) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (*fakePirate) SetReadTimeout(time.Duration) error { return nil }

func (f *fakePirate) ResetInputBuffer() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = nil
	return nil
}

func TestModeEntry(t *testing.T) {
	t.Parallel()

	f := newFakePirate()
	tr, err := NewWithPort(f, Speed1MHz)
	require.NoError(t, err)
	assert.Equal(t, cc1120.TransportBusPirate, tr.Type())
	assert.Equal(t, modeSPI, f.mode)
	assert.Equal(t, []byte{cmdReset, cmdEnterSPI, 0x63, 0x8A, 0x49}, f.written)

	require.NoError(t, tr.Close())
	assert.True(t, f.closed)
	assert.Equal(t, modeTerminal, f.mode)
}

func TestNoBinaryMode(t *testing.T) {
	t.Parallel()

	f := newFakePirate()
	f.mute = true
	_, err := NewWithPort(f, Speed1MHz)
	require.ErrorIs(t, err, ErrNoBinaryMode)
	assert.Len(t, f.written, enterAttempts)
}

func TestCommandNotAcknowledged(t *testing.T) {
	t.Parallel()

	f := newFakePirate()
	f.noAckCmd = configMode0
	_, err := NewWithPort(f, Speed1MHz)
	require.ErrorIs(t, err, ErrNoAck)
}

func TestDeviceOverBusPirate(t *testing.T) {
	t.Parallel()

	f := newFakePirate()
	tr, err := NewWithPort(f, Speed4MHz)
	require.NoError(t, err)

	d, err := cc1120.New(tr)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, d.Verify(ctx))
	require.NoError(t, d.WriteRegisters(ctx, cc1120.RegSYNC3, []byte{0x93, 0x0B}))
	got, err := d.ReadRegisters(ctx, cc1120.RegSYNC3, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x93, 0x0B}, got)
	assert.False(t, f.chip.Selected())
}

type failingPort struct {
	*fakePirate
	err error
}

func (p *failingPort) Write([]byte) (int, error) { return 0, p.err }

func TestTransferWriteError(t *testing.T) {
	t.Parallel()

	f := newFakePirate()
	tr, err := NewWithPort(f, Speed1MHz)
	require.NoError(t, err)

	cause := errors.New("usb unplugged")
	tr.port = &failingPort{fakePirate: f, err: cause}
	_, err = tr.Transfer(0x3D)
	require.ErrorIs(t, err, cause)
}
