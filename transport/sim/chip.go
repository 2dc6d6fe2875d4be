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

// Package sim provides a simulated CC1120 that speaks the SPI protocol one
// byte at a time. It implements cc1120.Transport so a Device can run against
// it without hardware, and it exposes fault injection for tests.
package sim

import (
	"errors"
	"sync"

	cc1120 "github.com/orbital-obc/go-cc1120"
	"github.com/orbital-obc/go-cc1120/internal/spiframe"
)

// Chip identification reported by the simulator
const (
	PartNumber  = cc1120.PartNumberCC1120
	PartVersion = 0x21
)

const (
	regionSize    = cc1120.FIFOSize
	notReadyBit   = spiframe.StatusChipNotReady
	marcPinIdle   = 0x40
	marcPinRX     = 0x60
	marcPinTX     = 0x20
	rngMultiplier = 1103515245
	rngIncrement  = 12345
)

// ErrNotSelected is returned by Transfer outside a chip-select window
var ErrNotSelected = errors.New("sim: transfer without chip select")

type phase int

const (
	phaseHeader phase = iota
	phaseExtAddress
	phaseFIFOOffset
	phaseData
)

type space int

const (
	spaceStandard space = iota
	spaceExtended
	spaceFIFO
	spaceFIFODirect
)

// Chip is a simulated CC1120. It is safe for concurrent use, although a
// Device already serializes access through its bus.
type Chip struct {
	failErr     error
	selectErr   error
	deselectErr error
	transmitted [][]byte
	std         [spiframe.ExtAddr]byte
	ext         [256]byte
	fifo        [2 * regionSize]byte
	mu          sync.Mutex
	rng         uint32
	failAt      int
	notReady    int
	transfers   int
	selects     int
	deselects   int
	txFirst     int
	txLast      int
	rxFirst     int
	rxLast      int
	phase       phase
	space       space
	state       cc1120.State
	ptr         byte
	extEcho     byte
	selected    bool
	read        bool
	burst       bool
	closed      bool
}

// New creates a simulated chip in the IDLE state
func New() *Chip {
	c := &Chip{rng: 1}
	c.reset()
	return c
}

var _ cc1120.Transport = (*Chip)(nil)

// Select asserts chip select
func (c *Chip) Select() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selects++
	if c.selectErr != nil {
		return c.selectErr
	}
	c.selected = true
	c.phase = phaseHeader
	return nil
}

// Deselect deasserts chip select and ends the current access
func (c *Chip) Deselect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deselects++
	c.selected = false
	c.phase = phaseHeader
	return c.deselectErr
}

// Close marks the chip as closed
func (c *Chip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Type returns cc1120.TransportSim
func (*Chip) Type() cc1120.TransportType {
	return cc1120.TransportSim
}

// Transfer shifts tx in and returns the byte the chip shifts out
func (c *Chip) Transfer(tx byte) (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, cc1120.ErrTransportClosed
	}
	if !c.selected {
		return 0, ErrNotSelected
	}

	c.transfers++
	if c.failAt > 0 && c.transfers == c.failAt {
		c.failAt = 0
		return 0, c.failErr
	}

	switch c.phase {
	case phaseHeader:
		return c.header(tx), nil
	case phaseExtAddress:
		c.ptr = tx
		c.space = spaceExtended
		c.phase = phaseData
		return c.extEcho, nil
	case phaseFIFOOffset:
		c.ptr = tx
		c.space = spaceFIFODirect
		c.phase = phaseData
		return c.status(), nil
	case phaseData:
		return c.data(tx), nil
	}
	return 0, nil
}

func (c *Chip) header(tx byte) byte {
	if c.notReady > 0 {
		c.notReady--
		return c.status() | notReadyBit
	}

	status := c.status()
	c.read = spiframe.IsRead(tx)
	c.burst = spiframe.IsBurst(tx)
	addr := spiframe.Address(tx)

	switch {
	case addr == spiframe.ExtAddr:
		c.phase = phaseExtAddress
	case addr == spiframe.FIFODirect:
		c.phase = phaseFIFOOffset
	case addr == spiframe.FIFOStandard:
		c.space = spaceFIFO
		c.phase = phaseData
	case cc1120.IsStrobe(addr) && !c.burst:
		c.strobe(addr)
	case cc1120.IsStandardRegister(addr):
		c.ptr = addr
		c.space = spaceStandard
		c.phase = phaseData
	}
	return status
}

func (c *Chip) data(tx byte) byte {
	var rx byte
	if c.read {
		rx = c.load()
	} else {
		rx = c.status()
		c.store(tx)
	}

	if c.burst {
		if c.space != spaceFIFO {
			c.ptr++
		}
	} else {
		c.phase = phaseHeader
	}
	return rx
}

func (c *Chip) load() byte {
	switch c.space {
	case spaceStandard:
		if int(c.ptr) < len(c.std) {
			return c.std[c.ptr]
		}
		return 0
	case spaceExtended:
		return c.extended(c.ptr)
	case spaceFIFO:
		if c.rxFirst >= c.rxLast {
			c.state = cc1120.StateRXFIFOError
			return 0
		}
		v := c.fifo[regionSize+c.rxFirst]
		c.rxFirst++
		if c.rxFirst == c.rxLast {
			c.rxFirst, c.rxLast = 0, 0
		}
		return v
	case spaceFIFODirect:
		return c.fifo[c.ptr]
	}
	return 0
}

func (c *Chip) store(v byte) {
	switch c.space {
	case spaceStandard:
		if int(c.ptr) < len(c.std) {
			c.std[c.ptr] = v
		}
	case spaceExtended:
		if c.ptr < cc1120.ExtRXFIRST {
			c.ext[c.ptr] = v
		}
	case spaceFIFO:
		if c.txLast >= regionSize {
			c.state = cc1120.StateTXFIFOError
			return
		}
		c.fifo[c.txLast] = v
		c.txLast++
	case spaceFIFODirect:
		c.fifo[c.ptr] = v
	}
}

func (c *Chip) extended(addr byte) byte {
	switch addr {
	case cc1120.ExtPARTNUMBER:
		return PartNumber
	case cc1120.ExtPARTVERSION:
		return PartVersion
	case cc1120.ExtMARCSTATE:
		return c.marcState()
	case cc1120.ExtRNDGEN:
		v := c.ext[addr]
		if v&0x80 == 0 {
			return v
		}
		c.rng = c.rng*rngMultiplier + rngIncrement
		return 0x80 | byte(c.rng>>16)&0x7F
	case cc1120.ExtRXFIRST:
		return byte(c.rxFirst)
	case cc1120.ExtTXFIRST:
		return byte(c.txFirst)
	case cc1120.ExtRXLAST:
		return byte(c.rxLast)
	case cc1120.ExtTXLAST:
		return byte(c.txLast)
	case cc1120.ExtNUMTXBYTES:
		return byte(c.txLast - c.txFirst)
	case cc1120.ExtNUMRXBYTES:
		return byte(c.rxLast - c.rxFirst)
	case cc1120.ExtFIFONUMTXBYTES:
		return byte(regionSize - (c.txLast - c.txFirst))
	case cc1120.ExtFIFONUMRXBYTES:
		return byte(c.rxLast - c.rxFirst)
	}
	return c.ext[addr]
}

func (c *Chip) marcState() byte {
	switch c.state {
	case cc1120.StateRX:
		return marcPinRX | cc1120.MarcRX
	case cc1120.StateTX:
		return marcPinTX | cc1120.MarcTX
	case cc1120.StateRXFIFOError:
		return cc1120.MarcRXFIFOError
	case cc1120.StateTXFIFOError:
		return cc1120.MarcTXFIFOError
	default:
		return marcPinIdle | cc1120.MarcIdle
	}
}

func (c *Chip) strobe(cmd byte) {
	switch cmd {
	case cc1120.StrobeSRES:
		c.reset()
	case cc1120.StrobeSRX:
		c.state = cc1120.StateRX
	case cc1120.StrobeSTX:
		c.transmit()
	case cc1120.StrobeSIDLE, cc1120.StrobeSCAL:
		c.state = cc1120.StateIdle
	case cc1120.StrobeSFSTXON:
		c.state = cc1120.StateFSTXON
	case cc1120.StrobeSFRX:
		// only honored in IDLE and RX_FIFO_ERR
		if c.state != cc1120.StateIdle && c.state != cc1120.StateRXFIFOError {
			return
		}
		c.rxFirst, c.rxLast = 0, 0
		c.state = cc1120.StateIdle
	case cc1120.StrobeSFTX:
		// only honored in IDLE and TX_FIFO_ERR
		if c.state != cc1120.StateIdle && c.state != cc1120.StateTXFIFOError {
			return
		}
		c.txFirst, c.txLast = 0, 0
		c.state = cc1120.StateIdle
	}
}

// transmit sends the TX FIFO content as one variable-length packet and
// returns to IDLE. An empty or short FIFO underflows.
func (c *Chip) transmit() {
	if c.txLast <= c.txFirst {
		c.state = cc1120.StateTXFIFOError
		return
	}
	frame := c.fifo[c.txFirst:c.txLast]
	n := int(frame[0])
	if n == 0 || n > len(frame)-1 {
		c.state = cc1120.StateTXFIFOError
		return
	}
	c.transmitted = append(c.transmitted, append([]byte(nil), frame[1:1+n]...))
	c.txFirst += 1 + n
	if c.txFirst == c.txLast {
		c.txFirst, c.txLast = 0, 0
	}
	c.state = cc1120.StateIdle
}

func (c *Chip) reset() {
	c.std = [spiframe.ExtAddr]byte{}
	c.ext = [256]byte{}
	c.txFirst, c.txLast, c.rxFirst, c.rxLast = 0, 0, 0, 0
	c.state = cc1120.StateIdle
	c.phase = phaseHeader
}

func (c *Chip) status() byte {
	return byte(c.state) << 4
}

// InjectPacket places a received frame in the RX FIFO the way the chip
// does with APPEND_STATUS set: length, payload, RSSI, then CRC_OK|LQI.
// It reports false when the frame does not fit.
func (c *Chip) InjectPacket(data []byte, rssi int8, lqi byte, crcOK bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	frame := make([]byte, 0, len(data)+3)
	frame = append(frame, byte(len(data)))
	frame = append(frame, data...)
	status := lqi & 0x7F
	if crcOK {
		status |= 0x80
	}
	frame = append(frame, byte(rssi), status)

	if c.rxLast+len(frame) > regionSize {
		c.state = cc1120.StateRXFIFOError
		return false
	}
	copy(c.fifo[regionSize+c.rxLast:], frame)
	c.rxLast += len(frame)
	return true
}

// InjectRaw appends raw bytes to the RX FIFO
func (c *Chip) InjectRaw(b ...byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := copy(c.fifo[regionSize+c.rxLast:], b)
	c.rxLast += n
}

// Transmitted returns the payloads sent with STX, oldest first
func (c *Chip) Transmitted() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.transmitted))
	for i, p := range c.transmitted {
		out[i] = append([]byte(nil), p...)
	}
	return out
}

// State returns the current radio state
func (c *Chip) State() cc1120.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Register returns a standard register value
func (c *Chip) Register(addr byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(addr) >= len(c.std) {
		return 0
	}
	return c.std[addr]
}

// ExtendedRegister returns an extended register value
func (c *Chip) ExtendedRegister(addr byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extended(addr)
}

// NotReadyFor makes the next n status exchanges report CHIP_RDYn high
func (c *Chip) NotReadyFor(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notReady = n
}

// SetExtEcho sets the byte returned while an extended address is shifted
// in. The real chip returns 0x00.
func (c *Chip) SetExtEcho(b byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.extEcho = b
}

// FailAfter makes the n-th transfer from now fail with err
func (c *Chip) FailAfter(n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failAt = c.transfers + n
	c.failErr = err
}

// SetSelectError makes Select fail with err
func (c *Chip) SetSelectError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectErr = err
}

// SetDeselectError makes Deselect fail with err
func (c *Chip) SetDeselectError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deselectErr = err
}

// Selected reports whether chip select is asserted
func (c *Chip) Selected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Selects returns the number of Select calls
func (c *Chip) Selects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selects
}

// Deselects returns the number of Deselect calls
func (c *Chip) Deselects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deselects
}

// Transfers returns the number of Transfer calls
func (c *Chip) Transfers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transfers
}
