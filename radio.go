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
	"fmt"
)

// MaxPayload is the largest payload Transmit accepts. The TX FIFO holds 128
// bytes and one of them carries the length.
const MaxPayload = FIFOSize - 1

// Appended status bytes of a received packet (PKT_CFG1.APPEND_STATUS)
const (
	appendedStatusLen = 2
	crcOKBit          = 0x80
	lqiMask           = 0x7F
	marcStateMask     = 0x1F
	rndgenEnable      = 0x80
	rndgenValueMask   = 0x7F
)

// MARC states reported by MARCSTATE
const (
	MarcSleep       = 0x00
	MarcIdle        = 0x01
	MarcXOff        = 0x02
	MarcRX          = 0x0D
	MarcRXEnd       = 0x0E
	MarcRXFIFOError = 0x11
	MarcTX          = 0x13
	MarcTXEnd       = 0x14
	MarcTXFIFOError = 0x16
)

// Packet is a frame read from the RX FIFO
type Packet struct {
	Data  []byte
	RSSI  int8
	LQI   byte
	CRCOK bool
}

// RegisterSetting is one register value of a radio configuration
type RegisterSetting struct {
	Addr     byte
	Value    byte
	Extended bool
}

// Reset issues the SRES strobe
func (d *Device) Reset(ctx context.Context) error {
	_, err := d.strobe(ctx, "reset", StrobeSRES)
	return err
}

// HardReset pulses the RESET_N line through the configured Resetter
func (d *Device) HardReset(ctx context.Context) error {
	if d.resetter == nil {
		return ErrNoResetter
	}
	if err := d.resetter.Reset(ctx); err != nil {
		return fmt.Errorf("hard reset: %w", err)
	}
	debugln("hard reset complete")
	return nil
}

// Idle issues the SIDLE strobe
func (d *Device) Idle(ctx context.Context) error {
	_, err := d.strobe(ctx, "idle", StrobeSIDLE)
	return err
}

// StartRX issues the SRX strobe
func (d *Device) StartRX(ctx context.Context) error {
	_, err := d.strobe(ctx, "start rx", StrobeSRX)
	return err
}

// FlushRX issues the SFRX strobe
func (d *Device) FlushRX(ctx context.Context) error {
	_, err := d.strobe(ctx, "flush rx", StrobeSFRX)
	return err
}

// FlushTX issues the SFTX strobe
func (d *Device) FlushTX(ctx context.Context) error {
	_, err := d.strobe(ctx, "flush tx", StrobeSFTX)
	return err
}

// ReadStatus returns the chip status byte by issuing SNOP
func (d *Device) ReadStatus(ctx context.Context) (StatusByte, error) {
	return d.strobe(ctx, "read status", StrobeSNOP)
}

func (d *Device) readExtendedByte(ctx context.Context, addr byte) (byte, error) {
	data, err := d.ReadExtendedRegisters(ctx, addr, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// PartNumber returns the PARTNUMBER register
func (d *Device) PartNumber(ctx context.Context) (byte, error) {
	return d.readExtendedByte(ctx, ExtPARTNUMBER)
}

// PartVersion returns the PARTVERSION register
func (d *Device) PartVersion(ctx context.Context) (byte, error) {
	return d.readExtendedByte(ctx, ExtPARTVERSION)
}

// Verify checks that a CC1120 answers on the transport
func (d *Device) Verify(ctx context.Context) error {
	part, err := d.PartNumber(ctx)
	if err != nil {
		return err
	}
	if part != PartNumberCC1120 {
		return fmt.Errorf("%w: 0x%02X", ErrUnexpectedPart, part)
	}
	return nil
}

// MarcState returns the MARC state machine state
func (d *Device) MarcState(ctx context.Context) (byte, error) {
	v, err := d.readExtendedByte(ctx, ExtMARCSTATE)
	if err != nil {
		return 0, err
	}
	return v & marcStateMask, nil
}

// NumRXBytes returns the number of bytes in the RX FIFO
func (d *Device) NumRXBytes(ctx context.Context) (int, error) {
	v, err := d.readExtendedByte(ctx, ExtNUMRXBYTES)
	return int(v), err
}

// NumTXBytes returns the number of bytes in the TX FIFO
func (d *Device) NumTXBytes(ctx context.Context) (int, error) {
	v, err := d.readExtendedByte(ctx, ExtNUMTXBYTES)
	return int(v), err
}

// Random returns a 7-bit value from the chip's random number generator
func (d *Device) Random(ctx context.Context) (byte, error) {
	if err := d.WriteExtendedRegisters(ctx, ExtRNDGEN, []byte{rndgenEnable}); err != nil {
		return 0, err
	}
	v, err := d.readExtendedByte(ctx, ExtRNDGEN)
	if err != nil {
		return 0, err
	}
	return v & rndgenValueMask, nil
}

// Configure writes every setting in order
func (d *Device) Configure(ctx context.Context, settings []RegisterSetting) error {
	for _, s := range settings {
		var err error
		if s.Extended {
			err = d.WriteExtendedRegisters(ctx, s.Addr, []byte{s.Value})
		} else {
			err = d.WriteRegisters(ctx, s.Addr, []byte{s.Value})
		}
		if err != nil {
			return err
		}
	}
	debugf("applied %d register settings", len(settings))
	return nil
}

// Transmit sends one variable-length packet. The radio is idled and the TX
// FIFO flushed first, so a previous unsent frame is discarded.
func (d *Device) Transmit(ctx context.Context, payload []byte) error {
	if len(payload) < 1 || len(payload) > MaxPayload {
		return d.fail(newInvalidArgument("transmit", "payload length %d out of range 1-%d", len(payload), MaxPayload))
	}

	if err := d.Idle(ctx); err != nil {
		return err
	}
	if err := d.FlushTX(ctx); err != nil {
		return err
	}

	frame := make([]byte, 0, len(payload)+1)
	frame = append(frame, byte(len(payload)))
	frame = append(frame, payload...)
	if err := d.WriteFIFO(ctx, frame); err != nil {
		return err
	}

	_, err := d.strobe(ctx, "transmit", StrobeSTX)
	return err
}

// Receive reads one packet from the RX FIFO. It returns nil, nil when the
// FIFO is empty. On ErrRXOverflow the radio is left idle with an empty RX
// FIFO.
func (d *Device) Receive(ctx context.Context) (*Packet, error) {
	available, err := d.NumRXBytes(ctx)
	if err != nil {
		return nil, err
	}
	if available == 0 {
		return nil, nil
	}

	header, err := d.ReadFIFO(ctx, 1)
	if err != nil {
		return nil, err
	}
	length := int(header[0])

	if length == 0 || length+appendedStatusLen > available-1 {
		// SFRX is ignored unless the radio is idle
		if idleErr := d.Idle(ctx); idleErr != nil {
			return nil, idleErr
		}
		if flushErr := d.FlushRX(ctx); flushErr != nil {
			return nil, flushErr
		}
		return nil, fmt.Errorf("%w: declared %d, buffered %d", ErrRXOverflow, length, available-1)
	}

	body, err := d.ReadFIFO(ctx, length+appendedStatusLen)
	if err != nil {
		return nil, err
	}

	return &Packet{
		Data:  body[:length],
		RSSI:  int8(body[length]),
		LQI:   body[length+1] & lqiMask,
		CRCOK: body[length+1]&crcOKBit != 0,
	}, nil
}
