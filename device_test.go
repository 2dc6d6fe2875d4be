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
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"pgregory.net/rapid"
)

func TestMain(m *testing.M) {
	SetLogger(log.New(io.Discard))
	goleak.VerifyTestMain(m)
}

func newMockDevice(t *testing.T, opts ...Option) (*Device, *MockTransport) {
	t.Helper()
	m := NewMockTransport()
	d, err := New(m, opts...)
	require.NoError(t, err)
	return d, m
}

func TestNewDevice(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.Error(t, err)

	d, m := newMockDevice(t)
	assert.Same(t, m, d.Transport())
	assert.Equal(t, "mock", d.Bus().Name())
	assert.Equal(t, *DefaultDeviceConfig(), d.Config())

	shared := NewBus("spi3")
	d2, err := New(m, WithBus(shared), WithBusTimeout(time.Second), WithStatusAttempts(3))
	require.NoError(t, err)
	assert.Same(t, shared, d2.Bus())
	assert.Equal(t, time.Second, d2.Config().BusTimeout)
	assert.Equal(t, 3, d2.Config().StatusAttempts)
}

func TestNewDeviceRejectsBadOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opt  Option
		name string
	}{
		{name: "nil bus", opt: WithBus(nil)},
		{name: "zero bus timeout", opt: WithBusTimeout(0)},
		{name: "zero attempts", opt: WithStatusAttempts(0)},
		{name: "nil config", opt: WithConfig(nil)},
		{name: "invalid config", opt: WithConfig(&DeviceConfig{BusTimeout: time.Second})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(NewMockTransport(), tt.opt)
			require.Error(t, err)
		})
	}
}

func TestInvalidArgumentsMakeNoTransportCalls(t *testing.T) {
	t.Parallel()

	tests := []struct {
		call func(ctx context.Context, d *Device) error
		name string
	}{
		{name: "read std ext sentinel", call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadRegisters(ctx, ExtAddr, 1)
			return err
		}},
		{name: "read std strobe address", call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadRegisters(ctx, StrobeSRES, 1)
			return err
		}},
		{name: "read std zero length", call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadRegisters(ctx, RegIOCFG3, 0)
			return err
		}},
		{name: "read std too long", call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadRegisters(ctx, RegIOCFG3, 256)
			return err
		}},
		{name: "write std empty", call: func(ctx context.Context, d *Device) error {
			return d.WriteRegisters(ctx, RegIOCFG3, nil)
		}},
		{name: "write std fifo address", call: func(ctx context.Context, d *Device) error {
			return d.WriteRegisters(ctx, FIFOAccessStandard, []byte{1})
		}},
		{name: "read ext gap", call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadExtendedRegisters(ctx, 0x40, 1)
			return err
		}},
		{name: "read ext zero length", call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadExtendedRegisters(ctx, ExtPARTNUMBER, 0)
			return err
		}},
		{name: "write ext past end", call: func(ctx context.Context, d *Device) error {
			return d.WriteExtendedRegisters(ctx, 0xDA, []byte{1})
		}},
		{name: "write ext empty", call: func(ctx context.Context, d *Device) error {
			return d.WriteExtendedRegisters(ctx, ExtRNDGEN, []byte{})
		}},
		{name: "read fifo zero", call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadFIFO(ctx, 0)
			return err
		}},
		{name: "write fifo empty", call: func(ctx context.Context, d *Device) error {
			return d.WriteFIFO(ctx, nil)
		}},
		{name: "read fifo direct zero", call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadFIFODirect(ctx, 0x80, 0)
			return err
		}},
		{name: "write fifo direct empty", call: func(ctx context.Context, d *Device) error {
			return d.WriteFIFODirect(ctx, 0x00, nil)
		}},
		{name: "strobe below range", call: func(ctx context.Context, d *Device) error {
			return d.Strobe(ctx, 0x2F)
		}},
		{name: "strobe fifo opcode", call: func(ctx context.Context, d *Device) error {
			return d.Strobe(ctx, FIFOAccessDirect)
		}},
		{name: "transmit empty", call: func(ctx context.Context, d *Device) error {
			return d.Transmit(ctx, nil)
		}},
		{name: "transmit oversized", call: func(ctx context.Context, d *Device) error {
			return d.Transmit(ctx, make([]byte, MaxPayload+1))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, m := newMockDevice(t)
			err := tt.call(context.Background(), d)

			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, KindInvalidArgument, KindOf(err))
			assert.Empty(t, m.Events())
		})
	}
}

func TestExtendedGapsRejected(t *testing.T) {
	t.Parallel()

	inGap := func(a int) bool {
		return (a > 0x39 && a < 0x64) || (a > 0xA0 && a < 0xD2) || a > 0xD9
	}

	for a := 0; a <= 0xFF; a++ {
		d, m := newMockDevice(t)
		_, err := d.ReadExtendedRegisters(context.Background(), byte(a), 1)
		if inGap(a) {
			require.ErrorIs(t, err, ErrInvalidArgument, "addr 0x%02X", a)
			assert.Empty(t, m.Events(), "addr 0x%02X", a)
			continue
		}
		require.NoError(t, err, "addr 0x%02X", a)
		assert.Equal(t, 1, m.Selects(), "addr 0x%02X", a)
	}
}

func TestStrobeEventSequence(t *testing.T) {
	t.Parallel()

	d, m := newMockDevice(t)
	require.NoError(t, d.Strobe(context.Background(), StrobeSRES))

	assert.Equal(t, []string{EventSelect, "tx 30", EventDeselect}, m.Events())
}

func TestReadFIFODirectEventOrder(t *testing.T) {
	t.Parallel()

	d, m := newMockDevice(t)
	m.SetResponses(0x00, 0xEE, 0xA1, 0xA2, 0xA3, 0xA4)

	data, err := d.ReadFIFODirect(context.Background(), 0x10, 4)
	require.NoError(t, err)

	assert.Equal(t, []byte{0xA1, 0xA2, 0xA3, 0xA4}, data)
	assert.Equal(t, []string{
		EventSelect,
		"tx FE", // read | burst | 0x3E
		"tx 10", // offset, echo discarded
		"tx 00", "tx 00", "tx 00", "tx 00",
		EventDeselect,
	}, m.Events())
}

func TestHeaderBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		call   func(ctx context.Context, d *Device) error
		name   string
		header byte
	}{
		{name: "single std read", header: 0x80 | RegSYNC3, call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadRegisters(ctx, RegSYNC3, 1)
			return err
		}},
		{name: "burst std read", header: 0xC0 | RegSYNC3, call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadRegisters(ctx, RegSYNC3, 4)
			return err
		}},
		{name: "single std write", header: RegPKTLEN, call: func(ctx context.Context, d *Device) error {
			return d.WriteRegisters(ctx, RegPKTLEN, []byte{0xFF})
		}},
		{name: "burst std write", header: 0x40 | (RegPKTLEN - 1), call: func(ctx context.Context, d *Device) error {
			return d.WriteRegisters(ctx, RegPKTLEN-1, []byte{1, 2})
		}},
		{name: "ext read", header: 0xAF, call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadExtendedRegisters(ctx, ExtPARTNUMBER, 1)
			return err
		}},
		{name: "ext burst write", header: 0x6F, call: func(ctx context.Context, d *Device) error {
			return d.WriteExtendedRegisters(ctx, ExtFREQ2, []byte{0x6C, 0x80, 0x00})
		}},
		{name: "fifo read", header: 0xBF, call: func(ctx context.Context, d *Device) error {
			_, err := d.ReadFIFO(ctx, 1)
			return err
		}},
		{name: "fifo burst write", header: 0x7F, call: func(ctx context.Context, d *Device) error {
			return d.WriteFIFO(ctx, []byte{1, 2, 3})
		}},
		{name: "fifo direct write", header: 0x3E, call: func(ctx context.Context, d *Device) error {
			return d.WriteFIFODirect(ctx, 0x05, []byte{9})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, m := newMockDevice(t)
			require.NoError(t, tt.call(context.Background(), d))
			require.NotEmpty(t, m.Sent())
			assert.Equal(t, tt.header, m.Sent()[0])
		})
	}
}

func TestWriteSendsDataBytes(t *testing.T) {
	t.Parallel()

	d, m := newMockDevice(t)
	require.NoError(t, d.WriteFIFO(context.Background(), []byte{0xDE, 0xAD, 0xBE, 0xEF}))
	assert.Equal(t, []byte{0x7F, 0xDE, 0xAD, 0xBE, 0xEF}, m.Sent())

	d, m = newMockDevice(t)
	require.NoError(t, d.WriteFIFODirect(context.Background(), 0x20, []byte{0x11, 0x22}))
	assert.Equal(t, []byte{0x7E, 0x20, 0x11, 0x22}, m.Sent())

	// write data bytes are raw: a not-ready status during data is ignored
	d, m = newMockDevice(t)
	m.SetResponses(0x00, 0x00, 0x80, 0x80)
	require.NoError(t, d.WriteExtendedRegisters(context.Background(), ExtFREQ2, []byte{1, 2}))
	assert.Equal(t, []byte{0x6F, ExtFREQ2, 1, 2}, m.Sent())
}

func TestExtendedAddressEchoFailure(t *testing.T) {
	t.Parallel()

	t.Run("read", func(t *testing.T) {
		t.Parallel()
		d, m := newMockDevice(t)
		m.SetResponses(0x00, 0x01)

		_, err := d.ReadExtendedRegisters(context.Background(), ExtPARTNUMBER, 2)
		require.ErrorIs(t, err, ErrExtendedAddressRead)
		assert.Equal(t, 1, m.Selects())
		assert.Equal(t, 1, m.Deselects())
		assert.Equal(t, 2, m.Transfers(), "no data phase after a bad echo")
	})

	t.Run("write", func(t *testing.T) {
		t.Parallel()
		d, m := newMockDevice(t)
		m.SetResponses(0x00, 0x5A)

		err := d.WriteExtendedRegisters(context.Background(), ExtFREQ2, []byte{1})
		require.ErrorIs(t, err, ErrExtendedAddressWrite)
		assert.Equal(t, 1, m.Deselects())
		assert.Equal(t, 2, m.Transfers())
	})
}

func TestStatusRetryThroughDevice(t *testing.T) {
	t.Parallel()

	d, m := newMockDevice(t)
	m.SetResponses(0x80, 0x80, 0x80, 0x80, 0x00, 0x42)

	data, err := d.ReadRegisters(context.Background(), RegPKTLEN, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x42}, data)
	assert.Equal(t, 6, m.Transfers())

	d, m = newMockDevice(t)
	m.SetResponder(func(int, byte) (byte, error) { return 0x80, nil })
	_, err = d.ReadRegisters(context.Background(), RegPKTLEN, 1)
	require.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, DefaultStatusAttempts, m.Transfers())
	assert.Equal(t, 1, m.Deselects())
}

func TestChipSelectBalancedUnderFailures(t *testing.T) {
	t.Parallel()

	selectErr := errors.New("cs gpio")
	transferErr := errors.New("spi ioctl")

	ctx := context.Background()
	payload := []byte{0x01, 0x02}

	// transfers is the number of byte exchanges a successful call makes
	operations := []struct {
		call      func(d *Device) error
		name      string
		transfers int
	}{
		{name: "read registers", transfers: 3, call: func(d *Device) error {
			_, err := d.ReadRegisters(ctx, RegSYNC3, 2)
			return err
		}},
		{name: "write registers", transfers: 3, call: func(d *Device) error {
			return d.WriteRegisters(ctx, RegSYNC3, payload)
		}},
		{name: "read extended", transfers: 4, call: func(d *Device) error {
			_, err := d.ReadExtendedRegisters(ctx, ExtMARCSTATE, 2)
			return err
		}},
		{name: "write extended", transfers: 4, call: func(d *Device) error {
			return d.WriteExtendedRegisters(ctx, ExtFREQ2, payload)
		}},
		{name: "read fifo", transfers: 3, call: func(d *Device) error {
			_, err := d.ReadFIFO(ctx, 2)
			return err
		}},
		{name: "write fifo", transfers: 3, call: func(d *Device) error {
			return d.WriteFIFO(ctx, payload)
		}},
		{name: "read fifo direct", transfers: 4, call: func(d *Device) error {
			_, err := d.ReadFIFODirect(ctx, 0x10, 2)
			return err
		}},
		{name: "write fifo direct", transfers: 4, call: func(d *Device) error {
			return d.WriteFIFODirect(ctx, 0x10, payload)
		}},
		{name: "strobe", transfers: 1, call: func(d *Device) error {
			return d.Strobe(ctx, StrobeSNOP)
		}},
	}

	type failure struct {
		setup func(m *MockTransport)
		want  error
		name  string
	}

	for _, op := range operations {
		failures := []failure{
			{name: "select fails", setup: func(m *MockTransport) { m.SetSelectError(selectErr) }, want: selectErr},
			{name: "header fails", setup: func(m *MockTransport) { m.FailTransferAt(1, transferErr) }, want: transferErr},
			{name: "not ready", setup: func(m *MockTransport) {
				m.SetResponder(func(int, byte) (byte, error) { return 0x80, nil })
			}, want: ErrInvalidStatus},
		}
		for n := 2; n <= op.transfers; n++ {
			failures = append(failures, failure{
				name:  fmt.Sprintf("transfer %d fails", n),
				setup: func(m *MockTransport) { m.FailTransferAt(n, transferErr) },
				want:  transferErr,
			})
		}

		for _, f := range failures {
			t.Run(op.name+"/"+f.name, func(t *testing.T) {
				t.Parallel()

				d, m := newMockDevice(t)
				f.setup(m)

				err := op.call(d)
				require.ErrorIs(t, err, f.want)
				assert.Equal(t, 1, m.Selects())
				assert.Equal(t, 1, m.Deselects())
			})
		}
	}
}

func TestDeselectFailure(t *testing.T) {
	t.Parallel()

	deselectErr := errors.New("cs stuck")

	t.Run("reported when alone", func(t *testing.T) {
		t.Parallel()
		d, m := newMockDevice(t)
		m.SetDeselectError(deselectErr)

		err := d.Strobe(context.Background(), StrobeSNOP)
		require.ErrorIs(t, err, ErrTransport)
		require.ErrorIs(t, err, deselectErr)
	})

	t.Run("does not mask earlier error", func(t *testing.T) {
		t.Parallel()
		d, m := newMockDevice(t)
		m.SetDeselectError(deselectErr)
		m.SetResponses(0x00, 0x07)

		_, err := d.ReadExtendedRegisters(context.Background(), ExtPARTNUMBER, 1)
		require.ErrorIs(t, err, ErrExtendedAddressRead)
		assert.NotErrorIs(t, err, deselectErr)
	})
}

func TestBusTimeoutMakesNoTransportCalls(t *testing.T) {
	t.Parallel()

	bus := NewBus("shared")
	d, m := newMockDevice(t, WithBus(bus), WithBusTimeout(5*time.Millisecond))

	release, err := bus.Acquire(context.Background(), 0)
	require.NoError(t, err)
	defer release()

	_, err = d.ReadRegisters(context.Background(), RegPKTLEN, 1)
	require.ErrorIs(t, err, ErrBusUnavailable)
	assert.Equal(t, KindBusUnavailable, KindOf(err))
	assert.Empty(t, m.Events())
}

func TestSharedBusSerializesDevices(t *testing.T) {
	t.Parallel()

	bus := NewBus("shared")
	a, ma := newMockDevice(t, WithBus(bus))
	b, mb := newMockDevice(t, WithBus(bus))

	inA := make(chan struct{})
	proceed := make(chan struct{})
	ma.SetResponder(func(n int, _ byte) (byte, error) {
		if n == 1 {
			close(inA)
			<-proceed
		}
		return 0x00, nil
	})

	done := make(chan error, 1)
	go func() {
		done <- a.Strobe(context.Background(), StrobeSNOP)
	}()

	<-inA
	_, err := b.ReadRegisters(context.Background(), RegPKTLEN, 1)
	require.ErrorIs(t, err, ErrBusUnavailable, "bus held by device a")
	assert.Zero(t, mb.Selects())

	close(proceed)
	require.NoError(t, <-done)

	_, err = b.ReadRegisters(context.Background(), RegPKTLEN, 1)
	require.NoError(t, err)
}

func TestReadHeaderProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		addr := byte(rapid.IntRange(0, int(ExtAddr)-1).Draw(t, "addr"))
		n := rapid.IntRange(1, 255).Draw(t, "n")

		m := NewMockTransport()
		d, err := New(m)
		require.NoError(t, err)

		data, err := d.ReadRegisters(context.Background(), addr, n)
		require.NoError(t, err)
		assert.Len(t, data, n)

		sent := m.Sent()
		require.Len(t, sent, n+1)
		assert.NotZero(t, sent[0]&0x80)
		assert.Equal(t, n > 1, sent[0]&0x40 != 0)
		assert.Equal(t, addr, sent[0]&0x3F)
		for _, b := range sent[1:] {
			assert.Zero(t, b)
		}
		assert.Equal(t, 1, m.Selects())
		assert.Equal(t, 1, m.Deselects())
	})
}
