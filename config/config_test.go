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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	cc1120 "github.com/orbital-obc/go-cc1120"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	b := Default()
	require.NoError(t, b.Validate())
	assert.True(t, b.HasReset())
	assert.Equal(t, cc1120.DefaultStatusAttempts, b.DeviceConfig().StatusAttempts)
	require.NoError(t, b.DeviceConfig().Validate())
}

func TestParseBoard(t *testing.T) {
	t.Parallel()

	b, err := Parse([]byte(`
name: bench
spi_port: /dev/spidev2.1
cs_pin: GPIO5
clock_hz: 2000000
bus_timeout: 250ms
status_attempts: 8
reset_line: -1
`))
	require.NoError(t, err)

	assert.Equal(t, "bench", b.Name)
	assert.Equal(t, "/dev/spidev2.1", b.SPIPort)
	assert.Equal(t, "GPIO5", b.CSPin)
	assert.Equal(t, int64(2_000_000), b.ClockHz)
	assert.Equal(t, 250*time.Millisecond, b.BusTimeout)
	assert.Equal(t, 8, b.StatusAttempts)
	assert.False(t, b.HasReset())
	assert.Equal(t, Default().ResetChip, b.ResetChip, "unset fields keep defaults")
}

func TestParseEmptyBoardUsesDefault(t *testing.T) {
	t.Parallel()

	b, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), b)
}

func TestParseBoardErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "unknown field", yaml: "cs: GPIO5\n", want: "field cs not found"},
		{name: "clock too fast", yaml: "clock_hz: 9000000\n", want: "clock_hz"},
		{name: "zero clock", yaml: "clock_hz: 0\n", want: "clock_hz"},
		{name: "empty cs", yaml: "cs_pin: \"\"\n", want: "cs_pin"},
		{name: "bad timeout", yaml: "bus_timeout: soon\n", want: "invalid board"},
		{name: "negative timeout", yaml: "bus_timeout: -1s\n", want: "bus_timeout"},
		{name: "zero attempts", yaml: "status_attempts: 0\n", want: "status_attempts"},
		{name: "bad reset line", yaml: "reset_line: -2\n", want: "reset_line"},
		{name: "reset without chip", yaml: "reset_chip: \"\"\n", want: "reset_chip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadResolvesRegistersPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("registers: radio.yaml\n"), 0o600))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "radio.yaml"), b.Registers)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestParseRegisters(t *testing.T) {
	t.Parallel()

	settings, err := ParseRegisters([]byte(`
description: 434 MHz 1.2 kbps
registers:
  - {name: SYNC3, addr: 0x04, value: 0x93}
  - {name: PKT_CFG0, addr: 0x28, value: 0x20}
  - {name: FREQ2, addr: 0x0C, value: 0x6C, extended: true}
  - {name: FREQ1, addr: 0x0D, value: 128, extended: true}
`))
	require.NoError(t, err)

	assert.Equal(t, []cc1120.RegisterSetting{
		{Addr: cc1120.RegSYNC3, Value: 0x93},
		{Addr: cc1120.RegPKTCFG0, Value: 0x20},
		{Addr: cc1120.ExtFREQ2, Value: 0x6C, Extended: true},
		{Addr: cc1120.ExtFREQ1, Value: 0x80, Extended: true},
	}, settings)
}

func TestParseRegistersErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{name: "standard address out of range", yaml: "registers:\n  - {addr: 0x2F, value: 1}\n"},
		{name: "extended gap", yaml: "registers:\n  - {addr: 0x50, value: 1, extended: true}\n"},
		{name: "value overflow", yaml: "registers:\n  - {addr: 0x04, value: 256}\n"},
		{name: "unknown key", yaml: "registers:\n  - {address: 0x04, value: 1}\n"},
		{name: "not yaml", yaml: "registers: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseRegisters([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestRegistersFileRoundTrip(t *testing.T) {
	t.Parallel()

	in := []cc1120.RegisterSetting{
		{Addr: cc1120.RegIOCFG3, Value: 0xB0},
		{Addr: cc1120.ExtPARTNUMBER, Value: 0x48, Extended: true},
	}
	data, err := MarshalRegisters(in)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "radio.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out, err := LoadRegisters(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
