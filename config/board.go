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

// Package config loads board descriptions and register-settings files
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	cc1120 "github.com/orbital-obc/go-cc1120"
	"gopkg.in/yaml.v3"
)

// MaxClockHz is the highest SPI clock the CC1120 accepts
const MaxClockHz = 8_000_000

// NoResetLine disables the hardware reset line
const NoResetLine = -1

// Board describes how the radio is wired on one board revision
type Board struct {
	Name      string `yaml:"name"`
	SPIPort   string `yaml:"spi_port"`
	CSPin     string `yaml:"cs_pin"`
	ResetChip string `yaml:"reset_chip"`
	// Registers is a register-settings file applied at startup. A relative
	// path is resolved against the board file's directory.
	Registers      string        `yaml:"registers"`
	ClockHz        int64         `yaml:"clock_hz"`
	BusTimeout     time.Duration `yaml:"bus_timeout"`
	ResetLine      int           `yaml:"reset_line"`
	StatusAttempts int           `yaml:"status_attempts"`
}

// Load reads a board file. Fields the file leaves out keep their Default
// values.
func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if b.Registers != "" && !filepath.IsAbs(b.Registers) {
		b.Registers = filepath.Join(filepath.Dir(path), b.Registers)
	}
	return b, nil
}

// Parse decodes a board description on top of Default and validates it
func Parse(data []byte) (*Board, error) {
	b := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(b); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid board description: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the board description
func (b *Board) Validate() error {
	switch {
	case b.CSPin == "":
		return errors.New("cs_pin is required")
	case b.ClockHz <= 0 || b.ClockHz > MaxClockHz:
		return fmt.Errorf("clock_hz %d out of range 1-%d", b.ClockHz, MaxClockHz)
	case b.BusTimeout <= 0:
		return errors.New("bus_timeout must be positive")
	case b.StatusAttempts < 1:
		return errors.New("status_attempts must be at least 1")
	case b.ResetLine < NoResetLine:
		return fmt.Errorf("invalid reset_line %d", b.ResetLine)
	case b.ResetLine != NoResetLine && b.ResetChip == "":
		return errors.New("reset_chip is required with reset_line")
	}
	return nil
}

// HasReset reports whether a reset line is wired
func (b *Board) HasReset() bool {
	return b.ResetLine != NoResetLine
}

// DeviceConfig returns the driver configuration for this board
func (b *Board) DeviceConfig() *cc1120.DeviceConfig {
	return &cc1120.DeviceConfig{
		BusTimeout:     b.BusTimeout,
		StatusAttempts: b.StatusAttempts,
	}
}
