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
	"bytes"
	"fmt"
	"os"

	cc1120 "github.com/orbital-obc/go-cc1120"
	"gopkg.in/yaml.v3"
)

// RegisterEntry is one line of a register-settings file
type RegisterEntry struct {
	Name     string `yaml:"name,omitempty"`
	Addr     uint8  `yaml:"addr"`
	Value    uint8  `yaml:"value"`
	Extended bool   `yaml:"extended,omitempty"`
}

// RegisterFile is a SmartRF-style export of register values
type RegisterFile struct {
	Description string          `yaml:"description,omitempty"`
	Registers   []RegisterEntry `yaml:"registers"`
}

// LoadRegisters reads a register-settings file
func LoadRegisters(path string) ([]cc1120.RegisterSetting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read register settings: %w", err)
	}
	settings, err := ParseRegisters(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// ParseRegisters decodes and validates register settings. Addresses are
// checked against the standard or extended register map.
func ParseRegisters(data []byte) ([]cc1120.RegisterSetting, error) {
	var file RegisterFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("invalid register settings: %w", err)
	}

	settings := make([]cc1120.RegisterSetting, 0, len(file.Registers))
	for i, e := range file.Registers {
		if e.Extended && !cc1120.IsExtendedRegister(e.Addr) {
			return nil, fmt.Errorf("entry %d (%s): 0x%02X is not an extended register", i, e.Name, e.Addr)
		}
		if !e.Extended && !cc1120.IsStandardRegister(e.Addr) {
			return nil, fmt.Errorf("entry %d (%s): 0x%02X is not a standard register", i, e.Name, e.Addr)
		}
		settings = append(settings, cc1120.RegisterSetting{
			Addr:     e.Addr,
			Value:    e.Value,
			Extended: e.Extended,
		})
	}
	return settings, nil
}

// MarshalRegisters renders settings in the register-settings file format
func MarshalRegisters(settings []cc1120.RegisterSetting) ([]byte, error) {
	file := RegisterFile{Registers: make([]RegisterEntry, len(settings))}
	for i, s := range settings {
		file.Registers[i] = RegisterEntry{Addr: s.Addr, Value: s.Value, Extended: s.Extended}
	}
	out, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode register settings: %w", err)
	}
	return out, nil
}
