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
	"errors"
	"time"
)

// Option configures a Device
type Option func(*Device) error

// WithBus shares an existing bus lock with other peripherals
func WithBus(bus *Bus) Option {
	return func(d *Device) error {
		if bus == nil {
			return errors.New("nil bus")
		}
		d.bus = bus
		return nil
	}
}

// WithBusTimeout bounds how long a transaction waits for the bus
func WithBusTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return errors.New("bus timeout must be positive")
		}
		d.config.BusTimeout = timeout
		return nil
	}
}

// WithStatusAttempts sets the status-byte attempt budget
func WithStatusAttempts(attempts int) Option {
	return func(d *Device) error {
		if attempts < 1 {
			return errors.New("status attempts must be at least 1")
		}
		d.config.StatusAttempts = attempts
		return nil
	}
}

// WithResetter sets the hardware reset line used by HardReset
func WithResetter(r Resetter) Option {
	return func(d *Device) error {
		d.resetter = r
		return nil
	}
}

// WithConfig replaces the whole device configuration
func WithConfig(config *DeviceConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return errors.New("nil device config")
		}
		if err := config.Validate(); err != nil {
			return err
		}
		c := *config
		d.config = &c
		return nil
	}
}
