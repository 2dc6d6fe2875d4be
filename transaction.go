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
)

// txn is one chip-select window. It is only valid inside the function
// passed to Device.transact.
type txn struct {
	transport Transport
	op        string
	attempts  int
}

// exchange performs one raw byte exchange without status validation
func (x *txn) exchange(tx byte) (byte, error) {
	rx, err := x.transport.Transfer(tx)
	if err != nil {
		return 0, newTransportError(x.op, err)
	}
	return rx, nil
}

// read clocks out n bytes, sending 0x00 for each
func (x *txn) read(n int) ([]byte, error) {
	data := make([]byte, n)
	for i := range data {
		rx, err := x.exchange(0x00)
		if err != nil {
			return nil, err
		}
		data[i] = rx
	}
	return data, nil
}

// write clocks data out in order, discarding what the chip returns
func (x *txn) write(data []byte) error {
	for _, b := range data {
		if _, err := x.exchange(b); err != nil {
			return err
		}
	}
	return nil
}

// transact runs fn as one critical section: acquire the bus, assert chip
// select, run fn, deassert, release. Deassert runs on every path once the
// bus is held. A deassert failure is only returned when nothing failed
// before it. Every returned error has already been logged.
func (d *Device) transact(ctx context.Context, op string, fn func(x *txn) error) error {
	release, err := d.bus.Acquire(ctx, d.config.BusTimeout)
	if err != nil {
		return d.fail(NewError(op, KindBusUnavailable, errors.Unwrap(err)))
	}
	defer release()

	x := &txn{
		transport: d.transport,
		op:        op,
		attempts:  d.config.StatusAttempts,
	}

	if selErr := d.transport.Select(); selErr != nil {
		err = newTransportError(op, fmt.Errorf("select: %w", selErr))
	} else {
		err = fn(x)
	}

	if desErr := d.transport.Deselect(); desErr != nil {
		desErr = newTransportError(op, fmt.Errorf("deselect: %w", desErr))
		if err == nil {
			err = desErr
		} else {
			logError(desErr)
		}
	}

	if err != nil {
		return d.fail(err)
	}
	return nil
}

// fail logs err and returns it unchanged
func (*Device) fail(err error) error {
	logError(err)
	return err
}
