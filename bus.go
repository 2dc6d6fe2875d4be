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
	"time"

	"golang.org/x/sync/semaphore"
)

// Bus serializes transactions on one physical SPI bus. Every peripheral
// sharing the bus, radio or not, must acquire the same Bus for the whole
// chip-select window so that bytes of two transactions never interleave.
type Bus struct {
	sem  *semaphore.Weighted
	name string
}

// NewBus creates a bus lock. The name only appears in logs.
func NewBus(name string) *Bus {
	return &Bus{
		sem:  semaphore.NewWeighted(1),
		name: name,
	}
}

// Name returns the bus name
func (b *Bus) Name() string {
	return b.name
}

// Acquire waits for exclusive use of the bus until ctx is done or timeout
// elapses, whichever comes first. A zero timeout waits only on ctx. The
// returned release function must be called exactly once; it is safe to
// defer it.
func (b *Bus) Acquire(ctx context.Context, timeout time.Duration) (release func(), err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// semaphore.Acquire may succeed on a done context when the bus is free
	if err := ctx.Err(); err != nil {
		return nil, NewError("acquire "+b.name, KindBusUnavailable, err)
	}

	if err := b.sem.Acquire(ctx, 1); err != nil {
		return nil, NewError("acquire "+b.name, KindBusUnavailable, err)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		b.sem.Release(1)
	}, nil
}

// TryAcquire takes the bus only if it is free right now
func (b *Bus) TryAcquire() (release func(), ok bool) {
	if !b.sem.TryAcquire(1) {
		return nil, false
	}
	return func() { b.sem.Release(1) }, true
}
