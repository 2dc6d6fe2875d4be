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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusAcquireRelease(t *testing.T) {
	t.Parallel()

	bus := NewBus("spi1")
	assert.Equal(t, "spi1", bus.Name())

	release, err := bus.Acquire(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)

	_, ok := bus.TryAcquire()
	assert.False(t, ok, "bus must be exclusive while held")

	release()
	release() // second call is a no-op

	again, ok := bus.TryAcquire()
	require.True(t, ok)
	again()
}

func TestBusAcquireTimeout(t *testing.T) {
	t.Parallel()

	bus := NewBus("spi1")
	release, err := bus.Acquire(context.Background(), 0)
	require.NoError(t, err)
	defer release()

	start := time.Now()
	_, err = bus.Acquire(context.Background(), 5*time.Millisecond)
	require.ErrorIs(t, err, ErrBusUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestBusAcquireCanceledContext(t *testing.T) {
	t.Parallel()

	bus := NewBus("spi1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bus.Acquire(ctx, time.Second)
	require.ErrorIs(t, err, ErrBusUnavailable)
	require.ErrorIs(t, err, context.Canceled)

	// a failed acquire must not leave the bus held
	release, ok := bus.TryAcquire()
	require.True(t, ok)
	release()
}

func TestBusWaiterGetsBusAfterRelease(t *testing.T) {
	t.Parallel()

	bus := NewBus("spi1")
	release, err := bus.Acquire(context.Background(), 0)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		r, err := bus.Acquire(context.Background(), time.Second)
		if err == nil {
			r()
		}
		done <- err
	}()

	time.Sleep(5 * time.Millisecond)
	release()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never acquired the bus")
	}
}
