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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransportReset(t *testing.T) {
	t.Parallel()

	m := NewMockTransport()
	m.SetResponses(0x80, 0x00)
	m.SetSelectError(errors.New("cs gpio"))
	m.FailTransferAt(3, errors.New("spi ioctl"))

	_, err := m.Transfer(0x3D)
	require.NoError(t, err)
	require.Error(t, m.Select())
	require.NoError(t, m.Deselect())
	require.NoError(t, m.Close())

	m.Reset()

	assert.Zero(t, m.Transfers())
	assert.Zero(t, m.Selects())
	assert.Zero(t, m.Deselects())
	assert.Empty(t, m.Events())
	assert.Empty(t, m.Sent())

	// the mock is usable again after a reset, including its lock
	d, err := New(m)
	require.NoError(t, err)
	require.NoError(t, d.Strobe(context.Background(), StrobeSNOP))
	assert.Equal(t, []string{EventSelect, "tx 3D", EventDeselect}, m.Events())

	m.Reset()
	m.Reset()
	assert.Zero(t, m.Transfers())
}
