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
	"fmt"
	"sync"
)

// Mock transport event names
const (
	EventSelect   = "select"
	EventDeselect = "deselect"
)

// MockTransport is a scripted transport that records every call. Responses
// are taken from the queue set with SetResponses, then from the responder
// function, then default to 0x00 (chip ready, IDLE).
type MockTransport struct {
	selectErr   error
	deselectErr error
	failErr     error
	responder   func(n int, tx byte) (byte, error)
	events      []string
	sent        []byte
	responses   []byte
	failAt      int
	transfers   int
	selects     int
	deselects   int
	mu          sync.Mutex
	closed      bool
}

// NewMockTransport creates a new mock transport
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Transfer records tx and returns the next scripted response
func (m *MockTransport) Transfer(tx byte) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrTransportClosed
	}

	m.transfers++
	m.sent = append(m.sent, tx)
	m.events = append(m.events, fmt.Sprintf("tx %02X", tx))

	if m.failAt > 0 && m.transfers == m.failAt {
		return 0, m.failErr
	}

	if len(m.responses) > 0 {
		rx := m.responses[0]
		m.responses = m.responses[1:]
		return rx, nil
	}

	if m.responder != nil {
		return m.responder(m.transfers, tx)
	}

	return 0x00, nil
}

// Select records a chip-select assertion
func (m *MockTransport) Select() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selects++
	m.events = append(m.events, EventSelect)
	return m.selectErr
}

// Deselect records a chip-select release
func (m *MockTransport) Deselect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deselects++
	m.events = append(m.events, EventDeselect)
	return m.deselectErr
}

// Close marks the transport as closed
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Type returns TransportMock
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// SetResponses queues bytes returned by the next transfers
func (m *MockTransport) SetResponses(rx ...byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append([]byte(nil), rx...)
}

// SetResponder configures a dynamic response function. n is the 1-based
// transfer count.
func (m *MockTransport) SetResponder(fn func(n int, tx byte) (byte, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responder = fn
}

// FailTransferAt makes the n-th transfer (1-based) fail with err
func (m *MockTransport) FailTransferAt(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt = n
	m.failErr = err
}

// SetSelectError makes Select fail with err
func (m *MockTransport) SetSelectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectErr = err
}

// SetDeselectError makes Deselect fail with err
func (m *MockTransport) SetDeselectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deselectErr = err
}

// Events returns the recorded call sequence
func (m *MockTransport) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

// Sent returns every byte passed to Transfer
func (m *MockTransport) Sent() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.sent...)
}

// Transfers returns the number of Transfer calls
func (m *MockTransport) Transfers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transfers
}

// Selects returns the number of Select calls
func (m *MockTransport) Selects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selects
}

// Deselects returns the number of Deselect calls
func (m *MockTransport) Deselects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deselects
}

// Reset clears recorded calls and scripted behaviour
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectErr = nil
	m.deselectErr = nil
	m.failErr = nil
	m.responder = nil
	m.events = nil
	m.sent = nil
	m.responses = nil
	m.failAt = 0
	m.transfers = 0
	m.selects = 0
	m.deselects = 0
	m.closed = false
}
