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
	"fmt"
)

// ErrorKind classifies every error returned by the chip-access layer
type ErrorKind int

const (
	// KindUnknown is reported for errors that did not originate here
	KindUnknown ErrorKind = iota
	// KindInvalidArgument is a malformed call, rejected before bus I/O
	KindInvalidArgument
	// KindInvalidStatus means the chip stayed not-ready for the whole
	// status retry budget
	KindInvalidStatus
	// KindExtendedAddressRead means the extended addressing echo of a
	// read was non-zero
	KindExtendedAddressRead
	// KindExtendedAddressWrite means the extended addressing echo of a
	// write was non-zero
	KindExtendedAddressWrite
	// KindTransport is a failure of the underlying bus exchange
	KindTransport
	// KindBusUnavailable means the shared bus could not be acquired in time
	KindBusUnavailable
)

// String returns the kind name used in logs
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidStatus:
		return "invalid_status"
	case KindExtendedAddressRead:
		return "ext_addr_read_failure"
	case KindExtendedAddressWrite:
		return "ext_addr_write_failure"
	case KindTransport:
		return "transport_failure"
	case KindBusUnavailable:
		return "bus_unavailable"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidStatus        = errors.New("chip not ready")
	ErrExtendedAddressRead  = errors.New("extended address read failed")
	ErrExtendedAddressWrite = errors.New("extended address write failed")
	ErrTransport            = errors.New("transport failure")
	ErrBusUnavailable       = errors.New("bus unavailable")
)

// Radio-level errors
var (
	ErrUnexpectedPart = errors.New("unexpected part number")
	ErrRXOverflow     = errors.New("rx fifo holds less than the declared packet length")
	ErrNoResetter     = errors.New("no reset line configured")
)

// Error is the error type returned by Device operations
type Error struct {
	// Err is the underlying cause, if any (for example the transport error)
	Err  error
	Op   string
	Kind ErrorKind
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.sentinel(), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.sentinel())
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the kind
func (e *Error) Is(target error) bool {
	s := e.sentinel()
	return s != nil && target == s
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindInvalidStatus:
		return ErrInvalidStatus
	case KindExtendedAddressRead:
		return ErrExtendedAddressRead
	case KindExtendedAddressWrite:
		return ErrExtendedAddressWrite
	case KindTransport:
		return ErrTransport
	case KindBusUnavailable:
		return ErrBusUnavailable
	default:
		return nil
	}
}

// NewError creates a new Error
func NewError(op string, kind ErrorKind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// newInvalidArgument creates an invalid argument error with a reason
func newInvalidArgument(op, format string, args ...any) *Error {
	return NewError(op, KindInvalidArgument, fmt.Errorf(format, args...))
}

// newTransportError wraps a transport failure, keeping the cause
func newTransportError(op string, err error) *Error {
	return NewError(op, KindTransport, err)
}

// KindOf returns the kind of err, or KindUnknown
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether the caller may reasonably retry the operation.
// This layer never retries on its own apart from the status-byte handshake.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindInvalidStatus, KindTransport, KindBusUnavailable:
		return true
	default:
		return false
	}
}
