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
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var (
	logger       atomic.Pointer[log.Logger]
	debugEnabled atomic.Bool
)

func init() {
	logger.Store(log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "cc1120",
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	}))
}

// Logger returns the process-wide diagnostic logger
func Logger() *log.Logger {
	return logger.Load()
}

// SetLogger replaces the process-wide diagnostic logger. Passing nil is a
// no-op.
func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	if debugEnabled.Load() {
		l.SetLevel(log.DebugLevel)
	}
	logger.Store(l)
}

// SetDebugEnabled turns debug output on or off
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
	if enabled {
		Logger().SetLevel(log.DebugLevel)
	} else {
		Logger().SetLevel(log.InfoLevel)
	}
}

// debugf logs a formatted debug message when debug output is enabled
func debugf(format string, args ...any) {
	if debugEnabled.Load() {
		Logger().Debugf(format, args...)
	}
}

// debugln logs a debug message when debug output is enabled
func debugln(msg string) {
	if debugEnabled.Load() {
		Logger().Debug(msg)
	}
}

// logError records err with its kind. It never changes control flow.
func logError(err error) {
	if err == nil {
		return
	}
	var e *Error
	if errors.As(err, &e) {
		Logger().Error("radio operation failed", "op", e.Op, "kind", e.Kind.String(), "err", e.Err)
		return
	}
	Logger().Error("radio operation failed", "kind", KindUnknown.String(), "err", err)
}
