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

// Package retry provides the bounded retry loop used for chip handshakes
package retry

import (
	"errors"
	"time"
)

// ErrExhausted is returned when every attempt asked to be retried and the
// config has no OnExhausted hook
var ErrExhausted = errors.New("retry attempts exhausted")

// Operation is one attempt. Returning a non-nil error aborts the loop
// immediately; returning shouldRetry=true consumes one attempt.
type Operation[T any] func() (result T, shouldRetry bool, err error)

// Config holds retry configuration
type Config struct {
	// OnRetry runs between attempts. A non-nil error aborts the loop.
	OnRetry func(attempt int) error
	// OnExhausted builds the error returned after the last attempt
	OnExhausted func() error
	// Attempts is the total number of attempts, including the first
	Attempts   int
	RetryDelay time.Duration
}

// Do runs operation until it succeeds, fails, or the attempt budget is used
// up. The result of the last attempt is returned alongside the exhaustion
// error so callers can inspect it.
func Do[T any](config Config, operation Operation[T]) (T, error) {
	var last T

	attempts := config.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		result, shouldRetry, err := operation()
		if err != nil {
			return result, err
		}
		if !shouldRetry {
			return result, nil
		}
		last = result

		if attempt == attempts {
			break
		}

		if config.OnRetry != nil {
			if err := config.OnRetry(attempt); err != nil {
				return last, err
			}
		}

		if config.RetryDelay > 0 {
			time.Sleep(config.RetryDelay)
		}
	}

	return last, exhausted(config)
}

func exhausted(config Config) error {
	if config.OnExhausted != nil {
		if err := config.OnExhausted(); err != nil {
			return err
		}
	}
	return ErrExhausted
}
