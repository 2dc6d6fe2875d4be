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

// Package reset drives the CC1120 RESET_N pin through a Linux GPIO character
// device line.
package reset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

const (
	consumer = "cc1120-reset"

	// DefaultPulse is how long RESET_N is held low
	DefaultPulse = time.Millisecond
	// DefaultSettle is how long to wait after release before the chip is used
	DefaultSettle = time.Millisecond
)

const (
	levelLow  = 0
	levelHigh = 1
)

// OutputLine is a requested GPIO output
type OutputLine interface {
	SetValue(value int) error
	Close() error
}

// Line pulses RESET_N low. It implements cc1120.Resetter.
type Line struct {
	line   OutputLine
	pulse  time.Duration
	settle time.Duration
}

// Open requests offset on chip (e.g. "gpiochip0") as an output driven high
func Open(chip string, offset int) (*Line, error) {
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(levelHigh),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("failed to request %s line %d: %w", chip, offset, err)
	}
	return NewWithLine(l, DefaultPulse, DefaultSettle), nil
}

// NewWithLine wraps an already requested output line
func NewWithLine(l OutputLine, pulse, settle time.Duration) *Line {
	return &Line{line: l, pulse: pulse, settle: settle}
}

// Reset holds RESET_N low for the pulse time, then waits for the chip to
// come out of reset. The line is always released, even when ctx ends
// during the pulse.
func (r *Line) Reset(ctx context.Context) error {
	if err := r.line.SetValue(levelLow); err != nil {
		return fmt.Errorf("failed to assert reset: %w", err)
	}

	waitErr := sleep(ctx, r.pulse)

	if err := r.line.SetValue(levelHigh); err != nil {
		return errors.Join(waitErr, fmt.Errorf("failed to release reset: %w", err))
	}
	if waitErr != nil {
		return waitErr
	}
	return sleep(ctx, r.settle)
}

// Close releases the line
func (r *Line) Close() error {
	return r.line.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
