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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	cc1120 "github.com/orbital-obc/go-cc1120"
	"github.com/orbital-obc/go-cc1120/config"
	"github.com/orbital-obc/go-cc1120/reset"
	"github.com/orbital-obc/go-cc1120/transport/buspirate"
	"github.com/orbital-obc/go-cc1120/transport/sim"
	"github.com/orbital-obc/go-cc1120/transport/spi"
	"periph.io/x/conn/v3/physic"
)

// newSimTransport is replaced in tests to inspect the simulated chip
var newSimTransport = func() cc1120.Transport { return sim.New() }

type env struct {
	stdout io.Writer
	stderr io.Writer
	flags  globalFlags
}

// session is an open radio plus whatever else has to be released with it
type session struct {
	dev     *cc1120.Device
	board   *config.Board
	closers []io.Closer
}

func (s *session) Close() error {
	var errs []error
	if err := s.dev.Close(); err != nil {
		errs = append(errs, err)
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *env) loadBoard() (*config.Board, error) {
	if e.flags.board == "" {
		return config.Default(), nil
	}
	return config.Load(e.flags.board)
}

// open connects to the radio described by the global flags, applies the
// register settings and leaves the chip idle
func (e *env) open(ctx context.Context) (*session, error) {
	board, err := e.loadBoard()
	if err != nil {
		return nil, err
	}

	s := &session{board: board}
	transport, err := e.newTransport(board)
	if err != nil {
		return nil, err
	}

	opts := []cc1120.Option{cc1120.WithConfig(board.DeviceConfig())}
	if board.HasReset() && e.flags.transport == "spi" {
		line, err := reset.Open(board.ResetChip, board.ResetLine)
		if err != nil {
			_ = transport.Close()
			return nil, err
		}
		s.closers = append(s.closers, line)
		opts = append(opts, cc1120.WithResetter(line))
	}

	s.dev, err = cc1120.New(transport, opts...)
	if err != nil {
		_ = transport.Close()
		for _, c := range s.closers {
			_ = c.Close()
		}
		return nil, err
	}

	if err := e.applyRegisters(ctx, s); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (e *env) newTransport(board *config.Board) (cc1120.Transport, error) {
	switch e.flags.transport {
	case "spi":
		port := board.SPIPort
		if e.flags.device != "" {
			port = e.flags.device
		}
		t, err := spi.New(spi.Config{
			Port:      port,
			CSPin:     board.CSPin,
			Frequency: physic.Frequency(board.ClockHz) * physic.Hertz,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create SPI transport: %w", err)
		}
		return t, nil
	case "buspirate":
		if e.flags.device == "" {
			return nil, errors.New("--device is required with the buspirate transport")
		}
		t, err := buspirate.New(e.flags.device, busPirateSpeed(board.ClockHz))
		if err != nil {
			return nil, fmt.Errorf("failed to create Bus Pirate transport: %w", err)
		}
		return t, nil
	case "sim":
		return newSimTransport(), nil
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", e.flags.transport)
	}
}

func (e *env) applyRegisters(ctx context.Context, s *session) error {
	path := e.flags.registers
	if path == "" && !e.flags.noConfig {
		path = s.board.Registers
	}
	if path == "" {
		return nil
	}

	settings, err := config.LoadRegisters(path)
	if err != nil {
		return err
	}
	if err := s.dev.Configure(ctx, settings); err != nil {
		return fmt.Errorf("failed to apply %s: %w", path, err)
	}
	return nil
}

var busPirateSpeeds = []struct {
	hz    int64
	speed buspirate.Speed
}{
	{8_000_000, buspirate.Speed8MHz},
	{4_000_000, buspirate.Speed4MHz},
	{2_600_000, buspirate.Speed2600kHz},
	{2_000_000, buspirate.Speed2MHz},
	{1_000_000, buspirate.Speed1MHz},
	{250_000, buspirate.Speed250kHz},
	{125_000, buspirate.Speed125kHz},
}

// busPirateSpeed picks the fastest Bus Pirate clock not above hz
func busPirateSpeed(hz int64) buspirate.Speed {
	for _, s := range busPirateSpeeds {
		if hz >= s.hz {
			return s.speed
		}
	}
	return buspirate.Speed30kHz
}
