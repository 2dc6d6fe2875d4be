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
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	cc1120 "github.com/orbital-obc/go-cc1120"
	"github.com/orbital-obc/go-cc1120/config"
	"github.com/orbital-obc/go-cc1120/detection"
	_ "github.com/orbital-obc/go-cc1120/detection/serial"
	_ "github.com/orbital-obc/go-cc1120/detection/spidev"
	"github.com/orbital-obc/go-cc1120/polling"
	"github.com/spf13/pflag"
)

type command struct {
	run  func(ctx context.Context, e *env, args []string) error
	args string
	help string
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"info":      {run: withDevice(cmdInfo), help: "verify the part and print its identity"},
		"status":    {run: withDevice(cmdStatus), help: "print the status byte, MARCSTATE and FIFO counts"},
		"strobe":    {run: withDevice(cmdStrobe), args: "<name|opcode>", help: "issue a command strobe"},
		"reset":     {run: withDevice(cmdReset), args: "[--hard]", help: "reset the chip by strobe or reset line"},
		"read":      {run: withDevice(cmdRead(false)), args: "<addr> [count]", help: "read standard registers"},
		"readext":   {run: withDevice(cmdRead(true)), args: "<addr> [count]", help: "read extended registers"},
		"write":     {run: withDevice(cmdWrite(false)), args: "<addr> <byte>...", help: "write standard registers"},
		"writeext":  {run: withDevice(cmdWrite(true)), args: "<addr> <byte>...", help: "write extended registers"},
		"fifo":      {run: withDevice(cmdFIFO), args: "<offset> [count]", help: "read FIFO memory directly"},
		"random":    {run: withDevice(cmdRandom), args: "[count]", help: "read bytes from the random generator"},
		"configure": {run: withDevice(cmdConfigure), args: "<file>", help: "apply a register settings file"},
		"send":      {run: withDevice(cmdSend), args: "<hex payload>", help: "transmit one packet"},
		"listen":    {run: withDevice(cmdListen), args: "[--for duration] [--count n]", help: "print received packets"},
		"dump":      {run: withDevice(cmdDump), help: "print the configuration registers as a settings file"},
		"detect":    {run: cmdDetect, args: "[--mode passive|safe|full] [--cs pin]", help: "look for attached radios"},
	}
}

func withDevice(fn func(ctx context.Context, e *env, s *session, args []string) error) func(context.Context, *env, []string) error {
	return func(ctx context.Context, e *env, args []string) (err error) {
		s, err := e.open(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := s.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		return fn(ctx, e, s, args)
	}
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return byte(v), nil
}

func parseCount(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid count %q", args[i])
	}
	return n, nil
}

func formatBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, " ")
}

func cmdInfo(ctx context.Context, e *env, s *session, _ []string) error {
	if err := s.dev.Verify(ctx); err != nil {
		return err
	}
	version, err := s.dev.PartVersion(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Part:      CC1120 (0x%02X)\n", cc1120.PartNumberCC1120)
	_, _ = fmt.Fprintf(e.stdout, "Version:   0x%02X\n", version)
	_, _ = fmt.Fprintf(e.stdout, "Board:     %s\n", s.board.Name)
	_, _ = fmt.Fprintf(e.stdout, "Transport: %s\n", s.dev.Transport().Type())
	return nil
}

func cmdStatus(ctx context.Context, e *env, s *session, _ []string) error {
	status, err := s.dev.ReadStatus(ctx)
	if err != nil {
		return err
	}
	marc, err := s.dev.MarcState(ctx)
	if err != nil {
		return err
	}
	rx, err := s.dev.NumRXBytes(ctx)
	if err != nil {
		return err
	}
	tx, err := s.dev.NumTXBytes(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Status:    %s\n", status)
	_, _ = fmt.Fprintf(e.stdout, "MARCSTATE: 0x%02X\n", marc)
	_, _ = fmt.Fprintf(e.stdout, "RX FIFO:   %d\n", rx)
	_, _ = fmt.Fprintf(e.stdout, "TX FIFO:   %d\n", tx)
	return nil
}

func cmdStrobe(ctx context.Context, e *env, s *session, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	cmd, ok := cc1120.StrobeByName(strings.ToUpper(args[0]))
	if !ok {
		b, err := parseByte(args[0])
		if err != nil {
			return err
		}
		cmd = b
	}
	if err := s.dev.Strobe(ctx, cmd); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "%s OK\n", cc1120.StrobeName(cmd))
	return nil
}

func cmdReset(ctx context.Context, e *env, s *session, args []string) error {
	fs := pflag.NewFlagSet("reset", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	hard := fs.Bool("hard", false, "pulse the reset line instead of strobing SRES")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *hard {
		if err := s.dev.HardReset(ctx); err != nil {
			return err
		}
	} else if err := s.dev.Reset(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(e.stdout, "Reset OK")
	return nil
}

func cmdRead(extended bool) func(context.Context, *env, *session, []string) error {
	return func(ctx context.Context, e *env, s *session, args []string) error {
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		addr, err := parseByte(args[0])
		if err != nil {
			return err
		}
		n, err := parseCount(args, 1, 1)
		if err != nil {
			return err
		}

		var data []byte
		if extended {
			data, err = s.dev.ReadExtendedRegisters(ctx, addr, n)
		} else {
			data, err = s.dev.ReadRegisters(ctx, addr, n)
		}
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(e.stdout, "0x%02X: %s\n", addr, formatBytes(data))
		return nil
	}
}

func cmdWrite(extended bool) func(context.Context, *env, *session, []string) error {
	return func(ctx context.Context, e *env, s *session, args []string) error {
		if len(args) < 2 {
			return errUsage
		}
		addr, err := parseByte(args[0])
		if err != nil {
			return err
		}
		data := make([]byte, 0, len(args)-1)
		for _, a := range args[1:] {
			b, err := parseByte(a)
			if err != nil {
				return err
			}
			data = append(data, b)
		}

		if extended {
			err = s.dev.WriteExtendedRegisters(ctx, addr, data)
		} else {
			err = s.dev.WriteRegisters(ctx, addr, data)
		}
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(e.stdout, "Wrote %d byte(s) at 0x%02X\n", len(data), addr)
		return nil
	}
}

func cmdFIFO(ctx context.Context, e *env, s *session, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	offset, err := parseByte(args[0])
	if err != nil {
		return err
	}
	n, err := parseCount(args, 1, 1)
	if err != nil {
		return err
	}
	data, err := s.dev.ReadFIFODirect(ctx, offset, n)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "0x%02X: %s\n", offset, formatBytes(data))
	return nil
}

func cmdRandom(ctx context.Context, e *env, s *session, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	n, err := parseCount(args, 0, 1)
	if err != nil {
		return err
	}
	out := make([]byte, n)
	for i := range out {
		if out[i], err = s.dev.Random(ctx); err != nil {
			return err
		}
	}
	_, _ = fmt.Fprintln(e.stdout, formatBytes(out))
	return nil
}

func cmdConfigure(ctx context.Context, e *env, s *session, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	settings, err := config.LoadRegisters(args[0])
	if err != nil {
		return err
	}
	if err := s.dev.Configure(ctx, settings); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Applied %d register(s)\n", len(settings))
	return nil
}

func cmdSend(ctx context.Context, e *env, s *session, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	payload, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if err := s.dev.Transmit(ctx, payload); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(e.stdout, "Sent %d byte(s)\n", len(payload))
	return nil
}

func cmdListen(ctx context.Context, e *env, s *session, args []string) error {
	fs := pflag.NewFlagSet("listen", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	duration := fs.Duration("for", 0, "stop after this long (0 waits for a signal)")
	count := fs.Int("count", 0, "stop after this many packets (0 is unlimited)")
	interval := fs.Duration("interval", polling.DefaultConfig().PollInterval, "FIFO poll interval")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}

	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	received := 0
	cfg := polling.DefaultConfig()
	cfg.PollInterval = *interval
	rx, err := polling.NewReceiver(s.dev, cfg, polling.Callbacks{
		OnPacket: func(p *cc1120.Packet) error {
			_, _ = fmt.Fprintf(e.stdout, "RX %d byte(s) RSSI %d LQI %d CRC %t: %s\n",
				len(p.Data), p.RSSI, p.LQI, p.CRCOK, formatBytes(p.Data))
			received++
			if *count > 0 && received >= *count {
				cancel()
			}
			return nil
		},
		OnError: func(err error) {
			_, _ = fmt.Fprintf(e.stderr, "WARNING: %v\n", err)
		},
	})
	if err != nil {
		return err
	}
	if err := rx.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	rx.Stop()

	m := rx.GetMetrics()
	_, _ = fmt.Fprintf(e.stdout, "%d packet(s) in %d poll(s), %d error(s)\n",
		m.PacketsReceived, m.PollCycles, m.PollErrors)
	return s.dev.Idle(context.WithoutCancel(ctx))
}

func cmdDump(ctx context.Context, e *env, s *session, _ []string) error {
	std, err := s.dev.ReadRegisters(ctx, 0x00, int(cc1120.ExtAddr))
	if err != nil {
		return err
	}
	ext, err := s.dev.ReadExtendedRegisters(ctx, 0x00, int(cc1120.ExtPACFG3)+1)
	if err != nil {
		return err
	}

	settings := make([]cc1120.RegisterSetting, 0, len(std)+len(ext))
	for i, v := range std {
		settings = append(settings, cc1120.RegisterSetting{Addr: byte(i), Value: v})
	}
	for i, v := range ext {
		settings = append(settings, cc1120.RegisterSetting{Addr: byte(i), Value: v, Extended: true})
	}

	out, err := config.MarshalRegisters(settings)
	if err != nil {
		return err
	}
	_, err = e.stdout.Write(out)
	return err
}

func cmdDetect(ctx context.Context, e *env, args []string) error {
	fs := pflag.NewFlagSet("detect", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	mode := fs.String("mode", detection.Safe.String(), "probe mode: passive, safe or full")
	cs := fs.String("cs", "", "chip-select pin used to probe spidev nodes")
	timeout := fs.Duration("timeout", detection.DefaultOptions().Timeout, "overall detection timeout")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return errUsage
	}

	opts := detection.DefaultOptions()
	opts.CSPin = *cs
	opts.Timeout = *timeout
	switch strings.ToLower(*mode) {
	case "passive":
		opts.Mode = detection.Passive
	case "safe":
		opts.Mode = detection.Safe
	case "full":
		opts.Mode = detection.Full
	default:
		return errUsage
	}

	devices, err := detection.DetectAll(ctx, opts)
	if errors.Is(err, detection.ErrNoDevicesFound) {
		_, _ = fmt.Fprintln(e.stdout, "No devices found")
		return nil
	}
	for _, d := range devices {
		_, _ = fmt.Fprintf(e.stdout, "%-10s %-16s %-6s %s\n", d.Transport, d.Path, d.Confidence, d.Name)
	}
	return err
}
