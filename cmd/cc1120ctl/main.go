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

// Command cc1120ctl inspects and drives a CC1120 radio from a Linux host
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	cc1120 "github.com/orbital-obc/go-cc1120"
	"github.com/spf13/pflag"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

type globalFlags struct {
	transport string
	board     string
	device    string
	registers string
	debug     bool
	noConfig  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("cc1120ctl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)

	var g globalFlags
	fs.StringVarP(&g.transport, "transport", "t", "spi", "transport: spi, buspirate or sim")
	fs.StringVarP(&g.board, "board", "b", "", "board description file (defaults to the built-in board)")
	fs.StringVarP(&g.device, "device", "d", "", "override the SPI port or Bus Pirate serial device")
	fs.StringVarP(&g.registers, "registers", "r", "", "register settings applied after connecting")
	fs.BoolVar(&g.noConfig, "no-config", false, "do not apply the board register settings")
	fs.BoolVar(&g.debug, "debug", false, "enable debug logging")
	fs.Usage = func() { usage(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		_, _ = fmt.Fprintln(stderr, err)
		usage(fs, stderr)
		return exitUsage
	}
	if fs.NArg() == 0 {
		usage(fs, stderr)
		return exitUsage
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", fs.Arg(0))
		usage(fs, stderr)
		return exitUsage
	}

	if g.debug {
		cc1120.SetDebugEnabled(true)
		defer cc1120.SetDebugEnabled(false)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := &env{flags: g, stdout: stdout, stderr: stderr}
	err := cmd.run(ctx, env, fs.Args()[1:])
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintf(stderr, "usage: cc1120ctl %s %s\n", fs.Arg(0), cmd.args)
		return exitUsage
	default:
		_, _ = fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitError
	}
}

func usage(fs *pflag.FlagSet, w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: cc1120ctl [flags] <command> [args]")
	_, _ = fmt.Fprintln(w, "\ncommands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %-9s %-22s %s\n", name, commands[name].args, commands[name].help)
	}

	_, _ = fmt.Fprintln(w, "\nflags:")
	_, _ = fmt.Fprint(w, fs.FlagUsages())
}
