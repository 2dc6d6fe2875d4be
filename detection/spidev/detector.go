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

// Package spidev detects CC1120 radios behind Linux spidev nodes
package spidev

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/orbital-obc/go-cc1120/detection"
	"github.com/orbital-obc/go-cc1120/transport/spi"
)

const transportName = "spi"

// Prober verifies a chip on a spidev node
type Prober func(ctx context.Context, path, csPin string) (map[string]string, error)

type detector struct {
	glob         func(pattern string) ([]string, error)
	isCharDevice func(path string) bool
	probe        Prober
}

// New creates a spidev detector
func New() detection.Detector {
	return &detector{
		glob:         filepath.Glob,
		isCharDevice: isCharDevice,
		probe:        probeSPI,
	}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return transportName
}

// Detect lists spidev nodes. Outside Passive mode each node is probed when
// a chip-select pin is configured, because the CC1120 cannot be reached
// through the kernel-driven chip select.
func (d *detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	if err := platformSupported(); err != nil {
		return nil, err
	}

	paths, err := d.glob("/dev/spidev*")
	if err != nil {
		return nil, fmt.Errorf("failed to scan for spidev nodes: %w", err)
	}

	devices := make([]detection.DeviceInfo, 0, len(paths))
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return devices, detection.ErrDetectionTimeout
		default:
		}

		if detection.IsPathIgnored(path, opts.IgnorePaths) || !d.isCharDevice(path) {
			continue
		}

		var bus, cs int
		if _, err := fmt.Sscanf(filepath.Base(path), "spidev%d.%d", &bus, &cs); err != nil {
			continue
		}

		info := detection.DeviceInfo{
			Transport:  transportName,
			Path:       path,
			Name:       fmt.Sprintf("SPI bus %d chip select %d", bus, cs),
			Confidence: detection.Low,
			Metadata: map[string]string{
				"bus": fmt.Sprint(bus),
				"cs":  fmt.Sprint(cs),
			},
		}

		if opts.Mode != detection.Passive && opts.CSPin != "" {
			meta, err := d.probe(ctx, path, opts.CSPin)
			if err != nil {
				continue
			}
			info.Confidence = detection.High
			info.Metadata["cs_pin"] = opts.CSPin
			for k, v := range meta {
				info.Metadata[k] = v
			}
		}

		devices = append(devices, info)
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

func probeSPI(ctx context.Context, path, csPin string) (map[string]string, error) {
	t, err := spi.New(spi.Config{Port: path, CSPin: csPin})
	if err != nil {
		return nil, err
	}
	return detection.VerifyChip(ctx, t)
}
