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

// Package serial detects CC1120 radios reached through a USB Bus Pirate
package serial

import (
	"context"
	"fmt"

	"github.com/orbital-obc/go-cc1120/detection"
	"github.com/orbital-obc/go-cc1120/transport/buspirate"
	"go.bug.st/serial/enumerator"
)

const transportName = "buspirate"

// knownBridges are the USB IDs Bus Pirate firmware enumerates as
var knownBridges = map[string]string{
	"0403:6001": "Bus Pirate v3 (FTDI)",
	"04D8:FB00": "Bus Pirate v4",
}

// Port is the subset of enumerator.PortDetails the detector needs
type Port struct {
	Path         string
	VIDPID       string
	Product      string
	SerialNumber string
}

type detector struct {
	list  func() ([]Port, error)
	probe func(ctx context.Context, path string) (map[string]string, error)
}

// New creates a Bus Pirate detector
func New() detection.Detector {
	return &detector{
		list:  listUSBPorts,
		probe: probeBusPirate,
	}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return transportName
}

// Detect lists USB serial ports. Known Bus Pirate IDs are reported with
// medium confidence; a port whose probe reads back the CC1120 part number
// is reported with high confidence. Safe mode probes known IDs only, Full
// mode probes every USB serial port.
func (d *detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	ports, err := d.list()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	var devices []detection.DeviceInfo
	for _, port := range ports {
		select {
		case <-ctx.Done():
			return devices, detection.ErrDetectionTimeout
		default:
		}

		if detection.IsPathIgnored(port.Path, opts.IgnorePaths) {
			continue
		}
		if detection.IsBlocked(port.VIDPID, opts.Blocklist) {
			continue
		}

		name, known := knownBridges[port.VIDPID]
		if name == "" {
			name = port.Product
		}

		info := detection.DeviceInfo{
			Transport:  transportName,
			Path:       port.Path,
			Name:       name,
			Confidence: detection.Low,
			Metadata: map[string]string{
				"vidpid": port.VIDPID,
			},
		}
		if port.SerialNumber != "" {
			info.Metadata["serial"] = port.SerialNumber
		}
		if known {
			info.Confidence = detection.Medium
		}

		if shouldProbe(opts.Mode, known) {
			meta, err := d.probe(ctx, port.Path)
			if err == nil {
				info.Confidence = detection.High
				for k, v := range meta {
					info.Metadata[k] = v
				}
			} else if !known {
				continue
			}
		} else if !known {
			continue
		}

		devices = append(devices, info)
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

func shouldProbe(mode detection.Mode, known bool) bool {
	switch mode {
	case detection.Full:
		return true
	case detection.Safe:
		return known
	default:
		return false
	}
}

func listUSBPorts() ([]Port, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	ports := make([]Port, 0, len(details))
	for _, p := range details {
		if !p.IsUSB {
			continue
		}
		ports = append(ports, Port{
			Path:         p.Name,
			VIDPID:       detection.FormatVIDPID(p.VID, p.PID),
			Product:      p.Product,
			SerialNumber: p.SerialNumber,
		})
	}
	return ports, nil
}

func probeBusPirate(ctx context.Context, path string) (map[string]string, error) {
	t, err := buspirate.New(path, buspirate.Speed1MHz)
	if err != nil {
		return nil, err
	}
	return detection.VerifyChip(ctx, t)
}
