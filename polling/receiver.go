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

// Package polling runs a background receive loop on a CC1120
package polling

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	cc1120 "github.com/orbital-obc/go-cc1120"
)

// maxPacketsPerCycle bounds how many packets one poll drains from the FIFO
const maxPacketsPerCycle = 8

// Receiver errors
var (
	ErrAlreadyRunning = errors.New("receiver is already running")
	ErrNilRadio       = errors.New("radio cannot be nil")
)

// Radio is the part of cc1120.Device the receiver drives
type Radio interface {
	StartRX(ctx context.Context) error
	Receive(ctx context.Context) (*cc1120.Packet, error)
}

// Config holds receiver configuration
type Config struct {
	// PollInterval is the interval while traffic is flowing
	PollInterval time.Duration
	// IdleInterval is the interval after IdleAfter without packets
	IdleInterval time.Duration
	IdleAfter    time.Duration
	// StartRX issues SRX on start and after an RX FIFO overflow
	StartRX bool
}

// DefaultConfig returns default receiver configuration
func DefaultConfig() *Config {
	return &Config{
		PollInterval: 10 * time.Millisecond,
		IdleInterval: 100 * time.Millisecond,
		IdleAfter:    5 * time.Second,
		StartRX:      true,
	}
}

// Callbacks receive events from the poll loop. They run on the loop
// goroutine and must not block for long.
type Callbacks struct {
	OnPacket func(pkt *cc1120.Packet) error
	OnError  func(err error)
}

// Metrics tracks operational metrics for a Receiver
type Metrics struct {
	PollCycles      int64         // Total number of polling cycles
	PollErrors      int64         // Number of failed Receive calls
	PacketsReceived int64         // Number of packets delivered
	CallbackErrors  int64         // Number of OnPacket errors
	LastPollLatency time.Duration // Duration of last polling operation
}

// Receiver polls a radio for packets on its own goroutine
type Receiver struct {
	radio     Radio
	config    *Config
	callbacks Callbacks
	cancel    context.CancelFunc
	done      chan struct{}
	mu        sync.Mutex
	running   atomic.Bool
	// Atomic counters for metrics
	pollCycles      atomic.Int64
	pollErrors      atomic.Int64
	packets         atomic.Int64
	callbackErrors  atomic.Int64
	lastPollLatency atomic.Int64 // in nanoseconds
	// Adaptive polling state
	currentInterval atomic.Int64 // in nanoseconds
	lastPacket      atomic.Int64 // UnixNano of the last packet
}

// NewReceiver creates a receiver. A nil config uses DefaultConfig.
func NewReceiver(radio Radio, config *Config, callbacks Callbacks) (*Receiver, error) {
	if radio == nil {
		return nil, ErrNilRadio
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.PollInterval <= 0 {
		return nil, errors.New("poll interval must be positive")
	}
	if config.IdleInterval < config.PollInterval {
		config.IdleInterval = config.PollInterval
	}

	r := &Receiver{
		radio:     radio,
		config:    config,
		callbacks: callbacks,
	}
	r.currentInterval.Store(config.PollInterval.Nanoseconds())
	return r, nil
}

// Start puts the radio in RX (when configured) and starts the poll loop.
// The loop runs until Stop is called or ctx is done.
func (r *Receiver) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running.Load() {
		return ErrAlreadyRunning
	}

	if r.config.StartRX {
		if err := r.radio.StartRX(ctx); err != nil {
			return err
		}
	}

	if r.cancel != nil {
		r.cancel()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.lastPacket.Store(time.Now().UnixNano())
	r.running.Store(true)

	go r.pollLoop(loopCtx, r.done)
	return nil
}

// Stop ends the poll loop and waits for it to exit. It is safe to call
// more than once.
func (r *Receiver) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
}

// IsRunning reports whether the poll loop is active
func (r *Receiver) IsRunning() bool {
	return r.running.Load()
}

func (r *Receiver) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer r.running.Store(false)

	timer := time.NewTimer(r.CurrentPollInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			r.poll(ctx)
			r.adjustPollInterval()
			timer.Reset(r.CurrentPollInterval())
		}
	}
}

// poll drains up to maxPacketsPerCycle packets
func (r *Receiver) poll(ctx context.Context) {
	start := time.Now()
	defer func() {
		r.pollCycles.Add(1)
		r.lastPollLatency.Store(time.Since(start).Nanoseconds())
	}()

	for range maxPacketsPerCycle {
		pkt, err := r.radio.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.handleError(ctx, err)
			return
		}
		if pkt == nil {
			return
		}

		r.packets.Add(1)
		r.lastPacket.Store(time.Now().UnixNano())
		if r.callbacks.OnPacket != nil {
			if err := r.callbacks.OnPacket(pkt); err != nil {
				r.callbackErrors.Add(1)
				cc1120.Logger().Warn("packet callback failed", "err", err)
			}
		}
	}
}

func (r *Receiver) handleError(ctx context.Context, err error) {
	r.pollErrors.Add(1)
	if r.callbacks.OnError != nil {
		r.callbacks.OnError(err)
	}

	// the FIFO was flushed; resume reception
	if errors.Is(err, cc1120.ErrRXOverflow) && r.config.StartRX {
		if rxErr := r.radio.StartRX(ctx); rxErr != nil {
			r.pollErrors.Add(1)
			if r.callbacks.OnError != nil {
				r.callbacks.OnError(rxErr)
			}
		}
	}
}

// adjustPollInterval slows polling down when the channel has been quiet
func (r *Receiver) adjustPollInterval() {
	quiet := time.Since(time.Unix(0, r.lastPacket.Load()))
	if quiet > r.config.IdleAfter {
		r.currentInterval.Store(r.config.IdleInterval.Nanoseconds())
	} else {
		r.currentInterval.Store(r.config.PollInterval.Nanoseconds())
	}
}

// GetMetrics returns current operational metrics
func (r *Receiver) GetMetrics() Metrics {
	return Metrics{
		PollCycles:      r.pollCycles.Load(),
		PollErrors:      r.pollErrors.Load(),
		PacketsReceived: r.packets.Load(),
		CallbackErrors:  r.callbackErrors.Load(),
		LastPollLatency: time.Duration(r.lastPollLatency.Load()),
	}
}

// CurrentPollInterval returns the current adaptive polling interval
func (r *Receiver) CurrentPollInterval() time.Duration {
	return time.Duration(r.currentInterval.Load())
}
