// go-wiegand
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-wiegand.
//
// go-wiegand is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-wiegand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-wiegand; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package polling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-wiegand"
)

// EdgeSource is a line provider that can wait for bit events.
// transport/gpio and transport/uart implement it.
type EdgeSource interface {
	wiegand.Lines
	// WaitForEdge blocks until the next bit event or until ctx is done
	WaitForEdge(ctx context.Context) (wiegand.Edge, error)
	// Close releases the source and unblocks WaitForEdge
	Close() error
}

// Monitor errors
var (
	ErrMonitorRunning = errors.New("monitor is already running")
	ErrNoSource       = errors.New("edge source cannot be nil")
)

// Stats counts what the monitor has seen since it was created
type Stats struct {
	Edges    int64
	Payloads int64
	Digits   int64
	Codes    int64
	Faults   int64
}

// Monitor drives a Decoder from an EdgeSource. All decoder calls and all
// callbacks run on the goroutine that called Start.
type Monitor struct {
	source  EdgeSource
	decoder *wiegand.Decoder
	config  *Config
	OnCard  func(payload uint32)
	OnDigit func(digit uint8)
	OnCode  func(code uint32)
	OnState func(state wiegand.State)

	edges    atomic.Int64
	payloads atomic.Int64
	digits   atomic.Int64
	codes    atomic.Int64
	faults   atomic.Int64
	running  atomic.Bool
}

// NewMonitor creates a monitor for source. opts configure the underlying
// decoder; sink options are overridden by the monitor's callbacks.
func NewMonitor(source EdgeSource, config *Config, opts ...wiegand.Option) (*Monitor, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	m := &Monitor{
		source: source,
		config: config,
	}
	opts = append(opts, wiegand.WithSinks(monitorSink{m}))
	decoder, err := wiegand.New(source, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	m.decoder = decoder
	return m, nil
}

// Start runs the decoding loop until ctx is done or the edge source fails.
// The current state is reported through OnState once the loop is running.
func (m *Monitor) Start(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return ErrMonitorRunning
	}
	defer m.running.Store(false)

	loopCtx, cancel := context.WithCancel(ctx)
	edges := make(chan wiegand.Edge, m.config.EdgeBuffer)
	errCh := make(chan error, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.forwardEdges(loopCtx, edges, errCh)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	ticker := time.NewTicker(m.config.TimeoutInterval)
	defer ticker.Stop()

	m.decoder.ReadState()

	for {
		select {
		case <-loopCtx.Done():
			return ctx.Err()
		case err := <-errCh:
			return fmt.Errorf("edge source failed: %w", err)
		case e := <-edges:
			m.decoder.ConsumeEdge(e)
			m.edges.Add(1)
		case <-ticker.C:
			m.decoder.CheckTimeout()
		}
	}
}

// forwardEdges moves edges from the source into the loop's channel
func (m *Monitor) forwardEdges(ctx context.Context, edges chan<- wiegand.Edge, errCh chan<- error) {
	for {
		e, err := m.source.WaitForEdge(ctx)
		if err != nil {
			if ctx.Err() == nil {
				errCh <- err
			}
			return
		}
		select {
		case edges <- e:
		case <-ctx.Done():
			return
		}
	}
}

// Running reports whether Start is executing
func (m *Monitor) Running() bool {
	return m.running.Load()
}

// Decoder returns the underlying decoder. Do not call it while the monitor
// is running.
func (m *Monitor) Decoder() *wiegand.Decoder {
	return m.decoder
}

// Stats returns a snapshot of the monitor counters
func (m *Monitor) Stats() Stats {
	return Stats{
		Edges:    m.edges.Load(),
		Payloads: m.payloads.Load(),
		Digits:   m.digits.Load(),
		Codes:    m.codes.Load(),
		Faults:   m.faults.Load(),
	}
}

// Close closes the edge source
func (m *Monitor) Close() error {
	if err := m.source.Close(); err != nil {
		return fmt.Errorf("failed to close edge source: %w", err)
	}
	return nil
}

// monitorSink forwards decoder results to the monitor's callbacks
type monitorSink struct {
	m *Monitor
}

func (s monitorSink) OnData(payload uint32) {
	s.m.payloads.Add(1)
	if s.m.OnCard != nil {
		s.m.OnCard(payload)
	}
}

func (s monitorSink) OnDigit(digit uint8) {
	s.m.digits.Add(1)
	if s.m.OnDigit != nil {
		s.m.OnDigit(digit)
	}
}

func (s monitorSink) OnCode(code uint32) {
	s.m.codes.Add(1)
	if s.m.OnCode != nil {
		s.m.OnCode(code)
	}
}

func (s monitorSink) OnState(state wiegand.State) {
	if state.Faulted() {
		s.m.faults.Add(1)
	}
	if s.m.OnState != nil {
		s.m.OnState(state)
	}
}
