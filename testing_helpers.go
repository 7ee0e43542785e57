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

package wiegand

import (
	"context"
	"sync"
	"sync/atomic"
)

// MockLines is a Lines implementation for testing. Both lines start idle
// (high). It also serves edges pushed with Push to WaitForEdge, so it can
// stand in for a transport.
type MockLines struct {
	edges  chan Edge
	done   chan struct{}
	mu     sync.Mutex
	d0High bool
	d1High bool
	closed bool
}

// NewMockLines creates mock lines with both lines idle
func NewMockLines() *MockLines {
	return &MockLines{
		edges:  make(chan Edge, 64),
		done:   make(chan struct{}),
		d0High: true,
		d1High: true,
	}
}

// Levels returns the configured line levels
func (m *MockLines) Levels() (d0High, d1High bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d0High, m.d1High
}

// SetLevels sets the levels returned by Levels
func (m *MockLines) SetLevels(d0High, d1High bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d0High = d0High
	m.d1High = d1High
}

// Push queues an edge for WaitForEdge
func (m *MockLines) Push(edges ...Edge) {
	for _, e := range edges {
		m.edges <- e
	}
}

// PushBits queues the edges for bits
func (m *MockLines) PushBits(bits []bool) {
	for _, bit := range bits {
		m.edges <- EdgeFor(bit)
	}
}

// WaitForEdge returns the next pushed edge
func (m *MockLines) WaitForEdge(ctx context.Context) (Edge, error) {
	select {
	case <-ctx.Done():
		return Edge{}, ctx.Err()
	case <-m.done:
		return Edge{}, ErrTransportClosed
	case e := <-m.edges:
		return e, nil
	}
}

// Close unblocks WaitForEdge
func (m *MockLines) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

// MockClock is a manually advanced Clock for testing. It is safe for
// concurrent use.
type MockClock struct {
	now atomic.Uint32
}

// NewMockClock creates a clock reading start
func NewMockClock(start uint32) *MockClock {
	c := &MockClock{}
	c.now.Store(start)
	return c
}

// Millis returns the current value
func (c *MockClock) Millis() uint32 {
	return c.now.Load()
}

// Advance moves the clock forward by ms
func (c *MockClock) Advance(ms uint32) {
	c.now.Add(ms)
}

// Set moves the clock to ms
func (c *MockClock) Set(ms uint32) {
	c.now.Store(ms)
}

// Recorder implements every sink interface and records what it receives.
type Recorder struct {
	Digits   []uint8
	Codes    []uint32
	Payloads []uint32
	States   []State
	mu       sync.Mutex
}

// OnDigit records a digit
func (r *Recorder) OnDigit(digit uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Digits = append(r.Digits, digit)
}

// OnCode records a code
func (r *Recorder) OnCode(code uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Codes = append(r.Codes, code)
}

// OnData records a payload
func (r *Recorder) OnData(payload uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Payloads = append(r.Payloads, payload)
}

// OnState records a state
func (r *Recorder) OnState(state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.States = append(r.States, state)
}

// LastState returns the most recent state, or 0 if none was recorded
func (r *Recorder) LastState() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.States) == 0 {
		return 0
	}
	return r.States[len(r.States)-1]
}

// Reset discards everything recorded so far
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Digits = nil
	r.Codes = nil
	r.Payloads = nil
	r.States = nil
}
