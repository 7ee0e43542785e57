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

// Package uart provides a serial bridge transport for Wiegand readers.
//
// A microcontroller watches the D0 and D1 lines and writes one ASCII byte
// per bit event: '0' for a D0 pulse, '1' for a D1 pulse, and '?' when it
// saw both or neither line asserted. Carriage returns and newlines are
// ignored so the bridge may frame its output in lines.
package uart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-wiegand"
	"github.com/ZaparooProject/go-wiegand/internal/transport"
	"github.com/rs/zerolog"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the bridge's default line speed
	DefaultBaudRate = 115200

	readTimeout    = 50 * time.Millisecond
	edgeBuffer     = 64
	openRetries    = 3
	openRetryDelay = 250 * time.Millisecond
)

// Bridge protocol bytes
const (
	ByteZero  = '0'
	ByteOne   = '1'
	ByteFault = '?'
)

// DecodeByte maps one bridge byte to an edge. ok is false for bytes that
// carry no bit event.
func DecodeByte(b byte) (edge wiegand.Edge, ok bool) {
	switch b {
	case ByteZero:
		return wiegand.EdgeZero, true
	case ByteOne:
		return wiegand.EdgeOne, true
	case ByteFault:
		return wiegand.Edge{}, true
	default:
		return wiegand.Edge{}, false
	}
}

// Transport reads bit events from a serial bridge
type Transport struct {
	port      io.ReadCloser
	logger    zerolog.Logger
	err       error
	edges     chan wiegand.Edge
	done      chan struct{}
	failed    chan struct{}
	portName  string
	wg        sync.WaitGroup
	errMu     sync.Mutex
	closeOnce sync.Once
	connected atomic.Bool
}

// New opens portName at DefaultBaudRate
func New(portName string) (*Transport, error) {
	return NewWithBaudRate(portName, DefaultBaudRate)
}

// NewWithBaudRate opens portName at the given speed, 8N1
func NewWithBaudRate(portName string, baudRate int) (*Transport, error) {
	port, err := openPort(portName, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, wiegand.NewTransportError("open", portName, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, wiegand.NewTransportError("set read timeout", portName, err)
	}
	return newTransport(port, portName), nil
}

// openPort opens the port, retrying while another process holds it. USB
// bridges are often probed by modem managers right after they enumerate.
func openPort(portName string, mode *serial.Mode) (serial.Port, error) {
	var lastErr error
	return transport.WithRetry(transport.RetryConfig{
		Description: "open " + portName,
		MaxRetries:  openRetries,
		RetryDelay:  openRetryDelay,
		OnRetry: func(attempt int) {
			log := wiegand.Logger()
			log.Debug().Str("port", portName).Int("attempt", attempt).Msg("serial port busy, retrying")
		},
		OnRetryFailed: func() error { return lastErr },
	}, func() (serial.Port, bool, error) {
		port, err := serial.Open(portName, mode)
		if err == nil {
			return port, false, nil
		}
		if isBusy(err) {
			lastErr = err
			return nil, true, nil
		}
		return nil, false, err
	})
}

func isBusy(err error) bool {
	var portErr *serial.PortError
	return errors.As(err, &portErr) && portErr.Code() == serial.PortBusy
}

func newTransport(port io.ReadCloser, portName string) *Transport {
	t := &Transport{
		port:     port,
		portName: portName,
		logger:   wiegand.Logger().With().Str("port", portName).Logger(),
		edges:    make(chan wiegand.Edge, edgeBuffer),
		done:     make(chan struct{}),
		failed:   make(chan struct{}),
	}
	t.connected.Store(true)
	t.wg.Add(1)
	go t.readLoop()
	return t
}

// readLoop decodes bridge bytes until the port fails or is closed
func (t *Transport) readLoop() {
	defer t.wg.Done()
	buf := make([]byte, 64)
	for {
		n, err := t.port.Read(buf)
		for _, b := range buf[:n] {
			edge, ok := DecodeByte(b)
			if !ok {
				if b != '\r' && b != '\n' {
					t.logger.Debug().Hex("byte", []byte{b}).Msg("ignoring unknown bridge byte")
				}
				continue
			}
			select {
			case t.edges <- edge:
			case <-t.done:
				return
			}
		}

		if err != nil {
			t.connected.Store(false)
			select {
			case <-t.done:
				return
			default:
			}
			t.fail(wiegand.NewTransportError("read", t.portName, err))
			return
		}

		select {
		case <-t.done:
			return
		default:
		}
	}
}

func (t *Transport) fail(err error) {
	t.errMu.Lock()
	t.err = err
	t.errMu.Unlock()
	t.logger.Warn().Err(err).Msg("serial bridge failed")
	close(t.failed)
}

// Err returns the error that stopped the read loop, if any
func (t *Transport) Err() error {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	return t.err
}

// WaitForEdge returns the next bit event from the bridge
func (t *Transport) WaitForEdge(ctx context.Context) (wiegand.Edge, error) {
	select {
	case <-ctx.Done():
		return wiegand.Edge{}, ctx.Err()
	case e := <-t.edges:
		return e, nil
	case <-t.failed:
		return wiegand.Edge{}, t.Err()
	case <-t.done:
		return wiegand.Edge{}, wiegand.ErrTransportClosed
	}
}

// Levels reports both lines idle while the bridge is readable and both
// low once it has failed or been closed.
func (t *Transport) Levels() (d0High, d1High bool) {
	connected := t.connected.Load()
	return connected, connected
}

// PortName returns the serial port path
func (t *Transport) PortName() string {
	return t.portName
}

// Close stops the read loop and closes the port
func (t *Transport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		t.connected.Store(false)
		if closeErr := t.port.Close(); closeErr != nil {
			err = fmt.Errorf("failed to close serial port: %w", closeErr)
		}
		t.wg.Wait()
	})
	return err
}
