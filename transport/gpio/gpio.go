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

// Package gpio provides a GPIO line provider for Wiegand readers
package gpio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ZaparooProject/go-wiegand"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const (
	// edgePoll bounds how long a watcher blocks before checking for shutdown.
	edgePoll   = 100 * time.Millisecond
	edgeBuffer = 64
)

// Lines watches two GPIO pins for falling edges
type Lines struct {
	d0     gpio.PinIO
	d1     gpio.PinIO
	edges  chan wiegand.Edge
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// New opens the named pins with pull-ups and falling edge detection
func New(d0Name, d1Name string) (*Lines, error) {
	// Initialize host
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	d0 := gpioreg.ByName(d0Name)
	if d0 == nil {
		return nil, wiegand.NewTransportError("open", d0Name, wiegand.ErrPinNotFound)
	}
	d1 := gpioreg.ByName(d1Name)
	if d1 == nil {
		return nil, wiegand.NewTransportError("open", d1Name, wiegand.ErrPinNotFound)
	}

	return newLines(d0, d1)
}

func newLines(d0, d1 gpio.PinIO) (*Lines, error) {
	for _, pin := range []gpio.PinIO{d0, d1} {
		if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return nil, wiegand.NewTransportError("configure", pin.Name(), err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &Lines{
		d0:     d0,
		d1:     d1,
		edges:  make(chan wiegand.Edge, edgeBuffer),
		ctx:    ctx,
		cancel: cancel,
	}

	l.wg.Add(2)
	go l.watch(d0, wiegand.EdgeZero)
	go l.watch(d1, wiegand.EdgeOne)

	return l, nil
}

// watch forwards each falling edge on pin as edge
func (l *Lines) watch(pin gpio.PinIO, edge wiegand.Edge) {
	defer l.wg.Done()
	for {
		select {
		case <-l.ctx.Done():
			return
		default:
		}

		if !pin.WaitForEdge(edgePoll) || pin.Read() != gpio.Low {
			continue
		}

		select {
		case l.edges <- edge:
		case <-l.ctx.Done():
			return
		default:
			log := wiegand.Logger()
			log.Warn().Str("pin", pin.Name()).Msg("edge buffer full, dropping pulse")
		}
	}
}

// Levels reports the current pin levels
func (l *Lines) Levels() (d0High, d1High bool) {
	return l.d0.Read() == gpio.High, l.d1.Read() == gpio.High
}

// WaitForEdge returns the next pulse seen on either pin
func (l *Lines) WaitForEdge(ctx context.Context) (wiegand.Edge, error) {
	select {
	case <-ctx.Done():
		return wiegand.Edge{}, ctx.Err()
	case <-l.ctx.Done():
		return wiegand.Edge{}, wiegand.ErrTransportClosed
	case e := <-l.edges:
		return e, nil
	}
}

// Close stops the watchers and halts both pins
func (l *Lines) Close() error {
	var err error
	l.once.Do(func() {
		l.cancel()
		l.wg.Wait()
		for _, pin := range []gpio.PinIO{l.d0, l.d1} {
			if haltErr := pin.Halt(); haltErr != nil && err == nil {
				err = wiegand.NewTransportError("halt", pin.Name(), haltErr)
			}
		}
	})
	return err
}
