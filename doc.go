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

/*
Package wiegand provides a pure Go decoder for the Wiegand reader protocol.

Wiegand readers signal on two open-collector lines, D0 and D1, that idle
high. Each bit is a short low pulse on D0 (a zero) or D1 (a one). A card
read is a 26-bit frame: a leading even parity bit, a 24-bit payload, and a
trailing odd parity bit. There is no end-of-frame marker; a frame ends when
the lines go quiet. Keypads that speak the 8-bit burst format send each key
as a nibble preceded by its one's complement.

Features:
  - 26-bit frame assembly with silence-based frame boundaries
  - Half-frame parity validation
  - MSB or LSB first payload extraction with optional byte swapping
  - Keypad digits and '#'-terminated codes sharing the same bit stream
  - Edge-triggered diagnostic flags for wiring, timing, and parity faults
  - GPIO (periph.io) and serial bridge transports

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-wiegand"
	    "github.com/ZaparooProject/go-wiegand/polling"
	    "github.com/ZaparooProject/go-wiegand/transport/gpio"
	)

	lines, err := gpio.New("GPIO14", "GPIO15")
	if err != nil {
	    log.Fatal(err)
	}

	monitor, err := polling.NewMonitor(lines, nil, wiegand.WithKeypad(true))
	if err != nil {
	    log.Fatal(err)
	}
	defer monitor.Close()

	monitor.OnCard = func(payload uint32) {
	    fmt.Printf("facility %d card %d\n", wiegand.Facility(payload), wiegand.CardNumber(payload))
	}
	monitor.OnCode = func(code uint32) {
	    fmt.Printf("PIN %d\n", code)
	}

	_ = monitor.Start(ctx)

Driving the decoder directly:

The Decoder itself never blocks. Feed it one call per bit event and call
CheckTimeout periodically while the lines are quiet:

	dec, err := wiegand.New(lines,
	    wiegand.WithDataSink(wiegand.DataFunc(func(p uint32) { ... })),
	    wiegand.WithStateSink(wiegand.StateFunc(func(s wiegand.State) { ... })),
	)

	dec.Consume(d0Asserted, d1Asserted) // on each falling edge
	dec.CheckTimeout()                  // from a ticker

Error Handling:

Decoding never returns errors. Malformed frames are reported through State
flags and the decoder is immediately ready for the next frame:

	if state.Has(wiegand.StateParityFirstFault) {
	    // leading half parity mismatch
	}

Construction and transport errors can be inspected with errors.Is:

	if errors.Is(err, wiegand.ErrInvalidConfig) {
	    // bad option
	}

Thread Safety:

Decoder operations are not thread-safe. polling.Monitor serializes all
calls on one goroutine; if you drive a Decoder yourself, do the same.
*/
package wiegand
