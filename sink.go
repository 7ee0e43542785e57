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

// DigitSink receives single keypad digits (0-9).
type DigitSink interface {
	OnDigit(digit uint8)
}

// CodeSink receives submitted keypad codes (1..0xFFFFFF).
type CodeSink interface {
	OnCode(code uint32)
}

// DataSink receives 24-bit card payloads.
type DataSink interface {
	OnData(payload uint32)
}

// StateSink receives the diagnostic flag byte.
type StateSink interface {
	OnState(state State)
}

// DigitFunc adapts a function to DigitSink
type DigitFunc func(digit uint8)

// OnDigit calls f(digit)
func (f DigitFunc) OnDigit(digit uint8) { f(digit) }

// CodeFunc adapts a function to CodeSink
type CodeFunc func(code uint32)

// OnCode calls f(code)
func (f CodeFunc) OnCode(code uint32) { f(code) }

// DataFunc adapts a function to DataSink
type DataFunc func(payload uint32)

// OnData calls f(payload)
func (f DataFunc) OnData(payload uint32) { f(payload) }

// StateFunc adapts a function to StateSink
type StateFunc func(state State)

// OnState calls f(state)
func (f StateFunc) OnState(state State) { f(state) }

// sinks is the set of configured result consumers. A nil entry means the
// corresponding result is not delivered.
type sinks struct {
	digit DigitSink
	code  CodeSink
	data  DataSink
	state StateSink
}
