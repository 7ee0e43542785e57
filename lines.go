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
	"time"
)

// Lines reports the instantaneous electrical level of the D0 and D1 lines.
// This can be implemented by GPIO pins, a serial bridge, or a test double.
type Lines interface {
	// Levels returns true for a line that currently reads high (idle).
	Levels() (d0High, d1High bool)
}

// Clock is a monotonic millisecond counter. It may wrap; elapsed time is
// always computed with unsigned subtraction.
type Clock interface {
	Millis() uint32
}

// ClockFunc adapts a function to the Clock interface
type ClockFunc func() uint32

// Millis returns f()
func (f ClockFunc) Millis() uint32 {
	return f()
}

// Edge is one bit event: the lines that were asserted (pulled low) when it was sampled.
type Edge struct {
	D0 bool
	D1 bool
}

// Edge values for the two well-formed bit events
var (
	EdgeZero = Edge{D0: true}
	EdgeOne  = Edge{D1: true}
)

// EdgeFor returns the edge a reader produces when sending bit.
func EdgeFor(bit bool) Edge {
	if bit {
		return EdgeOne
	}
	return EdgeZero
}

type systemClock struct {
	start time.Time
}

// NewSystemClock returns a Clock counting milliseconds since its creation.
func NewSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
