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
	"fmt"
	"strings"

	"github.com/ZaparooProject/go-wiegand/internal/frame"
)

// BitOrder selects how payload bits map onto the 24-bit value.
type BitOrder int

const (
	// MSBFirst places the first received payload bit in bit 23. This is the
	// order every common reader uses.
	MSBFirst BitOrder = iota
	// LSBFirst places the first received payload bit in bit 0.
	LSBFirst
)

// String returns "msb" or "lsb"
func (o BitOrder) String() string {
	switch o {
	case MSBFirst:
		return "msb"
	case LSBFirst:
		return "lsb"
	default:
		return fmt.Sprintf("BitOrder(%d)", int(o))
	}
}

// ParseBitOrder parses "msb" or "lsb" (case-insensitive).
func ParseBitOrder(s string) (BitOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "msb":
		return MSBFirst, nil
	case "lsb":
		return LSBFirst, nil
	default:
		return MSBFirst, fmt.Errorf("%w: unknown bit order %q", ErrInvalidConfig, s)
	}
}

// Frame holds the bits of one Wiegand frame in the order they were received.
// Bit(0) is always the first bit on the wire.
type Frame struct {
	bits [frame.Bits]bool
	n    int
}

// Len returns the number of bit positions consumed since the last reset,
// including positions skipped by a logic fault.
func (f *Frame) Len() int {
	return f.n
}

// Full reports whether all 26 positions have been consumed.
func (f *Frame) Full() bool {
	return f.n >= frame.Bits
}

// Bit returns the i-th received bit. Positions not yet received, skipped,
// or out of range read as false.
func (f *Frame) Bit(i int) bool {
	if i < 0 || i >= frame.Bits {
		return false
	}
	return f.bits[i]
}

// Bits returns a copy of the received positions.
func (f *Frame) Bits() []bool {
	out := make([]bool, f.n)
	copy(out, f.bits[:f.n])
	return out
}

// String renders the received positions as 0/1 characters.
func (f *Frame) String() string {
	var sb strings.Builder
	for i := 0; i < f.n; i++ {
		if f.bits[i] {
			_ = sb.WriteByte('1')
		} else {
			_ = sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (f *Frame) push(bit bool) {
	if f.n < frame.Bits {
		f.bits[f.n] = bit
		f.n++
	}
}

// skip advances past a position without writing it
func (f *Frame) skip() {
	if f.n < frame.Bits {
		f.n++
	}
}

// window returns the stored bits in [start, start+length), regardless of
// how many have been received.
func (f *Frame) window(start, length int) []bool {
	if start < 0 || length <= 0 || start+length > frame.Bits {
		return nil
	}
	return f.bits[start : start+length]
}

func (f *Frame) reset() {
	f.bits = [frame.Bits]bool{}
	f.n = 0
}
