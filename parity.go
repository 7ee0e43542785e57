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
	"github.com/ZaparooProject/go-wiegand/internal/frame"
)

// ParityResult reports the outcome of the two half-frame parity checks.
type ParityResult struct {
	First  bool // XOR parity of bits 0..12
	Second bool // XOR parity of bits 13..25
}

// FirstOK reports whether the leading half is even.
func (p ParityResult) FirstOK() bool {
	return p.First == frame.Even
}

// SecondOK reports whether the trailing half is odd.
func (p ParityResult) SecondOK() bool {
	return p.Second == frame.Odd
}

// OK reports whether both halves carry the expected parity.
func (p ParityResult) OK() bool {
	return p.FirstOK() && p.SecondOK()
}

// CheckParity computes both half-frame parities over the full 26-bit
// storage of f. Positions never received count as zero, so a short frame
// is still evaluated.
func CheckParity(f *Frame) ParityResult {
	return ParityResult{
		First:  frame.Parity(f.window(0, frame.FirstHalfEnd)),
		Second: frame.Parity(f.window(frame.SecondHalfStart, frame.Bits-frame.SecondHalfStart)),
	}
}
