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

// Package frame provides frame layout and protocol constants for Wiegand 26-bit communication
package frame

// Frame layout constants
const (
	Bits        = 26 // Leading parity + 24 payload bits + trailing parity
	PayloadBits = 24 // Facility and card number bits
	PayloadByte = 8  // Width of one payload byte

	// FirstHalfEnd is the exclusive end of the leading parity half (ceil(Bits/2))
	FirstHalfEnd = (Bits + 1) / 2
	// SecondHalfStart is the first index of the trailing parity half
	SecondHalfStart = Bits / 2
)

// Parity conventions for the two halves of a frame
const (
	Even = false // Leading half carries an even number of set bits
	Odd  = true  // Trailing half carries an odd number of set bits
)

// Keypad burst constants
const (
	KeyBits    = 8    // One keystroke is an 8-bit burst
	NibbleBits = 4    // Each burst is two nibbles
	KeyStar    = 10   // '*' key
	KeySubmit  = 11   // '#' key, ends digit entry
	KeyNone    = 0xFF // Nibble cross-check failed
	MaxDigit   = 9    // Largest decimal digit key
	MaxCode    = 0xFFFFFF
)

// Default timeouts in milliseconds
const (
	FrameGapTimeout = 20   // Silence that terminates a frame
	KeyIdleTimeout  = 5000 // Silence that discards a partial keypad code
)
