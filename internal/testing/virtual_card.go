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

// Package testing provides virtual credentials and keypads that produce Wiegand bit streams
package testing

import (
	"github.com/ZaparooProject/go-wiegand/internal/frame"
)

// Test credentials
var (
	// TestCard is a standard 26-bit credential: facility 18, card 4660.
	TestCard = NewVirtualCard(18, 0x1234)
	// TestCardAlt is a second credential for change detection tests.
	TestCardAlt = NewVirtualCard(200, 51234)
)

// VirtualCard represents a simulated 26-bit credential for testing
type VirtualCard struct {
	Facility uint8
	Number   uint16
}

// NewVirtualCard creates a virtual credential with the given facility code and card number
func NewVirtualCard(facility uint8, number uint16) *VirtualCard {
	return &VirtualCard{
		Facility: facility,
		Number:   number,
	}
}

// Payload returns the 24-bit payload in wire order: facility byte first.
func (c *VirtualCard) Payload() uint32 {
	return uint32(c.Facility)<<16 | uint32(c.Number)
}

// Bits returns the complete frame the reader sends for this credential.
func (c *VirtualCard) Bits() []bool {
	return FrameBits(c.Payload())
}

// FrameBits builds a 26-bit frame around payload, most significant bit
// first, with even leading parity and odd trailing parity.
func FrameBits(payload uint32) []bool {
	bits := make([]bool, frame.Bits)
	for i := 1; i <= frame.PayloadBits; i++ {
		bits[i] = payload&(1<<(frame.PayloadBits-i)) != 0
	}
	bits[0] = frame.Parity(bits[1:frame.FirstHalfEnd])
	bits[frame.Bits-1] = !frame.Parity(bits[frame.SecondHalfStart : frame.Bits-1])
	return bits
}

// FlipBit returns a copy of bits with the bit at index i inverted.
func FlipBit(bits []bool, i int) []bool {
	out := make([]bool, len(bits))
	copy(out, bits)
	if i >= 0 && i < len(out) {
		out[i] = !out[i]
	}
	return out
}

// KeyBurst returns the 8-bit burst a keypad sends for key.
func KeyBurst(key uint8) []bool {
	return frame.EncodeKey(key)
}

// KeySequence concatenates the bursts for keys.
func KeySequence(keys ...uint8) [][]bool {
	bursts := make([][]bool, 0, len(keys))
	for _, key := range keys {
		bursts = append(bursts, KeyBurst(key))
	}
	return bursts
}

// LeadsWithKey reports whether the first 8 bits of bits would be taken as
// a digit or submit keystroke by a keypad-enabled decoder.
func LeadsWithKey(bits []bool) bool {
	if len(bits) < frame.KeyBits {
		return false
	}
	key := frame.DecodeKey(bits[:frame.KeyBits])
	return key <= frame.MaxDigit || key == frame.KeySubmit
}
