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

package frame

// Parity returns the XOR parity of bits: true when an odd number are set.
func Parity(bits []bool) bool {
	parity := false
	for _, bit := range bits {
		parity = parity != bit
	}
	return parity
}

// Nibble packs up to four bits, first bit most significant.
func Nibble(bits []bool) uint8 {
	var n uint8
	for i := 0; i < len(bits) && i < NibbleBits; i++ {
		n <<= 1
		if bits[i] {
			n |= 1
		}
	}
	return n
}

// DecodeKey decodes an 8-bit keypad burst.
//
// The burst carries the key twice: the first nibble is the one's complement
// of the key and the second nibble is the key itself. When the two nibbles
// disagree, or the burst is not exactly KeyBits long, KeyNone is returned.
func DecodeKey(bits []bool) uint8 {
	if len(bits) != KeyBits {
		return KeyNone
	}
	inverted := Nibble(bits[:NibbleBits])
	key := Nibble(bits[NibbleBits:])
	if ^inverted&0x0F != key {
		return KeyNone
	}
	return key
}

// EncodeKey returns the 8-bit burst a keypad sends for key.
func EncodeKey(key uint8) []bool {
	key &= 0x0F
	b := (^key&0x0F)<<NibbleBits | key
	bits := make([]bool, KeyBits)
	for i := range bits {
		bits[i] = b&(0x80>>i) != 0
	}
	return bits
}
