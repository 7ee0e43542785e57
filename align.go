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

// AlignPayload extracts the 24 payload bits (frame positions 1..24) of f.
// When swap is set the lowest and highest payload bytes are exchanged.
func AlignPayload(f *Frame, order BitOrder, swap bool) uint32 {
	var data uint32
	for i := 1; i <= frame.PayloadBits; i++ {
		if !f.Bit(i) {
			continue
		}
		if order == LSBFirst {
			data |= 1 << (i - 1)
		} else {
			data |= 1 << (frame.PayloadBits - i)
		}
	}
	if swap {
		data = SwapBytes(data)
	}
	return data
}

// SwapBytes exchanges the lowest and highest bytes of a 24-bit value,
// leaving the middle byte in place.
func SwapBytes(v uint32) uint32 {
	const mask = 1<<frame.PayloadByte - 1
	const high = 2 * frame.PayloadByte
	return (v&mask)<<high | v&(mask<<frame.PayloadByte) | (v>>high)&mask
}

// Facility returns the facility code of an H10301 payload read MSB first
// without byte swapping.
func Facility(payload uint32) uint8 {
	return uint8(payload >> (2 * frame.PayloadByte))
}

// CardNumber returns the card number of an H10301 payload read MSB first
// without byte swapping.
func CardNumber(payload uint32) uint16 {
	return uint16(payload)
}
