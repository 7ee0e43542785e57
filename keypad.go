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

// keypad accumulates digits into a decimal code.
type keypad struct {
	code uint64
}

// value returns the accumulated code, or 0 when idle. Codes that grew past
// MaxCode read as MaxCode+1.
func (k *keypad) value() uint32 {
	return uint32(k.code)
}

// active reports whether a code entry is in progress
func (k *keypad) active() bool {
	return k.code != 0
}

func (k *keypad) push(digit uint8) {
	k.code = k.code*10 + uint64(digit)
	// Past MaxCode the value can only be rejected; stop it from wrapping.
	if k.code > frame.MaxCode {
		k.code = frame.MaxCode + 1
	}
}

// submit returns the accumulated code and whether it is dispatchable. The
// code is cleared either way.
func (k *keypad) submit() (uint32, bool) {
	code := k.code
	k.code = 0
	if code == 0 || code > frame.MaxCode {
		return 0, false
	}
	return uint32(code), true
}

func (k *keypad) clear() {
	k.code = 0
}
