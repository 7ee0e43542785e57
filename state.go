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
	"strings"
)

// State is the diagnostic flag byte reported to the state sink.
type State uint8

// State flags
const (
	StateInitialized       State = 1 << iota // Set on every reset
	StateDataSent                            // A payload, digit, or code reached its sink
	StateConnectionOK                        // Both lines read idle-high at the last reset
	StateLogicFault                          // A bit event had both or neither line asserted
	StateReceiveTimeout                      // A frame was cut short by silence
	StateBitsFault                           // A frame ended with fewer than 26 bits
	StateParityFirstFault                    // Leading half parity was not even
	StateParitySecondFault                   // Trailing half parity was not odd
)

// StateFaults is the set of flags that indicate a decoding problem.
const StateFaults = StateLogicFault | StateReceiveTimeout | StateBitsFault |
	StateParityFirstFault | StateParitySecondFault

var stateNames = []struct {
	name string
	flag State
}{
	{"Initialized", StateInitialized},
	{"DataSent", StateDataSent},
	{"ConnectionOK", StateConnectionOK},
	{"LogicFault", StateLogicFault},
	{"ReceiveTimeout", StateReceiveTimeout},
	{"BitsFault", StateBitsFault},
	{"ParityFirstFault", StateParityFirstFault},
	{"ParitySecondFault", StateParitySecondFault},
}

// Has reports whether every flag in flags is set.
func (s State) Has(flags State) bool {
	return s&flags == flags
}

// Faulted reports whether any fault flag is set.
func (s State) Faulted() bool {
	return s&StateFaults != 0
}

// String lists the set flags separated by '|', or "none".
func (s State) String() string {
	if s == 0 {
		return "none"
	}
	names := make([]string, 0, len(stateNames))
	for _, n := range stateNames {
		if s&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// stateTracker holds the live flags and the last value handed to the
// state sink.
type stateTracker struct {
	live   State
	last   State
	first  bool
	always bool
}

func (t *stateTracker) set(flags State) {
	t.live |= flags
}

// pending reports whether the live flags should be notified
func (t *stateTracker) pending() bool {
	return t.live != t.last || t.always
}

// flush records the live flags as the new baseline, clears them, and
// returns the value to report.
func (t *stateTracker) flush() State {
	emitted := t.live
	t.last = emitted
	t.live = 0
	return emitted
}
