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

// CheckTimeout applies both timeouts against the current clock. Call it
// periodically while no bits arrive so that a truncated frame is reported
// and an abandoned keypad code is discarded.
func (d *Decoder) CheckTimeout() {
	d.checkTimeout(d.clock.Millis())
}

// checkTimeout measures the silence since the last bit, before the bit
// that triggered the call is processed. Key idle time counts from the last
// bit event of any kind, so ignored keystrokes keep a code alive.
func (d *Decoder) checkTimeout(now uint32) {
	elapsed := now - d.lastBit

	idle := now - d.lastEdge
	if d.config.Keypad && d.keys.active() && idle > uint32(d.config.KeyTimeout.Milliseconds()) {
		d.keys.clear()
		d.logger.Debug().Uint32("idle_ms", idle).Msg("keypad code expired")
	}

	if elapsed <= uint32(d.config.FrameTimeout.Milliseconds()) {
		return
	}
	if d.frame.Len() > 0 {
		d.state.set(StateReceiveTimeout)
		d.logger.Debug().Int("bits", d.frame.Len()).Uint32("gap_ms", elapsed).Msg("frame timed out")
		d.emit()
	}
	d.reset(now)
}
