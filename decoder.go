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
	"github.com/rs/zerolog"
)

// Decoder turns Wiegand bit events into card payloads, keypad digits and
// codes, and diagnostic state flags.
//
// Thread Safety: Decoder is NOT thread-safe. It never blocks and starts no
// goroutines; every method runs to completion on the caller's goroutine.
// All calls must come from one serialized context, such as a single
// polling loop. polling.Monitor provides such a loop.
type Decoder struct {
	lines  Lines
	clock  Clock
	config *Config
	logger zerolog.Logger
	sinks  sinks
	frame  Frame
	keys   keypad
	state  stateTracker
	// lastBit marks the start of the current frame gap; resets move it.
	lastBit uint32
	// lastEdge is the time of the last bit event; only Consume moves it.
	lastEdge uint32
}

// New creates a decoder reading line levels from lines. The decoder is
// reset before New returns, which sends the first state notification
// if a state sink is configured.
func New(lines Lines, opts ...Option) (*Decoder, error) {
	if lines == nil {
		return nil, ErrNoLines
	}
	d := &Decoder{
		lines:  lines,
		clock:  NewSystemClock(),
		config: DefaultConfig(),
		logger: Logger(),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if err := d.config.Validate(); err != nil {
		return nil, err
	}

	d.logger = d.logger.With().Str("d0", d.config.D0Pin).Str("d1", d.config.D1Pin).Logger()
	d.state.first = true
	d.state.always = d.config.AlwaysSendState
	d.lastEdge = d.clock.Millis()
	d.Reset()
	return d, nil
}

// Config returns a copy of the decoder configuration
func (d *Decoder) Config() Config {
	return *d.config
}

// ReadData samples both lines and records one bit event. A line that reads
// low is asserted.
func (d *Decoder) ReadData() {
	d0High, d1High := d.lines.Levels()
	d.Consume(!d0High, !d1High)
}

// ConsumeEdge records one bit event.
func (d *Decoder) ConsumeEdge(e Edge) {
	d.Consume(e.D0, e.D1)
}

// Consume records one bit event. Exactly one asserted line yields a bit:
// D0 alone is 0 and D1 alone is 1. Anything else sets StateLogicFault and
// leaves the position cleared, but the position still counts.
func (d *Decoder) Consume(d0, d1 bool) {
	now := d.clock.Millis()
	d.checkTimeout(now)
	d.lastBit = now
	d.lastEdge = now

	switch {
	case d0 && !d1:
		d.frame.push(false)
	case !d0 && d1:
		d.frame.push(true)
	default:
		d.state.set(StateLogicFault)
		d.frame.skip()
		d.logger.Debug().Bool("d0", d0).Bool("d1", d1).Int("pos", d.frame.Len()-1).
			Msg("ambiguous line levels")
	}

	if d.config.Keypad && d.frame.Len() == frame.KeyBits && d.handleKey(now) {
		return
	}
	if d.frame.Full() {
		d.emit()
		d.reset(now)
	}
}

// ReadState reports the live flags to the state sink without clearing them
// or changing the notification baseline, and returns them.
func (d *Decoder) ReadState() State {
	s := d.state.live
	if d.sinks.state != nil {
		d.sinks.state.OnState(s)
	}
	return s
}

// Reset discards any partial frame and recomputes the connection status.
// An accumulated keypad code survives a reset.
func (d *Decoder) Reset() {
	d.reset(d.clock.Millis())
}

// BitCount returns the number of bit positions received in the current frame.
func (d *Decoder) BitCount() int {
	return d.frame.Len()
}

// Frame returns a copy of the in-progress frame.
func (d *Decoder) Frame() Frame {
	return d.frame
}

// Code returns the keypad code accumulated so far.
func (d *Decoder) Code() uint32 {
	return d.keys.value()
}

// State returns the live flags without reporting them.
func (d *Decoder) State() State {
	return d.state.live
}

// emit validates the frame, delivers its payload if both parities hold,
// and notifies the state sink.
func (d *Decoder) emit() {
	if d.frame.Len() != frame.Bits {
		d.state.set(StateBitsFault)
	}

	parity := CheckParity(&d.frame)
	if !parity.FirstOK() {
		d.state.set(StateParityFirstFault)
	}
	if !parity.SecondOK() {
		d.state.set(StateParitySecondFault)
	}

	if parity.OK() {
		payload := AlignPayload(&d.frame, d.config.BitOrder, d.config.ByteSwap)
		// A card read supersedes any keypad entry in progress.
		d.keys.clear()
		d.logger.Debug().Int("bits", d.frame.Len()).Hex("payload", payloadBytes(payload)).
			Msg("frame decoded")
		if d.sinks.data != nil {
			d.sinks.data.OnData(payload)
			d.state.set(StateDataSent)
		}
	} else {
		d.logger.Debug().Int("bits", d.frame.Len()).Str("frame", d.frame.String()).
			Msg("frame rejected by parity")
	}

	d.notify()
}

// handleKey decodes the first 8 bits of the frame as a keystroke. It returns
// true when they were a digit or submit key and the frame has been reset.
func (d *Decoder) handleKey(now uint32) bool {
	key := frame.DecodeKey(d.frame.window(0, frame.KeyBits))

	switch {
	case key <= frame.MaxDigit:
		d.keys.push(key)
		d.logger.Debug().Uint8("digit", key).Uint32("code", d.keys.value()).Msg("key pressed")
		if d.sinks.digit != nil {
			d.sinks.digit.OnDigit(key)
			d.state.set(StateDataSent)
		}
	case key == frame.KeySubmit:
		code, ok := d.keys.submit()
		d.logger.Debug().Uint32("code", code).Bool("valid", ok).Msg("code submitted")
		if ok && d.sinks.code != nil {
			d.sinks.code.OnCode(code)
			d.state.set(StateDataSent)
		}
	case key == frame.KeyStar:
		d.logger.Debug().Msg("star key ignored")
		return false
	default:
		return false
	}

	d.notify()
	d.reset(now)
	return true
}

// notify reports the live flags if they changed since the last report or
// AlwaysSendState is set, then clears them.
func (d *Decoder) notify() {
	if d.sinks.state == nil || !d.state.pending() {
		return
	}
	d.sinks.state.OnState(d.state.flush())
}

func (d *Decoder) reset(now uint32) {
	d.frame.reset()
	d.lastBit = now

	d0High, d1High := d.lines.Levels()
	d.state.live = StateInitialized
	if d0High && d1High {
		d.state.live |= StateConnectionOK
	}

	if d.state.first && d.sinks.state != nil {
		d.state.first = false
		d.state.last = d.state.live
		d.sinks.state.OnState(d.state.live)
	}
}

func payloadBytes(payload uint32) []byte {
	return []byte{byte(payload >> 16), byte(payload >> 8), byte(payload)}
}
