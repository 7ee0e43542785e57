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
	"math"
	"time"

	"github.com/ZaparooProject/go-wiegand/internal/frame"
	"github.com/rs/zerolog"
)

// Config contains configuration options for the Decoder
type Config struct {
	// D0Pin and D1Pin identify the data lines; used for logging and by
	// transports that open pins by name
	D0Pin string
	D1Pin string
	// FrameTimeout is the silence that terminates a frame
	FrameTimeout time.Duration
	// KeyTimeout is the silence that discards a partially entered keypad code
	KeyTimeout time.Duration
	// BitOrder selects how payload bits map onto the 24-bit value
	BitOrder BitOrder
	// AlwaysSendState notifies the state sink after every frame, not only on change
	AlwaysSendState bool
	// Keypad enables 8-bit keystroke decoding alongside 26-bit frames
	Keypad bool
	// ByteSwap exchanges the lowest and highest payload bytes
	ByteSwap bool
}

// DefaultConfig returns default decoder configuration
func DefaultConfig() *Config {
	return &Config{
		D0Pin:        "D0",
		D1Pin:        "D1",
		FrameTimeout: frame.FrameGapTimeout * time.Millisecond,
		KeyTimeout:   frame.KeyIdleTimeout * time.Millisecond,
		BitOrder:     MSBFirst,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validateTimeout("frame timeout", c.FrameTimeout); err != nil {
		return err
	}
	if err := validateTimeout("key timeout", c.KeyTimeout); err != nil {
		return err
	}
	if c.BitOrder != MSBFirst && c.BitOrder != LSBFirst {
		return fmt.Errorf("%w: unknown bit order %d", ErrInvalidConfig, int(c.BitOrder))
	}
	return nil
}

func validateTimeout(name string, d time.Duration) error {
	if d < time.Millisecond {
		return fmt.Errorf("%w: %s must be at least 1ms, got %s", ErrInvalidConfig, name, d)
	}
	if d.Milliseconds() > math.MaxUint32/2 {
		return fmt.Errorf("%w: %s %s exceeds clock range", ErrInvalidConfig, name, d)
	}
	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Option is a functional option for configuring a Decoder
type Option func(*Decoder) error

// WithConfig replaces the whole configuration
func WithConfig(config *Config) Option {
	return func(d *Decoder) error {
		if config == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidConfig)
		}
		d.config = config.Clone()
		return nil
	}
}

// WithPins names the D0 and D1 lines
func WithPins(d0, d1 string) Option {
	return func(d *Decoder) error {
		d.config.D0Pin = d0
		d.config.D1Pin = d1
		return nil
	}
}

// WithAlwaysSendState notifies the state sink after every frame
func WithAlwaysSendState(enabled bool) Option {
	return func(d *Decoder) error {
		d.config.AlwaysSendState = enabled
		return nil
	}
}

// WithKeypad enables keypad digit and submit decoding
func WithKeypad(enabled bool) Option {
	return func(d *Decoder) error {
		d.config.Keypad = enabled
		return nil
	}
}

// WithByteSwap swaps the lowest and highest payload bytes
func WithByteSwap(enabled bool) Option {
	return func(d *Decoder) error {
		d.config.ByteSwap = enabled
		return nil
	}
}

// WithBitOrder sets the payload bit order
func WithBitOrder(order BitOrder) Option {
	return func(d *Decoder) error {
		d.config.BitOrder = order
		return nil
	}
}

// WithFrameTimeout sets the inter-bit silence that ends a frame
func WithFrameTimeout(timeout time.Duration) Option {
	return func(d *Decoder) error {
		d.config.FrameTimeout = timeout
		return nil
	}
}

// WithKeyTimeout sets the silence that discards a partial keypad code
func WithKeyTimeout(timeout time.Duration) Option {
	return func(d *Decoder) error {
		d.config.KeyTimeout = timeout
		return nil
	}
}

// WithClock injects the millisecond clock
func WithClock(clock Clock) Option {
	return func(d *Decoder) error {
		if clock == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidConfig)
		}
		d.clock = clock
		return nil
	}
}

// WithLogger sets the decoder's logger
func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) error {
		d.logger = l
		return nil
	}
}

// WithDigitSink delivers keypad digits to sink
func WithDigitSink(sink DigitSink) Option {
	return func(d *Decoder) error {
		d.sinks.digit = sink
		return nil
	}
}

// WithCodeSink delivers submitted keypad codes to sink
func WithCodeSink(sink CodeSink) Option {
	return func(d *Decoder) error {
		d.sinks.code = sink
		return nil
	}
}

// WithDataSink delivers card payloads to sink
func WithDataSink(sink DataSink) Option {
	return func(d *Decoder) error {
		d.sinks.data = sink
		return nil
	}
}

// WithStateSink delivers state flags to sink
func WithStateSink(sink StateSink) Option {
	return func(d *Decoder) error {
		d.sinks.state = sink
		return nil
	}
}

// WithSinks registers v for every sink interface it implements
func WithSinks(v any) Option {
	return func(d *Decoder) error {
		matched := false
		if s, ok := v.(DigitSink); ok {
			d.sinks.digit = s
			matched = true
		}
		if s, ok := v.(CodeSink); ok {
			d.sinks.code = s
			matched = true
		}
		if s, ok := v.(DataSink); ok {
			d.sinks.data = s
			matched = true
		}
		if s, ok := v.(StateSink); ok {
			d.sinks.state = s
			matched = true
		}
		if !matched {
			return fmt.Errorf("%w: %T implements no sink interface", ErrInvalidConfig, v)
		}
		return nil
	}
}
