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

package polling

import (
	"errors"
	"time"
)

// Config holds configuration options for the Monitor
type Config struct {
	// TimeoutInterval is how often the decoder's timeouts are checked while
	// the lines are quiet. Keep it well below the frame timeout.
	TimeoutInterval time.Duration
	// EdgeBuffer is the number of edges that may queue between the edge
	// source and the decoding loop
	EdgeBuffer int
}

// DefaultConfig returns default monitor configuration
func DefaultConfig() *Config {
	return &Config{
		TimeoutInterval: 5 * time.Millisecond,
		EdgeBuffer:      64,
	}
}

// ErrInvalidConfig indicates a monitor configuration that cannot run
var ErrInvalidConfig = errors.New("invalid monitor configuration")

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.TimeoutInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.EdgeBuffer < 0 {
		return ErrInvalidConfig
	}
	return nil
}
