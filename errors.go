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
	"errors"
	"fmt"
)

// Configuration and transport errors. Decoding itself never fails; problems
// on the wire are reported through State flags.
var (
	ErrNoLines         = errors.New("no line provider")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrTransportClosed = errors.New("transport closed")
	ErrPinNotFound     = errors.New("pin not found")
)

// TransportError wraps a failure inside a line provider.
type TransportError struct {
	Err  error
	Op   string
	Port string
}

// NewTransportError creates a transport error for op on port.
func NewTransportError(op, port string, err error) *TransportError {
	return &TransportError{
		Err:  err,
		Op:   op,
		Port: port,
	}
}

func (e *TransportError) Error() string {
	if e.Port == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
