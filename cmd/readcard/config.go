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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZaparooProject/go-wiegand"
	"gopkg.in/yaml.v3"
)

// autoDetect selects the first detected serial bridge
const autoDetect = "auto"

// options holds the merged file and flag settings
type options struct {
	D0            string        `yaml:"d0"`
	D1            string        `yaml:"d1"`
	Serial        string        `yaml:"serial"`
	BitOrder      string        `yaml:"bit_order"`
	IgnorePaths   []string      `yaml:"ignore_paths"`
	FrameTimeout  time.Duration `yaml:"frame_timeout"`
	KeyTimeout    time.Duration `yaml:"key_timeout"`
	Timeout       time.Duration `yaml:"timeout"`
	StatsInterval time.Duration `yaml:"stats_interval"`
	Keypad        bool          `yaml:"keypad"`
	ByteSwap      bool          `yaml:"byte_swap"`
	AlwaysState   bool          `yaml:"always_state"`
	Debug         bool          `yaml:"debug"`
}

func defaultOptions() *options {
	dc := wiegand.DefaultConfig()
	return &options{
		D0:           "GPIO17",
		D1:           "GPIO27",
		BitOrder:     dc.BitOrder.String(),
		FrameTimeout: dc.FrameTimeout,
		KeyTimeout:   dc.KeyTimeout,
	}
}

// loadFile overlays a YAML config file onto o
func (o *options) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(o); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// parseArgs builds options from defaults, then the -config file, then any
// flags given explicitly on the command line.
func parseArgs(args []string) (*options, error) {
	opts := defaultOptions()
	flagOpts := defaultOptions()

	fs := flag.NewFlagSet("readcard", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	fs.StringVar(&flagOpts.D0, "d0", flagOpts.D0, "GPIO pin name for D0")
	fs.StringVar(&flagOpts.D1, "d1", flagOpts.D1, "GPIO pin name for D1")
	fs.StringVar(&flagOpts.Serial, "serial", "",
		"Serial bridge path (e.g., /dev/ttyUSB0 or COM3), or \"auto\" to detect. Leave empty to use GPIO.")
	fs.StringVar(&flagOpts.BitOrder, "order", flagOpts.BitOrder, "Payload bit order: msb or lsb")
	fs.DurationVar(&flagOpts.FrameTimeout, "frame-timeout", flagOpts.FrameTimeout, "Silence that ends a frame")
	fs.DurationVar(&flagOpts.KeyTimeout, "key-timeout", flagOpts.KeyTimeout, "Silence that discards a keypad code")
	fs.DurationVar(&flagOpts.Timeout, "timeout", 0, "Stop after this long (0 runs until interrupted)")
	fs.DurationVar(&flagOpts.StatsInterval, "stats", 0, "Log counters at this interval (0 disables)")
	fs.BoolVar(&flagOpts.Keypad, "keypad", false, "Decode 8-bit keypad bursts")
	fs.BoolVar(&flagOpts.ByteSwap, "swap", false, "Swap the low and high payload bytes")
	fs.BoolVar(&flagOpts.AlwaysState, "always-state", false, "Report state after every frame")
	fs.BoolVar(&flagOpts.Debug, "debug", false, "Enable debug output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configPath != "" {
		if err := opts.loadFile(*configPath); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "d0":
			opts.D0 = flagOpts.D0
		case "d1":
			opts.D1 = flagOpts.D1
		case "serial":
			opts.Serial = flagOpts.Serial
		case "order":
			opts.BitOrder = flagOpts.BitOrder
		case "frame-timeout":
			opts.FrameTimeout = flagOpts.FrameTimeout
		case "key-timeout":
			opts.KeyTimeout = flagOpts.KeyTimeout
		case "timeout":
			opts.Timeout = flagOpts.Timeout
		case "stats":
			opts.StatsInterval = flagOpts.StatsInterval
		case "keypad":
			opts.Keypad = flagOpts.Keypad
		case "swap":
			opts.ByteSwap = flagOpts.ByteSwap
		case "always-state":
			opts.AlwaysState = flagOpts.AlwaysState
		case "debug":
			opts.Debug = flagOpts.Debug
		}
	})

	return opts, nil
}

// decoderOptions translates o into decoder options
func (o *options) decoderOptions() ([]wiegand.Option, error) {
	order, err := wiegand.ParseBitOrder(o.BitOrder)
	if err != nil {
		return nil, err
	}
	return []wiegand.Option{
		wiegand.WithPins(o.D0, o.D1),
		wiegand.WithBitOrder(order),
		wiegand.WithFrameTimeout(o.FrameTimeout),
		wiegand.WithKeyTimeout(o.KeyTimeout),
		wiegand.WithKeypad(o.Keypad),
		wiegand.WithByteSwap(o.ByteSwap),
		wiegand.WithAlwaysSendState(o.AlwaysState),
	}, nil
}
