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

// Command readcard prints card payloads and keypad entries from a Wiegand
// reader wired to GPIO pins or attached through a serial bridge.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZaparooProject/go-wiegand"
	"github.com/ZaparooProject/go-wiegand/detection"
	"github.com/ZaparooProject/go-wiegand/polling"
	"github.com/ZaparooProject/go-wiegand/transport/gpio"
	"github.com/ZaparooProject/go-wiegand/transport/uart"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	if err := run(os.Args[1:], log); err != nil {
		log.Error().Err(err).Msg("readcard failed")
		os.Exit(1)
	}
}

func run(args []string, log zerolog.Logger) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if opts.Debug {
		wiegand.SetDebugEnabled(true)
	}

	decoderOpts, err := opts.decoderOptions()
	if err != nil {
		return err
	}

	source, err := openSource(opts, log)
	if err != nil {
		return err
	}

	monitor, err := polling.NewMonitor(source, polling.DefaultConfig(), decoderOpts...)
	if err != nil {
		_ = source.Close()
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	defer func() { _ = monitor.Close() }()
	attachPrinters(monitor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	log.Info().
		Str("order", opts.BitOrder).
		Bool("keypad", opts.Keypad).
		Bool("swap", opts.ByteSwap).
		Msg("waiting for cards")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return monitor.Start(gctx)
	})
	if opts.StatsInterval > 0 {
		g.Go(func() error {
			reportStats(gctx, monitor, opts.StatsInterval, log)
			return nil
		})
	}

	err = g.Wait()
	stats := monitor.Stats()
	log.Info().
		Int64("edges", stats.Edges).
		Int64("cards", stats.Payloads).
		Int64("codes", stats.Codes).
		Int64("faults", stats.Faults).
		Msg("stopped")

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// openSource opens the serial bridge when one is configured and the GPIO
// pins otherwise.
func openSource(opts *options, log zerolog.Logger) (polling.EdgeSource, error) {
	switch opts.Serial {
	case "":
		log.Info().Str("d0", opts.D0).Str("d1", opts.D1).Msg("opening GPIO lines")
		lines, err := gpio.New(opts.D0, opts.D1)
		if err != nil {
			return nil, fmt.Errorf("failed to open GPIO lines: %w", err)
		}
		return lines, nil
	case autoDetect:
		detectOpts := detection.DefaultOptions()
		detectOpts.IgnorePaths = opts.IgnorePaths
		bridges, err := detection.FindBridges(detectOpts)
		if err != nil {
			return nil, err
		}
		if len(bridges) == 0 {
			return nil, errors.New("no serial bridge found")
		}
		log.Info().
			Str("port", bridges[0].Path).
			Str("vidpid", bridges[0].VIDPID).
			Int("candidates", len(bridges)).
			Msg("detected serial bridge")
		return openBridge(bridges[0].Path)
	default:
		log.Info().Str("port", opts.Serial).Msg("opening serial bridge")
		return openBridge(opts.Serial)
	}
}

func openBridge(path string) (polling.EdgeSource, error) {
	transport, err := uart.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial bridge: %w", err)
	}
	return transport, nil
}

func attachPrinters(monitor *polling.Monitor) {
	monitor.OnCard = func(payload uint32) {
		_, _ = fmt.Printf("card %06X facility=%d number=%d\n",
			payload, wiegand.Facility(payload), wiegand.CardNumber(payload))
	}
	monitor.OnDigit = func(digit uint8) {
		_, _ = fmt.Printf("key %d\n", digit)
	}
	monitor.OnCode = func(code uint32) {
		_, _ = fmt.Printf("code %d\n", code)
	}
	monitor.OnState = func(state wiegand.State) {
		_, _ = fmt.Printf("state %s\n", state)
	}
}

func reportStats(ctx context.Context, monitor *polling.Monitor, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := monitor.Stats()
			log.Info().
				Int64("edges", stats.Edges).
				Int64("cards", stats.Payloads).
				Int64("digits", stats.Digits).
				Int64("codes", stats.Codes).
				Int64("faults", stats.Faults).
				Msg("stats")
		}
	}
}
