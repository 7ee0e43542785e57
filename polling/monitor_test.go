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
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ZaparooProject/go-wiegand"
	virt "github.com/ZaparooProject/go-wiegand/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const waitFor = 2 * time.Second

// createTestMonitor creates a monitor over mock lines with a frozen clock
func createTestMonitor(t *testing.T, opts ...wiegand.Option) (*Monitor, *wiegand.MockLines, *wiegand.MockClock) {
	t.Helper()
	lines := wiegand.NewMockLines()
	clock := wiegand.NewMockClock(0)
	opts = append([]wiegand.Option{wiegand.WithClock(clock)}, opts...)
	monitor, err := NewMonitor(lines, &Config{TimeoutInterval: time.Millisecond, EdgeBuffer: 8}, opts...)
	require.NoError(t, err)
	return monitor, lines, clock
}

// runMonitor starts the monitor and returns a cancel function that waits
// for Start to return and yields its error
func runMonitor(t *testing.T, monitor *Monitor) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Start(ctx) }()
	require.Eventually(t, monitor.Running, waitFor, time.Millisecond)
	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(waitFor):
			t.Fatal("monitor did not stop")
			return nil
		}
	}
}

func send[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func TestNewMonitor(t *testing.T) {
	t.Parallel()

	t.Run("NilSource", func(t *testing.T) {
		t.Parallel()
		monitor, err := NewMonitor(nil, nil)
		require.ErrorIs(t, err, ErrNoSource)
		assert.Nil(t, monitor)
	})

	t.Run("WithDefaultConfig", func(t *testing.T) {
		t.Parallel()
		monitor, err := NewMonitor(wiegand.NewMockLines(), nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), monitor.config)
		assert.NotNil(t, monitor.Decoder())
		assert.False(t, monitor.Running())
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		t.Parallel()
		_, err := NewMonitor(wiegand.NewMockLines(), &Config{})
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("InvalidDecoderOption", func(t *testing.T) {
		t.Parallel()
		_, err := NewMonitor(wiegand.NewMockLines(), nil, wiegand.WithKeyTimeout(0))
		require.ErrorIs(t, err, wiegand.ErrInvalidConfig)
	})
}

func TestMonitor_CardRead(t *testing.T) {
	t.Parallel()
	monitor, lines, _ := createTestMonitor(t)

	cards := make(chan uint32, 4)
	states := make(chan wiegand.State, 16)
	monitor.OnCard = func(payload uint32) { send(cards, payload) }
	monitor.OnState = func(s wiegand.State) { send(states, s) }

	stop := runMonitor(t, monitor)

	select {
	case s := <-states:
		assert.Equal(t, wiegand.StateInitialized|wiegand.StateConnectionOK, s, "initial state")
	case <-time.After(waitFor):
		t.Fatal("no initial state")
	}

	lines.PushBits(virt.TestCard.Bits())

	select {
	case payload := <-cards:
		assert.Equal(t, virt.TestCard.Payload(), payload)
	case <-time.After(waitFor):
		t.Fatal("card not decoded")
	}

	require.ErrorIs(t, stop(), context.Canceled)
	stats := monitor.Stats()
	assert.Equal(t, int64(26), stats.Edges)
	assert.Equal(t, int64(1), stats.Payloads)
	assert.Equal(t, int64(0), stats.Faults)
}

func TestMonitor_TimeoutTicker(t *testing.T) {
	t.Parallel()
	monitor, lines, clock := createTestMonitor(t)

	faults := make(chan wiegand.State, 4)
	monitor.OnState = func(s wiegand.State) {
		if s.Faulted() {
			send(faults, s)
		}
	}

	stop := runMonitor(t, monitor)
	defer func() { _ = stop() }()

	lines.PushBits(virt.TestCard.Bits()[:7])
	require.Eventually(t, func() bool { return monitor.Stats().Edges == 7 }, waitFor, time.Millisecond)
	clock.Advance(50)

	select {
	case s := <-faults:
		assert.True(t, s.Has(wiegand.StateReceiveTimeout|wiegand.StateBitsFault), s.String())
	case <-time.After(waitFor):
		t.Fatal("timeout not reported")
	}
}

func TestMonitor_KeypadCode(t *testing.T) {
	t.Parallel()
	monitor, lines, _ := createTestMonitor(t, wiegand.WithKeypad(true))

	digits := make(chan uint8, 8)
	codes := make(chan uint32, 2)
	monitor.OnDigit = func(d uint8) { send(digits, d) }
	monitor.OnCode = func(c uint32) { send(codes, c) }

	stop := runMonitor(t, monitor)
	defer func() { _ = stop() }()

	for _, burst := range virt.KeySequence(2, 5, 11) {
		lines.PushBits(burst)
	}

	select {
	case code := <-codes:
		assert.Equal(t, uint32(25), code)
	case <-time.After(waitFor):
		t.Fatal("code not submitted")
	}
	assert.Equal(t, uint8(2), <-digits)
	assert.Equal(t, uint8(5), <-digits)
	assert.Equal(t, int64(2), monitor.Stats().Digits)
	assert.Equal(t, int64(1), monitor.Stats().Codes)
}

func TestMonitor_StartTwice(t *testing.T) {
	t.Parallel()
	monitor, _, _ := createTestMonitor(t)

	stop := runMonitor(t, monitor)
	err := monitor.Start(context.Background())
	require.ErrorIs(t, err, ErrMonitorRunning)

	require.ErrorIs(t, stop(), context.Canceled)
	assert.False(t, monitor.Running())
}

func TestMonitor_SourceClosed(t *testing.T) {
	t.Parallel()
	monitor, _, _ := createTestMonitor(t)

	done := make(chan error, 1)
	go func() { done <- monitor.Start(context.Background()) }()
	require.Eventually(t, monitor.Running, waitFor, time.Millisecond)

	require.NoError(t, monitor.Close())

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, errors.Is(err, wiegand.ErrTransportClosed), err.Error())
	case <-time.After(waitFor):
		t.Fatal("monitor did not stop after source closed")
	}
}
