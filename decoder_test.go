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
	"testing"

	virt "github.com/ZaparooProject/go-wiegand/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bitGap = 2 // ms between bits, well inside the frame timeout

// newTestDecoder creates a decoder with mock lines, a mock clock, and a
// recorder attached to every sink
func newTestDecoder(t *testing.T, opts ...Option) (*Decoder, *MockLines, *MockClock, *Recorder) {
	t.Helper()
	lines := NewMockLines()
	clock := NewMockClock(1000)
	rec := &Recorder{}
	opts = append([]Option{WithClock(clock), WithSinks(rec)}, opts...)
	dec, err := New(lines, opts...)
	require.NoError(t, err)
	return dec, lines, clock, rec
}

func feedBits(dec *Decoder, clock *MockClock, bits []bool) {
	for _, bit := range bits {
		clock.Advance(bitGap)
		dec.ConsumeEdge(EdgeFor(bit))
	}
}

func feedKeys(dec *Decoder, clock *MockClock, keys ...uint8) {
	for _, burst := range virt.KeySequence(keys...) {
		feedBits(dec, clock, burst)
		// Keypads leave a pause between keystrokes.
		clock.Advance(100)
	}
}

func reverse24(v uint32) uint32 {
	var out uint32
	for i := 0; i < 24; i++ {
		if v&(1<<i) != 0 {
			out |= 1 << (23 - i)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("NilLines", func(t *testing.T) {
		t.Parallel()
		dec, err := New(nil)
		require.ErrorIs(t, err, ErrNoLines)
		assert.Nil(t, dec)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		t.Parallel()
		_, err := New(NewMockLines(), WithFrameTimeout(0))
		require.ErrorIs(t, err, ErrInvalidConfig)

		_, err = New(NewMockLines(), WithBitOrder(BitOrder(7)))
		require.ErrorIs(t, err, ErrInvalidConfig)

		_, err = New(NewMockLines(), WithClock(nil))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("FirstResetNotifies", func(t *testing.T) {
		t.Parallel()
		dec, _, _, rec := newTestDecoder(t)
		require.Len(t, rec.States, 1)
		assert.Equal(t, StateInitialized|StateConnectionOK, rec.States[0])
		assert.Equal(t, StateInitialized|StateConnectionOK, dec.State())
		assert.Equal(t, 0, dec.BitCount())
	})

	t.Run("DisconnectedLines", func(t *testing.T) {
		t.Parallel()
		lines := NewMockLines()
		lines.SetLevels(false, true)
		rec := &Recorder{}
		_, err := New(lines, WithStateSink(rec))
		require.NoError(t, err)
		require.Len(t, rec.States, 1)
		assert.Equal(t, StateInitialized, rec.States[0])
	})

	t.Run("DefaultConfig", func(t *testing.T) {
		t.Parallel()
		dec, err := New(NewMockLines())
		require.NoError(t, err)
		cfg := dec.Config()
		assert.Equal(t, MSBFirst, cfg.BitOrder)
		assert.False(t, cfg.Keypad)
		assert.False(t, cfg.ByteSwap)
		assert.False(t, cfg.AlwaysSendState)
	})
}

func TestDecoder_ValidFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		card  *virt.VirtualCard
		name  string
		order BitOrder
		swap  bool
	}{
		{name: "msb", card: virt.TestCard, order: MSBFirst},
		{name: "msb swapped", card: virt.TestCard, order: MSBFirst, swap: true},
		{name: "lsb", card: virt.TestCard, order: LSBFirst},
		{name: "lsb swapped", card: virt.TestCard, order: LSBFirst, swap: true},
		{name: "alt card msb", card: virt.TestCardAlt, order: MSBFirst},
		{name: "all zero payload", card: virt.NewVirtualCard(0, 0), order: MSBFirst},
		{name: "all ones payload", card: virt.NewVirtualCard(0xFF, 0xFFFF), order: MSBFirst, swap: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dec, _, clock, rec := newTestDecoder(t, WithBitOrder(tt.order), WithByteSwap(tt.swap))

			feedBits(dec, clock, tt.card.Bits())

			want := tt.card.Payload()
			if tt.order == LSBFirst {
				want = reverse24(want)
			}
			if tt.swap {
				want = SwapBytes(want)
			}
			require.Len(t, rec.Payloads, 1)
			assert.Equal(t, want, rec.Payloads[0])

			state := rec.LastState()
			assert.True(t, state.Has(StateDataSent|StateInitialized|StateConnectionOK), state.String())
			assert.False(t, state.Faulted(), state.String())
			assert.Equal(t, 0, dec.BitCount())
		})
	}
}

func TestDecoder_FacilityAndCard(t *testing.T) {
	t.Parallel()
	dec, _, clock, rec := newTestDecoder(t)
	feedBits(dec, clock, virt.TestCardAlt.Bits())

	require.Len(t, rec.Payloads, 1)
	assert.Equal(t, virt.TestCardAlt.Facility, Facility(rec.Payloads[0]))
	assert.Equal(t, virt.TestCardAlt.Number, CardNumber(rec.Payloads[0]))
}

func TestDecoder_ParityFaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		flip       int
		wantFlags  State
		cleanFlags State
	}{
		{
			name:       "leading parity bit",
			flip:       0,
			wantFlags:  StateParityFirstFault,
			cleanFlags: StateParitySecondFault | StateDataSent,
		},
		{
			name:       "last bit of leading half",
			flip:       12,
			wantFlags:  StateParityFirstFault,
			cleanFlags: StateParitySecondFault | StateDataSent,
		},
		{
			name:       "first bit of trailing half",
			flip:       13,
			wantFlags:  StateParitySecondFault,
			cleanFlags: StateParityFirstFault | StateDataSent,
		},
		{
			name:       "trailing parity bit",
			flip:       25,
			wantFlags:  StateParitySecondFault,
			cleanFlags: StateParityFirstFault | StateDataSent,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dec, _, clock, rec := newTestDecoder(t)

			feedBits(dec, clock, virt.FlipBit(virt.TestCard.Bits(), tt.flip))

			assert.Empty(t, rec.Payloads)
			state := rec.LastState()
			assert.True(t, state.Has(tt.wantFlags), state.String())
			assert.Zero(t, state&tt.cleanFlags, state.String())
			assert.False(t, state.Has(StateBitsFault), state.String())
			assert.Equal(t, 0, dec.BitCount())
		})
	}
}

func TestDecoder_BothParityFaults(t *testing.T) {
	t.Parallel()
	dec, _, clock, rec := newTestDecoder(t)

	bits := virt.FlipBit(virt.FlipBit(virt.TestCard.Bits(), 3), 20)
	feedBits(dec, clock, bits)

	assert.Empty(t, rec.Payloads)
	assert.True(t, rec.LastState().Has(StateParityFirstFault|StateParitySecondFault))
}

func TestDecoder_ReceiveTimeout(t *testing.T) {
	t.Parallel()

	t.Run("CheckTimeout", func(t *testing.T) {
		t.Parallel()
		dec, _, clock, rec := newTestDecoder(t)

		feedBits(dec, clock, virt.TestCard.Bits()[:10])
		require.Equal(t, 10, dec.BitCount())

		clock.Advance(20)
		dec.CheckTimeout()
		assert.Equal(t, 10, dec.BitCount(), "exactly the timeout is not a timeout")

		clock.Advance(1)
		dec.CheckTimeout()
		assert.Equal(t, 0, dec.BitCount())
		assert.Empty(t, rec.Payloads)
		state := rec.LastState()
		assert.True(t, state.Has(StateReceiveTimeout|StateBitsFault), state.String())
	})

	t.Run("NextBitAfterGap", func(t *testing.T) {
		t.Parallel()
		dec, _, clock, rec := newTestDecoder(t)

		feedBits(dec, clock, virt.TestCard.Bits()[:5])
		clock.Advance(50)
		dec.ConsumeEdge(EdgeOne)

		assert.Equal(t, 1, dec.BitCount(), "late bit starts a new frame")
		f := dec.Frame()
		assert.True(t, f.Bit(0))
		assert.True(t, rec.LastState().Has(StateReceiveTimeout|StateBitsFault))
	})

	t.Run("IdleTimeoutWithoutBits", func(t *testing.T) {
		t.Parallel()
		dec, _, clock, rec := newTestDecoder(t)

		clock.Advance(1000)
		dec.CheckTimeout()

		assert.Len(t, rec.States, 1, "an empty frame is not reported")
		assert.Equal(t, StateInitialized|StateConnectionOK, dec.State())
	})

	t.Run("ConnectionRecomputed", func(t *testing.T) {
		t.Parallel()
		dec, lines, clock, _ := newTestDecoder(t)

		lines.SetLevels(true, false)
		clock.Advance(100)
		dec.CheckTimeout()
		assert.Equal(t, StateInitialized, dec.State())

		lines.SetLevels(true, true)
		clock.Advance(100)
		dec.CheckTimeout()
		assert.Equal(t, StateInitialized|StateConnectionOK, dec.State())
	})
}

func TestDecoder_LogicFault(t *testing.T) {
	t.Parallel()

	bits := virt.TestCard.Bits()
	zeroAt := -1
	for i := 1; i < len(bits)-1; i++ {
		if !bits[i] {
			zeroAt = i
			break
		}
	}
	require.NotEqual(t, -1, zeroAt)

	for _, ambiguous := range []Edge{{}, {D0: true, D1: true}} {
		ambiguous := ambiguous
		t.Run(ambiguousName(ambiguous), func(t *testing.T) {
			t.Parallel()
			dec, _, clock, rec := newTestDecoder(t)

			feedBits(dec, clock, bits[:zeroAt])
			clock.Advance(bitGap)
			dec.ConsumeEdge(ambiguous)
			assert.Equal(t, zeroAt+1, dec.BitCount(), "fault still advances")
			assert.True(t, dec.State().Has(StateLogicFault))

			feedBits(dec, clock, bits[zeroAt+1:])

			// The faulted slot reads as zero, which is what the card sent.
			require.Len(t, rec.Payloads, 1)
			assert.Equal(t, virt.TestCard.Payload(), rec.Payloads[0])
			assert.True(t, rec.LastState().Has(StateLogicFault|StateDataSent))
			assert.Equal(t, 0, dec.BitCount())
		})
	}
}

func ambiguousName(e Edge) string {
	if e.D0 {
		return "both asserted"
	}
	return "neither asserted"
}

func TestDecoder_StateNotification(t *testing.T) {
	t.Parallel()

	t.Run("IdenticalStatesNotifyOnce", func(t *testing.T) {
		t.Parallel()
		dec, _, clock, rec := newTestDecoder(t)

		feedBits(dec, clock, virt.TestCard.Bits())
		clock.Advance(100)
		feedBits(dec, clock, virt.TestCard.Bits())

		assert.Len(t, rec.Payloads, 2)
		require.Len(t, rec.States, 2)
		assert.Equal(t, StateInitialized|StateConnectionOK|StateDataSent, rec.States[1])
	})

	t.Run("AlwaysSendState", func(t *testing.T) {
		t.Parallel()
		dec, _, clock, rec := newTestDecoder(t, WithAlwaysSendState(true))

		feedBits(dec, clock, virt.TestCard.Bits())
		clock.Advance(100)
		feedBits(dec, clock, virt.TestCard.Bits())

		assert.Len(t, rec.States, 3)
	})

	t.Run("ChangedStateNotifies", func(t *testing.T) {
		t.Parallel()
		dec, _, clock, rec := newTestDecoder(t)

		feedBits(dec, clock, virt.TestCard.Bits())
		clock.Advance(100)
		feedBits(dec, clock, virt.FlipBit(virt.TestCard.Bits(), 0))
		clock.Advance(100)
		feedBits(dec, clock, virt.TestCard.Bits())

		require.Len(t, rec.States, 4)
		assert.True(t, rec.States[2].Has(StateParityFirstFault))
		assert.False(t, rec.States[3].Faulted(), "faults are edge-triggered")
	})

	t.Run("FlagsClearAfterNotify", func(t *testing.T) {
		t.Parallel()
		dec, _, clock, _ := newTestDecoder(t)

		feedBits(dec, clock, virt.FlipBit(virt.TestCard.Bits(), 0))
		assert.Equal(t, StateInitialized|StateConnectionOK, dec.State())
	})
}

func TestDecoder_ReadState(t *testing.T) {
	t.Parallel()
	dec, _, clock, rec := newTestDecoder(t)

	feedBits(dec, clock, virt.TestCard.Bits())
	require.Len(t, rec.States, 2)

	got := dec.ReadState()
	assert.Equal(t, StateInitialized|StateConnectionOK, got)
	require.Len(t, rec.States, 3)
	assert.Equal(t, got, rec.States[2])
	assert.Equal(t, got, dec.State(), "query does not clear")

	// The query did not move the baseline, so an identical read stays silent.
	clock.Advance(100)
	feedBits(dec, clock, virt.TestCard.Bits())
	assert.Len(t, rec.States, 3)
}

func TestDecoder_ReadData(t *testing.T) {
	t.Parallel()
	dec, lines, clock, rec := newTestDecoder(t)

	for _, bit := range virt.TestCard.Bits() {
		lines.SetLevels(bit, !bit)
		clock.Advance(bitGap)
		dec.ReadData()
	}

	require.Len(t, rec.Payloads, 1)
	assert.Equal(t, virt.TestCard.Payload(), rec.Payloads[0])
}

func TestDecoder_Reset(t *testing.T) {
	t.Parallel()
	dec, _, clock, rec := newTestDecoder(t)

	feedBits(dec, clock, virt.TestCard.Bits()[:12])
	dec.Reset()
	assert.Equal(t, 0, dec.BitCount())

	feedBits(dec, clock, virt.TestCard.Bits())
	require.Len(t, rec.Payloads, 1)
	assert.Equal(t, virt.TestCard.Payload(), rec.Payloads[0])
}

func TestDecoder_ClockWraparound(t *testing.T) {
	t.Parallel()
	dec, _, clock, rec := newTestDecoder(t)

	clock.Set(^uint32(0) - 20)
	dec.Reset()
	feedBits(dec, clock, virt.TestCard.Bits())

	require.Len(t, rec.Payloads, 1)
	assert.False(t, rec.LastState().Faulted())
}

func TestDecoder_AbsentSinks(t *testing.T) {
	t.Parallel()
	lines := NewMockLines()
	clock := NewMockClock(0)
	var states []State
	dec, err := New(lines, WithClock(clock), WithKeypad(true),
		WithStateSink(StateFunc(func(s State) { states = append(states, s) })))
	require.NoError(t, err)

	feedKeys(dec, clock, 4, 2)
	assert.Equal(t, uint32(42), dec.Code())

	clock.Advance(100)
	feedBits(dec, clock, virt.TestCard.Bits())

	assert.Equal(t, uint32(0), dec.Code(), "valid frame clears the code without a data sink")
	for _, s := range states {
		assert.False(t, s.Has(StateDataSent), s.String())
	}
}

func TestDecoder_KeypadDisabled(t *testing.T) {
	t.Parallel()
	dec, _, clock, rec := newTestDecoder(t)

	feedBits(dec, clock, virt.KeyBurst(3))

	assert.Empty(t, rec.Digits)
	assert.Equal(t, 8, dec.BitCount())
}
