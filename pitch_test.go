package multivoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestComputeStep_HigherBlockIncreasesStep(t *testing.T) {
	c := newTestChip()
	s := &Slot{waveform: Wave0, fns: 0x200, block: 2, multiple: 1, detune: 0}
	low := c.computeStep(s)

	s.block = 5
	high := c.computeStep(s)

	assert.Greater(t, high, low, "raising the block (octave) must increase the phase step")
}

func TestComputeStep_MultipleScalesLinearly(t *testing.T) {
	c := newTestChip()
	s := &Slot{waveform: Wave0, fns: 0x200, block: 3, multiple: 1, detune: 0}
	base := c.computeStep(s)

	s.multiple = 2
	doubled := c.computeStep(s)

	// multipleTable entries for 1 and 2 are 1x and 2x fracOne, so the
	// resulting step should double too (within integer rounding).
	assert.InDelta(t, float64(base)*2, float64(doubled), float64(base)*0.05)
}

func TestComputeStep_NeverNegativeOrOverflowing(t *testing.T) {
	c := newTestChip()
	rapid.Check(t, func(t *rapid.T) {
		s := &Slot{
			waveform: Wave0,
			fns:      uint16(rapid.IntRange(0, 0x7FF).Draw(t, "fns")),
			block:    uint8(rapid.IntRange(0, 7).Draw(t, "block")),
			multiple: uint8(rapid.IntRange(0, 15).Draw(t, "multiple")),
			detune:   uint8(rapid.IntRange(0, 7).Draw(t, "detune")),
		}
		step := c.computeStep(s)
		assert.GreaterOrEqual(t, step, uint64(0))
		assert.Less(t, step, uint64(1)<<40, "step should stay comfortably within uint64 range for any legal field combination")
	})
}

func TestComputePCMStep_HigherDivisorMeansSlower(t *testing.T) {
	c := newTestChip()
	s := &Slot{waveform: WaveExternalPCM, fs: 0} // divisor 8
	slow := c.computePCMStep(s)

	s.fs = 3 // divisor 1
	fast := c.computePCMStep(s)

	assert.Greater(t, fast, slow, "a smaller fs divisor must produce a larger per-sample step")
}

func TestKeycode_ExternalPCMUsesSrcFields(t *testing.T) {
	s := &Slot{waveform: WaveExternalPCM, srcB: 2, srcNote: 1, block: 3}
	kc := s.keycode()
	assert.GreaterOrEqual(t, kc, 0)
	assert.LessOrEqual(t, kc, 31)
}
