// slot.go - per-slot register-backed fields and dynamic state (§3).

package multivoice

// Slot is one of the 48 independent tone generators, addressed as
// group*NumBanks+bank.
type Slot struct {
	group int
	bank  int

	// Register-backed fields.
	waveform  uint8 // 0-6 internal, 7 = external PCM
	algorithm uint8 // FM routing index
	feedback  uint8 // self/inter-operator modulation depth
	accon     bool  // route through the 18-bit accumulator

	block uint8  // pitch octave
	fns   uint16 // pitch fraction

	multiple uint8
	detune   uint8

	tl uint8 // total level

	keyscale uint8
	ar       uint8
	d1r      uint8
	d2r      uint8
	rr       uint8
	d1l      uint8

	lfoFreq uint8
	lfoWave uint8
	pms     uint8
	ams     uint8

	chanLevel [NumChannels]uint8 // per-channel pan/attenuation

	startAddr uint32 // 23-bit PCM region
	endAddr   uint32
	loopAddr  uint32
	altLoop   bool
	bits      uint8 // 8 or 12
	fs        uint8 // sample-rate divider selector

	srcNote uint8
	srcB    uint8

	// Dynamic state.
	active   bool
	volume   int64 // signed 24.16, 0..255 in integer part while active
	envState int
	envStep  int64 // precomputed at key-on / state transition, always >= 0

	stepptr uint64 // 16.(rest) fixed point: phase (internal) or ROM address (external)
	step    uint64 // per-sample stepptr increment

	feedbackMod1 int64
	feedbackMod2 int64

	lfoPhase     uint32 // 16.8 fixed point, phase>>8 indexes the 256-entry tables
	lfoStep      int32
	lfoAmplitude int32 // current tremolo multiplier, 16.16
	lfoPhasemod  int32 // current vibrato multiplier, 16.16

	loopDirection int8 // +1 or -1

	keyOnGate bool // mirrors register-level gate so re-writes don't retrigger
}

func (s *Slot) keycode() int {
	if s.waveform == WaveExternalPCM {
		band := externalN43Band(int(s.fns))
		kc := int(s.srcB)*4 + int(s.srcNote) + int(s.block)*4 + band
		return clampInt(kc, 0, 31)
	}
	band := n43Band(int(s.fns))
	return (int(s.block)&7)*4 + band
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// externalN43Band partitions fns for the external-PCM keycode formula
// (§4.3), distinct edges from the internal n43Band.
func externalN43Band(fns int) int {
	switch {
	case fns < 0x100:
		return 0
	case fns < 0x300:
		return 1
	case fns < 0x500:
		return 2
	default:
		return 3
	}
}

// effectiveRate folds in rate-key-scaling and the documented per-field
// multiplier, clamped to [0,63] (§4.2).
func effectiveRate(base uint8, mult int, keycode int, keyscale uint8) int {
	r := int(base)*mult + int(rksTable[keycode][keyscale&3])
	return clampInt(r, 0, 63)
}

// reset clears a slot back to its power-on state, register-backed fields
// included; only its group and bank position are kept (§8 invariant 9).
func (s *Slot) reset() {
	g, b := s.group, s.bank
	*s = Slot{group: g, bank: b, loopDirection: 1}
}
