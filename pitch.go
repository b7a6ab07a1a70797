// pitch.go - keycode and phase-step derivation (§4.3).

package multivoice

// pitchPrescaler relates clockHz to a per-sample phase increment over the
// sinSize-entry wave tables. A self-authored normalization constant
// (documented in DESIGN.md); bit-exact silicon agreement is explicitly
// out of scope (§9 Non-goals).
const pitchPrescaler = 144

// computeStep derives a slot's per-sample stepptr increment from its
// pitch fields per §4.3:
// step = (2·(fns+detune_offset))·pow_table[block]·multiple_table[multiple].
// lfo_phasemod is deliberately not folded in here: it is re-sampled and
// applied every tick at the point of use (applyPitchLFO), not baked into
// the cached step. External-PCM slots instead derive a constant playback
// rate from the fs divider table.
func (c *Chip) computeStep(s *Slot) uint64 {
	if s.waveform == WaveExternalPCM {
		return c.computePCMStep(s)
	}

	kc := s.keycode()
	detuneRatio := int64(detuneLUT[s.detune][kc])
	fn := int64(s.fns)
	fn += fn * detuneRatio / fracOne
	if fn < 0 {
		fn = 0
	}

	// powTable[0] (128) is the table's own block-0 reference value;
	// dividing it back out keeps fn in its native units instead of
	// inflating every step by that reference (§4.1's dual FM/PCM table).
	withBlock := uint64(2*fn) * powTable[s.block&0x7] / powTable[0]
	withMultiple := withBlock * multipleTable[s.multiple&0xF] / fracOne

	num := withMultiple * sinSize << fracBits
	const den = uint64(1) << 21
	step := num / den
	return step * uint64(c.clockHz) / (uint64(c.sampleRate) * pitchPrescaler)
}

// computePCMStep derives the constant per-sample ROM-address increment
// for an external-PCM slot from its fs divider (§4.4). PFM carriers do
// not use this step: calculateOp (fm.go) reads their ROM sample at
// startAddr plus the FM phase.
func (c *Chip) computePCMStep(s *Slot) uint64 {
	divisor := fsFrequency[s.fs&3]
	num := uint64(c.clockHz) << fracBits
	den := pitchPrescaler * divisor * uint64(c.sampleRate)
	return num / den
}
