// fm.go - the single FM operator function (§4.5): phase/wave lookup,
// envelope and LFO application, and feedback-modulation bookkeeping.

package multivoice

// modulationDepthIndex selects the fixed inter-operator modulation depth
// from modulationLevel. Unlike self-feedback, inter-operator routing has
// no register field of its own in this consolidation (§4.5, §9); every
// connection in the algorithm network modulates at the same full depth.
const modulationDepthIndex = 7

// calculateOp advances one slot's envelope, LFO and phase, then produces
// its signed sample given an incoming phase-modulation input (already
// scaled to phase units by scaleModulation or feedbackModulation).
// pfmCarrier selects PCM-carrier FM (§4.6, §8 invariant 8): the carrier
// reads its waveform from ROM at the phase-indexed address instead of
// the sine table.
func (c *Chip) calculateOp(s *Slot, modInput int32, pfmCarrier bool) int32 {
	c.advanceEnvelope(s)
	c.advanceLFO(s)

	step := applyPitchLFO(s.step, s)
	s.stepptr += step
	phase := (s.stepptr >> fracBits) & sinMask
	modPhase := (phase + uint64(int64(modInput))) & sinMask

	var raw int32
	if pfmCarrier {
		raw = c.read8Bit(s.startAddr + uint32(modPhase))
	} else {
		raw = int32(waveTables[s.waveform][modPhase])
	}

	gain := envelopeGain(s)
	gain = int32(int64(gain) * int64(totalLevelLUT[s.tl&0x7F]) / fracOne)
	gain = applyAmpLFO(gain, s)

	return int32(int64(raw) * int64(gain) / fracOne)
}

// scaleModulation converts an operator's raw output sample into the
// phase-unit offset fed to the operator(s) it modulates.
func scaleModulation(out int32) int32 {
	return int32(int64(out) * int64(modulationLevel[modulationDepthIndex]) / fracOne)
}

// feedbackModulation returns the self-feedback phase offset for a slot
// that modulates itself, averaging its previous two already-scaled
// outputs per the documented feedback_modulation convention (§4.5) and
// shifting the 16.16 average down to wave-table phase units. The
// feedback_level scaling is applied once, in updateFeedback, at the
// point each output is stored.
func feedbackModulation(s *Slot) int32 {
	return int32((s.feedbackMod1 + s.feedbackMod2) / 2 >> fracBits)
}

// updateFeedback records an operator's latest output, scaled per the
// set_feedback formula (§4.5): (out<<(SIN_BITS-2))·feedback_level/4. The
// shift and the /4 divisor are both load-bearing and must be preserved.
func updateFeedback(s *Slot, out int32) {
	scaled := (int64(out) << uint(sinBits-2)) * int64(feedbackLevel[s.feedback&0x7]) / 4
	s.feedbackMod2 = s.feedbackMod1
	s.feedbackMod1 = scaled
}
