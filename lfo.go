// lfo.go - per-slot pitch (vibrato) and amplitude (tremolo) modulation
// (§4.8).

package multivoice

// advanceLFO ticks a slot's LFO phase by one sample and refreshes its
// cached pitch and amplitude multipliers from the precomputed tables.
func (c *Chip) advanceLFO(s *Slot) {
	s.lfoPhase += uint32(s.lfoStep)
	idx := (s.lfoPhase >> 8) & 0xFF
	s.lfoPhasemod = pitchLFOLUT[s.lfoWave][s.pms&0x7][idx]
	s.lfoAmplitude = ampAttenLUT[s.lfoWave][s.ams&0x3][idx]
}

// applyPitchLFO rescales a per-sample phase step by the slot's current
// vibrato multiplier.
func applyPitchLFO(step uint64, s *Slot) uint64 {
	return step * uint64(s.lfoPhasemod) / fracOne
}

// applyAmpLFO attenuates a linear gain by the slot's current tremolo
// multiplier.
func applyAmpLFO(gain int32, s *Slot) int32 {
	return int32(int64(gain) * int64(s.lfoAmplitude) / fracOne)
}
