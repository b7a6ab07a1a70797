// accumulator.go - the 18-bit saturating ACC path for PCM voices with
// accon=1 (§4.7, §8 invariant 3).

package multivoice

const (
	accMin = -(1 << 17)
	accMax = (1 << 17) - 1
)

// satAcc18 clamps a 64-bit accumulation to the signed 18-bit ACC range.
func satAcc18(v int64) int32 {
	if v < accMin {
		return accMin
	}
	if v > accMax {
		return accMax
	}
	return int32(v)
}

// accumulateSample folds one slot's raw (pre-envelope/TL) sample into the
// block's ACC buffer at sample index i, per §4.7: the sample is first
// scaled by accumulation_factor (tl==0 ? 2 : tl·2), saturated to the
// signed 18-bit ACC range, then arithmetic-shifted right by 2 before
// per-channel attenuation and the running saturating add.
func (c *Chip) accumulateSample(i int, s *Slot, sample int32) {
	factor := int64(s.tl) * 2
	if s.tl == 0 {
		factor = 2
	}
	boosted := satAcc18(int64(sample) * factor)
	shifted := int64(boosted) >> 2

	for ch := 0; ch < NumChannels; ch++ {
		atten := chanAttenLUT[s.chanLevel[ch]&0xF]
		contribution := shifted * int64(atten) / fracOne
		idx := i*NumChannels + ch
		c.accMix[idx] = satAcc18(int64(c.accMix[idx]) + contribution)
	}
}

// foldAccumulator adds the block's accumulated ACC buffer into the
// direct mix and clears it for the next block (§4.7).
func (c *Chip) foldAccumulator(n int) {
	for i := 0; i < n*NumChannels; i++ {
		c.directMix[i] += c.accMix[i]
		c.accMix[i] = 0
	}
}
