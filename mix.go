// mix.go - per-group render dispatch, channel attenuation, the ACC fold
// and the final stereo down-mix (§4.7, §6, §8 scenarios S1/S2/S6).

package multivoice

// Update renders n samples into left and right, both of which must be at
// least length n. Register writes observed between calls take effect
// immediately under the same lock Update holds, so no write can be
// observed mid-block (§5).
func (c *Chip) Update(n int, left, right []int32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensureMixBuffers(n)

	for i := 0; i < n; i++ {
		for g := 0; g < NumGroups; g++ {
			bankOut := c.renderGroupSample(g)
			if c.groups[g].muted {
				continue
			}
			sync := c.groups[g].sync
			for b := 0; b < NumBanks; b++ {
				if bankOut[b] == 0 {
					continue
				}
				s := c.slot(g, b)
				pcmVoice := sync == Sync4PCM || (sync == Sync3OpFM1PCM && b == 3)
				if s.accon && pcmVoice {
					c.accumulateSample(i, s, bankOut[b])
					continue
				}
				for ch := 0; ch < NumChannels; ch++ {
					atten := chanAttenLUT[s.chanLevel[ch]&0xF]
					idx := i*NumChannels + ch
					c.directMix[idx] += int32(int64(bankOut[b]) * int64(atten) / fracOne)
				}
			}
		}
	}

	c.foldAccumulator(n)
	c.downmix(n, left, right)
}

func (c *Chip) ensureMixBuffers(n int) {
	need := n * NumChannels
	if cap(c.directMix) < need {
		c.directMix = make([]int32, need)
		c.accMix = make([]int32, need)
		return
	}
	c.directMix = c.directMix[:need]
	c.accMix = c.accMix[:need]
	for i := range c.directMix {
		c.directMix[i] = 0
	}
	for i := range c.accMix {
		c.accMix[i] = 0
	}
}

// downmix folds the four internal channels to stereo: channels 0/1 are
// the direct left/right buses, channels 2/3 fold in at 5/256 before the
// shared >>2 headroom reduction (§6).
func (c *Chip) downmix(n int, left, right []int32) {
	for i := 0; i < n; i++ {
		idx := i * NumChannels
		ch0, ch1, ch2, ch3 := c.directMix[idx], c.directMix[idx+1], c.directMix[idx+2], c.directMix[idx+3]
		l := ch0 + ((ch2 * 5) >> 8)
		r := ch1 + ((ch3 * 5) >> 8)
		left[i] = l >> 2
		right[i] = r >> 2
	}
}
