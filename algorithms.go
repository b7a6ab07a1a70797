// algorithms.go - the 16-entry FM algorithm routing table and the
// per-sync-mode group dispatch (§4.6). The table is this core's own
// table-driven restatement of the modulator/carrier/feedback-tap
// structure; no specific silicon algorithm numbering is reproduced
// (§9 Non-goals).

package multivoice

type algorithm struct {
	mods        [4][]int // mods[i]: operator indices that modulate operator i, strictly lower index
	carrierMask uint8    // bit i set: operator i sums into the group's output
	feedbackOp  int      // operator index with self-feedback
}

var fmAlgorithms [16]algorithm

func init() {
	buildAlgorithms()
}

func buildAlgorithms() {
	base := [8]algorithm{
		{mods: [4][]int{nil, {0}, {1}, {2}}, carrierMask: 0x8},      // series chain, op3 carrier
		{mods: [4][]int{nil, nil, {0, 1}, {2}}, carrierMask: 0x8},   // 0,1 both feed 2, 2 feeds 3
		{mods: [4][]int{nil, {0}, nil, {1, 2}}, carrierMask: 0x8},   // 0->1, 2 standalone, both feed 3
		{mods: [4][]int{nil, {0}, {0}, {1, 2}}, carrierMask: 0x8},   // 0 fans out to 1 and 2, both feed 3
		{mods: [4][]int{nil, {0}, nil, {2}}, carrierMask: 0xA},      // two independent 2-op pairs, both carriers
		{mods: [4][]int{nil, {0}, {0}, {0}}, carrierMask: 0xE},      // 0 fans out to 1,2,3, all carriers
		{mods: [4][]int{nil, {0}, nil, nil}, carrierMask: 0xE},      // 0->1 carrier, 2 and 3 standalone carriers
		{mods: [4][]int{nil, nil, nil, nil}, carrierMask: 0xF},      // additive: all four independent carriers
	}
	for i, a := range base {
		fmAlgorithms[i] = a
		fmAlgorithms[i].feedbackOp = 0

		variant := a
		variant.feedbackOp = lastModulatorOp(a)
		fmAlgorithms[i+8] = variant
	}
}

// lastModulatorOp picks the highest-index non-carrier operator as the
// feedback tap for an algorithm's high-numbered variant; falls back to
// operator 0 for the fully additive algorithm, which has none.
func lastModulatorOp(a algorithm) int {
	for i := 3; i >= 0; i-- {
		if a.carrierMask&(1<<uint(i)) == 0 {
			return i
		}
	}
	return 0
}

// renderGroupSample advances one group by one sample and returns its
// four per-bank output channels (pre channel-attenuation, post operator
// network or PCM reader), dispatching on the group's sync mode (§4.6).
func (c *Chip) renderGroupSample(gIdx int) [NumBanks]int32 {
	var out [NumBanks]int32
	switch c.groups[gIdx].sync {
	case Sync4OpFM:
		c.render4OpFM(gIdx, &out)
	case Sync2x2OpFM:
		c.render2x2OpFM(gIdx, &out)
	case Sync3OpFM1PCM:
		c.render3OpFM1PCM(gIdx, &out)
	default: // Sync4PCM
		c.render4PCM(gIdx, &out)
	}
	return out
}

func (c *Chip) render4OpFM(gIdx int, out *[NumBanks]int32) {
	slots := [4]*Slot{c.slot(gIdx, 0), c.slot(gIdx, 1), c.slot(gIdx, 2), c.slot(gIdx, 3)}
	algo := fmAlgorithms[slots[0].algorithm&0xF]
	pfm := c.groups[gIdx].pfmActive()

	var opOut [4]int32
	for i, s := range slots {
		if !s.active {
			continue
		}
		var modInput int32
		if i == algo.feedbackOp {
			modInput += feedbackModulation(s)
		}
		for _, m := range algo.mods[i] {
			modInput += scaleModulation(opOut[m])
		}
		isCarrier := algo.carrierMask&(1<<uint(i)) != 0
		o := c.calculateOp(s, modInput, pfm && isCarrier)
		opOut[i] = o
		if i == algo.feedbackOp {
			updateFeedback(s, o)
		}
	}
	for i := range slots {
		if algo.carrierMask&(1<<uint(i)) != 0 {
			out[i] = opOut[i]
		}
	}
}

func (c *Chip) render2x2OpFM(gIdx int, out *[NumBanks]int32) {
	c.render2OpPair(gIdx, 0, 2, out)
	c.render2OpPair(gIdx, 1, 3, out)
}

// render2OpPair drives one of Sync2x2OpFM's two independent pairs: the
// lower bank always modulates (with self-feedback), the higher bank is
// always the carrier.
func (c *Chip) render2OpPair(gIdx, modBank, carBank int, out *[NumBanks]int32) {
	mod := c.slot(gIdx, modBank)
	car := c.slot(gIdx, carBank)
	pfm := c.groups[gIdx].pfmActive()

	var modOut int32
	if mod.active {
		modOut = c.calculateOp(mod, feedbackModulation(mod), false)
		updateFeedback(mod, modOut)
	}
	if car.active {
		out[carBank] = c.calculateOp(car, scaleModulation(modOut), pfm)
	}
}

// render3OpFM1PCM drives banks 0-2 as a 3-operator FM voice (using the
// same algorithm table restricted to indices 0-2) while bank 3 streams
// PCM independently. When the group's PFM routing is active, the FM
// carriers among banks 0-2 read their waveform from ROM instead of the
// sine table, same as the other sync modes (§4.6, §8 invariant 8); bank
// 3's independent PCM voice is unaffected.
func (c *Chip) render3OpFM1PCM(gIdx int, out *[NumBanks]int32) {
	slots := [3]*Slot{c.slot(gIdx, 0), c.slot(gIdx, 1), c.slot(gIdx, 2)}
	algo := fmAlgorithms[slots[0].algorithm&0xF]
	pfm := c.groups[gIdx].pfmActive()

	var opOut [3]int32
	for i, s := range slots {
		if !s.active {
			continue
		}
		var modInput int32
		if i == algo.feedbackOp && algo.feedbackOp < 3 {
			modInput += feedbackModulation(s)
		}
		for _, m := range algo.mods[i] {
			if m < 3 {
				modInput += scaleModulation(opOut[m])
			}
		}
		isCarrier := algo.carrierMask&(1<<uint(i)) != 0
		o := c.calculateOp(s, modInput, pfm && isCarrier)
		opOut[i] = o
		if i == algo.feedbackOp {
			updateFeedback(s, o)
		}
		if isCarrier {
			out[i] = o
		}
	}

	pcmSlot := c.slot(gIdx, 3)
	if !pcmSlot.active {
		return
	}
	out[3] = c.calculatePCMOp(pcmSlot)
}

func (c *Chip) render4PCM(gIdx int, out *[NumBanks]int32) {
	for b := 0; b < NumBanks; b++ {
		s := c.slot(gIdx, b)
		if !s.active {
			continue
		}
		out[b] = c.calculatePCMOp(s)
	}
}

// calculatePCMOp is the PCM-voice counterpart of calculateOp: it runs the
// shared envelope, LFO and total-level gain stages and reads its raw
// sample from ROM instead of a wave table. A slot routed through the
// accumulator (accon=1) bypasses the envelope/TL/ampLFO path entirely and
// returns its raw ROM sample, since the ACC path applies its own
// tl-derived accumulation_factor downstream (§4.7).
func (c *Chip) calculatePCMOp(s *Slot) int32 {
	c.advanceEnvelope(s)
	c.advanceLFO(s)
	c.advancePCM(s)

	raw := c.readPCMSample(s)
	if s.accon {
		return raw
	}
	gain := envelopeGain(s)
	gain = int32(int64(gain) * int64(totalLevelLUT[s.tl&0x7F]) / fracOne)
	gain = applyAmpLFO(gain, s)
	return int32(int64(raw) * int64(gain) / fracOne)
}
