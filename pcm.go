// pcm.go - the external PCM sample reader: forward and alternate-loop
// playback over 8-bit and 12-bit packed sample formats (§4.4).

package multivoice

// read8Bit fetches one 8-bit linear PCM sample, shifted into the 16-bit
// domain shared with the internal wave tables (§4.4, §8 invariant 4).
func (c *Chip) read8Bit(addr uint32) int32 {
	return int32(c.rom.ReadByte(addr)) << 8
}

// read12Bit fetches one 12-bit sample from the packed 3-bytes-per-2-
// samples format (§4.4, §8 invariant 4): for sample index i, byte offset
// = (i/2)·3. Even sample = byte0<<8 | (byte1 & 0xF0); odd sample =
// byte2<<8 | ((byte1 & 0x0F) << 4).
func (c *Chip) read12Bit(sampleIdx uint32) int32 {
	group := sampleIdx / 2
	base := group * 3
	b0 := int32(c.rom.ReadByte(base))
	b1 := int32(c.rom.ReadByte(base + 1))
	if sampleIdx%2 == 0 {
		return b0<<8 | (b1 & 0xF0)
	}
	b2 := int32(c.rom.ReadByte(base + 2))
	return b2<<8 | ((b1 & 0x0F) << 4)
}

// readPCMSample reads the sample at a slot's current stepptr address,
// dispatching on its configured bit depth.
func (c *Chip) readPCMSample(s *Slot) int32 {
	addr := uint32(s.stepptr >> fracBits)
	if s.bits == 12 {
		return c.read12Bit(addr)
	}
	return c.read8Bit(addr)
}

// setEndStatus marks the per-group PCM end-of-loop status bit (§4.4, §6).
func (c *Chip) setEndStatus(s *Slot) {
	c.endStatus |= 1 << uint(s.group)
}

// advancePCM steps a slot's ROM address by one sample, applying forward
// or alternate (ping-pong) looping at the configured bounds. Forward
// overshoot subtracts the loop span to preserve sub-sample phase
// continuity instead of snapping to loopAddr outright; a degenerate span
// (endAddr <= loopAddr, or the subtraction still overshooting) falls
// back to a direct loopAddr/endAddr snap (§4.4). A reverse step that
// would wrap below address 0 counts as crossing loopAddr. The visited address
// always stays within [loopAddr, endAddr] once a loop boundary has been
// crossed once (§8 invariant 5).
func (c *Chip) advancePCM(s *Slot) {
	wrapped := false
	if s.loopDirection >= 0 {
		s.stepptr += s.step
	} else {
		wrapped = s.stepptr < s.step
		s.stepptr -= s.step
	}

	endFixed := uint64(s.endAddr) << fracBits
	loopFixed := uint64(s.loopAddr) << fracBits

	switch {
	case s.loopDirection >= 0 && s.stepptr > endFixed:
		if s.altLoop {
			s.loopDirection = -1
			s.stepptr = endFixed
		} else if endFixed > loopFixed && s.stepptr-(endFixed-loopFixed) <= endFixed {
			s.stepptr -= endFixed - loopFixed
		} else if s.stepptr >= loopFixed {
			s.stepptr = loopFixed
		} else {
			s.stepptr = endFixed
		}
		c.setEndStatus(s)
	case s.loopDirection < 0 && (wrapped || s.stepptr < loopFixed):
		s.loopDirection = 1
		s.stepptr = loopFixed
		c.setEndStatus(s)
	}
}
