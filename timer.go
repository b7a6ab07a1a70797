// timer.go - Timer A/B period derivation and the host-driven tick entry
// points that set status bits and the IRQ line (§6, §8 invariant 6,
// scenario S3).

package multivoice

// TimerAPeriodCycles returns Timer A's current period in chip clock
// cycles: 384*(1024-v).
func (c *Chip) TimerAPeriodCycles() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return timerABase * (1024 - uint32(c.timerA))
}

// TimerBPeriodCycles returns Timer B's current period in chip clock
// cycles: 384*16*(256-v).
func (c *Chip) TimerBPeriodCycles() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return timerBBase * (256 - uint32(c.timerB))
}

// TimerATick is called by the host once per elapsed Timer A period. It
// sets the status bit and raises the IRQ line if Timer A is enabled and
// its IRQ is unmasked; a disabled timer ticking is a no-op.
func (c *Chip) TimerATick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enableReg&EnableTimerA == 0 {
		return
	}
	c.statusReg |= StatusTimerA
	c.refreshIRQ()
}

// TimerBTick is Timer B's counterpart to TimerATick.
func (c *Chip) TimerBTick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enableReg&EnableTimerB == 0 {
		return
	}
	c.statusReg |= StatusTimerB
	c.refreshIRQ()
}

// refreshIRQ recomputes the level-sensitive IRQ line from the currently
// unmasked, set status bits.
func (c *Chip) refreshIRQ() {
	asserted := (c.enableReg&IRQEnableA != 0 && c.statusReg&StatusTimerA != 0) ||
		(c.enableReg&IRQEnableB != 0 && c.statusReg&StatusTimerB != 0)
	c.setIRQLocked(asserted)
}
