package multivoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncedWrite_MirrorsAcrossBanksIn4OpFM(t *testing.T) {
	c := newTestChip()
	g := 2
	n := groupNibble(g)

	// group 2, sync mode 0 (Sync4OpFM) is the default.
	c.writeFM(0, 0x90|n, 0xAB) // RR/D1L, a synced sub-address

	for b := 1; b < NumBanks; b++ {
		s := c.slot(g, b)
		assert.Equal(t, uint8(0xA), s.rr, "bank %d should mirror the synced write", b)
		assert.Equal(t, uint8(0xB), s.d1l, "bank %d should mirror the synced write", b)
	}
}

func TestSyncedWrite_DoesNotMirrorNonSyncedField(t *testing.T) {
	c := newTestChip()
	g := 2
	n := groupNibble(g)

	c.writeFM(0, 0x50|n, 0x33) // total level, not in syncedSubAddr

	for b := 1; b < NumBanks; b++ {
		assert.Equal(t, uint8(0), c.slot(g, b).tl)
	}
}

func TestSync2x2OpFM_MirrorsOnlyWithinPair(t *testing.T) {
	c := newTestChip()
	g := 1
	n := groupNibble(g)

	c.writeTimer(uint8(g), Sync2x2OpFM) // group control: sync field in low 2 bits
	c.writeFM(0, 0x90|n, 0x70)          // bank0's pair is {0,2}

	assert.Equal(t, uint8(0x7), c.slot(g, 2).rr, "bank 2 shares bank 0's pair")
	assert.Equal(t, uint8(0), c.slot(g, 1).rr, "bank 1 is in the other pair and must not mirror")
	assert.Equal(t, uint8(0), c.slot(g, 3).rr)
}

func TestPFM_OnlyEligibleOnThreeGroups(t *testing.T) {
	c := newTestChip()
	for _, g := range []int{0, 4, 8} {
		c.groups[g].pfm = true
		c.groups[g].sync = Sync3OpFM1PCM
		assert.True(t, c.groups[g].pfmActive(), "group %d is PFM-eligible", g)
	}
	for _, g := range []int{1, 2, 3, 5, 6, 7, 9, 10, 11} {
		c.groups[g].pfm = true
		c.groups[g].sync = Sync3OpFM1PCM
		assert.False(t, c.groups[g].pfmActive(), "group %d is not PFM-eligible", g)
	}
}

func TestTimerPeriods_MatchDatasheetFormula(t *testing.T) {
	c := newTestChip()
	c.writeTimer(TimerSubAHigh, 0x80)
	c.writeTimer(TimerSubALow, 0x2)
	c.writeTimer(TimerSubB, 0x10)

	wantA := uint32(384) * (1024 - uint32(c.timerA))
	wantB := uint32(384*16) * (256 - uint32(c.timerB))
	assert.Equal(t, wantA, c.TimerAPeriodCycles())
	assert.Equal(t, wantB, c.TimerBPeriodCycles())
}

func TestReset_IsIdempotentAndSilent(t *testing.T) {
	c := newTestChip()
	keyOnFMSlot(c, 0, 0, 31, 10, 10, 10, 8)
	c.Reset()
	c.Reset()

	left := make([]int32, 16)
	right := make([]int32, 16)
	c.Update(16, left, right)
	for i := range left {
		assert.Equal(t, int32(0), left[i])
		assert.Equal(t, int32(0), right[i])
	}
}

func TestReadRegister_StatusReflectsTimerBits(t *testing.T) {
	c := newTestChip()
	c.writeTimer(TimerSubEnable, EnableTimerA|IRQEnableA)
	c.TimerATick()

	v := c.ReadRegister(PortStatus0)
	assert.NotEqual(t, uint8(0), v&StatusTimerA)
}
