package multivoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func newTestChip() *Chip {
	return NewChip(Config{ClockHz: stdClock, SampleRate: 44100})
}

// groupNibble reverses fmTab: the low nibble of an FM sub-address that
// selects group g.
func groupNibble(g int) uint8 {
	for nibble, grp := range fmTab {
		if grp == g {
			return uint8(nibble)
		}
	}
	panic("no nibble for group")
}

func keyOnFMSlot(c *Chip, g, b int, ar, d1r, d2r, rr, d1l uint8) *Slot {
	n := groupNibble(g)
	c.writeFM(uint8(b), 0x60|n, ar&0x1F)
	c.writeFM(uint8(b), 0x70|n, d1r&0x1F)
	c.writeFM(uint8(b), 0x80|n, d2r&0x1F)
	c.writeFM(uint8(b), 0x90|n, (rr&0xF)<<4|(d1l&0xF))
	c.writeFM(uint8(b), 0x00|n, 1)
	return c.slot(g, b)
}

func TestEnvelope_AttackDecayMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ar := uint8(rapid.IntRange(20, 31).Draw(t, "ar"))
		d1r := uint8(rapid.IntRange(20, 31).Draw(t, "d1r"))

		c := newTestChip()
		s := keyOnFMSlot(c, 0, 0, ar, d1r, 20, 20, 8)

		last := s.volume
		sawDecay := false
		for i := 0; i < 2_000_000 && s.active; i++ {
			prev := s.volume
			prevState := s.envState
			c.advanceEnvelope(s)
			switch prevState {
			case EnvAttack:
				assert.GreaterOrEqual(t, s.volume, prev, "ATTACK must never decrease volume")
			default:
				if s.volume < prev {
					sawDecay = true
				}
				assert.LessOrEqual(t, s.volume, prev+1, "non-ATTACK states must never increase volume")
			}
			last = s.volume
		}
		_ = last
		assert.True(t, sawDecay || !s.active, "envelope should eventually leave ATTACK and decay")
	})
}

func TestEnvelope_ZeroAttackRateIsSilent(t *testing.T) {
	c := newTestChip()
	s := keyOnFMSlot(c, 0, 0, 0, 10, 4, 4, 8)

	startVolume := s.volume
	for i := 0; i < 1000; i++ {
		c.advanceEnvelope(s)
	}
	assert.Equal(t, startVolume, s.volume, "a zero attack rate must never progress the envelope")
	assert.True(t, s.active)
}

func TestEnvelope_KeyOffMovesToRelease(t *testing.T) {
	c := newTestChip()
	s := keyOnFMSlot(c, 0, 0, 31, 10, 10, 10, 8)
	c.keyOff(s)
	assert.Equal(t, EnvRelease, s.envState)
}

func TestEnvelope_ReachesSilenceAndClearsActive(t *testing.T) {
	c := newTestChip()
	s := keyOnFMSlot(c, 0, 0, 31, 31, 31, 31, 0)

	for i := 0; i < 2_000_000 && s.active; i++ {
		c.advanceEnvelope(s)
	}
	assert.False(t, s.active, "envelope should reach silence and clear active within a bounded number of samples")
	assert.Equal(t, int64(0), s.volume)
}
