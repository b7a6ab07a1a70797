// patch.go - TOML voice patch format and its translation into the raw
// register writes a real host would issue over the chip's 16 one-byte
// ports.

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/octavecore/multivoice"
)

// Patch is a whole-chip configuration: one entry per group that's in use,
// each carrying the FM/PCM slot fields for its four banks. Fields left at
// their zero value simply write zero to the corresponding register byte,
// same as a freshly reset chip.
type Patch struct {
	Timer struct {
		A      uint16 `toml:"a"`
		B      uint8  `toml:"b"`
		Enable uint8  `toml:"enable"`
	} `toml:"timer"`
	Groups []GroupPatch `toml:"group"`
}

type GroupPatch struct {
	Index int          `toml:"index"`
	Sync  uint8        `toml:"sync"`
	PFM   bool         `toml:"pfm"`
	Muted bool         `toml:"muted"`
	Slots []SlotPatch  `toml:"slot"`
}

type SlotPatch struct {
	Bank      int    `toml:"bank"`
	Waveform  uint8  `toml:"waveform"`
	ACCOn     bool   `toml:"acc_on"`
	Block     uint8  `toml:"block"`
	FNS       uint16 `toml:"fns"`
	Multiple  uint8  `toml:"multiple"`
	Detune    uint8  `toml:"detune"`
	TL        uint8  `toml:"tl"`
	KeyScale  uint8  `toml:"keyscale"`
	AR        uint8  `toml:"ar"`
	D1R       uint8  `toml:"d1r"`
	D2R       uint8  `toml:"d2r"`
	RR        uint8  `toml:"rr"`
	D1L       uint8  `toml:"d1l"`
	LFOFreq   uint8  `toml:"lfo_freq"`
	LFOWave   uint8  `toml:"lfo_wave"`
	PMS       uint8  `toml:"pms"`
	AMS       uint8  `toml:"ams"`
	Chan      [4]uint8 `toml:"chan_level"`
	Algorithm uint8  `toml:"algorithm"`
	Feedback  uint8  `toml:"feedback"`

	// PCM fields, only meaningful when Waveform == 7 (external PCM) and
	// only written for bank 0, the one bank the PCM port addresses.
	StartAddr uint32 `toml:"start_addr"`
	LoopAddr  uint32 `toml:"loop_addr"`
	EndAddr   uint32 `toml:"end_addr"`
	Bits12    bool   `toml:"bits_12"`
	AltLoop   bool   `toml:"alt_loop"`

	KeyOn bool `toml:"key_on"`
}

// LoadPatch reads a TOML patch file from disk.
func LoadPatch(path string) (*Patch, error) {
	var p Patch
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return nil, fmt.Errorf("decode patch %s: %w", path, err)
	}
	return &p, nil
}

// Apply issues the register writes a real host would make to bring a
// freshly-reset Chip into the state described by the patch.
func (p *Patch) Apply(c *multivoice.Chip) {
	for _, g := range p.Groups {
		if g.Index < 0 || g.Index >= multivoice.NumGroups {
			continue
		}
		groupCtrl := g.Sync & 0x3
		if g.PFM {
			groupCtrl |= 0x4
		}
		if g.Muted {
			groupCtrl |= 0x8
		}
		writeTimer(c, uint8(g.Index), groupCtrl)

		for _, s := range g.Slots {
			applySlot(c, g.Index, s)
		}
	}

	if p.Timer.A != 0 {
		writeTimer(c, multivoice.TimerSubAHigh, uint8(p.Timer.A>>2))
		writeTimer(c, multivoice.TimerSubALow, uint8(p.Timer.A&0x3))
	}
	if p.Timer.B != 0 {
		writeTimer(c, multivoice.TimerSubB, p.Timer.B)
	}
	if p.Timer.Enable != 0 {
		writeTimer(c, multivoice.TimerSubEnable, p.Timer.Enable)
	}
}

func applySlot(c *multivoice.Chip, group int, s SlotPatch) {
	if s.Bank < 0 || s.Bank >= multivoice.NumBanks {
		return
	}

	ctrl := s.Waveform & 0x7
	if s.ACCOn {
		ctrl |= 0x8
	}
	writeFM(c, group, s.Bank, 0x1, ctrl)
	writeFM(c, group, s.Bank, 0x2, (s.Block&0x7)<<5|uint8(s.FNS>>8)&0x7)
	writeFM(c, group, s.Bank, 0x3, uint8(s.FNS))
	writeFM(c, group, s.Bank, 0x4, (s.Multiple&0xF)<<4|s.Detune&0x7)
	writeFM(c, group, s.Bank, 0x5, s.TL&0x7F)
	writeFM(c, group, s.Bank, 0x6, (s.KeyScale&0x3)<<5|s.AR&0x1F)
	writeFM(c, group, s.Bank, 0x7, s.D1R&0x1F)
	writeFM(c, group, s.Bank, 0x8, s.D2R&0x1F)
	writeFM(c, group, s.Bank, 0x9, (s.RR&0xF)<<4|s.D1L&0xF)
	writeFM(c, group, s.Bank, 0xA, s.LFOFreq)
	writeFM(c, group, s.Bank, 0xB, (s.LFOWave&0x3)<<6|(s.PMS&0x7)<<3|s.AMS&0x3)
	writeFM(c, group, s.Bank, 0xC, (s.Chan[0]&0xF)<<4|s.Chan[1]&0xF)
	writeFM(c, group, s.Bank, 0xD, (s.Chan[2]&0xF)<<4|s.Chan[3]&0xF)
	writeFM(c, group, s.Bank, 0xE, (s.Algorithm&0xF)<<4|(s.Feedback&0x7)<<1)

	if s.Waveform == multivoice.WaveExternalPCM {
		applyPCM(c, group, s.Bank, s)
	}

	// Key gate is the final write, mirroring how a real driver only fires
	// a voice once every other field is in place.
	if s.KeyOn {
		writeFM(c, group, s.Bank, 0x0, 0x1)
	}
}

func applyPCM(c *multivoice.Chip, group, bank int, s SlotPatch) {
	slotIdx := group*multivoice.NumBanks + bank
	nibble, ok := pcmNibbleFor(slotIdx)
	if !ok {
		return // the PCM port has no sub-address for this slot
	}
	sub := func(param uint8) uint8 { return param<<4 | nibble }

	c.WriteRegister(multivoice.PortPCMAddr, sub(0x0))
	c.WriteRegister(multivoice.PortPCMData, uint8(s.StartAddr))
	c.WriteRegister(multivoice.PortPCMAddr, sub(0x1))
	c.WriteRegister(multivoice.PortPCMData, uint8(s.StartAddr>>8))

	bitsByte := uint8(s.StartAddr>>16) & 0x7F
	if s.Bits12 {
		bitsByte |= 0x80
	}
	c.WriteRegister(multivoice.PortPCMAddr, sub(0x2))
	c.WriteRegister(multivoice.PortPCMData, bitsByte)

	c.WriteRegister(multivoice.PortPCMAddr, sub(0x3))
	c.WriteRegister(multivoice.PortPCMData, uint8(s.LoopAddr))
	c.WriteRegister(multivoice.PortPCMAddr, sub(0x4))
	c.WriteRegister(multivoice.PortPCMData, uint8(s.LoopAddr>>8))

	loopByte := uint8(s.LoopAddr>>16) & 0x7F
	if s.AltLoop {
		loopByte |= 0x80
	}
	c.WriteRegister(multivoice.PortPCMAddr, sub(0x5))
	c.WriteRegister(multivoice.PortPCMData, loopByte)

	c.WriteRegister(multivoice.PortPCMAddr, sub(0x6))
	c.WriteRegister(multivoice.PortPCMData, uint8(s.EndAddr))
	c.WriteRegister(multivoice.PortPCMAddr, sub(0x7))
	c.WriteRegister(multivoice.PortPCMData, uint8(s.EndAddr>>8))
	c.WriteRegister(multivoice.PortPCMAddr, sub(0x8))
	c.WriteRegister(multivoice.PortPCMData, uint8(s.EndAddr>>16)&0x7F)
}

// pcmNibbleFor inverts pcmTab: the low nibble that selects slotIdx on the
// PCM port. Every fourth nibble value is unused (§6), same as fmTab. ok is
// false for a slot pcmTab does not address (every bank other than 0).
func pcmNibbleFor(slotIdx int) (uint8, bool) {
	pcmTab := [16]int{0, 4, 8, -1, 12, 16, 20, -1, 24, 28, 32, -1, 36, 40, 44, -1}
	for nibble, idx := range pcmTab {
		if idx == slotIdx {
			return uint8(nibble), true
		}
	}
	return 0, false
}

// groupNibble inverts fmTab: the low nibble that selects group g on the
// FM ports.
func groupNibble(g int) uint8 {
	fmTab := [16]int{0, 1, 2, -1, 3, 4, 5, -1, 6, 7, 8, -1, 9, 10, 11, -1}
	for nibble, idx := range fmTab {
		if idx == g {
			return uint8(nibble)
		}
	}
	return 0
}

func writeFM(c *multivoice.Chip, group, bank int, param, value uint8) {
	sub := param<<4 | groupNibble(group)
	addrPort := uint8(bank) * 2
	dataPort := addrPort + 1
	c.WriteRegister(addrPort, sub)
	c.WriteRegister(dataPort, value)
}

func writeTimer(c *multivoice.Chip, sub, value uint8) {
	c.WriteRegister(multivoice.PortTimerAddr, sub)
	c.WriteRegister(multivoice.PortTimerData, value)
}
