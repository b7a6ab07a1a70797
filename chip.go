// chip.go - chip-level state, construction, collaborator attach points and
// Reset (§3 Chip, §5, §6). The register entry points are in registers.go
// and the per-block update loop is in mix.go.

package multivoice

import "sync"

// Config configures a Chip at construction, mirroring how the teacher's
// NewSoundChip(backend int) takes a small literal configuration.
type Config struct {
	ClockHz    uint32 // chip master clock; 0 defaults to stdClock
	SampleRate int    // output sample rate; 0 defaults to 44100
}

// Chip is a self-contained 48-slot tone generator. Multiple instances
// coexist with no shared mutable state (§9); the lookup tables built in
// init() are read-only and safe to share.
type Chip struct {
	mu sync.Mutex // serialises the three entry points (§5); host must not call them concurrently anyway

	clockHz    uint32
	sampleRate int
	rates      *rateTables

	slots  [NumSlots]Slot
	groups [NumGroups]Group

	timerA       uint16 // 10-bit
	timerB       uint8
	enableReg    uint8
	statusReg    uint8
	irqState     bool
	endStatus    uint16 // 12 slot-leader PCM end markers (bit per group)

	extAddress    uint32
	extRW         bool
	extReadLatch  byte
	busy          bool

	rom ROM
	irq IRQCallback
	log Logger

	// Register-decode latches, one sub-address per port pair (§6).
	fmSubAddr   [4]uint8
	pcmSubAddr  uint8
	timerSubAddr uint8

	// Per-block mix buffers, sized by the last Update(n) call.
	directMix []int32 // N*4 channels, interleaved ch0..ch3
	accMix    []int32
}

// NewChip constructs a Chip with its lookup tables and default
// collaborators (a zero-length ROM, a no-op IRQ sink, the standard
// library logger).
func NewChip(cfg Config) *Chip {
	if cfg.ClockHz == 0 {
		cfg.ClockHz = stdClock
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 44100
	}

	c := &Chip{
		clockHz:    cfg.ClockHz,
		sampleRate: cfg.SampleRate,
		rates:      newRateTables(cfg.ClockHz, cfg.SampleRate),
		rom:        NewROM(nil),
		irq:        func(bool) {},
		log:        defaultLogger(),
	}
	for i := range c.slots {
		c.slots[i] = Slot{group: i / NumBanks, bank: i % NumBanks, loopDirection: 1}
	}
	for i := range c.groups {
		c.groups[i] = Group{index: i}
	}
	return c
}

// AttachROM installs the external PCM memory region (§1, §6). Must not be
// called concurrently with Update.
func (c *Chip) AttachROM(rom ROM) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rom == nil {
		rom = NewROM(nil)
	}
	c.rom = rom
}

// AttachIRQCallback installs the level-sensitive IRQ sink (§6).
func (c *Chip) AttachIRQCallback(cb IRQCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cb == nil {
		cb = func(bool) {}
	}
	c.irq = cb
}

// AttachLogger installs the debug log sink (§7).
func (c *Chip) AttachLogger(l Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l == nil {
		l = defaultLogger()
	}
	c.log = l
}

// Reset clears all slots, groups, timers, status and mix buffers back to
// power-on state. Calling Reset twice in a row is idempotent and the next
// Update emits silence (§8 invariant 9).
func (c *Chip) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.slots {
		c.slots[i].reset()
	}
	for i := range c.groups {
		c.groups[i].reset()
	}
	c.timerA = 0
	c.timerB = 0
	c.enableReg = 0
	c.statusReg = 0
	c.setIRQLocked(false)
	c.endStatus = 0
	c.extAddress = 0
	c.extRW = false
	c.extReadLatch = 0
	c.busy = false
	c.fmSubAddr = [4]uint8{}
	c.pcmSubAddr = 0
	c.timerSubAddr = 0
	for i := range c.directMix {
		c.directMix[i] = 0
	}
	for i := range c.accMix {
		c.accMix[i] = 0
	}
}

func (c *Chip) setIRQLocked(asserted bool) {
	if c.irqState == asserted {
		return
	}
	c.irqState = asserted
	c.irq(asserted)
}

func (c *Chip) slot(g, b int) *Slot { return &c.slots[g*NumBanks+b] }
