// snapshot.go - read-only debug introspection, grounded on the teacher's
// MachineSnapshot / TakeSnapshot pattern but scoped to a plain in-memory
// copy rather than save/load-to-disk (no equivalent host use case here).

package multivoice

// SlotState is a read-only copy of one slot's register-backed and
// dynamic fields, for monitors and tests.
type SlotState struct {
	Group, Bank int
	Waveform    uint8
	Algorithm   uint8
	Active      bool
	EnvState    int
	Volume      int64
	Stepptr     uint64
	Keycode     int
}

// GroupState is a read-only copy of one group's sync configuration.
type GroupState struct {
	Index int
	Sync  uint8
	PFM   bool
	Muted bool
}

// ChipState is a full point-in-time snapshot of a Chip, independent of
// the live Chip once returned.
type ChipState struct {
	Slots     [NumSlots]SlotState
	Groups    [NumGroups]GroupState
	StatusReg uint8
	EndStatus uint16
	TimerA    uint16
	TimerB    uint8
}

// Snapshot captures the current state of every slot and group, along
// with timer and status registers.
func (c *Chip) Snapshot() ChipState {
	c.mu.Lock()
	defer c.mu.Unlock()

	var st ChipState
	for i := range c.slots {
		s := &c.slots[i]
		st.Slots[i] = SlotState{
			Group:     s.group,
			Bank:      s.bank,
			Waveform:  s.waveform,
			Algorithm: s.algorithm,
			Active:    s.active,
			EnvState:  s.envState,
			Volume:    s.volume,
			Stepptr:   s.stepptr,
			Keycode:   s.keycode(),
		}
	}
	for i := range c.groups {
		g := &c.groups[i]
		st.Groups[i] = GroupState{Index: g.index, Sync: g.sync, PFM: g.pfm, Muted: g.muted}
	}
	st.StatusReg = c.statusReg
	st.EndStatus = c.endStatus
	st.TimerA = c.timerA
	st.TimerB = c.timerB
	return st
}
