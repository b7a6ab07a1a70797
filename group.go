// group.go - per-group state (§3).

package multivoice

// Group is a set of four slots that may be combined as FM operators, PCM
// voices, or a mix of both depending on sync.
type Group struct {
	index int
	sync  uint8 // 0..3, see Sync* constants
	pfm   bool  // only honoured on groups 0, 4, 8
	muted bool
}

// pfmEligible reports whether this group's index is one of the three
// groups with extended PFM routing.
func (g *Group) pfmEligible() bool {
	return g.index == 0 || g.index == 4 || g.index == 8
}

func (g *Group) pfmActive() bool {
	return g.pfm && g.pfmEligible() && g.sync != Sync4PCM
}

func (g *Group) reset() {
	idx := g.index
	*g = Group{index: idx}
}
