package model

import "fmt"

// ChipKind identifies one of the four single-use special actions.
// Values follow the provider's chip names.
type ChipKind string

const (
	ChipNone          ChipKind = ""
	ChipWildcard      ChipKind = "wildcard"
	ChipFreeHit       ChipKind = "freehit"
	ChipBenchBoost    ChipKind = "bboost"
	ChipTripleCaptain ChipKind = "3xc"
)

// ChipKinds lists all playable chips.
var ChipKinds = []ChipKind{ChipWildcard, ChipFreeHit, ChipBenchBoost, ChipTripleCaptain}

// MaxChipUses is the per-kind season allowance (one per half).
const MaxChipUses = 2

// ChipInventory tracks remaining uses per kind and the periods each
// kind was played in. Consumption only ever decrements.
type ChipInventory struct {
	Remaining map[ChipKind]int   `json:"remaining"`
	Used      map[ChipKind][]int `json:"used"`
}

// NewChipInventory returns a full inventory (2 uses of each kind).
func NewChipInventory() ChipInventory {
	inv := ChipInventory{
		Remaining: make(map[ChipKind]int, len(ChipKinds)),
		Used:      make(map[ChipKind][]int, len(ChipKinds)),
	}
	for _, k := range ChipKinds {
		inv.Remaining[k] = MaxChipUses
	}
	return inv
}

// Available reports whether kind still has uses left.
func (inv ChipInventory) Available(kind ChipKind) bool {
	return inv.Remaining[kind] > 0
}

// Use consumes one charge of kind for the given period.
func (inv *ChipInventory) Use(kind ChipKind, period int) error {
	if inv.Remaining[kind] <= 0 {
		return fmt.Errorf("chip %s: no uses remaining", kind)
	}
	inv.Remaining[kind]--
	inv.Used[kind] = append(inv.Used[kind], period)
	return nil
}

// Validate checks the [0, MaxChipUses] invariant for every kind.
func (inv ChipInventory) Validate() error {
	for _, k := range ChipKinds {
		if n, ok := inv.Remaining[k]; ok && (n < 0 || n > MaxChipUses) {
			return fmt.Errorf("chip %s: remaining %d outside [0,%d]", k, n, MaxChipUses)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (inv ChipInventory) Clone() ChipInventory {
	out := ChipInventory{
		Remaining: make(map[ChipKind]int, len(inv.Remaining)),
		Used:      make(map[ChipKind][]int, len(inv.Used)),
	}
	for k, v := range inv.Remaining {
		out.Remaining[k] = v
	}
	for k, v := range inv.Used {
		periods := make([]int, len(v))
		copy(periods, v)
		out.Used[k] = periods
	}
	return out
}
