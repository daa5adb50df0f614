package model

import (
	"fmt"
	"sort"
	"time"
)

// Roster is the 15-player squad, kept sorted by player ID so that
// identical squads always serialize identically.
type Roster []int

// NewRoster copies and sorts ids into a Roster.
func NewRoster(ids []int) Roster {
	r := make(Roster, len(ids))
	copy(r, ids)
	sort.Ints(r)
	return r
}

// Contains reports whether id is in the roster.
func (r Roster) Contains(id int) bool {
	for _, v := range r {
		if v == id {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	copy(out, r)
	return out
}

// WithSwap returns a new roster with out replaced by in.
func (r Roster) WithSwap(out, in int) Roster {
	next := make([]int, 0, len(r))
	for _, id := range r {
		if id == out {
			continue
		}
		next = append(next, id)
	}
	next = append(next, in)
	return NewRoster(next)
}

// SpendTenths sums roster prices against the catalog. Players missing
// from the catalog contribute zero; callers validate membership first.
func (r Roster) SpendTenths(cat *Catalog) int {
	total := 0
	for _, id := range r {
		if p := cat.Player(id); p != nil {
			total += p.Price
		}
	}
	return total
}

// TransferState is the rolling free-transfer bank plus the hit rate.
type TransferState struct {
	Bank    int `json:"bank"`     // free transfers in hand, [0, cap]
	HitCost int `json:"hit_cost"` // points per transfer beyond the bank
}

// SeasonState is everything carried between periods. It is owned by the
// season manager and handed to the decision cycle by value.
type SeasonState struct {
	Period        int           `json:"period"`
	Roster        Roster        `json:"roster"`
	BudgetTenths  int           `json:"budget_tenths"` // season ceiling, initial build only
	CashTenths    int           `json:"cash_tenths"`   // unspent, drifts as prices move
	Transfers     TransferState `json:"transfers"`
	Chips         ChipInventory `json:"chips"`
	TotalExpected float64       `json:"total_expected"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Validate checks the season-level invariants that do not need a
// catalog: bank range and chip inventory range. Roster legality is the
// rules package's job.
func (s *SeasonState) Validate(bankCap int) error {
	if s.Transfers.Bank < 0 || s.Transfers.Bank > bankCap {
		return fmt.Errorf("transfer bank %d outside [0,%d]", s.Transfers.Bank, bankCap)
	}
	if err := s.Chips.Validate(); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy so the decision cycle can work on scratch
// state without touching the caller's copy.
func (s SeasonState) Clone() SeasonState {
	out := s
	out.Roster = s.Roster.Clone()
	out.Chips = s.Chips.Clone()
	return out
}
