package rules

import "SquadSentinel/internal/model"

// ValidFormations lists every legal starter split (GK-DEF-MID-FWD).
// A legal lineup has exactly 11 starters: 1 GK, 3-5 DEF, 2-5 MID,
// 1-3 FWD.
var ValidFormations = []model.Formation{
	{1, 3, 4, 3},
	{1, 3, 5, 2},
	{1, 4, 3, 3},
	{1, 4, 4, 2},
	{1, 4, 5, 1},
	{1, 5, 3, 2},
	{1, 5, 4, 1},
	{1, 5, 2, 3},
}

// StartersSize is the number of scoring-eligible starters.
const StartersSize = 11

// BenchSize is the number of ordered auto-substitution slots.
const BenchSize = 4

// IsValidFormation reports whether the split is playable.
func IsValidFormation(f model.Formation) bool {
	if f[0]+f[1]+f[2]+f[3] != StartersSize {
		return false
	}
	for _, v := range ValidFormations {
		if v == f {
			return true
		}
	}
	return false
}
