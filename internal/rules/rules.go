// Package rules holds the pure structural-legality checks shared by
// every optimizer: squad size, position quotas, budget ceiling, and
// the per-team cap. The optimizers build these into their search as
// constraints; the checks here also validate inputs and outputs.
package rules

import (
	"fmt"

	"SquadSentinel/internal/model"
)

// Rule names a specific legality constraint.
type Rule string

const (
	RuleSquadSize     Rule = "squad_size"
	RulePositionQuota Rule = "position_quota"
	RuleBudget        Rule = "budget"
	RuleTeamCap       Rule = "team_cap"
	RuleUnknownPlayer Rule = "unknown_player"
	RuleDuplicate     Rule = "duplicate_player"
)

// Violation reports which rule a candidate squad breaks.
type Violation struct {
	Rule   Rule
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("rule %s violated: %s", v.Rule, v.Detail)
}

// Rules is the structural configuration every squad must satisfy.
type Rules struct {
	SquadSize    int
	Quotas       map[model.Position]int
	TeamCap      int
	BudgetTenths int
}

// Default returns the standard FPL rule set with a £100.0m ceiling.
func Default() Rules {
	return Rules{
		SquadSize: 15,
		Quotas: map[model.Position]int{
			model.Goalkeeper: 2,
			model.Defender:   5,
			model.Midfielder: 5,
			model.Forward:    3,
		},
		TeamCap:      3,
		BudgetTenths: 1000,
	}
}

// ValidateRoster checks all four roster invariants against the catalog.
// It returns nil or the first *Violation found, checking in a fixed
// order: size, membership, quotas, team cap, budget.
func (r Rules) ValidateRoster(roster model.Roster, cat *model.Catalog) error {
	return r.validate(roster, cat, r.BudgetTenths)
}

// ValidateRosterWithBudget is ValidateRoster under an explicit budget
// envelope, used by wildcard rebuilds bound to current squad value.
func (r Rules) ValidateRosterWithBudget(roster model.Roster, cat *model.Catalog, budgetTenths int) error {
	return r.validate(roster, cat, budgetTenths)
}

func (r Rules) validate(roster model.Roster, cat *model.Catalog, budgetTenths int) error {
	if len(roster) != r.SquadSize {
		return &Violation{RuleSquadSize, fmt.Sprintf("have %d players, need %d", len(roster), r.SquadSize)}
	}

	seen := make(map[int]bool, len(roster))
	posCount := make(map[model.Position]int, len(r.Quotas))
	teamCount := make(map[int]int)
	spend := 0

	for _, id := range roster {
		if seen[id] {
			return &Violation{RuleDuplicate, fmt.Sprintf("player %d appears twice", id)}
		}
		seen[id] = true

		p := cat.Player(id)
		if p == nil {
			return &Violation{RuleUnknownPlayer, fmt.Sprintf("player %d not in catalog", id)}
		}
		posCount[p.Position]++
		teamCount[p.Team]++
		spend += p.Price
	}

	for _, pos := range model.Positions {
		if posCount[pos] != r.Quotas[pos] {
			return &Violation{RulePositionQuota,
				fmt.Sprintf("%s: have %d, need %d", pos, posCount[pos], r.Quotas[pos])}
		}
	}
	for team, n := range teamCount {
		if n > r.TeamCap {
			return &Violation{RuleTeamCap, fmt.Sprintf("team %d has %d players, cap %d", team, n, r.TeamCap)}
		}
	}
	if spend > budgetTenths {
		return &Violation{RuleBudget,
			fmt.Sprintf("spend %.1f exceeds budget %.1f", float64(spend)/10, float64(budgetTenths)/10)}
	}
	return nil
}

// CheckSwap validates a single player swap against the catalog and a
// budget envelope. Same-position swaps preserve quotas automatically;
// cross-position swaps fall out of the full re-validation.
func (r Rules) CheckSwap(roster model.Roster, out, in int, cat *model.Catalog, budgetTenths int) error {
	if !roster.Contains(out) {
		return &Violation{RuleUnknownPlayer, fmt.Sprintf("player %d not in roster", out)}
	}
	if roster.Contains(in) {
		return &Violation{RuleDuplicate, fmt.Sprintf("player %d already in roster", in)}
	}
	return r.validate(roster.WithSwap(out, in), cat, budgetTenths)
}
