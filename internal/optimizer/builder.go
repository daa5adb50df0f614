// Package optimizer selects a legal squad maximizing total weighted
// score. The problem is a 0/1 integer program: one binary per player,
// objective Σ score·x, constraints on size, budget, position quotas,
// and the per-team cap. At this size (≤ ~700 binaries, few dozen
// constraints) a bounded branch-and-bound with a relaxation bound
// solves it well inside the interactive latency budget.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"SquadSentinel/internal/model"
	"SquadSentinel/internal/rules"
)

var (
	// ErrInfeasible means no legal squad exists under the constraints.
	ErrInfeasible = errors.New("no feasible squad")
	// ErrTimeout means the wall-clock budget ran out before the search
	// finished. A feasible squad may exist; the caller decides whether
	// to retry with a relaxed objective.
	ErrTimeout = errors.New("solver timeout")
)

// Weights is the convex combination applied to each player's factor
// scores when building the objective.
type Weights struct {
	Points  float64 `yaml:"points"`
	Form    float64 `yaml:"form"`
	Fixture float64 `yaml:"fixture"`
	Value   float64 `yaml:"value"`
}

// DefaultWeights mirror the tuning the planner was calibrated with.
func DefaultWeights() Weights {
	return Weights{Points: 1.0, Form: 0.3, Fixture: 0.2, Value: 0.1}
}

// Score computes the weighted objective contribution of one player.
func (w Weights) Score(p model.Player) float64 {
	return w.Points*p.Forecast + w.Form*p.Form + w.Fixture*p.FixtureEase + w.Value*p.Value
}

// Builder runs the squad-selection integer program.
type Builder struct {
	Rules   rules.Rules
	Weights Weights
}

// NewBuilder creates a Builder.
func NewBuilder(r rules.Rules, w Weights) *Builder {
	return &Builder{Rules: r, Weights: w}
}

// Build selects the best legal squad under the configured budget
// ceiling. The context deadline is the hard wall-clock bound.
func (b *Builder) Build(ctx context.Context, cat *model.Catalog) (model.Roster, error) {
	return b.BuildWithBudget(ctx, cat, b.Rules.BudgetTenths)
}

// BuildWithBudget is Build under an explicit budget envelope, used by
// wildcard and free-hit rebuilds that are bound to current squad value.
func (b *Builder) BuildWithBudget(ctx context.Context, cat *model.Catalog, budgetTenths int) (model.Roster, error) {
	cands := b.candidates(cat)

	if err := b.precheck(cands, budgetTenths); err != nil {
		return nil, err
	}

	s := newSearch(b.Rules, cands, budgetTenths, ctx)
	s.seedGreedy()
	s.run()

	if s.timedOut {
		return nil, fmt.Errorf("%w after %d nodes", ErrTimeout, s.nodes)
	}
	if !s.haveBest {
		return nil, fmt.Errorf("%w: team cap and budget cannot be satisfied together", ErrInfeasible)
	}
	return model.NewRoster(s.best), nil
}

// candidates filters to available players with a known position and
// fixes the search order: score descending, then lowest ID. The fixed
// order is what makes repeated runs on identical input reproducible.
func (b *Builder) candidates(cat *model.Catalog) []scored {
	out := make([]scored, 0, len(cat.Players))
	for _, p := range cat.Players {
		if !p.Available || !p.Position.Valid() {
			continue
		}
		out = append(out, scored{player: p, score: b.Weights.Score(p)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].player.ID < out[j].player.ID
	})
	return out
}

// precheck reports obvious infeasibility with the violated rule, before
// any search runs: per-position supply and the cheapest possible squad.
func (b *Builder) precheck(cands []scored, budgetTenths int) error {
	supply := map[model.Position]int{}
	cheapest := map[model.Position][]int{}
	for _, c := range cands {
		supply[c.player.Position]++
		cheapest[c.player.Position] = append(cheapest[c.player.Position], c.player.Price)
	}
	minSpend := 0
	for _, pos := range model.Positions {
		need := b.Rules.Quotas[pos]
		if supply[pos] < need {
			return fmt.Errorf("%w: %v", ErrInfeasible,
				&rules.Violation{Rule: rules.RulePositionQuota,
					Detail: fmt.Sprintf("%s: only %d eligible players, need %d", pos, supply[pos], need)})
		}
		prices := cheapest[pos]
		sort.Ints(prices)
		for i := 0; i < need; i++ {
			minSpend += prices[i]
		}
	}
	if minSpend > budgetTenths {
		return fmt.Errorf("%w: %v", ErrInfeasible,
			&rules.Violation{Rule: rules.RuleBudget,
				Detail: fmt.Sprintf("cheapest legal squad costs %.1f, budget %.1f",
					float64(minSpend)/10, float64(budgetTenths)/10)})
	}
	return nil
}

type scored struct {
	player model.Player
	score  float64
}
