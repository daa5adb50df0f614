// Package transfers proposes squad changes for the coming period,
// trading expected forecast gain against the hit cost of exceeding the
// free-transfer bank.
package transfers

import (
	"context"
	"fmt"
	"sort"

	"SquadSentinel/internal/model"
	"SquadSentinel/internal/optimizer"
	"SquadSentinel/internal/rules"
)

// candidatesPerPosition bounds how many incoming players are considered
// per position slot; the long tail never beats the squad anyway.
const candidatesPerPosition = 20

// Plan is the outcome of one planning run. Roster is the post-swap
// squad; the caller's roster is never mutated.
type Plan struct {
	Swaps     []model.Transfer
	Roster    model.Roster
	BankAfter int
	HitCost   int
	NetGain   float64
	Wildcard  bool
}

// Planner evaluates and filters candidate swaps.
type Planner struct {
	Rules      rules.Rules
	Builder    *optimizer.Builder
	MinGain    float64 // minimum per-swap forecast gain
	MaxHitCost int     // ceiling on cumulative hit points per period
}

// NewPlanner creates a Planner sharing the roster builder for wildcard
// rebuilds.
func NewPlanner(r rules.Rules, b *optimizer.Builder, minGain float64, maxHitCost int) *Planner {
	return &Planner{Rules: r, Builder: b, MinGain: minGain, MaxHitCost: maxHitCost}
}

// Plan ranks like-for-like swaps by forecast delta and greedily accepts
// them while each swap clears the minimum-gain threshold, the cumulative
// hit cost stays under the ceiling, and the running net gain (total gain
// minus hits) still clears the threshold. Every accepted swap re-validates
// the full constraint model on the evolving roster. An empty swap list is
// a valid plan.
//
// budgetTenths is the envelope the post-swap squad must fit: current
// squad value plus unspent cash, which drifts from the season ceiling
// as prices move.
func (pl *Planner) Plan(roster model.Roster, cat *model.Catalog, ts model.TransferState, budgetTenths int) (*Plan, error) {
	if err := pl.Rules.ValidateRosterWithBudget(roster, cat, budgetTenths); err != nil {
		return nil, fmt.Errorf("current roster: %w", err)
	}

	budget := budgetTenths
	cands := pl.rankCandidates(roster, cat)

	plan := &Plan{Roster: roster.Clone(), BankAfter: ts.Bank}
	usedOut := map[int]bool{}
	usedIn := map[int]bool{}
	accepted := 0
	totalGain := 0.0

	for _, c := range cands {
		if c.gain < pl.MinGain {
			break // ranked descending, nothing later qualifies
		}
		if usedOut[c.out.ID] || usedIn[c.in.ID] {
			continue
		}

		hit := 0
		if accepted+1 > ts.Bank {
			hit = ts.HitCost
		}
		if plan.HitCost+hit > pl.MaxHitCost {
			continue
		}
		if net := totalGain + c.gain - float64(plan.HitCost+hit); net < pl.MinGain {
			continue
		}
		if err := pl.Rules.CheckSwap(plan.Roster, c.out.ID, c.in.ID, cat, budget); err != nil {
			continue
		}

		plan.Roster = plan.Roster.WithSwap(c.out.ID, c.in.ID)
		plan.HitCost += hit
		totalGain += c.gain
		accepted++
		plan.Swaps = append(plan.Swaps, model.Transfer{
			Out:        c.out.ID,
			In:         c.in.ID,
			OutName:    c.out.Name,
			InName:     c.in.Name,
			Gain:       c.gain,
			HitCost:    hit,
			PriceDelta: c.in.Price - c.out.Price,
			Reasoning:  c.reasoning,
		})
	}

	plan.NetGain = totalGain - float64(plan.HitCost)
	plan.BankAfter = ts.Bank - accepted
	if plan.BankAfter < 0 {
		plan.BankAfter = 0
	}
	return plan, nil
}

// Wildcard rebuilds the squad from scratch over the current budget
// envelope (squad value plus unspent cash, not the season ceiling),
// with hit-cost and transfer-count limits suspended. The caller is
// responsible for consuming the wildcard chip.
func (pl *Planner) Wildcard(ctx context.Context, roster model.Roster, cat *model.Catalog, ts model.TransferState, budgetTenths int) (*Plan, error) {
	if err := pl.Rules.ValidateRosterWithBudget(roster, cat, budgetTenths); err != nil {
		return nil, fmt.Errorf("current roster: %w", err)
	}

	rebuilt, err := pl.Builder.BuildWithBudget(ctx, cat, budgetTenths)
	if err != nil {
		return nil, fmt.Errorf("wildcard rebuild: %w", err)
	}

	plan := &Plan{Roster: rebuilt, BankAfter: ts.Bank, Wildcard: true}
	plan.Swaps = diffSwaps(roster, rebuilt, cat)
	for _, s := range plan.Swaps {
		plan.NetGain += s.Gain
	}
	return plan, nil
}

type candidate struct {
	out, in   model.Player
	gain      float64
	reasoning string
}

// rankCandidates pairs each squad player with the strongest available
// players in the same position and ranks all pairs by forecast delta.
// Like-for-like generation keeps quotas intact by construction; the
// full re-validation at accept time still guards team cap and budget.
func (pl *Planner) rankCandidates(roster model.Roster, cat *model.Catalog) []candidate {
	squadByPos := map[model.Position][]model.Player{}
	inSquad := map[int]bool{}
	for _, id := range roster {
		p := cat.Player(id)
		squadByPos[p.Position] = append(squadByPos[p.Position], *p)
		inSquad[id] = true
	}

	poolByPos := map[model.Position][]model.Player{}
	for _, p := range cat.Players {
		if !p.Available || inSquad[p.ID] {
			continue
		}
		poolByPos[p.Position] = append(poolByPos[p.Position], p)
	}
	for pos := range poolByPos {
		pool := poolByPos[pos]
		sort.Slice(pool, func(i, j int) bool {
			if pool[i].Forecast != pool[j].Forecast {
				return pool[i].Forecast > pool[j].Forecast
			}
			return pool[i].ID < pool[j].ID
		})
		if len(pool) > candidatesPerPosition {
			poolByPos[pos] = pool[:candidatesPerPosition]
		}
	}

	var cands []candidate
	for _, pos := range model.Positions {
		for _, out := range squadByPos[pos] {
			for _, in := range poolByPos[pos] {
				gain := in.Forecast - out.Forecast
				if gain <= 0 {
					continue
				}
				cands = append(cands, candidate{
					out:       out,
					in:        in,
					gain:      gain,
					reasoning: reasonFor(out, in, gain),
				})
			}
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].gain != cands[j].gain {
			return cands[i].gain > cands[j].gain
		}
		if cands[i].out.ID != cands[j].out.ID {
			return cands[i].out.ID < cands[j].out.ID
		}
		return cands[i].in.ID < cands[j].in.ID
	})
	return cands
}

func reasonFor(out, in model.Player, gain float64) string {
	switch {
	case !out.Available:
		return fmt.Sprintf("replaces unavailable player (%s)", out.News)
	case in.Form > out.Form:
		return fmt.Sprintf("better form (%.1f vs %.1f)", in.Form, out.Form)
	default:
		return fmt.Sprintf("higher expected points (+%.1f)", gain)
	}
}

// diffSwaps pairs outgoing and incoming players position by position so
// a wildcard rebuild still reports auditable (out, in) pairs.
func diffSwaps(before, after model.Roster, cat *model.Catalog) []model.Transfer {
	afterSet := map[int]bool{}
	for _, id := range after {
		afterSet[id] = true
	}
	beforeSet := map[int]bool{}
	for _, id := range before {
		beforeSet[id] = true
	}

	outs := map[model.Position][]model.Player{}
	ins := map[model.Position][]model.Player{}
	for _, id := range before {
		if !afterSet[id] {
			p := cat.Player(id)
			outs[p.Position] = append(outs[p.Position], *p)
		}
	}
	for _, id := range after {
		if !beforeSet[id] {
			p := cat.Player(id)
			ins[p.Position] = append(ins[p.Position], *p)
		}
	}

	var swaps []model.Transfer
	for _, pos := range model.Positions {
		o, n := outs[pos], ins[pos]
		for i := 0; i < len(o) && i < len(n); i++ {
			swaps = append(swaps, model.Transfer{
				Out:        o[i].ID,
				In:         n[i].ID,
				OutName:    o[i].Name,
				InName:     n[i].Name,
				Gain:       n[i].Forecast - o[i].Forecast,
				PriceDelta: n[i].Price - o[i].Price,
				Reasoning:  "wildcard rebuild",
			})
		}
	}
	return swaps
}
