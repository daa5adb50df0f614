package transfers

import (
	"context"
	"math"
	"testing"

	"SquadSentinel/internal/model"
	"SquadSentinel/internal/optimizer"
	"SquadSentinel/internal/rules"
)

// plannerCatalog builds a 15-player squad plus a transfer pool. Every
// player costs 50 and sits on their own team, so only forecast deltas
// drive the plan. Squad forecasts are flat 4.0; pool forecasts are set
// per test via the extra players.
func plannerCatalog(pool ...model.Player) (*model.Catalog, model.Roster) {
	var players []model.Player
	var ids []int
	id, team := 1, 1
	add := func(pos model.Position, n int) {
		for i := 0; i < n; i++ {
			players = append(players, model.Player{
				ID: id, Team: team, Position: pos, Price: 50, Forecast: 4.0, Available: true,
			})
			ids = append(ids, id)
			id++
			team++
		}
	}
	add(model.Goalkeeper, 2)
	add(model.Defender, 5)
	add(model.Midfielder, 5)
	add(model.Forward, 3)

	players = append(players, pool...)
	return model.NewCatalog(1, players), model.NewRoster(ids)
}

func poolPlayer(id int, pos model.Position, forecast float64) model.Player {
	return model.Player{
		ID: id, Team: 100 + id, Position: pos, Price: 50, Forecast: forecast, Available: true,
	}
}

func newTestPlanner(minGain float64, maxHit int) *Planner {
	r := rules.Default()
	return NewPlanner(r, optimizer.NewBuilder(r, optimizer.DefaultWeights()), minGain, maxHit)
}

func TestPlan_SecondSwapTakesHit(t *testing.T) {
	cat, roster := plannerCatalog(
		poolPlayer(101, model.Midfielder, 9.0), // +5 over any squad midfielder
		poolPlayer(102, model.Forward, 9.0),    // +5 over any squad forward
	)
	pl := newTestPlanner(3.0, 8)
	ts := model.TransferState{Bank: 1, HitCost: 4}

	plan, err := pl.Plan(roster, cat, ts, roster.SpendTenths(cat))
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	if len(plan.Swaps) != 2 {
		t.Fatalf("expected 2 swaps, got %d: %+v", len(plan.Swaps), plan.Swaps)
	}
	if plan.Swaps[0].HitCost != 0 {
		t.Errorf("first swap uses the free transfer, got hit %d", plan.Swaps[0].HitCost)
	}
	if plan.Swaps[1].HitCost != 4 {
		t.Errorf("second swap should cost the hit, got %d", plan.Swaps[1].HitCost)
	}
	if plan.HitCost != 4 {
		t.Errorf("total hit = %d, want 4", plan.HitCost)
	}
	if math.Abs(plan.NetGain-6.0) > 1e-9 {
		t.Errorf("net gain = %v, want 10 - 4 = 6", plan.NetGain)
	}
	if plan.BankAfter != 0 {
		t.Errorf("bank after = %d, want 0", plan.BankAfter)
	}
}

func TestPlan_EmptyPlanIsValid(t *testing.T) {
	// best available gain is +1, below the threshold
	cat, roster := plannerCatalog(poolPlayer(101, model.Forward, 5.0))
	pl := newTestPlanner(3.0, 8)
	ts := model.TransferState{Bank: 2, HitCost: 4}

	plan, err := pl.Plan(roster, cat, ts, roster.SpendTenths(cat))
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if len(plan.Swaps) != 0 {
		t.Fatalf("expected no swaps, got %+v", plan.Swaps)
	}
	if plan.HitCost != 0 || plan.NetGain != 0 {
		t.Errorf("empty plan should carry no cost, got hit=%d gain=%v", plan.HitCost, plan.NetGain)
	}
	if plan.BankAfter != 2 {
		t.Errorf("unused bank should carry over, got %d", plan.BankAfter)
	}
}

func TestPlan_HitCeilingRespected(t *testing.T) {
	// three +8 upgrades on an empty bank: two hits fit under the
	// ceiling of 8, the third would breach it
	cat, roster := plannerCatalog(
		poolPlayer(101, model.Defender, 12.0),
		poolPlayer(102, model.Midfielder, 12.0),
		poolPlayer(103, model.Forward, 12.0),
	)
	pl := newTestPlanner(3.0, 8)
	ts := model.TransferState{Bank: 0, HitCost: 4}

	plan, err := pl.Plan(roster, cat, ts, roster.SpendTenths(cat))
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if len(plan.Swaps) != 2 {
		t.Fatalf("expected 2 swaps under the hit ceiling, got %d", len(plan.Swaps))
	}
	if plan.HitCost > 8 {
		t.Errorf("hit cost %d exceeds ceiling 8", plan.HitCost)
	}
	if plan.BankAfter != 0 {
		t.Errorf("bank must never go negative, got %d", plan.BankAfter)
	}
}

func TestPlan_ResultStaysLegal(t *testing.T) {
	cat, roster := plannerCatalog(
		poolPlayer(101, model.Midfielder, 9.0),
		poolPlayer(102, model.Forward, 9.0),
		poolPlayer(103, model.Defender, 8.0),
	)
	pl := newTestPlanner(3.0, 8)
	ts := model.TransferState{Bank: 3, HitCost: 4}
	envelope := roster.SpendTenths(cat)

	plan, err := pl.Plan(roster, cat, ts, envelope)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if err := pl.Rules.ValidateRosterWithBudget(plan.Roster, cat, envelope); err != nil {
		t.Errorf("planned roster is illegal: %v", err)
	}
	if roster.Contains(101) || roster.Contains(102) {
		t.Error("input roster was mutated")
	}
}

func TestPlan_IllegalInputRejected(t *testing.T) {
	cat, roster := plannerCatalog()
	pl := newTestPlanner(3.0, 8)

	_, err := pl.Plan(roster[:14], cat, model.TransferState{Bank: 1, HitCost: 4}, 1000)
	if err == nil {
		t.Fatal("expected error for 14-player roster")
	}
}

func TestWildcard_RebuildsWithinEnvelope(t *testing.T) {
	cat, roster := plannerCatalog(
		poolPlayer(101, model.Midfielder, 9.0),
		poolPlayer(102, model.Forward, 9.0),
	)
	pl := newTestPlanner(3.0, 8)
	ts := model.TransferState{Bank: 1, HitCost: 4}
	envelope := roster.SpendTenths(cat)

	plan, err := pl.Wildcard(context.Background(), roster, cat, ts, envelope)
	if err != nil {
		t.Fatalf("wildcard failed: %v", err)
	}
	if !plan.Wildcard {
		t.Error("plan should be flagged as a wildcard rebuild")
	}
	if plan.HitCost != 0 {
		t.Errorf("wildcard swaps are free, got hit %d", plan.HitCost)
	}
	if len(plan.Roster) != 15 {
		t.Fatalf("rebuild returned %d players", len(plan.Roster))
	}
	if spend := plan.Roster.SpendTenths(cat); spend > envelope {
		t.Errorf("rebuild spend %d exceeds envelope %d", spend, envelope)
	}
	if !plan.Roster.Contains(101) || !plan.Roster.Contains(102) {
		t.Errorf("rebuild should pick up the strong pool players, got %v", plan.Roster)
	}
	if plan.BankAfter != ts.Bank {
		t.Errorf("wildcard must not touch the bank, got %d", plan.BankAfter)
	}
	if len(plan.Swaps) == 0 {
		t.Error("rebuild should report the out/in pairs")
	}
}
