package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"SquadSentinel/internal/chips"
	"SquadSentinel/internal/model"
	"SquadSentinel/internal/optimizer"
	"SquadSentinel/internal/rules"
	"SquadSentinel/internal/transfers"
)

// quietThresholds never trigger any chip.
func quietThresholds() chips.Thresholds {
	return chips.Thresholds{
		BenchBoostMin:       1e9,
		TripleCaptainMin:    1e9,
		TripleCaptainWindow: 5,
		FreeHitDeficit:      1e9,
		WildcardIssues:      1 << 30,
	}
}

func newTestEngine(t chips.Thresholds) *Engine {
	r := rules.Default()
	b := optimizer.NewBuilder(r, optimizer.DefaultWeights())
	return &Engine{
		Rules:        r,
		Builder:      b,
		Planner:      transfers.NewPlanner(r, b, 3.0, 8),
		Chips:        chips.New(t, nil, nil),
		SolveTimeout: 5 * time.Second,
	}
}

// engineCatalog builds a flat-forecast 15-player squad (every player
// costs 50, own team) plus any extra pool players.
func engineCatalog(pool ...model.Player) (*model.Catalog, model.SeasonState) {
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

	state := model.SeasonState{
		Period:       3,
		Roster:       model.NewRoster(ids),
		BudgetTenths: 1000,
		CashTenths:   0,
		Transfers:    model.TransferState{Bank: 1, HitCost: 4},
		Chips:        model.NewChipInventory(),
	}
	return model.NewCatalog(3, players), state
}

func poolPlayer(id int, pos model.Position, forecast float64) model.Player {
	return model.Player{
		ID: id, Team: 100 + id, Position: pos, Price: 50, Forecast: forecast, Available: true,
	}
}

func TestRunPeriod_InvalidStateFailFast(t *testing.T) {
	e := newTestEngine(quietThresholds())
	cat, state := engineCatalog()
	state.Transfers.Bank = 7 // above the cap

	rec, out, err := e.RunPeriod(context.Background(), Input{Catalog: cat, State: state})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if rec != nil {
		t.Error("no record should be produced on failure")
	}
	if out.Transfers.Bank != 7 {
		t.Errorf("input state must come back unchanged, bank = %d", out.Transfers.Bank)
	}
}

func TestRunPeriod_BrokenChipInventoryRejected(t *testing.T) {
	e := newTestEngine(quietThresholds())
	cat, state := engineCatalog()
	state.Chips.Remaining[model.ChipWildcard] = 3

	_, _, err := e.RunPeriod(context.Background(), Input{Catalog: cat, State: state})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestRunPeriod_TransferConsumesBank(t *testing.T) {
	e := newTestEngine(quietThresholds())
	cat, state := engineCatalog(poolPlayer(101, model.Forward, 9.0))

	rec, next, err := e.RunPeriod(context.Background(), Input{Catalog: cat, State: state})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(rec.Transfers) != 1 {
		t.Fatalf("expected one swap, got %+v", rec.Transfers)
	}
	if rec.HitCost != 0 {
		t.Errorf("free transfer should not cost a hit, got %d", rec.HitCost)
	}
	if next.Transfers.Bank != 0 {
		t.Errorf("bank should be spent, got %d", next.Transfers.Bank)
	}
	if !next.Roster.Contains(101) {
		t.Errorf("upgrade missing from new roster: %v", next.Roster)
	}
	if state.Roster.Contains(101) {
		t.Error("caller state was mutated")
	}
	if rec.ID == "" {
		t.Error("decision record needs an id")
	}
	if rec.Period != 3 {
		t.Errorf("record period = %d, want 3", rec.Period)
	}
	if err := e.Rules.ValidateRosterWithBudget(next.Roster, cat, next.Roster.SpendTenths(cat)+next.CashTenths); err != nil {
		t.Errorf("next roster is illegal: %v", err)
	}
}

func TestRunPeriod_BenchBoostConsumesChip(t *testing.T) {
	th := quietThresholds()
	th.BenchBoostMin = 0
	e := newTestEngine(th)
	cat, state := engineCatalog()

	rec, next, err := e.RunPeriod(context.Background(), Input{Catalog: cat, State: state})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if rec.Chip != model.ChipBenchBoost {
		t.Fatalf("expected bench boost, got %q", rec.Chip)
	}
	if next.Chips.Remaining[model.ChipBenchBoost] != model.MaxChipUses-1 {
		t.Errorf("chip not consumed: %d", next.Chips.Remaining[model.ChipBenchBoost])
	}
	if state.Chips.Remaining[model.ChipBenchBoost] != model.MaxChipUses {
		t.Error("caller inventory was mutated")
	}
	if rec.Lineup.ExpectedScore <= rec.Lineup.BaseScore+rec.Lineup.BenchScore-1e-9 {
		t.Errorf("bench boost should add the bench forecast, score %v", rec.Lineup.ExpectedScore)
	}
}

func TestRunPeriod_FreeHitDoesNotPersistRoster(t *testing.T) {
	th := quietThresholds()
	th.FreeHitDeficit = 10
	e := newTestEngine(th)
	// rebuild clears the deficit comfortably: three strong stand-ins
	cat, state := engineCatalog(
		poolPlayer(101, model.Forward, 12.0),
		poolPlayer(102, model.Midfielder, 12.0),
		poolPlayer(103, model.Defender, 12.0),
	)
	before := state.Roster.Clone()

	rec, next, err := e.RunPeriod(context.Background(), Input{Catalog: cat, State: state})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if rec.Chip != model.ChipFreeHit {
		t.Fatalf("expected free hit, got %q", rec.Chip)
	}
	if next.Chips.Remaining[model.ChipFreeHit] != model.MaxChipUses-1 {
		t.Errorf("chip not consumed: %d", next.Chips.Remaining[model.ChipFreeHit])
	}
	// the one-period squad appears in the record only
	if !rec.Roster.Contains(101) {
		t.Errorf("record should carry the rebuilt squad: %v", rec.Roster)
	}
	if len(next.Roster) != len(before) {
		t.Fatalf("persistent roster resized: %v", next.Roster)
	}
	for i := range before {
		if next.Roster[i] != before[i] {
			t.Fatalf("persistent roster changed: %v vs %v", next.Roster, before)
		}
	}
}

func TestRunPeriod_WildcardRebuildsRoster(t *testing.T) {
	th := quietThresholds()
	th.WildcardIssues = 3
	e := newTestEngine(th)
	cat, state := engineCatalog(
		poolPlayer(101, model.Defender, 6.0),
		poolPlayer(102, model.Defender, 6.0),
		poolPlayer(103, model.Defender, 6.0),
	)
	// three injured defenders trigger the wildcard
	for i := range cat.Players {
		switch cat.Players[i].ID {
		case 3, 4, 5:
			cat.Players[i].Available = false
			cat.Players[i].Forecast = 0
		}
	}
	cat = model.NewCatalog(cat.Period, cat.Players)

	rec, next, err := e.RunPeriod(context.Background(), Input{Catalog: cat, State: state})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if rec.Chip != model.ChipWildcard {
		t.Fatalf("expected wildcard, got %q", rec.Chip)
	}
	if rec.HitCost != 0 {
		t.Errorf("wildcard transfers are free, got hit %d", rec.HitCost)
	}
	for _, id := range []int{3, 4, 5} {
		if next.Roster.Contains(id) {
			t.Errorf("injured player %d survived the rebuild", id)
		}
	}
	if next.Chips.Remaining[model.ChipWildcard] != model.MaxChipUses-1 {
		t.Errorf("chip not consumed: %d", next.Chips.Remaining[model.ChipWildcard])
	}
}

func TestBuildInitial(t *testing.T) {
	e := newTestEngine(quietThresholds())
	cat, _ := engineCatalog(poolPlayer(101, model.Forward, 9.0))

	roster, sel, err := e.BuildInitial(context.Background(), cat)
	if err != nil {
		t.Fatalf("initial build failed: %v", err)
	}
	if len(roster) != 15 {
		t.Fatalf("expected 15 players, got %d", len(roster))
	}
	if err := e.Rules.ValidateRoster(roster, cat); err != nil {
		t.Errorf("initial squad illegal: %v", err)
	}
	if sel == nil || len(sel.Starters) != 11 {
		t.Fatalf("expected a full lineup, got %+v", sel)
	}
	if !roster.Contains(101) {
		t.Errorf("best forward missing from initial squad: %v", roster)
	}
}
