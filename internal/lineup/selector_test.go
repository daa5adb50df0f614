package lineup

import (
	"errors"
	"math"
	"testing"

	"SquadSentinel/internal/model"
	"SquadSentinel/internal/rules"
)

// squadCatalog returns a full 15-player squad: 2 GK, 5 DEF, 5 MID,
// 3 FWD, forecasts descending within each position.
func squadCatalog() (*model.Catalog, model.Roster) {
	players := []model.Player{
		{ID: 1, Team: 1, Position: model.Goalkeeper, Price: 45, Forecast: 4.5, Available: true},
		{ID: 2, Team: 2, Position: model.Goalkeeper, Price: 40, Forecast: 3.0, Available: true},
	}
	id, team := 10, 10
	add := func(pos model.Position, n int, topForecast float64) {
		for i := 0; i < n; i++ {
			players = append(players, model.Player{
				ID:        id,
				Team:      team,
				Position:  pos,
				Price:     50,
				Forecast:  topForecast - float64(i),
				Available: true,
			})
			id++
			team++
		}
	}
	add(model.Defender, 5, 5.0)
	add(model.Midfielder, 5, 7.0)
	add(model.Forward, 3, 9.0)

	ids := make([]int, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return model.NewCatalog(1, players), model.NewRoster(ids)
}

func TestSelect_PartitionsRoster(t *testing.T) {
	cat, roster := squadCatalog()
	l, err := Select(roster, cat)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}

	if len(l.Starters) != rules.StartersSize {
		t.Errorf("expected %d starters, got %d", rules.StartersSize, len(l.Starters))
	}
	if len(l.Bench) != rules.BenchSize {
		t.Errorf("expected %d bench players, got %d", rules.BenchSize, len(l.Bench))
	}
	if !rules.IsValidFormation(l.Formation) {
		t.Errorf("formation %v not in the legal table", l.Formation)
	}

	seen := map[int]bool{}
	for _, id := range append(append([]int{}, l.Starters...), l.Bench...) {
		if seen[id] {
			t.Errorf("player %d appears twice in lineup", id)
		}
		seen[id] = true
		if !roster.Contains(id) {
			t.Errorf("player %d not in roster", id)
		}
	}
	if len(seen) != len(roster) {
		t.Errorf("lineup covers %d players, roster has %d", len(seen), len(roster))
	}
}

func TestSelect_CaptainAndVice(t *testing.T) {
	cat, roster := squadCatalog()
	l, err := Select(roster, cat)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}

	if l.Captain == l.Vice {
		t.Fatal("captain and vice must differ")
	}
	inStarters := func(id int) bool {
		for _, s := range l.Starters {
			if s == id {
				return true
			}
		}
		return false
	}
	if !inStarters(l.Captain) || !inStarters(l.Vice) {
		t.Fatal("captain and vice must both start")
	}

	// the top forward carries forecast 9.0, the best in the squad
	if l.Captain != 20 {
		t.Errorf("expected captain 20, got %d", l.Captain)
	}
	capF := cat.Player(l.Captain).Forecast
	for _, id := range l.Starters {
		if cat.Player(id).Forecast > capF {
			t.Errorf("starter %d outscores the captain", id)
		}
	}
}

func TestSelect_BackupKeeperLeadsBench(t *testing.T) {
	cat, roster := squadCatalog()
	l, err := Select(roster, cat)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if got := cat.Player(l.Bench[0]).Position; got != model.Goalkeeper {
		t.Errorf("bench[0] should be the backup keeper, got %s", got)
	}
	// outfield bench ordered by descending forecast
	for i := 2; i < len(l.Bench); i++ {
		if cat.Player(l.Bench[i]).Forecast > cat.Player(l.Bench[i-1]).Forecast {
			t.Errorf("bench out of order at %d: %v", i, l.Bench)
		}
	}
}

func TestSelect_CaptainCountsTwice(t *testing.T) {
	cat, roster := squadCatalog()
	l, err := Select(roster, cat)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	want := l.BaseScore + cat.Player(l.Captain).Forecast
	if math.Abs(l.ExpectedScore-want) > 1e-9 {
		t.Errorf("ExpectedScore = %v, want BaseScore + captain = %v", l.ExpectedScore, want)
	}
	if l.BenchScore <= 0 {
		t.Errorf("expected positive bench score, got %v", l.BenchScore)
	}
}

func TestSelect_PicksBestFormation(t *testing.T) {
	cat, roster := squadCatalog()
	// forwards well ahead of the weakest defenders: expect all three up front
	l, err := Select(roster, cat)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if l.Formation[3] != 3 {
		t.Errorf("expected 3 forwards in formation, got %v", l.Formation)
	}
}

func TestSelect_NoKeeperIsIllegal(t *testing.T) {
	cat, roster := squadCatalog()
	// strip the keepers out of the roster
	var outfield []int
	for _, id := range roster {
		if cat.Player(id).Position != model.Goalkeeper {
			outfield = append(outfield, id)
		}
	}
	_, err := Select(model.NewRoster(outfield), cat)
	if !errors.Is(err, ErrNoLegalLineup) {
		t.Fatalf("expected ErrNoLegalLineup, got %v", err)
	}
}

func TestSelect_UnknownPlayerIsIllegal(t *testing.T) {
	cat, roster := squadCatalog()
	_, err := Select(roster.WithSwap(20, 999), cat)
	if !errors.Is(err, ErrNoLegalLineup) {
		t.Fatalf("expected ErrNoLegalLineup, got %v", err)
	}
}
