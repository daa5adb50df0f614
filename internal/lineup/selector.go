// Package lineup picks the scoring-eligible starting 11 from a fixed
// 15-player roster, the captain and vice-captain, and the bench order.
package lineup

import (
	"errors"
	"fmt"
	"sort"

	"SquadSentinel/internal/model"
	"SquadSentinel/internal/rules"
)

// ErrNoLegalLineup means the roster cannot field any valid formation.
// A roster satisfying the squad quotas always can; this surfaces only
// on invalid input.
var ErrNoLegalLineup = errors.New("no legal lineup for roster")

// Select chooses the best-scoring legal lineup by enumerating the
// fixed formation table: for each formation, the starters are the top
// forecast players per position, and the best total wins. The search
// space is tiny (8 formations × a sort), so this is exhaustive, not
// heuristic. Captain is the highest-forecast starter, vice the second;
// whether the captain actually plays is a later-arriving external
// signal, not predicted here.
func Select(roster model.Roster, cat *model.Catalog) (*model.Lineup, error) {
	byPos := map[model.Position][]model.Player{}
	for _, id := range roster {
		p := cat.Player(id)
		if p == nil {
			return nil, fmt.Errorf("%w: player %d not in catalog", ErrNoLegalLineup, id)
		}
		byPos[p.Position] = append(byPos[p.Position], *p)
	}
	for pos := range byPos {
		players := byPos[pos]
		sort.Slice(players, func(i, j int) bool {
			if players[i].Forecast != players[j].Forecast {
				return players[i].Forecast > players[j].Forecast
			}
			return players[i].ID < players[j].ID
		})
	}

	var best *model.Lineup
	for _, f := range rules.ValidFormations {
		starters, score, ok := pickFormation(f, byPos)
		if !ok {
			continue
		}
		if best == nil || score > best.BaseScore {
			best = &model.Lineup{
				Starters:  starters,
				Formation: f,
				BaseScore: score,
			}
		}
	}
	if best == nil {
		return nil, ErrNoLegalLineup
	}

	fillBench(best, roster, cat)
	pickCaptains(best, cat)

	// captain counts twice
	best.ExpectedScore = best.BaseScore
	if c := cat.Player(best.Captain); c != nil {
		best.ExpectedScore += c.Forecast
	}
	return best, nil
}

func pickFormation(f model.Formation, byPos map[model.Position][]model.Player) ([]int, float64, bool) {
	starters := make([]int, 0, rules.StartersSize)
	score := 0.0
	for i, pos := range model.Positions {
		players := byPos[pos]
		if len(players) < f[i] {
			return nil, 0, false
		}
		for _, p := range players[:f[i]] {
			starters = append(starters, p.ID)
			score += p.Forecast
		}
	}
	return starters, score, true
}

// fillBench orders the four non-starters: backup keeper first (the
// auto-sub rules only ever swap keeper for keeper), then descending
// forecast. The external execution step consumes this order.
func fillBench(l *model.Lineup, roster model.Roster, cat *model.Catalog) {
	starting := make(map[int]bool, len(l.Starters))
	for _, id := range l.Starters {
		starting[id] = true
	}

	var keepers, outfield []model.Player
	for _, id := range roster {
		if starting[id] {
			continue
		}
		p := cat.Player(id)
		if p.Position == model.Goalkeeper {
			keepers = append(keepers, *p)
		} else {
			outfield = append(outfield, *p)
		}
	}
	sort.Slice(outfield, func(i, j int) bool {
		if outfield[i].Forecast != outfield[j].Forecast {
			return outfield[i].Forecast > outfield[j].Forecast
		}
		return outfield[i].ID < outfield[j].ID
	})

	l.Bench = l.Bench[:0]
	l.BenchScore = 0
	for _, p := range keepers {
		l.Bench = append(l.Bench, p.ID)
		l.BenchScore += p.Forecast
	}
	for _, p := range outfield {
		l.Bench = append(l.Bench, p.ID)
		l.BenchScore += p.Forecast
	}
}

func pickCaptains(l *model.Lineup, cat *model.Catalog) {
	bestID, secondID := 0, 0
	bestF, secondF := -1.0, -1.0
	for _, id := range l.Starters {
		f := cat.Player(id).Forecast
		switch {
		case f > bestF || (f == bestF && id < bestID):
			secondID, secondF = bestID, bestF
			bestID, bestF = id, f
		case f > secondF || (f == secondF && id < secondID):
			secondID, secondF = id, f
		}
	}
	l.Captain = bestID
	l.Vice = secondID
}
