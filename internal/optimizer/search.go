package optimizer

import (
	"context"
	"sort"

	"SquadSentinel/internal/model"
	"SquadSentinel/internal/rules"
)

// deadlineCheckEvery controls how often the search polls the context.
const deadlineCheckEvery = 4096

// search is one branch-and-bound run over a fixed candidate ordering.
// Bounding combines three prunes:
//   - objective: current score + the next slotsLeft scores (valid upper
//     bound because candidates are score-sorted),
//   - supply: every unfilled quota must still be coverable by suffix
//     players of that position,
//   - budget: current spend + the cheapest possible completion per
//     position (a lower bound on remaining cost).
type search struct {
	rules  rules.Rules
	cands  []scored
	budget int
	ctx    context.Context

	// suffixPos[i][pos] counts candidates at or after i per position.
	suffixPos [][5]int
	// prefixScore[i] is the score sum of candidates [0, i).
	prefixScore []float64
	// cheapPrefix[pos][n] is the sum of the n cheapest prices at pos.
	cheapPrefix [5][]int

	chosen    []int
	need      [5]int
	teamCount map[int]int
	spend     int
	score     float64

	best      []int
	bestScore float64
	haveBest  bool

	nodes    int
	timedOut bool
}

func newSearch(r rules.Rules, cands []scored, budgetTenths int, ctx context.Context) *search {
	s := &search{
		rules:     r,
		cands:     cands,
		budget:    budgetTenths,
		ctx:       ctx,
		teamCount: make(map[int]int),
	}
	for _, pos := range model.Positions {
		s.need[pos] = r.Quotas[pos]
	}

	n := len(cands)
	s.suffixPos = make([][5]int, n+1)
	for i := n - 1; i >= 0; i-- {
		s.suffixPos[i] = s.suffixPos[i+1]
		s.suffixPos[i][cands[i].player.Position]++
	}

	s.prefixScore = make([]float64, n+1)
	for i := 0; i < n; i++ {
		s.prefixScore[i+1] = s.prefixScore[i] + cands[i].score
	}

	var prices [5][]int
	for _, c := range cands {
		prices[c.player.Position] = append(prices[c.player.Position], c.player.Price)
	}
	for _, pos := range model.Positions {
		ps := prices[pos]
		// candidates are score-sorted, so sort prices ascending here
		sort.Ints(ps)
		prefix := make([]int, len(ps)+1)
		for i, p := range ps {
			prefix[i+1] = prefix[i] + p
		}
		s.cheapPrefix[pos] = prefix
	}
	return s
}

// seedGreedy installs a feasible incumbent so bounding bites early.
// It walks the score-sorted candidates, taking every player that keeps
// quota, team cap, and a cheapest-completion budget check satisfied.
func (s *search) seedGreedy() {
	need := s.need
	team := make(map[int]int)
	spend := 0
	var picked []int
	var score float64

	for _, c := range s.cands {
		pos := c.player.Position
		if need[pos] == 0 || team[c.player.Team] >= s.rules.TeamCap {
			continue
		}
		next := need
		next[pos]--
		if spend+c.player.Price+s.minCompletion(next) > s.budget {
			continue
		}
		picked = append(picked, c.player.ID)
		need = next
		team[c.player.Team]++
		spend += c.player.Price
		score += c.score
		if len(picked) == s.rules.SquadSize {
			break
		}
	}
	if len(picked) == s.rules.SquadSize {
		s.best = append([]int(nil), picked...)
		s.bestScore = score
		s.haveBest = true
	}
}

// minCompletion lower-bounds the cost of filling the remaining quotas.
func (s *search) minCompletion(need [5]int) int {
	total := 0
	for _, pos := range model.Positions {
		n := need[pos]
		if n > 0 {
			total += s.cheapPrefix[pos][n]
		}
	}
	return total
}

func (s *search) run() {
	if s.ctx.Err() != nil {
		s.timedOut = true
		return
	}
	s.dfs(0)
}

func (s *search) dfs(i int) {
	if s.timedOut {
		return
	}
	s.nodes++
	if s.nodes%deadlineCheckEvery == 0 && s.ctx.Err() != nil {
		s.timedOut = true
		return
	}

	if len(s.chosen) == s.rules.SquadSize {
		if !s.haveBest || s.score > s.bestScore {
			s.best = append(s.best[:0], s.chosen...)
			s.bestScore = s.score
			s.haveBest = true
		}
		return
	}
	if i >= len(s.cands) {
		return
	}

	// supply prune
	for _, pos := range model.Positions {
		if s.need[pos] > s.suffixPos[i][pos] {
			return
		}
	}

	// objective bound
	slotsLeft := s.rules.SquadSize - len(s.chosen)
	if i+slotsLeft <= len(s.cands) {
		bound := s.score + s.prefixScore[i+slotsLeft] - s.prefixScore[i]
		if s.haveBest && bound <= s.bestScore+1e-9 {
			return
		}
	}

	// budget prune
	if s.spend+s.minCompletion(s.need) > s.budget {
		return
	}

	c := s.cands[i]
	pos := c.player.Position

	// include branch first: with score-sorted candidates the first
	// complete solution found is the incumbent most likely to prune
	if s.need[pos] > 0 && s.teamCount[c.player.Team] < s.rules.TeamCap {
		nextNeed := s.need
		nextNeed[pos]--
		if s.spend+c.player.Price+s.minCompletion(nextNeed) <= s.budget {
			s.chosen = append(s.chosen, c.player.ID)
			s.need = nextNeed
			s.teamCount[c.player.Team]++
			s.spend += c.player.Price
			s.score += c.score

			s.dfs(i + 1)

			s.chosen = s.chosen[:len(s.chosen)-1]
			s.need[pos]++
			s.teamCount[c.player.Team]--
			s.spend -= c.player.Price
			s.score -= c.score
		}
	}

	s.dfs(i + 1)
}
