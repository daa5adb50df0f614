package catalog

import (
	"fmt"
	"log"
	"strconv"

	"SquadSentinel/internal/model"
)

// fixtureHorizon is how many upcoming fixtures feed the ease score.
const fixtureHorizon = 5

// Collector turns raw provider payloads into a scored per-period
// Catalog: each player carries a forecast, form, fixture-ease, and
// value score ready for the optimizers.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches the bootstrap and fixture payloads and builds the
// catalog for the upcoming period.
func (c *Collector) Collect() (*model.Catalog, error) {
	bs, err := c.Fetcher.FetchBootstrap()
	if err != nil {
		return nil, fmt.Errorf("fetch bootstrap: %w", err)
	}
	fixtures, err := c.Fetcher.FetchFixtures()
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures: %w", err)
	}

	period := nextPeriod(bs.Events)
	ease := teamFixtureEase(fixtures, period)

	players := make([]model.Player, 0, len(bs.Elements))
	for _, el := range bs.Elements {
		pos := model.Position(el.ElementType)
		if !pos.Valid() {
			log.Printf("[WARN] skipping element %d with unknown type %d", el.ID, el.ElementType)
			continue
		}
		p := model.Player{
			ID:        el.ID,
			Name:      el.WebName,
			Team:      el.Team,
			Position:  pos,
			Price:     el.NowCost,
			Available: el.Status == "a",
			News:      el.News,
		}
		p.Form = parseFloat(el.Form)
		p.FixtureEase = ease[el.Team]
		if el.NowCost > 0 {
			p.Value = float64(el.TotalPoints) / (float64(el.NowCost) / 10)
		}
		p.Forecast = forecast(el, p)
		players = append(players, p)
	}

	return model.NewCatalog(period, players), nil
}

// CaptainOutlook estimates the best captain forecast for upcoming
// periods from fixture ease: the triple-captain lookahead needs a rough
// per-period ceiling, not a full projection.
func (c *Collector) CaptainOutlook(cat *model.Catalog, fixtures []RawFixture, window int) []float64 {
	out := make([]float64, 0, window)
	for off := 1; off <= window; off++ {
		ease := teamFixtureEase(fixtures, cat.Period+off)
		best := 0.0
		for _, p := range cat.Players {
			if !p.Available {
				continue
			}
			// scale today's forecast by the future period's ease
			f := p.Forecast * (0.5 + ease[p.Team])
			if f > best {
				best = f
			}
		}
		out = append(out, best)
	}
	return out
}

// forecast blends the provider's own next-event estimate with per-game
// scoring and form, zeroed for unavailable players. The methodology is
// deliberately simple; the engine treats it as an injected scalar.
func forecast(el RawElement, p model.Player) float64 {
	if !p.Available {
		return 0
	}
	if ep := parseFloat(el.EPNext); ep > 0 {
		return ep
	}
	ppg := parseFloat(el.PointsPerGame)
	base := 0.6*ppg + 0.4*p.Form
	// ease in [0,1]; shift so a neutral fixture leaves base untouched
	return base * (0.75 + 0.5*p.FixtureEase)
}

// teamFixtureEase averages inverted fixture difficulty over the next
// fixtureHorizon gameweeks per team, mapped to [0,1].
func teamFixtureEase(fixtures []RawFixture, fromPeriod int) map[int]float64 {
	sums := map[int]float64{}
	counts := map[int]int{}
	for _, f := range fixtures {
		if f.Finished || f.Event < fromPeriod || f.Event >= fromPeriod+fixtureHorizon {
			continue
		}
		sums[f.TeamH] += easeOf(f.TeamHDiff)
		counts[f.TeamH]++
		sums[f.TeamA] += easeOf(f.TeamADiff)
		counts[f.TeamA]++
	}
	ease := make(map[int]float64, len(sums))
	for team, sum := range sums {
		ease[team] = sum / float64(counts[team])
	}
	return ease
}

// easeOf inverts the 1 (very easy) to 5 (very hard) difficulty scale.
func easeOf(difficulty int) float64 {
	if difficulty < 1 {
		return 0.5
	}
	return float64(5-difficulty) / 4
}

func nextPeriod(events []RawEvent) int {
	for _, e := range events {
		if e.IsNext {
			return e.ID
		}
	}
	for _, e := range events {
		if e.IsCurrent {
			return e.ID
		}
	}
	return 1
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
