// Package chips decides whether to deploy one of the four single-use
// special actions in the current period. Each kind is usable at most
// twice per season, respects configured blackout periods, and at most
// one chip is active in any period.
package chips

import (
	"SquadSentinel/internal/model"
)

// Thresholds hold the per-kind activation tuning. These are product
// configuration, not algorithmic content; defaults follow the values
// the strategy was calibrated with.
type Thresholds struct {
	BenchBoostMin       float64 `yaml:"bench_boost_min"`       // forecast bench sum
	TripleCaptainMin    float64 `yaml:"triple_captain_min"`    // captain forecast
	TripleCaptainWindow int     `yaml:"triple_captain_window"` // lookahead periods
	FreeHitDeficit      float64 `yaml:"free_hit_deficit"`      // rebuild − roster forecast
	WildcardIssues      int     `yaml:"wildcard_issues"`       // unavailable squad players
}

// DefaultThresholds returns the calibrated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BenchBoostMin:       20.0,
		TripleCaptainMin:    10.0,
		TripleCaptainWindow: 5,
		FreeHitDeficit:      15.0,
		WildcardIssues:      5,
	}
}

// DefaultPriority fixes the tie-break when several kinds are eligible
// in the same period. Simultaneous eligibility is rare; the order just
// has to be deterministic.
var DefaultPriority = []model.ChipKind{
	model.ChipWildcard,
	model.ChipFreeHit,
	model.ChipBenchBoost,
	model.ChipTripleCaptain,
}

// Input is everything the scheduler reads for one period. Forecast
// aggregates are computed by the decision cycle; the scheduler itself
// holds no state.
type Input struct {
	Period    int
	Inventory model.ChipInventory

	BenchForecast   float64
	CaptainForecast float64
	// CaptainOutlook is the best-captain forecast for upcoming periods,
	// index 0 = next period. Only a bounded window is consulted; later
	// forecasts are too unreliable to gate a scarce resource on.
	CaptainOutlook []float64

	RosterForecast  float64 // current legal roster, this period
	RebuildForecast float64 // unconstrained rebuild, this period
	SquadIssues     int     // unavailable players on the roster
}

// Scheduler applies the per-kind policies in priority order.
type Scheduler struct {
	Thresholds Thresholds
	Blackouts  map[model.ChipKind][]int
	Priority   []model.ChipKind
}

// New creates a Scheduler; nil priority falls back to DefaultPriority.
func New(t Thresholds, blackouts map[model.ChipKind][]int, priority []model.ChipKind) *Scheduler {
	if len(priority) == 0 {
		priority = DefaultPriority
	}
	return &Scheduler{Thresholds: t, Blackouts: blackouts, Priority: priority}
}

// Decide returns the single chip to play this period, or ChipNone.
// It never consumes inventory; the caller decrements on activation.
func (s *Scheduler) Decide(in Input) model.ChipKind {
	for _, kind := range s.Priority {
		if !in.Inventory.Available(kind) {
			continue
		}
		if s.blackedOut(kind, in.Period) {
			continue
		}
		if s.eligible(kind, in) {
			return kind
		}
	}
	return model.ChipNone
}

func (s *Scheduler) blackedOut(kind model.ChipKind, period int) bool {
	for _, p := range s.Blackouts[kind] {
		if p == period {
			return true
		}
	}
	return false
}

func (s *Scheduler) eligible(kind model.ChipKind, in Input) bool {
	switch kind {
	case model.ChipBenchBoost:
		return in.BenchForecast >= s.Thresholds.BenchBoostMin
	case model.ChipTripleCaptain:
		if in.CaptainForecast < s.Thresholds.TripleCaptainMin {
			return false
		}
		// never burn the chip on a period a near-future one will beat
		window := s.Thresholds.TripleCaptainWindow
		for i, f := range in.CaptainOutlook {
			if i >= window {
				break
			}
			if f > in.CaptainForecast {
				return false
			}
		}
		return true
	case model.ChipFreeHit:
		return in.RebuildForecast-in.RosterForecast >= s.Thresholds.FreeHitDeficit
	case model.ChipWildcard:
		return in.SquadIssues >= s.Thresholds.WildcardIssues
	default:
		return false
	}
}
