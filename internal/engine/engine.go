// Package engine runs one period's complete decision cycle: transfer
// planning, lineup selection, chip scheduling, and assembly of the
// auditable decision record. The cycle is pure given its inputs — it
// holds no state across periods and never mutates caller state on
// failure.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"SquadSentinel/internal/chips"
	"SquadSentinel/internal/lineup"
	"SquadSentinel/internal/model"
	"SquadSentinel/internal/optimizer"
	"SquadSentinel/internal/rules"
	"SquadSentinel/internal/transfers"
)

// ErrInvalidState means the caller-supplied season state violates an
// invariant; it is rejected before any optimization runs.
var ErrInvalidState = errors.New("invalid season state")

// BankCap is the free-transfer bank saturation limit.
const BankCap = 5

// Engine composes the four sub-problems for one period.
type Engine struct {
	Rules        rules.Rules
	Builder      *optimizer.Builder
	Planner      *transfers.Planner
	Chips        *chips.Scheduler
	SolveTimeout time.Duration
}

// Input carries everything one period's decision needs. CaptainOutlook
// is the best-captain forecast for upcoming periods (index 0 = next),
// consumed by the triple-captain lookahead.
type Input struct {
	Catalog        *model.Catalog
	State          model.SeasonState
	CaptainOutlook []float64
}

// RunPeriod makes the full decision for in.Catalog.Period. On success it
// returns the decision record and the post-decision season state; on any
// error the input state is returned unchanged alongside the error.
func (e *Engine) RunPeriod(ctx context.Context, in Input) (*model.DecisionRecord, model.SeasonState, error) {
	cat := in.Catalog
	state := in.State.Clone()

	if err := e.validateState(&state, cat); err != nil {
		return nil, in.State, err
	}

	envelope := state.Roster.SpendTenths(cat) + state.CashTenths

	solveCtx := ctx
	if e.SolveTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, e.SolveTimeout)
		defer cancel()
	}

	// unconstrained rebuild over the same envelope; the free-hit and
	// wildcard policies compare against it
	rebuild, err := e.Builder.BuildWithBudget(solveCtx, cat, envelope)
	if err != nil {
		return nil, in.State, fmt.Errorf("rebuild comparison: %w", err)
	}

	plan, err := e.Planner.Plan(state.Roster, cat, state.Transfers, envelope)
	if err != nil {
		return nil, in.State, err
	}

	sel, err := lineup.Select(plan.Roster, cat)
	if err != nil {
		return nil, in.State, err
	}

	chip := e.Chips.Decide(chips.Input{
		Period:          cat.Period,
		Inventory:       state.Chips,
		BenchForecast:   sel.BenchScore,
		CaptainForecast: captainForecast(sel, cat),
		CaptainOutlook:  in.CaptainOutlook,
		RosterForecast:  forecastSum(state.Roster, cat),
		RebuildForecast: forecastSum(rebuild, cat),
		SquadIssues:     unavailableCount(state.Roster, cat),
	})

	persistRoster := true
	switch chip {
	case model.ChipWildcard:
		plan, err = e.Planner.Wildcard(solveCtx, state.Roster, cat, state.Transfers, envelope)
		if err != nil {
			return nil, in.State, err
		}
		sel, err = lineup.Select(plan.Roster, cat)
		if err != nil {
			return nil, in.State, err
		}
	case model.ChipFreeHit:
		// one-period squad: play the rebuild, revert next period
		plan = &transfers.Plan{Roster: rebuild, BankAfter: state.Transfers.Bank}
		sel, err = lineup.Select(rebuild, cat)
		if err != nil {
			return nil, in.State, err
		}
		persistRoster = false
	case model.ChipBenchBoost:
		sel.ExpectedScore += sel.BenchScore
	case model.ChipTripleCaptain:
		sel.ExpectedScore += captainForecast(sel, cat)
	}

	if chip != model.ChipNone {
		if err := state.Chips.Use(chip, cat.Period); err != nil {
			return nil, in.State, fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
	}

	if persistRoster {
		state.Roster = plan.Roster
		state.CashTenths = envelope - plan.Roster.SpendTenths(cat)
	}
	state.Transfers.Bank = plan.BankAfter
	state.TotalExpected += sel.ExpectedScore - float64(plan.HitCost)

	rec := &model.DecisionRecord{
		ID:            uuid.NewString(),
		Period:        cat.Period,
		Roster:        plan.Roster.Clone(),
		Lineup:        *sel,
		Transfers:     plan.Swaps,
		Chip:          chip,
		HitCost:       plan.HitCost,
		NetGain:       plan.NetGain,
		ExpectedScore: sel.ExpectedScore - float64(plan.HitCost),
		BankAfter:     plan.BankAfter,
		SpendTenths:   plan.Roster.SpendTenths(cat),
		GeneratedAt:   time.Now(),
	}
	return rec, state, nil
}

// BuildInitial constructs the season-opening squad under the full
// budget ceiling and returns the squad plus its first lineup.
func (e *Engine) BuildInitial(ctx context.Context, cat *model.Catalog) (model.Roster, *model.Lineup, error) {
	solveCtx := ctx
	if e.SolveTimeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, e.SolveTimeout)
		defer cancel()
	}
	roster, err := e.Builder.Build(solveCtx, cat)
	if err != nil {
		return nil, nil, err
	}
	sel, err := lineup.Select(roster, cat)
	if err != nil {
		return nil, nil, err
	}
	return roster, sel, nil
}

func (e *Engine) validateState(state *model.SeasonState, cat *model.Catalog) error {
	if err := state.Validate(BankCap); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	envelope := state.Roster.SpendTenths(cat) + state.CashTenths
	if err := e.Rules.ValidateRosterWithBudget(state.Roster, cat, envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}

func captainForecast(l *model.Lineup, cat *model.Catalog) float64 {
	if p := cat.Player(l.Captain); p != nil {
		return p.Forecast
	}
	return 0
}

func forecastSum(roster model.Roster, cat *model.Catalog) float64 {
	total := 0.0
	for _, id := range roster {
		if p := cat.Player(id); p != nil {
			total += p.Forecast
		}
	}
	return total
}

func unavailableCount(roster model.Roster, cat *model.Catalog) int {
	n := 0
	for _, id := range roster {
		if p := cat.Player(id); p != nil && !p.Available {
			n++
		}
	}
	return n
}
