package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"SquadSentinel/internal/catalog"
	"SquadSentinel/internal/engine"
	"SquadSentinel/internal/model"
	"SquadSentinel/internal/notifier"
	"SquadSentinel/internal/recorder"
	"SquadSentinel/internal/season"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron          *cron.Cron
	Collector     *catalog.Collector
	Engine        *engine.Engine
	Season        *season.Manager
	Notifier      *notifier.TelegramNotifier
	Recorder      recorder.Recorder
	OutlookWindow int
	Ctx           context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *catalog.Collector, eng *engine.Engine, sm *season.Manager, tn *notifier.TelegramNotifier, rec recorder.Recorder, outlookWindow int) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Collector:     col,
		Engine:        eng,
		Season:        sm,
		Notifier:      tn,
		Recorder:      rec,
		OutlookWindow: outlookWindow,
		Ctx:           ctx,
	}
}

// RegisterAll registers the gameweek decision task and the daily
// availability check.
func (s *Scheduler) RegisterAll(gameweekCron, dailyCron string) error {
	if _, err := s.Cron.AddFunc(gameweekCron, s.gameweekTask); err != nil {
		return fmt.Errorf("register gameweek task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyCheck); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunGameweekNow executes the gameweek task immediately (for manual
// trigger / RUN_ON_START).
func (s *Scheduler) RunGameweekNow() {
	s.gameweekTask()
}

func (s *Scheduler) gameweekTask() {
	log.Println("[INFO] running gameweek task")
	cat, err := s.Collector.Collect()
	if err != nil {
		log.Printf("[ERROR] gameweek collect: %v", err)
		s.trySend(fmt.Sprintf("❌ gameweek data collection failed: %v", err))
		return
	}

	if !s.Season.HasRoster() {
		s.buildInitialSquad(cat)
		return
	}

	fixtures, err := s.Collector.Fetcher.FetchFixtures()
	if err != nil {
		log.Printf("[ERROR] fetch fixtures for outlook: %v", err)
		fixtures = nil
	}

	state := s.Season.Snapshot()
	rec, next, err := s.Engine.RunPeriod(s.Ctx, engine.Input{
		Catalog:        cat,
		State:          state,
		CaptainOutlook: s.Collector.CaptainOutlook(cat, fixtures, s.OutlookWindow),
	})
	if err != nil {
		log.Printf("[ERROR] gameweek decision: %v", err)
		s.trySend(fmt.Sprintf("❌ GW%d decision failed: %v", cat.Period, err))
		if rerr := s.Recorder.RecordAlert(cat.Period, "DECISION_FAILED", err.Error()); rerr != nil {
			log.Printf("[ERROR] record alert: %v", rerr)
		}
		return
	}

	s.Season.Commit(next)
	s.Season.AdvancePeriod()

	report := notifier.FormatDecisionReport(rec, cat)
	report += "\n" + notifier.FormatChipStatus(next.Chips)
	s.trySend(report)

	if err := s.Recorder.RecordDecision(rec); err != nil {
		log.Printf("[ERROR] record decision: %v", err)
	}
	log.Printf("[INFO] GW%d decided: %d transfers, chip=%q, expected %.1f",
		rec.Period, len(rec.Transfers), rec.Chip, rec.ExpectedScore)
}

// buildInitialSquad runs the one-time season-opening build.
func (s *Scheduler) buildInitialSquad(cat *model.Catalog) {
	log.Printf("[INFO] no squad on file, building initial squad for GW%d", cat.Period)
	roster, sel, err := s.Engine.BuildInitial(s.Ctx, cat)
	if err != nil {
		log.Printf("[ERROR] initial build: %v", err)
		s.trySend(fmt.Sprintf("❌ initial squad build failed: %v", err))
		return
	}

	spend := roster.SpendTenths(cat)
	s.Season.SetInitialRoster(roster, spend)

	rec := &model.DecisionRecord{
		ID:            uuid.NewString(),
		Period:        cat.Period,
		Roster:        roster,
		Lineup:        *sel,
		ExpectedScore: sel.ExpectedScore,
		BankAfter:     s.Season.Snapshot().Transfers.Bank,
		SpendTenths:   spend,
		GeneratedAt:   time.Now(),
	}
	s.trySend("🏁 <b>Initial squad built</b>\n\n" + notifier.FormatDecisionReport(rec, cat))

	if err := s.Recorder.RecordDecision(rec); err != nil {
		log.Printf("[ERROR] record initial build: %v", err)
	}
}

func (s *Scheduler) dailyCheck() {
	log.Println("[INFO] running daily availability check")
	if !s.Season.HasRoster() {
		return
	}
	cat, err := s.Collector.Collect()
	if err != nil {
		log.Printf("[ERROR] daily collect: %v", err)
		return
	}

	state := s.Season.Snapshot()
	var flagged []string
	for _, id := range state.Roster {
		p := cat.Player(id)
		if p == nil || p.Available {
			continue
		}
		note := p.Name
		if p.News != "" {
			note += ": " + p.News
		}
		flagged = append(flagged, note)
	}
	if len(flagged) == 0 {
		return
	}

	detail := strings.Join(flagged, "; ")
	s.trySend(fmt.Sprintf("⚠️ <b>Availability alert</b> | GW%d\n\n%d squad player(s) flagged:\n• %s",
		cat.Period, len(flagged), strings.Join(flagged, "\n• ")))
	if err := s.Recorder.RecordAlert(cat.Period, "AVAILABILITY", detail); err != nil {
		log.Printf("[ERROR] record alert: %v", err)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/gameweek":
		s.gameweekTask()
		return ""
	case "/squad":
		cat, err := s.Collector.Collect()
		if err != nil {
			return fmt.Sprintf("❌ data collection failed: %v", err)
		}
		state := s.Season.Snapshot()
		if len(state.Roster) == 0 {
			return "no squad built yet, run /gameweek first"
		}
		return notifier.FormatSquadStatus(&state, cat)
	case "/chips":
		state := s.Season.Snapshot()
		return notifier.FormatChipStatus(state.Chips)
	default:
		return "commands:\n• /gameweek — run the decision cycle now\n• /squad — current squad status\n• /chips — chip inventory"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
