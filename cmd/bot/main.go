package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SquadSentinel/internal/catalog"
	"SquadSentinel/internal/chips"
	"SquadSentinel/internal/config"
	"SquadSentinel/internal/engine"
	"SquadSentinel/internal/notifier"
	"SquadSentinel/internal/optimizer"
	"SquadSentinel/internal/recorder"
	"SquadSentinel/internal/scheduler"
	"SquadSentinel/internal/season"
	"SquadSentinel/internal/transfers"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] SquadSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher and collector
	fetcher := catalog.NewFPLFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	log.Printf("[INFO] data source: %s (%s)", fetcher.Name(), cfg.DataSource.BaseURL)
	col := catalog.NewCollector(fetcher)

	// Init season state manager
	sm, err := season.NewManager(cfg.Season.StateFile, cfg.Game.BudgetTenths, cfg.Game.HitCost)
	if err != nil {
		log.Fatalf("[FATAL] init season manager: %v", err)
	}

	// Assemble the decision engine
	gameRules := cfg.Rules()
	builder := optimizer.NewBuilder(gameRules, cfg.Weights)
	eng := &engine.Engine{
		Rules:        gameRules,
		Builder:      builder,
		Planner:      transfers.NewPlanner(gameRules, builder, cfg.Game.MinTransferGain, cfg.Game.MaxHitCost),
		Chips:        chips.New(cfg.Chips.Thresholds, cfg.ChipBlackouts(), cfg.ChipPriority()),
		SolveTimeout: time.Duration(cfg.Solver.TimeoutSeconds) * time.Second,
	}

	// Init Telegram notifier
	tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		log.Fatalf("[FATAL] init telegram notifier: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, eng, sm, tn, rec, cfg.Chips.TripleCaptainWindow)
	if err := sched.RegisterAll(cfg.Schedule.GameweekCron, cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing gameweek task now")
		go sched.RunGameweekNow()
	}

	log.Println("[INFO] SquadSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] SquadSentinel stopped")
}
