package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"SquadSentinel/internal/chips"
	"SquadSentinel/internal/model"
	"SquadSentinel/internal/optimizer"
	"SquadSentinel/internal/rules"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"data_source"`
	Schedule struct {
		GameweekCron string `yaml:"gameweek_cron"`
		DailyCron    string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Game struct {
		BudgetTenths    int     `yaml:"budget_tenths"`
		TeamCap         int     `yaml:"team_cap"`
		HitCost         int     `yaml:"hit_cost"`
		MinTransferGain float64 `yaml:"min_transfer_gain"`
		MaxHitCost      int     `yaml:"max_hit_cost"`
	} `yaml:"game"`
	Weights optimizer.Weights `yaml:"weights"`
	Chips   struct {
		chips.Thresholds `yaml:",inline"`
		Priority         []string         `yaml:"priority"`
		Blackouts        map[string][]int `yaml:"blackouts"`
	} `yaml:"chips"`
	Solver struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"solver"`
	Season struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"season"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("FPL_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_GAMEWEEK"); v != "" {
		cfg.Schedule.GameweekCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("BUDGET_TENTHS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Game.BudgetTenths = n
		}
	}

	// Defaults
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://fantasy.premierleague.com/api"
	}
	if cfg.Schedule.GameweekCron == "" {
		cfg.Schedule.GameweekCron = "0 0 8 * * 5" // Friday 08:00, ahead of weekend deadlines
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 9 * * *"
	}
	if cfg.Game.BudgetTenths == 0 {
		cfg.Game.BudgetTenths = 1000
	}
	if cfg.Game.TeamCap == 0 {
		cfg.Game.TeamCap = 3
	}
	if cfg.Game.HitCost == 0 {
		cfg.Game.HitCost = 4
	}
	if cfg.Game.MinTransferGain == 0 {
		cfg.Game.MinTransferGain = 3.0
	}
	if cfg.Game.MaxHitCost == 0 {
		cfg.Game.MaxHitCost = 8
	}
	if cfg.Weights == (optimizer.Weights{}) {
		cfg.Weights = optimizer.DefaultWeights()
	}
	def := chips.DefaultThresholds()
	if cfg.Chips.BenchBoostMin == 0 {
		cfg.Chips.BenchBoostMin = def.BenchBoostMin
	}
	if cfg.Chips.TripleCaptainMin == 0 {
		cfg.Chips.TripleCaptainMin = def.TripleCaptainMin
	}
	if cfg.Chips.TripleCaptainWindow == 0 {
		cfg.Chips.TripleCaptainWindow = def.TripleCaptainWindow
	}
	if cfg.Chips.FreeHitDeficit == 0 {
		cfg.Chips.FreeHitDeficit = def.FreeHitDeficit
	}
	if cfg.Chips.WildcardIssues == 0 {
		cfg.Chips.WildcardIssues = def.WildcardIssues
	}
	if cfg.Solver.TimeoutSeconds == 0 {
		cfg.Solver.TimeoutSeconds = 5
	}
	if cfg.Season.StateFile == "" {
		cfg.Season.StateFile = "data/season_state.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/squad_sentinel.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Game.BudgetTenths <= 0 {
		return fmt.Errorf("game.budget_tenths must be positive")
	}
	if c.Game.MaxHitCost < 0 {
		return fmt.Errorf("game.max_hit_cost must not be negative")
	}
	if c.Chips.TripleCaptainWindow <= 0 {
		return fmt.Errorf("chips.triple_captain_window must be positive")
	}
	return nil
}

// Rules builds the structural rule set from the game section.
func (c *Config) Rules() rules.Rules {
	r := rules.Default()
	r.BudgetTenths = c.Game.BudgetTenths
	r.TeamCap = c.Game.TeamCap
	return r
}

// ChipPriority maps the configured priority names onto chip kinds,
// falling back to the default order when unset or invalid.
func (c *Config) ChipPriority() []model.ChipKind {
	if len(c.Chips.Priority) == 0 {
		return nil
	}
	out := make([]model.ChipKind, 0, len(c.Chips.Priority))
	for _, name := range c.Chips.Priority {
		kind := model.ChipKind(name)
		switch kind {
		case model.ChipWildcard, model.ChipFreeHit, model.ChipBenchBoost, model.ChipTripleCaptain:
			out = append(out, kind)
		default:
			return nil
		}
	}
	return out
}

// ChipBlackouts maps the configured blackout periods onto chip kinds.
func (c *Config) ChipBlackouts() map[model.ChipKind][]int {
	out := make(map[model.ChipKind][]int, len(c.Chips.Blackouts))
	for name, periods := range c.Chips.Blackouts {
		out[model.ChipKind(name)] = periods
	}
	return out
}
