package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"SquadSentinel/internal/model"
)

// SQLiteRecorder persists decision history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read
	// while the bot writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			period         INTEGER NOT NULL,
			roster         TEXT,
			starters       TEXT,
			bench          TEXT,
			captain        INTEGER,
			vice           INTEGER,
			formation      TEXT,
			chip           TEXT,
			hit_cost       INTEGER,
			net_gain       REAL,
			expected_score REAL,
			bank_after     INTEGER,
			spend_tenths   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_period ON decisions(period)`,

		`CREATE TABLE IF NOT EXISTS transfer_history (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			decision_id TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			period      INTEGER NOT NULL,
			player_out  INTEGER,
			player_in   INTEGER,
			out_name    TEXT,
			in_name     TEXT,
			gain        REAL,
			hit_cost    INTEGER,
			price_delta INTEGER,
			reasoning   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_period ON transfer_history(period)`,

		`CREATE TABLE IF NOT EXISTS chip_history (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			period    INTEGER NOT NULL,
			chip      TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			period    INTEGER NOT NULL,
			kind      TEXT,
			detail    TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordDecision(rec *model.DecisionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	formation := fmt.Sprintf("%d-%d-%d-%d",
		rec.Lineup.Formation[0], rec.Lineup.Formation[1],
		rec.Lineup.Formation[2], rec.Lineup.Formation[3])

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO decisions
		(id, timestamp, period, roster, starters, bench, captain, vice,
		 formation, chip, hit_cost, net_gain, expected_score, bank_after, spend_tenths)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, now, rec.Period,
		joinIDs(rec.Roster), joinIDs(rec.Lineup.Starters), joinIDs(rec.Lineup.Bench),
		rec.Lineup.Captain, rec.Lineup.Vice, formation, string(rec.Chip),
		rec.HitCost, rec.NetGain, rec.ExpectedScore, rec.BankAfter, rec.SpendTenths,
	)
	if err != nil {
		return err
	}

	for _, t := range rec.Transfers {
		if _, err := tx.Exec(`INSERT INTO transfer_history
			(decision_id, timestamp, period, player_out, player_in, out_name, in_name,
			 gain, hit_cost, price_delta, reasoning)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			rec.ID, now, rec.Period, t.Out, t.In, t.OutName, t.InName,
			t.Gain, t.HitCost, t.PriceDelta, t.Reasoning,
		); err != nil {
			return err
		}
	}

	if rec.Chip != model.ChipNone {
		if _, err := tx.Exec(`INSERT INTO chip_history (timestamp, period, chip)
			VALUES (?,?,?)`, now, rec.Period, string(rec.Chip)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) RecordAlert(period int, kind, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alerts (timestamp, period, kind, detail)
		VALUES (?,?,?,?)`, time.Now().Unix(), period, kind, detail)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func joinIDs(ids []int) string {
	b, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(b)
}
