package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS observations (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			slot      INTEGER NOT NULL,
			slot_name TEXT,
			price     INTEGER,
			source    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_ts ON observations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			trigger_name  TEXT,
			preset        TEXT,
			tolerance     INTEGER,
			prices        TEXT,
			feasible      INTEGER,
			wave_count    INTEGER,
			falling       INTEGER,
			third_count   INTEGER,
			fourth_count  INTEGER,
			result_json   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_ts ON predictions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS weeks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,
			ended_at   INTEGER NOT NULL,
			prices     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_weeks_ended ON weeks(ended_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordObservation(evt *ObservationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var price sql.NullInt64
	if evt.Price != nil {
		price = sql.NullInt64{Int64: int64(*evt.Price), Valid: true}
	}
	_, err := r.db.Exec(`INSERT INTO observations
		(timestamp, slot, slot_name, price, source)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), int(evt.Slot), evt.Slot.String(), price, evt.Source,
	)
	return err
}

func (r *SQLiteRecorder) RecordPrediction(evt *PredictionEvent) error {
	prices, err := json.Marshal(evt.Series)
	if err != nil {
		return fmt.Errorf("marshal prices: %w", err)
	}
	result, err := json.Marshal(evt.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res := &evt.Result
	_, err = r.db.Exec(`INSERT INTO predictions
		(timestamp, trigger_name, preset, tolerance, prices,
		 feasible, wave_count, falling, third_count, fourth_count, result_json)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Trigger, evt.Preset, evt.Tolerance, string(prices),
		res.Feasible(), len(res.Wave), res.Falling != nil,
		res.ThirdPeriod.Len(), res.FourthPeriod.Len(), string(result),
	)
	return err
}

func (r *SQLiteRecorder) RecordWeek(evt *WeekEvent) error {
	prices, err := json.Marshal(evt.Series)
	if err != nil {
		return fmt.Errorf("marshal prices: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.Exec(`INSERT INTO weeks (started_at, ended_at, prices) VALUES (?,?,?)`,
		evt.StartedAt.Unix(), evt.EndedAt.Unix(), string(prices),
	)
	return err
}

// RecentWeeks returns up to limit archived weeks, most recent first.
func (r *SQLiteRecorder) RecentWeeks(limit int) ([]WeekEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT started_at, ended_at, prices FROM weeks
		ORDER BY ended_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WeekEvent
	for rows.Next() {
		var (
			started, ended int64
			prices         string
		)
		if err := rows.Scan(&started, &ended, &prices); err != nil {
			return nil, err
		}
		evt := WeekEvent{StartedAt: time.Unix(started, 0), EndedAt: time.Unix(ended, 0)}
		if err := json.Unmarshal([]byte(prices), &evt.Series); err != nil {
			return nil, fmt.Errorf("decode week prices: %w", err)
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
