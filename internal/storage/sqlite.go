package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite run history.
type Store struct {
	db *sql.DB
}

// RunEntry is a stored run.
type RunEntry struct {
	ID int64
	RunRecord
}

// Stats contains aggregated statistics over every stored run.
type Stats struct {
	Runs          int
	HighScore     int
	AvgDistance   float64
	TotalDistance float64
	TotalCoins    int
	LastPlayed    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandPath(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			agent TEXT NOT NULL DEFAULT '',
			character TEXT NOT NULL,
			seed INTEGER NOT NULL,
			distance REAL NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			cause TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_distance ON runs(distance DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_agent ON runs(agent);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun inserts a run. A missing RunID is filled with a new UUID.
// Returns the row ID of the inserted record.
func (s *Store) SaveRun(rec RunRecord) (int64, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	result, err := s.db.Exec(
		`INSERT INTO runs (run_id, agent, character, seed, distance, coins, level, cause, ticks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Agent, rec.Character, rec.Seed, rec.Distance,
		rec.Coins, rec.Level, rec.Cause, rec.Ticks,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecordRun implements ProgressStore.
func (s *Store) RecordRun(rec RunRecord) (Progress, error) {
	if _, err := s.SaveRun(rec); err != nil {
		return Progress{}, err
	}
	return s.Progress()
}

// Progress implements ProgressStore. Distances are truncated per run before
// they are summed, matching the flat progress file.
func (s *Store) Progress() (Progress, error) {
	var p Progress
	err := s.db.QueryRow(
		`SELECT CAST(COALESCE(MAX(distance), 0) AS INTEGER),
		        COALESCE(SUM(CAST(distance AS INTEGER)), 0)
		 FROM runs`,
	).Scan(&p.HighScore, &p.LifetimeDistance)
	if err != nil {
		return Progress{}, fmt.Errorf("storage: cannot read progress: %w", err)
	}
	return p, nil
}

// TopRuns retrieves the N longest runs, longest first.
func (s *Store) TopRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, agent, character, seed, distance, coins, level, cause, ticks, created_at
		 FROM runs
		 ORDER BY distance DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(
			&e.ID, &e.RunID, &e.Agent, &e.Character, &e.Seed, &e.Distance,
			&e.Coins, &e.Level, &e.Cause, &e.Ticks, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Stats retrieves aggregated statistics over every run.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*), CAST(COALESCE(MAX(distance), 0) AS INTEGER), COALESCE(AVG(distance), 0),
		        COALESCE(SUM(distance), 0), COALESCE(SUM(coins), 0)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.HighScore, &stats.AvgDistance, &stats.TotalDistance, &stats.TotalCoins)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(`SELECT created_at FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// ClearRuns deletes every stored run.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

var _ ProgressStore = (*Store)(nil)
