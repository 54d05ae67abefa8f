package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Statuses recorded for runs, units, and assets.
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Store persists per-run outcomes backed by SQLite so operators can inspect
// what the last run did to every unit and asset.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database and applies migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) applyMigrations(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			delay_ms INTEGER NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS unit_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			header_path TEXT NOT NULL,
			status TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS asset_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			unit_header TEXT NOT NULL DEFAULT '',
			asset_path TEXT NOT NULL,
			status TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_unit_results_run ON unit_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_asset_results_run ON asset_results(run_id)`,
	}
	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// BeginRun records a new run in the running state.
func (s *Store) BeginRun(ctx context.Context, id string, delayMs int, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, delay_ms, status) VALUES (?, ?, ?, ?)`,
		id, startedAt.UTC().Format(time.RFC3339Nano), delayMs, StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun records a run's terminal status.
func (s *Store) FinishRun(ctx context.Context, id, status string, finishedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		status, finishedAt.UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordUnit persists one archive unit's outcome.
func (s *Store) RecordUnit(ctx context.Context, runID, headerPath, status, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO unit_results (run_id, header_path, status, detail) VALUES (?, ?, ?, ?)`,
		runID, headerPath, status, detail,
	)
	if err != nil {
		return fmt.Errorf("insert unit result: %w", err)
	}
	return nil
}

// RecordAsset persists one audio asset's outcome. unitHeader is empty for
// loose assets processed outside any archive unit.
func (s *Store) RecordAsset(ctx context.Context, runID, unitHeader, assetPath, status, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO asset_results (run_id, unit_header, asset_path, status, detail) VALUES (?, ?, ?, ?, ?)`,
		runID, unitHeader, assetPath, status, detail,
	)
	if err != nil {
		return fmt.Errorf("insert asset result: %w", err)
	}
	return nil
}

// Run summarizes one pipeline run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	DelayMs    int
	Status     string
}

// UnitResult is one archive unit's recorded outcome.
type UnitResult struct {
	HeaderPath string
	Status     string
	Detail     string
}

// AssetResult is one audio asset's recorded outcome.
type AssetResult struct {
	UnitHeader string
	AssetPath  string
	Status     string
	Detail     string
}

// LastRun returns the most recently started run, or nil when the journal is
// empty.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), delay_ms, status
		 FROM runs ORDER BY started_at DESC LIMIT 1`,
	)
	var run Run
	var started, finished string
	if err := row.Scan(&run.ID, &started, &finished, &run.DelayMs, &run.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query last run: %w", err)
	}
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if finished != "" {
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
	}
	return &run, nil
}

// UnitResults returns a run's unit outcomes in insertion order.
func (s *Store) UnitResults(ctx context.Context, runID string) ([]UnitResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT header_path, status, detail FROM unit_results WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query unit results: %w", err)
	}
	defer rows.Close()

	var results []UnitResult
	for rows.Next() {
		var result UnitResult
		if err := rows.Scan(&result.HeaderPath, &result.Status, &result.Detail); err != nil {
			return nil, fmt.Errorf("scan unit result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// AssetResults returns a run's asset outcomes in insertion order.
func (s *Store) AssetResults(ctx context.Context, runID string) ([]AssetResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT unit_header, asset_path, status, detail FROM asset_results WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query asset results: %w", err)
	}
	defer rows.Close()

	var results []AssetResult
	for rows.Next() {
		var result AssetResult
		if err := rows.Scan(&result.UnitHeader, &result.AssetPath, &result.Status, &result.Detail); err != nil {
			return nil, fmt.Errorf("scan asset result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
