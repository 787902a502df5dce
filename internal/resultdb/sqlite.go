// Package resultdb stores generated spawns in a local SQLite file.
package resultdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/udisondev/navspawn/internal/model"
)

// Store is a SQLite result file. Safe for use by one writer.
type Store struct {
	db *sql.DB
}

// Open creates or opens the result file at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed TEXT NOT NULL,
			spawns INTEGER NOT NULL,
			recorded_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		);`,
		`CREATE TABLE IF NOT EXISTS spawns (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			area_id INTEGER NOT NULL,
			base_id INTEGER NOT NULL,
			source_id INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			heading REAL NOT NULL,
			scale REAL NOT NULL,
			PRIMARY KEY (run_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_spawns_area ON spawns(run_id, area_id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveAll replaces the records of runID in a single transaction.
func (s *Store) SaveAll(ctx context.Context, runID string, seed uint64, recs []model.SpawnRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM spawns WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("deleting old spawns of run %s: %w", runID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO spawns
		(run_id, seq, area_id, base_id, source_id, x, y, z, heading, scale)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range recs {
		if _, err := stmt.ExecContext(ctx,
			runID, i, int64(rec.Area), int64(rec.Base), int64(rec.Source),
			rec.Position.X, rec.Position.Y, rec.Position.Z, rec.Heading, rec.Scale,
		); err != nil {
			return fmt.Errorf("inserting spawn %d of run %s: %w", i, runID, err)
		}
	}

	// seed is stored as text: SQLite integers are signed 64-bit
	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (run_id, seed, spawns) VALUES (?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET seed = excluded.seed, spawns = excluded.spawns`,
		runID, fmt.Sprintf("%d", seed), len(recs),
	); err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run %s: %w", runID, err)
	}

	slog.Info("saved generated spawns to sqlite",
		"run", runID,
		"count", len(recs))

	return nil
}

// Count returns the number of records stored for runID.
func (s *Store) Count(ctx context.Context, runID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spawns WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting spawns of run %s: %w", runID, err)
	}
	return n, nil
}

// Load returns the records of runID in saved order.
func (s *Store) Load(ctx context.Context, runID string) ([]model.SpawnRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT area_id, base_id, source_id, x, y, z, heading, scale
		FROM spawns
		WHERE run_id = ?
		ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading spawns of run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []model.SpawnRecord
	for rows.Next() {
		var (
			area, base, source int64
			rec                model.SpawnRecord
		)
		if err := rows.Scan(&area, &base, &source,
			&rec.Position.X, &rec.Position.Y, &rec.Position.Z, &rec.Heading, &rec.Scale); err != nil {
			return nil, fmt.Errorf("scanning spawn row: %w", err)
		}
		rec.Area = model.AreaID(area)
		rec.Base = model.FormID(base)
		rec.Source = model.FormID(source)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spawn rows: %w", err)
	}
	return out, nil
}

// Run is one stored generation run.
type Run struct {
	ID     string
	Seed   string
	Spawns int
}

// Runs lists stored runs by id.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, seed, spawns FROM runs ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seed, &r.Spawns); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
