package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/navspawn/internal/model"
)

// SpawnRepository stores generated spawn records per run.
type SpawnRepository struct {
	pool *pgxpool.Pool
}

// NewSpawnRepository creates a new spawn repository.
func NewSpawnRepository(pool *pgxpool.Pool) *SpawnRepository {
	return &SpawnRepository{pool: pool}
}

// SaveAll replaces the records of runID with recs.
func (r *SpawnRepository) SaveAll(ctx context.Context, runID string, recs []model.SpawnRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM generated_spawns WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("deleting old spawns of run %s: %w", runID, err)
	}

	if len(recs) > 0 {
		rows := make([][]any, 0, len(recs))
		for i, rec := range recs {
			rows = append(rows, []any{
				runID, int32(i), int64(rec.Area), int64(rec.Base), int64(rec.Source),
				rec.Position.X, rec.Position.Y, rec.Position.Z, rec.Heading, rec.Scale,
			})
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"generated_spawns"},
			[]string{"run_id", "seq", "area_id", "base_id", "source_id", "x", "y", "z", "heading", "scale"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("inserting spawns of run %s: %w", runID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing spawns of run %s: %w", runID, err)
	}

	slog.Info("saved generated spawns",
		"run", runID,
		"count", len(recs))

	return nil
}

// LoadRun returns the records of runID in the order they were saved.
func (r *SpawnRepository) LoadRun(ctx context.Context, runID string) ([]model.SpawnRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT area_id, base_id, source_id, x, y, z, heading, scale
		FROM generated_spawns
		WHERE run_id = $1
		ORDER BY seq
	`, runID)
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
