package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/devready/code-runner/internal/apperror"
	"github.com/devready/code-runner/internal/model"
	"github.com/devready/code-runner/internal/repository"
)

// Compile-time check that *DB implements repository.RunRepository.
var _ repository.RunRepository = (*DB)(nil)

// Create inserts a new run record, generating its ID and timestamp.
func (db *DB) Create(ctx context.Context, run *model.Run) error {
	run.ID = xid.New().String()
	run.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO runs (id, language, exit_code, timed_out, duration_ms, output, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Language, run.ExitCode, boolToInt(run.TimedOut),
		run.DurationMs, run.Output, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting run: %w", err)
	}

	return nil
}

// GetByID fetches one run record. Returns apperror.ErrNotFound when no row
// matches.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Run, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, language, exit_code, timed_out, duration_ms, output, created_at
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("run", id)
		}
		return nil, fmt.Errorf("sqlite: querying run %s: %w", id, err)
	}

	return run, nil
}

// List returns run records newest first, paginated.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Run, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, language, exit_code, timed_out, duration_ms, output, created_at
		FROM runs ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing runs: %w", err)
	}
	defer rows.Close()

	runs := []model.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating runs: %w", err)
	}

	return runs, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*model.Run, error) {
	var (
		run      model.Run
		timedOut int
	)
	err := s.Scan(&run.ID, &run.Language, &run.ExitCode, &timedOut,
		&run.DurationMs, &run.Output, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	run.TimedOut = timedOut != 0
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
