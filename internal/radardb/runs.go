package radardb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/radar-clutter/internal/relabel"
)

// Run records one relabeling pass over a sequence.
type Run struct {
	ID          uuid.UUID
	ToolVersion string
	StartedAt   time.Time
	FinishedAt  time.Time
	Scenes      int
	Detections  int
	Counts      relabel.Counts
}

// RecordRun stores a completed run. A zero ID is replaced by a new one.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO relabel_runs (
			run_id, tool_version, started_at, finished_at, scenes, detections,
			clutter, moving_object, stationary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.ToolVersion, run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(),
		run.Scenes, run.Detections,
		run.Counts.Clutter, run.Counts.MovingObject, run.Counts.Stationary,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// LastRun returns the most recent recorded run, or nil if the store has
// never been relabeled.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT run_id, tool_version, started_at, finished_at,
			scenes, detections, clutter, moving_object, stationary
		FROM relabel_runs
		ORDER BY finished_at DESC LIMIT 1`)

	var run Run
	var id string
	var started, finished int64
	err := row.Scan(&id, &run.ToolVersion, &started, &finished, &run.Scenes, &run.Detections,
		&run.Counts.Clutter, &run.Counts.MovingObject, &run.Counts.Stationary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read last run: %w", err)
	}

	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("read last run: bad run_id %q: %w", id, err)
	}
	run.StartedAt = time.Unix(0, started)
	run.FinishedAt = time.Unix(0, finished)
	return &run, nil
}

// RelabeledScenes returns the timestamps of the scenes whose labels have
// been written.
func (s *Store) RelabeledScenes(ctx context.Context) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT timestamp FROM relabeled_scenes`)
	if err != nil {
		return nil, fmt.Errorf("read relabeled scenes: %w", err)
	}
	defer rows.Close()

	done := make(map[int64]bool)
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("read relabeled scenes: %w", err)
		}
		done[ts] = true
	}
	return done, rows.Err()
}

// ResetSceneProgress forgets which scenes have been relabeled.
func (s *Store) ResetSceneProgress(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM relabeled_scenes`); err != nil {
		return fmt.Errorf("reset scene progress: %w", err)
	}
	return nil
}
