// Package radardb stores the radar_data array of one sequence in SQLite and
// exposes it as an addressable sequence of detection records.
package radardb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/radar-clutter/internal/labels"
	"github.com/banshee-data/radar-clutter/internal/radar"
)

var (
	// ErrStoreNotFound is returned by Open when the database file is missing.
	ErrStoreNotFound = errors.New("radar data store not found")
	// ErrShortRead is returned when fewer rows exist than a range addresses.
	ErrShortRead = errors.New("radar data range not fully present")
	// ErrLabelCount is returned when a label slice does not match its range.
	ErrLabelCount = errors.New("label count does not match range")
)

// Store is an open radar_data database.
type Store struct {
	db *sql.DB
}

// Open opens an existing store and brings its schema up to date.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreNotFound, path, err)
	}
	return open(path)
}

// Create opens a store, creating the database file if needed.
func Create(path string) (*Store, error) {
	return open(path)
}

func open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps label writes serialised and makes the pragmas
	// below apply to every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the applied migration version.
func (s *Store) SchemaVersion() (uint, error) {
	v, dirty, err := migrateVersion(s.db)
	if err != nil {
		return 0, err
	}
	if dirty {
		return v, fmt.Errorf("schema version %d is dirty", v)
	}
	return v, nil
}

// Count returns the number of stored detections.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM radar_data`).Scan(&n)
	return n, err
}

const detectionColumns = `idx, timestamp, sensor_id, range_sc, azimuth_sc, rcs, vr, vr_compensated,
	x_cc, y_cc, x_seq, y_seq, uuid, track_id, label_id`

// ReadDetections returns the detections of r in index order.
func (s *Store) ReadDetections(ctx context.Context, r radar.IndexRange) ([]radar.Detection, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+detectionColumns+` FROM radar_data WHERE idx >= ? AND idx < ? ORDER BY idx`,
		r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r, err)
	}
	defer rows.Close()

	dets := make([]radar.Detection, 0, r.Len())
	for rows.Next() {
		var (
			idx int
			d   radar.Detection
			vc  sql.NullFloat64
		)
		if err := rows.Scan(&idx, &d.Timestamp, &d.SensorID, &d.Range, &d.Azimuth, &d.RCS,
			&d.VelocityRelative, &vc, &d.XCC, &d.YCC, &d.XSeq, &d.YSeq,
			&d.UUID, &d.TrackID, &d.Label); err != nil {
			return nil, fmt.Errorf("read %s: %w", r, err)
		}
		if vc.Valid {
			d.VelocityCompensated = radar.Float64(vc.Float64)
		}
		dets = append(dets, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", r, err)
	}

	if len(dets) != r.Len() {
		return nil, fmt.Errorf("%w: %s has %d of %d rows", ErrShortRead, r, len(dets), r.Len())
	}
	return dets, nil
}

// WriteLabels overwrites the stored label of every detection in r with the
// matching entry of ls and marks the scene at timestamp as relabeled, in one
// transaction.
func (s *Store) WriteLabels(ctx context.Context, timestamp int64, r radar.IndexRange, ls []labels.ClutterLabel) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if len(ls) != r.Len() {
		return fmt.Errorf("%w: %d labels for %s", ErrLabelCount, len(ls), r)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE radar_data SET label_id = ? WHERE idx = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, l := range ls {
		idx := r.Start + i
		res, err := stmt.ExecContext(ctx, int(l), idx)
		if err != nil {
			return fmt.Errorf("write label of detection %d: %w", idx, err)
		}
		if n, err := res.RowsAffected(); err == nil && n != 1 {
			return fmt.Errorf("%w: detection %d missing", ErrShortRead, idx)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO relabeled_scenes (timestamp, idx_start, idx_end) VALUES (?, ?, ?)`,
		timestamp, r.Start, r.End); err != nil {
		return fmt.Errorf("mark scene %d relabeled: %w", timestamp, err)
	}

	return tx.Commit()
}

// InsertDetections stores dets at consecutive indices starting at start.
// Detections without a UUID are assigned a random one.
func (s *Store) InsertDetections(ctx context.Context, start int, dets []radar.Detection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO radar_data (`+detectionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range dets {
		var vc sql.NullFloat64
		if d.VelocityCompensated != nil {
			vc = sql.NullFloat64{Float64: *d.VelocityCompensated, Valid: true}
		}
		id := d.UUID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, start+i, d.Timestamp, d.SensorID, d.Range, d.Azimuth, d.RCS,
			d.VelocityRelative, vc, d.XCC, d.YCC, d.XSeq, d.YSeq, id, d.TrackID, d.Label); err != nil {
			return fmt.Errorf("insert detection %d: %w", start+i, err)
		}
	}

	return tx.Commit()
}
