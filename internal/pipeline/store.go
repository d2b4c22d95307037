package pipeline

import (
	"context"

	"github.com/banshee-data/radar-clutter/internal/labels"
	"github.com/banshee-data/radar-clutter/internal/radar"
	"github.com/banshee-data/radar-clutter/internal/radardb"
)

// SceneStore is the detection storage of one sequence.
type SceneStore interface {
	ReadDetections(ctx context.Context, r radar.IndexRange) ([]radar.Detection, error)
	// WriteLabels stores ls over r and marks the scene at timestamp done.
	WriteLabels(ctx context.Context, timestamp int64, r radar.IndexRange, ls []labels.ClutterLabel) error
	RelabeledScenes(ctx context.Context) (map[int64]bool, error)
	ResetSceneProgress(ctx context.Context) error
	LastRun(ctx context.Context) (*radardb.Run, error)
	RecordRun(ctx context.Context, run *radardb.Run) error
	Close() error
}

// OpenFunc opens the store at path.
type OpenFunc func(path string) (SceneStore, error)

// OpenRadarDB opens an existing SQLite store.
func OpenRadarDB(path string) (SceneStore, error) {
	s, err := radardb.Open(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
