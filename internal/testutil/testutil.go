// Package testutil builds on-disk RadarScenes fixture datasets for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/banshee-data/radar-clutter/internal/dataset"
	"github.com/banshee-data/radar-clutter/internal/fsutil"
	"github.com/banshee-data/radar-clutter/internal/labels"
	"github.com/banshee-data/radar-clutter/internal/radar"
	"github.com/banshee-data/radar-clutter/internal/radardb"
)

// SequenceFixture describes one sequence: its detections grouped by scene.
type SequenceFixture struct {
	Name     string
	Category string
	Scenes   [][]radar.Detection
	// NoStore skips creating radar_data.db.
	NoStore bool
}

// SceneTimestamp is the timestamp BuildDataset assigns to scene i.
func SceneTimestamp(i int) int64 {
	return 156859092100 + int64(i)*100
}

// BuildDataset writes a dataset under root with the given sequences.
func BuildDataset(t testing.TB, root string, seqs ...SequenceFixture) {
	t.Helper()
	fsys := fsutil.OSFileSystem{}

	index := make(map[string]dataset.SequenceInfo, len(seqs))
	for _, f := range seqs {
		category := f.Category
		if category == "" {
			category = "train"
		}
		index[f.Name] = dataset.SequenceInfo{Category: category, Scenes: len(f.Scenes)}

		seq := &dataset.Sequence{Name: f.Name, Category: category}
		var all []radar.Detection
		for i, dets := range f.Scenes {
			ts := SceneTimestamp(i)
			sc := dataset.Scene{
				Timestamp:     ts,
				OdometryIndex: i,
				RadarIndices:  radar.IndexRange{Start: len(all), End: len(all) + len(dets)},
			}
			if i > 0 {
				prev := SceneTimestamp(i - 1)
				sc.PrevTimestamp = &prev
			}
			if i < len(f.Scenes)-1 {
				next := SceneTimestamp(i + 1)
				sc.NextTimestamp = &next
			}
			seq.Scenes = append(seq.Scenes, sc)
			for _, d := range dets {
				d.Timestamp = ts
				all = append(all, d)
			}
		}
		if len(seq.Scenes) > 0 {
			seq.FirstTimestamp = seq.Scenes[0].Timestamp
			seq.LastTimestamp = seq.Scenes[len(seq.Scenes)-1].Timestamp
		}

		AssertNoError(t, dataset.WriteSequence(fsys, root, seq))
		if f.NoStore {
			continue
		}

		store, err := radardb.Create(dataset.RadarDataPath(root, f.Name))
		AssertNoError(t, err)
		AssertNoError(t, store.InsertDetections(context.Background(), 0, all))
		AssertNoError(t, store.Close())
	}

	AssertNoError(t, dataset.WriteIndex(fsys, root, index))
}

// Object returns a detection annotated as a car.
func Object(r, az float64) radar.Detection {
	return radar.Detection{Range: r, Azimuth: az, VelocityCompensated: radar.Float64(0), Label: int(labels.Car)}
}

// Background returns a static detection with the given velocities.
func Background(r, az float64, vc *float64, vr float64) radar.Detection {
	return radar.Detection{Range: r, Azimuth: az, VelocityCompensated: vc, VelocityRelative: vr, Label: int(labels.Static)}
}

// StoredLabels reads back the label column of a sequence's store.
func StoredLabels(t testing.TB, root, sequence string) []int {
	t.Helper()
	store, err := radardb.Open(dataset.RadarDataPath(root, sequence))
	AssertNoError(t, err)
	defer store.Close()

	ctx := context.Background()
	n, err := store.Count(ctx)
	AssertNoError(t, err)
	dets, err := store.ReadDetections(ctx, radar.IndexRange{Start: 0, End: n})
	AssertNoError(t, err)

	out := make([]int, len(dets))
	for i, d := range dets {
		out[i] = d.Label
	}
	return out
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
