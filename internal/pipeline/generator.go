// Package pipeline runs the relabeler over every scene of a dataset and
// writes the new labels back to each sequence's store.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/radar-clutter/internal/dataset"
	"github.com/banshee-data/radar-clutter/internal/labels"
	"github.com/banshee-data/radar-clutter/internal/monitoring"
	"github.com/banshee-data/radar-clutter/internal/radardb"
	"github.com/banshee-data/radar-clutter/internal/relabel"
	"github.com/banshee-data/radar-clutter/internal/timeutil"
)

// Options controls a Generator.
type Options struct {
	// Workers is the number of sequences processed concurrently.
	// Zero means runtime.NumCPU().
	Workers int
	// DryRun computes labels without writing them or recording a run.
	DryRun bool
	// Force relabels sequences that already have a recorded run.
	Force bool
	// Sequences restricts the run to these names. Empty means all.
	Sequences []string
	// ToolVersion is stored with each recorded run.
	ToolVersion string

	// Open defaults to OpenRadarDB.
	Open OpenFunc
	// Clock defaults to timeutil.RealClock.
	Clock timeutil.Clock
}

// Generator applies a Relabeler to datasets.
type Generator struct {
	relabeler *relabel.Relabeler
	opts      Options
}

// NewGenerator creates a Generator, filling unset options with defaults.
func NewGenerator(r *relabel.Relabeler, opts Options) *Generator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Open == nil {
		opts.Open = OpenRadarDB
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	return &Generator{relabeler: r, opts: opts}
}

// SequenceResult is the outcome of relabeling one sequence.
type SequenceResult struct {
	Name       string
	Category   string
	Scenes     int // scenes relabeled
	Resumed    int // of Scenes, written by an earlier interrupted run
	Detections int
	Counts     relabel.Counts
	Skipped    bool // already relabeled by an earlier run
	RunID      uuid.UUID
	Duration   time.Duration
	Err        error
}

// Summary collects the results of a dataset run in sequence order.
type Summary struct {
	Results []SequenceResult
	DryRun  bool
}

// Totals sums the label counts of all sequences.
func (s *Summary) Totals() relabel.Counts {
	var c relabel.Counts
	for _, r := range s.Results {
		c.Add(r.Counts)
	}
	return c
}

// Failed returns the results that ended in an error.
func (s *Summary) Failed() []SequenceResult {
	var out []SequenceResult
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Run relabels every selected sequence of ds. Sequences run concurrently on
// up to Workers goroutines; a failing sequence does not stop the others.
// The returned error combines all sequence failures.
func (g *Generator) Run(ctx context.Context, ds *dataset.Dataset) (*Summary, error) {
	names := uniqueNames(g.opts.Sequences)
	if len(names) == 0 {
		names = ds.SequenceNames()
	}

	summary := &Summary{Results: make([]SequenceResult, len(names)), DryRun: g.opts.DryRun}

	var (
		mu   sync.Mutex
		errs error
		eg   errgroup.Group
	)
	eg.SetLimit(g.opts.Workers)

	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			res, err := g.runSequence(ctx, ds, name)
			res.Err = err
			summary.Results[i] = res
			if err != nil {
				monitoring.Logf("relabel failed: %v", err)
				mu.Lock()
				multierr.AppendInto(&errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	return summary, errs
}

// uniqueNames drops repeated names, keeping the first occurrence. Two
// workers must never share a sequence store.
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func (g *Generator) runSequence(ctx context.Context, ds *dataset.Dataset, name string) (SequenceResult, error) {
	seq, err := ds.LoadSequence(name)
	if err != nil {
		res := SequenceResult{Name: name}
		if info, ok := ds.Info(name); ok {
			res.Category = info.Category
		}
		return res, &SequenceError{Sequence: name, Err: err}
	}
	return g.ProcessSequence(ctx, seq)
}

// ProcessSequence relabels all scenes of seq in timestamp order. The store
// is opened for the duration of the call and closed on every path. On a
// scene failure the remaining scenes are left untouched; scenes already
// written stay written and are marked done in the store, so the next run
// counts them from their stored labels instead of relabeling them again.
// Force discards those marks.
func (g *Generator) ProcessSequence(ctx context.Context, seq *dataset.Sequence) (res SequenceResult, err error) {
	res = SequenceResult{Name: seq.Name, Category: seq.Category}
	started := g.opts.Clock.Now()
	defer func() { res.Duration = g.opts.Clock.Since(started) }()

	store, err := g.opts.Open(seq.RadarDataPath())
	if err != nil {
		return res, &SequenceError{Sequence: seq.Name, Err: err}
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			err = multierr.Append(err, &SequenceError{Sequence: seq.Name, Err: cerr})
		}
	}()

	var done map[int64]bool
	switch {
	case g.opts.Force && !g.opts.DryRun:
		if err := store.ResetSceneProgress(ctx); err != nil {
			return res, &SequenceError{Sequence: seq.Name, Err: err}
		}
	case !g.opts.Force:
		last, err := store.LastRun(ctx)
		if err != nil {
			return res, &SequenceError{Sequence: seq.Name, Err: err}
		}
		if last != nil {
			monitoring.Logf("sequence %s already relabeled by run %s at %s, skipping",
				seq.Name, last.ID, last.FinishedAt.Format(time.RFC3339))
			res.Skipped = true
			res.RunID = last.ID
			return res, nil
		}
		if done, err = store.RelabeledScenes(ctx); err != nil {
			return res, &SequenceError{Sequence: seq.Name, Err: err}
		}
		if len(done) > 0 {
			monitoring.Logf("sequence %s: resuming, %d scenes already relabeled", seq.Name, len(done))
		}
	}

	for _, sc := range seq.Scenes {
		if err := ctx.Err(); err != nil {
			return res, &SequenceError{Sequence: seq.Name, Err: err}
		}
		var (
			counts relabel.Counts
			serr   error
		)
		resumed := done[sc.Timestamp]
		if resumed {
			counts, serr = g.storedCounts(ctx, store, seq.Name, sc)
		} else {
			counts, serr = g.ProcessScene(ctx, store, seq.Name, sc)
		}
		if serr != nil {
			return res, serr
		}
		if resumed {
			res.Resumed++
		}
		res.Scenes++
		res.Detections += sc.RadarIndices.Len()
		res.Counts.Add(counts)
	}

	if g.opts.DryRun {
		monitoring.Logf("sequence %s: dry run, %d scenes, %d detections", seq.Name, res.Scenes, res.Detections)
		return res, nil
	}

	run := &radardb.Run{
		ToolVersion: g.opts.ToolVersion,
		StartedAt:   started,
		FinishedAt:  g.opts.Clock.Now(),
		Scenes:      res.Scenes,
		Detections:  res.Detections,
		Counts:      res.Counts,
	}
	if err := store.RecordRun(ctx, run); err != nil {
		return res, &SequenceError{Sequence: seq.Name, Err: err}
	}
	res.RunID = run.ID

	monitoring.Logf("sequence %s: relabeled %d scenes, %d detections (clutter=%d moving=%d stationary=%d)",
		seq.Name, res.Scenes, res.Detections, res.Counts.Clutter, res.Counts.MovingObject, res.Counts.Stationary)
	return res, nil
}

// ProcessScene reads, relabels and writes back one scene.
func (g *Generator) ProcessScene(ctx context.Context, store SceneStore, sequence string, sc dataset.Scene) (relabel.Counts, error) {
	wrap := func(err error) error {
		return &SceneError{Sequence: sequence, Timestamp: sc.Timestamp, Range: sc.RadarIndices, Err: err}
	}

	dets, err := store.ReadDetections(ctx, sc.RadarIndices)
	if err != nil {
		return relabel.Counts{}, wrap(err)
	}

	out, err := g.relabeler.Relabel(dets)
	if err != nil {
		return relabel.Counts{}, wrap(err)
	}

	if !g.opts.DryRun {
		if err := store.WriteLabels(ctx, sc.Timestamp, sc.RadarIndices, out); err != nil {
			return relabel.Counts{}, wrap(err)
		}
	}

	counts := relabel.Count(out)
	monitoring.Verbosef("sequence %s scene %d: %d detections, clutter=%d moving=%d stationary=%d",
		sequence, sc.Timestamp, len(out), counts.Clutter, counts.MovingObject, counts.Stationary)
	return counts, nil
}

// storedCounts counts the clutter labels of a scene written by an earlier run.
func (g *Generator) storedCounts(ctx context.Context, store SceneStore, sequence string, sc dataset.Scene) (relabel.Counts, error) {
	dets, err := store.ReadDetections(ctx, sc.RadarIndices)
	if err != nil {
		return relabel.Counts{}, &SceneError{Sequence: sequence, Timestamp: sc.Timestamp, Range: sc.RadarIndices, Err: err}
	}
	ls := make([]labels.ClutterLabel, len(dets))
	for i, d := range dets {
		ls[i] = labels.ClutterLabel(d.Label)
		if !ls[i].Valid() {
			return relabel.Counts{}, &SceneError{Sequence: sequence, Timestamp: sc.Timestamp, Range: sc.RadarIndices,
				Err: fmt.Errorf("%w: %d stored at index %d", labels.ErrInvalidLabel, d.Label, sc.RadarIndices.Start+i)}
		}
	}
	return relabel.Count(ls), nil
}
