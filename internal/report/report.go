// Package report summarises a relabel run as a text table and an HTML chart.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/radar-clutter/internal/pipeline"
)

// Stats aggregates the label counts of a run.
type Stats struct {
	Sequences  int
	Failed     int
	Skipped    int
	Scenes     int
	Detections int

	Clutter      int
	MovingObject int
	Stationary   int

	// ClutterFraction is the share of clutter over all relabeled
	// detections.
	ClutterFraction float64
	// MeanClutterFraction and StdClutterFraction are taken over the
	// per-sequence clutter shares of sequences that produced labels.
	MeanClutterFraction float64
	StdClutterFraction  float64
}

// ClutterFraction returns the share of clutter among the counts of r, or 0
// when r produced no labels.
func ClutterFraction(r pipeline.SequenceResult) float64 {
	total := r.Counts.Total()
	if total == 0 {
		return 0
	}
	return float64(r.Counts.Clutter) / float64(total)
}

// Compute derives Stats from a run summary.
func Compute(s *pipeline.Summary) Stats {
	var st Stats
	var fractions, clutter, totals []float64

	for _, r := range s.Results {
		st.Sequences++
		switch {
		case r.Err != nil:
			st.Failed++
		case r.Skipped:
			st.Skipped++
		}
		st.Scenes += r.Scenes
		st.Detections += r.Detections
		st.Clutter += r.Counts.Clutter
		st.MovingObject += r.Counts.MovingObject
		st.Stationary += r.Counts.Stationary

		if n := r.Counts.Total(); n > 0 {
			fractions = append(fractions, ClutterFraction(r))
			clutter = append(clutter, float64(r.Counts.Clutter))
			totals = append(totals, float64(n))
		}
	}

	if len(fractions) == 0 {
		return st
	}
	st.ClutterFraction = floats.Sum(clutter) / floats.Sum(totals)
	st.MeanClutterFraction = stat.Mean(fractions, nil)
	if len(fractions) > 1 {
		st.StdClutterFraction = stat.StdDev(fractions, nil)
	}
	return st
}

func status(r pipeline.SequenceResult) string {
	switch {
	case r.Err != nil:
		return "FAILED"
	case r.Skipped:
		return "skipped"
	default:
		return "ok"
	}
}

// WriteText prints one row per sequence with a totals footer, followed by
// the run outcome and any sequence errors.
func WriteText(w io.Writer, s *pipeline.Summary) error {
	st := Compute(s)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Sequence", "Category", "Scenes", "Detections", "Clutter", "Moving", "Stationary", "Clutter %", "Time", "Status"})
	for _, r := range s.Results {
		t.AppendRow(table.Row{
			r.Name, r.Category, r.Scenes, r.Detections,
			r.Counts.Clutter, r.Counts.MovingObject, r.Counts.Stationary,
			fmt.Sprintf("%.1f", 100*ClutterFraction(r)), r.Duration.Round(time.Millisecond).String(), status(r),
		})
	}
	t.AppendFooter(table.Row{
		"TOTAL", "", st.Scenes, st.Detections, st.Clutter, st.MovingObject, st.Stationary,
		fmt.Sprintf("%.1f", 100*st.ClutterFraction), "", "",
	})
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "sequences: %d ok, %d skipped, %d failed\n",
		st.Sequences-st.Failed-st.Skipped, st.Skipped, st.Failed); err != nil {
		return err
	}
	if st.Sequences > 1 {
		if _, err := fmt.Fprintf(w, "clutter per sequence: mean %.1f%%, std %.1f%%\n",
			100*st.MeanClutterFraction, 100*st.StdClutterFraction); err != nil {
			return err
		}
	}
	if s.DryRun {
		if _, err := fmt.Fprintln(w, "dry run: no labels were written"); err != nil {
			return err
		}
	}
	for _, r := range s.Failed() {
		if _, err := fmt.Fprintf(w, "error: %v\n", r.Err); err != nil {
			return err
		}
		if r.Scenes > 0 && !s.DryRun {
			if _, err := fmt.Fprintf(w, "  %s: %d scenes were relabeled before the failure; the next run resumes after them\n",
				r.Name, r.Scenes); err != nil {
				return err
			}
		}
	}
	return nil
}
