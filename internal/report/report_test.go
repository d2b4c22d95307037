package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/radar-clutter/internal/pipeline"
	"github.com/banshee-data/radar-clutter/internal/relabel"
)

func sampleSummary() *pipeline.Summary {
	return &pipeline.Summary{Results: []pipeline.SequenceResult{
		{Name: "sequence_1", Category: "train", Scenes: 2, Detections: 10, Duration: 1500 * time.Millisecond,
			Counts: relabel.Counts{Clutter: 2, MovingObject: 3, Stationary: 5}},
		{Name: "sequence_2", Category: "validation", Scenes: 1, Detections: 10,
			Counts: relabel.Counts{Clutter: 6, MovingObject: 0, Stationary: 4}},
		{Name: "sequence_3", Category: "train", Skipped: true},
		{Name: "sequence_4", Category: "train", Err: errors.New("sequence sequence_4: radar data store not found")},
	}}
}

func TestClutterFraction(t *testing.T) {
	assert.Equal(t, 0.0, ClutterFraction(pipeline.SequenceResult{}))
	assert.InDelta(t, 0.25, ClutterFraction(pipeline.SequenceResult{Counts: relabel.Counts{Clutter: 1, Stationary: 3}}), 1e-12)
}

func TestCompute(t *testing.T) {
	st := Compute(sampleSummary())

	assert.Equal(t, 4, st.Sequences)
	assert.Equal(t, 1, st.Failed)
	assert.Equal(t, 1, st.Skipped)
	assert.Equal(t, 3, st.Scenes)
	assert.Equal(t, 20, st.Detections)
	assert.Equal(t, 8, st.Clutter)
	assert.Equal(t, 3, st.MovingObject)
	assert.Equal(t, 9, st.Stationary)
	assert.InDelta(t, 0.4, st.ClutterFraction, 1e-12)
	assert.InDelta(t, 0.4, st.MeanClutterFraction, 1e-12)
	// Sample standard deviation of {0.2, 0.6}.
	assert.InDelta(t, 0.2828427, st.StdClutterFraction, 1e-6)
}

func TestCompute_Empty(t *testing.T) {
	st := Compute(&pipeline.Summary{})
	assert.Zero(t, st.Sequences)
	assert.Zero(t, st.ClutterFraction)
	assert.Zero(t, st.StdClutterFraction)
}

func rowContaining(lines []string, s string) string {
	for _, l := range lines {
		if strings.Contains(l, s) {
			return l
		}
	}
	return ""
}

func TestWriteText(t *testing.T) {
	s := sampleSummary()
	s.DryRun = true

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))
	out := buf.String()
	lines := strings.Split(out, "\n")

	assert.Contains(t, out, "SEQUENCE")
	row := rowContaining(lines, "sequence_1")
	assert.Contains(t, row, "20.0")
	assert.Contains(t, row, "1.5s")
	assert.Contains(t, rowContaining(lines, "sequence_3"), "skipped")
	assert.Contains(t, rowContaining(lines, "| sequence_4"), "FAILED")
	assert.Contains(t, rowContaining(lines, "TOTAL"), "40.0")

	assert.Contains(t, out, "sequences: 2 ok, 1 skipped, 1 failed")
	assert.Contains(t, out, "clutter per sequence: mean 40.0%, std 28.3%")
	assert.Contains(t, out, "dry run: no labels were written")
	assert.Contains(t, out, "error: sequence sequence_4: radar data store not found")
	assert.NotContains(t, out, "resumes after them")
}

func TestWriteText_PartialFailure(t *testing.T) {
	s := &pipeline.Summary{Results: []pipeline.SequenceResult{
		{Name: "sequence_5", Scenes: 3, Detections: 9, Counts: relabel.Counts{Stationary: 9},
			Err: errors.New("sequence sequence_5 scene 156859092400 [9, 12): unknown label")},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))
	assert.Contains(t, buf.String(), "sequence_5: 3 scenes were relabeled before the failure; the next run resumes after them")

	// A dry run wrote nothing, so there is nothing to resume.
	s.DryRun = true
	buf.Reset()
	require.NoError(t, WriteText(&buf, s))
	assert.NotContains(t, buf.String(), "resumes after them")
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleSummary()))
	out := buf.String()

	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Labels per sequence")
	assert.Contains(t, out, "MOVING_OBJECT")
	assert.Contains(t, out, "sequence_2")
	// Sequences without labels are not plotted.
	assert.NotContains(t, out, "sequence_3")
}
