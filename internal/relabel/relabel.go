package relabel

import (
	"fmt"

	"github.com/banshee-data/radar-clutter/internal/labels"
	"github.com/banshee-data/radar-clutter/internal/radar"
)

// LabelError reports a detection whose stored label is outside the
// RadarScenes taxonomy.
type LabelError struct {
	Index int // position within the scan
	Value int
	Err   error
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("detection %d: %v", e.Index, e.Err)
}

func (e *LabelError) Unwrap() error { return e.Err }

// Relabeler converts one scan at a time from RadarScenes labels to clutter
// labels. It holds no per-scan state and is safe for concurrent use.
type Relabeler struct {
	params Params
}

// New creates a Relabeler with the given tolerances.
func New(p Params) *Relabeler {
	return &Relabeler{params: p}
}

// Params returns the tolerances the relabeler was built with.
func (r *Relabeler) Params() Params {
	return r.params
}

// Relabel returns one clutter label per detection of scan, in scan order.
// scan is not modified. On error no labels are returned.
func (r *Relabeler) Relabel(scan []radar.Detection) ([]labels.ClutterLabel, error) {
	p := r.params

	// The buffer starts as the stored labels so that a static detection
	// only reads MovingObject once a propagation step has written it.
	out := make([]labels.ClutterLabel, len(scan))
	for i, d := range scan {
		out[i] = labels.ClutterLabel(d.Label)
	}

	for i, d := range scan {
		orig, err := labels.ParseOriginalLabel(d.Label)
		if err != nil {
			return nil, &LabelError{Index: i, Value: d.Label, Err: err}
		}

		if !orig.IsStatic() {
			out[i] = labels.MovingObject

			rw := p.RangeWindow(d)
			aw := p.AzimuthWindow(d)
			for j, d2 := range scan {
				if j == i {
					continue
				}
				if p.IsMoving(d2) && rw.Contains(d2.Range) && aw.Contains(d2.Azimuth) {
					out[j] = labels.MovingObject
				}
			}
			continue
		}

		// Promoted by an earlier object in this pass.
		if out[i] == labels.MovingObject {
			continue
		}
		if p.IsMoving(d) {
			out[i] = labels.Clutter
		} else {
			out[i] = labels.Stationary
		}
	}

	return out, nil
}

// Counts is a per-class histogram of clutter labels.
type Counts struct {
	Clutter      int
	MovingObject int
	Stationary   int
}

// Total returns the number of counted labels.
func (c Counts) Total() int {
	return c.Clutter + c.MovingObject + c.Stationary
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.Clutter += other.Clutter
	c.MovingObject += other.MovingObject
	c.Stationary += other.Stationary
}

// Count builds a histogram of ls. Values outside the taxonomy are ignored.
func Count(ls []labels.ClutterLabel) Counts {
	var c Counts
	for _, l := range ls {
		switch l {
		case labels.Clutter:
			c.Clutter++
		case labels.MovingObject:
			c.MovingObject++
		case labels.Stationary:
			c.Stationary++
		}
	}
	return c
}
