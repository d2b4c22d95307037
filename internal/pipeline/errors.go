package pipeline

import (
	"fmt"

	"github.com/banshee-data/radar-clutter/internal/radar"
)

// SceneError attributes a failure to one scene of one sequence, so the
// operator can re-run the affected sequence.
type SceneError struct {
	Sequence  string
	Timestamp int64
	Range     radar.IndexRange
	Err       error
}

func (e *SceneError) Error() string {
	return fmt.Sprintf("sequence %s scene %d %s: %v", e.Sequence, e.Timestamp, e.Range, e.Err)
}

func (e *SceneError) Unwrap() error { return e.Err }

// SequenceError is a failure that is not tied to a single scene: loading
// scene metadata, opening the store or recording the run.
type SequenceError struct {
	Sequence string
	Err      error
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("sequence %s: %v", e.Sequence, e.Err)
}

func (e *SequenceError) Unwrap() error { return e.Err }
