package radar

import (
	"encoding/json"
	"fmt"
)

// IndexRange is a half-open [Start, End) slice of a sequence's radar_data
// array. Scenes address their detections with one.
type IndexRange struct {
	Start int
	End   int
}

// Len returns the number of detections in the range.
func (r IndexRange) Len() int {
	return r.End - r.Start
}

// Validate checks that the range is non-negative and not inverted.
func (r IndexRange) Validate() error {
	if r.Start < 0 || r.End < r.Start {
		return fmt.Errorf("invalid index range [%d, %d)", r.Start, r.End)
	}
	return nil
}

func (r IndexRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// UnmarshalJSON decodes the two-element [start, end] form used by scenes.json.
func (r *IndexRange) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("radar_indices: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("radar_indices: expected 2 elements, got %d", len(pair))
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// MarshalJSON encodes the range as [start, end].
func (r IndexRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Start, r.End})
}
