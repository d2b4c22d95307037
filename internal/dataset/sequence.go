package dataset

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/banshee-data/radar-clutter/internal/radar"
)

// Sequence is one recording: its scenes in timestamp order.
type Sequence struct {
	Name           string
	Category       string
	Dir            string
	FirstTimestamp int64
	LastTimestamp  int64
	Scenes         []Scene
}

// Scene is the metadata of one radar scan.
type Scene struct {
	Timestamp         int64
	PrevTimestamp     *int64
	NextTimestamp     *int64
	OdometryTimestamp int64
	OdometryIndex     int
	ImageName         string
	RadarIndices      radar.IndexRange
}

// RadarDataPath returns the path of the sequence's detection store.
func (s *Sequence) RadarDataPath() string {
	return filepath.Join(s.Dir, RadarDataFileName)
}

// RadarDataPath returns the detection store path of a sequence below root.
func RadarDataPath(root, sequence string) string {
	return filepath.Join(root, DataDirName, sequence, RadarDataFileName)
}

// Detections returns the total number of detections addressed by the
// sequence's scenes.
func (s *Sequence) Detections() int {
	n := 0
	for _, sc := range s.Scenes {
		n += sc.RadarIndices.Len()
	}
	return n
}

type scenesFile struct {
	SequenceName   string               `json:"sequence_name"`
	Category       string               `json:"category"`
	FirstTimestamp int64                `json:"first_timestamp"`
	LastTimestamp  int64                `json:"last_timestamp"`
	Scenes         map[string]sceneJSON `json:"scenes"`
}

type sceneJSON struct {
	PrevTimestamp     *int64           `json:"prev_timestamp"`
	NextTimestamp     *int64           `json:"next_timestamp"`
	OdometryTimestamp int64            `json:"odometry_timestamp"`
	OdometryIndex     int              `json:"odometry_index"`
	ImageName         string           `json:"image_name"`
	RadarIndices      radar.IndexRange `json:"radar_indices"`
}

func parseScenes(data []byte) (*Sequence, error) {
	var sf scenesFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, err
	}

	seq := &Sequence{
		Name:           sf.SequenceName,
		Category:       sf.Category,
		FirstTimestamp: sf.FirstTimestamp,
		LastTimestamp:  sf.LastTimestamp,
		Scenes:         make([]Scene, 0, len(sf.Scenes)),
	}
	for key, sc := range sf.Scenes {
		ts, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("scene key %q is not a timestamp: %w", key, err)
		}
		if err := sc.RadarIndices.Validate(); err != nil {
			return nil, fmt.Errorf("scene %d: %w", ts, err)
		}
		seq.Scenes = append(seq.Scenes, Scene{
			Timestamp:         ts,
			PrevTimestamp:     sc.PrevTimestamp,
			NextTimestamp:     sc.NextTimestamp,
			OdometryTimestamp: sc.OdometryTimestamp,
			OdometryIndex:     sc.OdometryIndex,
			ImageName:         sc.ImageName,
			RadarIndices:      sc.RadarIndices,
		})
	}
	sort.Slice(seq.Scenes, func(i, j int) bool { return seq.Scenes[i].Timestamp < seq.Scenes[j].Timestamp })
	return seq, nil
}
