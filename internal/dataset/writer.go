package dataset

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/radar-clutter/internal/fsutil"
	"github.com/banshee-data/radar-clutter/internal/security"
)

// WriteIndex writes <root>/data/sequences.json.
func WriteIndex(fsys fsutil.FileSystem, root string, sequences map[string]SequenceInfo) error {
	dataDir := filepath.Join(root, DataDirName)
	if err := fsys.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dataDir, err)
	}
	data, err := json.MarshalIndent(sequencesFile{Sequences: sequences}, "", "  ")
	if err != nil {
		return err
	}
	return fsys.WriteFile(filepath.Join(dataDir, SequencesFileName), data, 0644)
}

// WriteSequence writes <root>/data/<seq.Name>/scenes.json.
func WriteSequence(fsys fsutil.FileSystem, root string, seq *Sequence) error {
	if err := security.ValidateEntryName(seq.Name); err != nil {
		return err
	}
	dir := filepath.Join(root, DataDirName, seq.Name)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	sf := scenesFile{
		SequenceName:   seq.Name,
		Category:       seq.Category,
		FirstTimestamp: seq.FirstTimestamp,
		LastTimestamp:  seq.LastTimestamp,
		Scenes:         make(map[string]sceneJSON, len(seq.Scenes)),
	}
	for _, sc := range seq.Scenes {
		sf.Scenes[strconv.FormatInt(sc.Timestamp, 10)] = sceneJSON{
			PrevTimestamp:     sc.PrevTimestamp,
			NextTimestamp:     sc.NextTimestamp,
			OdometryTimestamp: sc.OdometryTimestamp,
			OdometryIndex:     sc.OdometryIndex,
			ImageName:         sc.ImageName,
			RadarIndices:      sc.RadarIndices,
		}
	}
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	return fsys.WriteFile(filepath.Join(dir, ScenesFileName), data, 0644)
}
