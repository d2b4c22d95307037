// Package dataset enumerates the sequences and scenes of a RadarScenes
// dataset directory.
//
// Layout:
//
//	<root>/data/sequences.json
//	<root>/data/<sequence>/scenes.json
//	<root>/data/<sequence>/radar_data.db
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/banshee-data/radar-clutter/internal/fsutil"
	"github.com/banshee-data/radar-clutter/internal/security"
)

// File and directory names of the dataset layout.
const (
	DataDirName       = "data"
	SequencesFileName = "sequences.json"
	ScenesFileName    = "scenes.json"
	RadarDataFileName = "radar_data.db"
)

var (
	// ErrDatasetNotFound is returned when the dataset root or its
	// sequences.json cannot be found.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrUnknownSequence is returned for a sequence name missing from
	// sequences.json.
	ErrUnknownSequence = errors.New("unknown sequence")
)

// SequenceInfo is one entry of sequences.json.
type SequenceInfo struct {
	Category string `json:"category"`
	Scenes   int    `json:"scenes"`
}

type sequencesFile struct {
	Sequences map[string]SequenceInfo `json:"sequences"`
}

// Dataset is an opened dataset root.
type Dataset struct {
	fsys      fsutil.FileSystem
	root      string
	sequences map[string]SequenceInfo
}

// ResolveRoot expands a leading ~, makes path absolute and resolves
// symlinks. The directory must exist.
func ResolveRoot(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDatasetNotFound, abs, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDatasetNotFound, resolved, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrDatasetNotFound, resolved)
	}
	return resolved, nil
}

// Open reads <root>/data/sequences.json.
func Open(fsys fsutil.FileSystem, root string) (*Dataset, error) {
	path := filepath.Join(root, DataDirName, SequencesFileName)
	if !fsys.Exists(path) {
		return nil, fmt.Errorf("%w: missing %s", ErrDatasetNotFound, path)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var sf sequencesFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for name := range sf.Sequences {
		if err := security.ValidateEntryName(name); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if sf.Sequences == nil {
		sf.Sequences = map[string]SequenceInfo{}
	}

	return &Dataset{fsys: fsys, root: root, sequences: sf.Sequences}, nil
}

// DataDir returns <root>/data.
func (d *Dataset) DataDir() string { return filepath.Join(d.root, DataDirName) }

// Info returns the sequences.json entry for name.
func (d *Dataset) Info(name string) (SequenceInfo, bool) {
	info, ok := d.sequences[name]
	return info, ok
}

// SequenceNames returns all sequence names in natural order, so that
// sequence_2 sorts before sequence_10.
func (d *Dataset) SequenceNames() []string {
	names := make([]string, 0, len(d.sequences))
	for name := range d.sequences {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })
	return names
}

// SequenceDir returns the directory holding a sequence's files.
func (d *Dataset) SequenceDir(name string) string {
	return filepath.Join(d.DataDir(), name)
}

// LoadSequence reads the scenes.json of a sequence.
func (d *Dataset) LoadSequence(name string) (*Sequence, error) {
	info, ok := d.sequences[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSequence, name)
	}

	dir := d.SequenceDir(name)
	path := filepath.Join(dir, ScenesFileName)
	data, err := d.fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sequence %s: read scenes: %w", name, err)
	}

	seq, err := parseScenes(data)
	if err != nil {
		return nil, fmt.Errorf("sequence %s: parse %s: %w", name, path, err)
	}
	seq.Name = name
	seq.Dir = dir
	if seq.Category == "" {
		seq.Category = info.Category
	}
	return seq, nil
}

// naturalLess orders names by their trailing _<n> suffix when both have one.
func naturalLess(a, b string) bool {
	pa, na, okA := splitNumericSuffix(a)
	pb, nb, okB := splitNumericSuffix(b)
	if okA && okB && pa == pb && na != nb {
		return na < nb
	}
	return a < b
}

func splitNumericSuffix(s string) (string, int, bool) {
	i := strings.LastIndexByte(s, '_')
	if i < 0 {
		return s, 0, false
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return s, 0, false
	}
	return s[:i], n, true
}
