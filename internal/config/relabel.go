package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/banshee-data/radar-clutter/internal/relabel"
	"github.com/banshee-data/radar-clutter/internal/units"
)

// DefaultConfigPath is the path to the canonical relabel defaults file.
const DefaultConfigPath = "config/clutter.defaults.json"

// RelabelConfig holds the tunable parameters of a relabel run. Angles are in
// degrees so that the file stays readable; RelabelParams converts them.
type RelabelConfig struct {
	// Propagation window
	RangeToleranceM      *float64 `json:"range_tolerance_m,omitempty"`
	AzimuthErrorBaseDeg  *float64 `json:"azimuth_error_base_deg,omitempty"`
	AzimuthErrorMaxDeg   *float64 `json:"azimuth_error_max_deg,omitempty"`
	AzimuthSaturationDeg *float64 `json:"azimuth_saturation_deg,omitempty"`

	// Motion test
	MotionThreshold      *float64 `json:"motion_threshold,omitempty"`
	MotionThresholdUnits *string  `json:"motion_threshold_units,omitempty"` // mps, kmph, kph, mph

	// Number of sequences processed concurrently.
	Workers *int `json:"workers,omitempty"`
}

// EmptyRelabelConfig returns a RelabelConfig with all fields set to nil, so
// every getter returns its default.
func EmptyRelabelConfig() *RelabelConfig {
	return &RelabelConfig{}
}

// LoadRelabelConfig loads a RelabelConfig from a JSON file. Fields omitted
// from the file keep their defaults.
func LoadRelabelConfig(path string) (*RelabelConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRelabelConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *RelabelConfig) Validate() error {
	if c.MotionThresholdUnits != nil && *c.MotionThresholdUnits != "" && !units.IsValid(*c.MotionThresholdUnits) {
		return fmt.Errorf("motion_threshold_units must be one of mps, mph, kmph, kph, got %q", *c.MotionThresholdUnits)
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	if c.AzimuthSaturationDeg != nil && (*c.AzimuthSaturationDeg <= 0 || *c.AzimuthSaturationDeg > 180) {
		return fmt.Errorf("azimuth_saturation_deg must be in (0, 180], got %f", *c.AzimuthSaturationDeg)
	}

	p, err := c.RelabelParams()
	if err != nil {
		return err
	}
	return p.Validate()
}

// GetRangeToleranceM returns the range_tolerance_m value or the default.
func (c *RelabelConfig) GetRangeToleranceM() float64 {
	if c.RangeToleranceM == nil {
		return relabel.DefaultRangeTolerance
	}
	return *c.RangeToleranceM
}

// GetAzimuthErrorBaseDeg returns the azimuth_error_base_deg value or the default.
func (c *RelabelConfig) GetAzimuthErrorBaseDeg() float64 {
	if c.AzimuthErrorBaseDeg == nil {
		return units.RadToDeg(relabel.DefaultAzimuthErrorBase)
	}
	return *c.AzimuthErrorBaseDeg
}

// GetAzimuthErrorMaxDeg returns the azimuth_error_max_deg value or the default.
func (c *RelabelConfig) GetAzimuthErrorMaxDeg() float64 {
	if c.AzimuthErrorMaxDeg == nil {
		return units.RadToDeg(relabel.DefaultAzimuthErrorMax)
	}
	return *c.AzimuthErrorMaxDeg
}

// GetAzimuthSaturationDeg returns the azimuth_saturation_deg value or the default.
func (c *RelabelConfig) GetAzimuthSaturationDeg() float64 {
	if c.AzimuthSaturationDeg == nil {
		return units.RadToDeg(relabel.DefaultAzimuthSaturation)
	}
	return *c.AzimuthSaturationDeg
}

// GetMotionThresholdUnits returns the motion_threshold_units value or mps.
func (c *RelabelConfig) GetMotionThresholdUnits() string {
	if c.MotionThresholdUnits == nil || *c.MotionThresholdUnits == "" {
		return units.MPS
	}
	return *c.MotionThresholdUnits
}

// GetMotionThresholdMPS returns the motion threshold converted to m/s.
func (c *RelabelConfig) GetMotionThresholdMPS() (float64, error) {
	if c.MotionThreshold == nil {
		return relabel.DefaultMotionThreshold, nil
	}
	return units.ConvertToMPS(*c.MotionThreshold, c.GetMotionThresholdUnits())
}

// GetWorkers returns the workers value or the number of CPUs.
func (c *RelabelConfig) GetWorkers() int {
	if c.Workers == nil {
		return runtime.NumCPU()
	}
	return *c.Workers
}

// RelabelParams converts the configuration into relabeler tolerances.
func (c *RelabelConfig) RelabelParams() (relabel.Params, error) {
	threshold, err := c.GetMotionThresholdMPS()
	if err != nil {
		return relabel.Params{}, err
	}
	return relabel.Params{
		RangeTolerance:    c.GetRangeToleranceM(),
		AzimuthErrorBase:  units.DegToRad(c.GetAzimuthErrorBaseDeg()),
		AzimuthErrorMax:   units.DegToRad(c.GetAzimuthErrorMaxDeg()),
		AzimuthSaturation: units.DegToRad(c.GetAzimuthSaturationDeg()),
		MotionThreshold:   threshold,
	}, nil
}
