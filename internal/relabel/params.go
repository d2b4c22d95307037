package relabel

import (
	"fmt"
	"math"

	"github.com/banshee-data/radar-clutter/internal/radar"
)

// Default tolerances. The motion threshold is roughly three standard
// deviations of the 0.1 m/s sensor velocity noise plus 0.2 m/s of
// ego-motion compensation error.
const (
	DefaultRangeTolerance    = 0.3          // metres
	DefaultAzimuthErrorBase  = math.Pi / 90 // 2 degrees at boresight
	DefaultAzimuthErrorMax   = math.Pi / 45 // 4 degrees at and beyond saturation
	DefaultAzimuthSaturation = math.Pi / 3  // 60 degrees
	DefaultMotionThreshold   = 0.5          // m/s
)

// Params holds the geometric and kinematic tolerances of the relabeler.
// Angles are in radians.
type Params struct {
	RangeTolerance    float64
	AzimuthErrorBase  float64
	AzimuthErrorMax   float64
	AzimuthSaturation float64
	MotionThreshold   float64
}

// DefaultParams returns the tolerances used to generate the published labels.
func DefaultParams() Params {
	return Params{
		RangeTolerance:    DefaultRangeTolerance,
		AzimuthErrorBase:  DefaultAzimuthErrorBase,
		AzimuthErrorMax:   DefaultAzimuthErrorMax,
		AzimuthSaturation: DefaultAzimuthSaturation,
		MotionThreshold:   DefaultMotionThreshold,
	}
}

// Validate checks that the tolerances describe usable windows.
func (p Params) Validate() error {
	if p.RangeTolerance < 0 {
		return fmt.Errorf("range tolerance must be non-negative, got %f", p.RangeTolerance)
	}
	if p.AzimuthErrorBase < 0 {
		return fmt.Errorf("azimuth error base must be non-negative, got %f", p.AzimuthErrorBase)
	}
	if p.AzimuthErrorMax < p.AzimuthErrorBase {
		return fmt.Errorf("azimuth error max (%f) must not be below base (%f)", p.AzimuthErrorMax, p.AzimuthErrorBase)
	}
	if p.AzimuthSaturation <= 0 {
		return fmt.Errorf("azimuth saturation must be positive, got %f", p.AzimuthSaturation)
	}
	if p.MotionThreshold < 0 {
		return fmt.Errorf("motion threshold must be non-negative, got %f", p.MotionThreshold)
	}
	return nil
}

// Window is a closed interval [Lo, Hi].
type Window struct {
	Lo, Hi float64
}

// Contains reports whether v lies inside the window, bounds included.
func (w Window) Contains(v float64) bool {
	return v >= w.Lo && v <= w.Hi
}

// AzimuthError returns the half-width of the azimuth window for a detection
// at the given azimuth. It grows linearly from AzimuthErrorBase at boresight
// to AzimuthErrorMax at AzimuthSaturation and stays there beyond.
func (p Params) AzimuthError(azimuth float64) float64 {
	a := math.Min(math.Abs(azimuth), p.AzimuthSaturation)
	return p.AzimuthErrorBase + a*(p.AzimuthErrorMax-p.AzimuthErrorBase)/p.AzimuthSaturation
}

// RangeWindow returns d.Range ± RangeTolerance.
func (p Params) RangeWindow(d radar.Detection) Window {
	return Window{Lo: d.Range - p.RangeTolerance, Hi: d.Range + p.RangeTolerance}
}

// AzimuthWindow returns d.Azimuth ± AzimuthError(d.Azimuth).
func (p Params) AzimuthWindow(d radar.Detection) Window {
	e := p.AzimuthError(d.Azimuth)
	return Window{Lo: d.Azimuth - e, Hi: d.Azimuth + e}
}

// IsMoving applies the motion test. The compensated velocity decides when it
// was recorded; otherwise the relative velocity is used, which equals the
// compensated one while the platform is stationary.
func (p Params) IsMoving(d radar.Detection) bool {
	v := d.VelocityRelative
	if d.VelocityCompensated != nil {
		v = *d.VelocityCompensated
	}
	return math.Abs(v) >= p.MotionThreshold
}
