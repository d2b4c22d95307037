// Package radar holds the detection record shared by storage and relabeling.
package radar

// Detection is one radar point of a scan. Field names follow the RadarScenes
// radar_data columns they are read from.
type Detection struct {
	Timestamp int64 // microseconds, shared by all detections of a scan
	SensorID  int

	Range   float64 // range_sc, metres from the sensor
	Azimuth float64 // azimuth_sc, radians from boresight
	RCS     float64

	// VelocityRelative is the raw radial velocity (vr) in m/s.
	VelocityRelative float64
	// VelocityCompensated is the ego-motion compensated radial velocity
	// (vr_compensated) in m/s. Nil when the recording omitted compensation.
	VelocityCompensated *float64

	XCC, YCC   float64 // car coordinates
	XSeq, YSeq float64 // sequence coordinates

	UUID    string
	TrackID string

	// Label is the stored label_id. Before relabeling it is a RadarScenes
	// label, afterwards a clutter label.
	Label int
}

// HasCompensatedVelocity reports whether vr_compensated was recorded.
func (d Detection) HasCompensatedVelocity() bool {
	return d.VelocityCompensated != nil
}

// Float64 returns a pointer to v, for populating VelocityCompensated.
func Float64(v float64) *float64 { return &v }
