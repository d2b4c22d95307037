package relabel

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/radar-clutter/internal/labels"
	"github.com/banshee-data/radar-clutter/internal/radar"
)

func object(r, az float64) radar.Detection {
	return radar.Detection{Range: r, Azimuth: az, VelocityCompensated: radar.Float64(0), Label: int(labels.Car)}
}

func background(r, az float64, vc *float64, vr float64) radar.Detection {
	return radar.Detection{Range: r, Azimuth: az, VelocityCompensated: vc, VelocityRelative: vr, Label: int(labels.Static)}
}

func relabel(t *testing.T, scan []radar.Detection) []labels.ClutterLabel {
	t.Helper()
	got, err := New(DefaultParams()).Relabel(scan)
	require.NoError(t, err)
	require.Len(t, got, len(scan))
	return got
}

func TestRelabelObjectNearMovingBackground(t *testing.T) {
	scan := []radar.Detection{
		object(10.0, 0.0),
		background(10.2, 0.01, nil, 0.6),
	}

	got := relabel(t, scan)
	want := []labels.ClutterLabel{labels.MovingObject, labels.MovingObject}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Relabel() mismatch (-want +got):\n%s", diff)
	}
}

func TestRelabelCompensatedVelocityTakesPrecedence(t *testing.T) {
	scan := []radar.Detection{background(25, 0.4, radar.Float64(0.0), 5.0)}
	assert.Equal(t, []labels.ClutterLabel{labels.Stationary}, relabel(t, scan))
}

func TestRelabelObjectsAreAlwaysMoving(t *testing.T) {
	scan := make([]radar.Detection, 0, 11)
	for l := labels.Car; l < labels.Static; l++ {
		d := object(float64(l)*5+3, 0.2)
		d.Label = int(l)
		d.VelocityCompensated = radar.Float64(0)
		scan = append(scan, d)
	}

	for i, l := range relabel(t, scan) {
		assert.Equal(t, labels.MovingObject, l, "detection %d", i)
	}
}

func TestRelabelBackgroundSplit(t *testing.T) {
	scan := []radar.Detection{
		background(5, 0.1, radar.Float64(0.5), 0),
		background(6, 0.2, radar.Float64(0.4999), 0),
		background(7, -0.3, nil, 0.6),
		background(8, -0.4, nil, 0.2),
		background(9, 0.5, radar.Float64(0.1), 3.0),
	}

	want := []labels.ClutterLabel{
		labels.Clutter,
		labels.Stationary,
		labels.Clutter,
		labels.Stationary,
		labels.Stationary,
	}
	if diff := cmp.Diff(want, relabel(t, scan)); diff != "" {
		t.Errorf("Relabel() mismatch (-want +got):\n%s", diff)
	}
}

func TestRelabelPropagationWindow(t *testing.T) {
	tests := []struct {
		name string
		bg   radar.Detection
		want labels.ClutterLabel
	}{
		{"moving inside window", background(10.25, 0.02, radar.Float64(1), 0), labels.MovingObject},
		{"stationary inside window", background(10.1, 0.0, radar.Float64(0.2), 0), labels.Stationary},
		{"moving beyond range window", background(10.31, 0.0, radar.Float64(1), 0), labels.Clutter},
		{"moving below range window", background(9.69, 0.0, radar.Float64(1), 0), labels.Clutter},
		{"moving beyond azimuth window", background(10.0, 0.036, radar.Float64(1), 0), labels.Clutter},
		{"moving at negative azimuth edge", background(10.0, -0.034, radar.Float64(-2), 0), labels.MovingObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := relabel(t, []radar.Detection{object(10, 0), tt.bg})
			assert.Equal(t, labels.MovingObject, got[0])
			assert.Equal(t, tt.want, got[1])
		})
	}
}

func TestRelabelAzimuthWindowWidensWithAngle(t *testing.T) {
	// 3.5 degrees off an object at 60 degrees is inside the 4 degree window,
	// but outside the 2 degree window at boresight.
	const offset = 0.0610865 // ~3.5 degrees
	wide := []radar.Detection{object(20, 1.0471976), background(20, 1.0471976+offset, radar.Float64(1), 0)}
	narrow := []radar.Detection{object(20, 0), background(20, offset, radar.Float64(1), 0)}

	assert.Equal(t, labels.MovingObject, relabel(t, wide)[1])
	assert.Equal(t, labels.Clutter, relabel(t, narrow)[1])
}

func TestRelabelLaterObjectPromotesEarlierClutter(t *testing.T) {
	// The background detection is visited first and written as Clutter;
	// the object after it still promotes it.
	scan := []radar.Detection{
		background(10.2, 0.01, nil, 0.6),
		object(10.0, 0.0),
	}

	assert.Equal(t, []labels.ClutterLabel{labels.MovingObject, labels.MovingObject}, relabel(t, scan))
}

func TestRelabelPromotedBackgroundIsNotReconsidered(t *testing.T) {
	scan := []radar.Detection{
		object(10.0, 0.0),
		background(10.2, 0.01, radar.Float64(3), 0),
	}

	got := relabel(t, scan)
	assert.Equal(t, labels.MovingObject, got[1])
}

func TestRelabelPropagationIsSingleHop(t *testing.T) {
	// The second background point is near the promoted one but outside the
	// object's own window, so it stays clutter.
	scan := []radar.Detection{
		object(10.0, 0.0),
		background(10.25, 0.0, radar.Float64(1), 0),
		background(10.5, 0.0, radar.Float64(1), 0),
	}

	want := []labels.ClutterLabel{labels.MovingObject, labels.MovingObject, labels.Clutter}
	assert.Equal(t, want, relabel(t, scan))
}

func TestRelabelDoesNotModifyInput(t *testing.T) {
	scan := []radar.Detection{
		object(10.0, 0.0),
		background(10.2, 0.01, nil, 0.6),
		background(40, 0.3, radar.Float64(0), 0),
	}
	before := make([]radar.Detection, len(scan))
	copy(before, scan)

	relabel(t, scan)
	if diff := cmp.Diff(before, scan); diff != "" {
		t.Errorf("input scan modified (-before +after):\n%s", diff)
	}
}

func TestRelabelEmptyScan(t *testing.T) {
	got, err := New(DefaultParams()).Relabel(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRelabelUnknownOriginalLabel(t *testing.T) {
	scan := []radar.Detection{
		object(10, 0),
		{Range: 3, Label: 12},
	}

	got, err := New(DefaultParams()).Relabel(scan)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, labels.ErrUnknownOriginalLabel))

	var le *LabelError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 1, le.Index)
	assert.Equal(t, 12, le.Value)
}

func TestRelabelCustomParams(t *testing.T) {
	p := DefaultParams()
	p.MotionThreshold = 2.0
	p.RangeTolerance = 1.0

	scan := []radar.Detection{
		object(10, 0),
		background(10.8, 0, radar.Float64(2.5), 0),
		background(30, 0, radar.Float64(1.5), 0),
	}
	got, err := New(p).Relabel(scan)
	require.NoError(t, err)
	assert.Equal(t, []labels.ClutterLabel{labels.MovingObject, labels.MovingObject, labels.Stationary}, got)
}

func TestCount(t *testing.T) {
	c := Count([]labels.ClutterLabel{labels.Clutter, labels.MovingObject, labels.MovingObject, labels.Stationary, labels.ClutterLabel(9)})
	assert.Equal(t, Counts{Clutter: 1, MovingObject: 2, Stationary: 1}, c)
	assert.Equal(t, 4, c.Total())

	c.Add(Counts{Clutter: 2, Stationary: 3})
	assert.Equal(t, Counts{Clutter: 3, MovingObject: 2, Stationary: 4}, c)
}
