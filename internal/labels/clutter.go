package labels

import (
	"errors"
	"fmt"
)

// ErrInvalidLabel is returned when an integer does not name a ClutterLabel.
var ErrInvalidLabel = errors.New("invalid clutter label")

// ClutterLabel is the per-detection class of the clutter taxonomy.
type ClutterLabel int

const (
	// Clutter marks a background detection that moves without belonging to
	// any annotated object.
	Clutter ClutterLabel = 0
	// MovingObject marks a detection belonging to an annotated object, or a
	// moving detection close to one.
	MovingObject ClutterLabel = 1
	// Stationary marks a background detection below the motion threshold.
	Stationary ClutterLabel = 2
)

var clutterLabelNames = map[ClutterLabel]string{
	Clutter:      "CLUTTER",
	MovingObject: "MOVING_OBJECT",
	Stationary:   "STATIONARY",
}

// AllClutterLabels returns the clutter labels in integer order.
func AllClutterLabels() []ClutterLabel {
	return []ClutterLabel{Clutter, MovingObject, Stationary}
}

// Valid reports whether l is a member of the taxonomy.
func (l ClutterLabel) Valid() bool {
	_, ok := clutterLabelNames[l]
	return ok
}

// String returns the symbolic name, or ClutterLabel(n) for unknown values.
func (l ClutterLabel) String() string {
	if name, ok := clutterLabelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("ClutterLabel(%d)", int(l))
}

// ClutterLabelName converts an integer label ID into its symbolic name.
func ClutterLabelName(id int) (string, error) {
	name, ok := clutterLabelNames[ClutterLabel(id)]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrInvalidLabel, id)
	}
	return name, nil
}
