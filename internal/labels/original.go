package labels

import (
	"errors"
	"fmt"
)

// ErrUnknownOriginalLabel is returned for label IDs outside the RadarScenes
// taxonomy.
var ErrUnknownOriginalLabel = errors.New("unknown original label")

// OriginalLabel is the RadarScenes annotation class of a detection.
type OriginalLabel int

// RadarScenes label IDs as stored in the radar_data label_id column.
const (
	Car                 OriginalLabel = 0
	LargeVehicle        OriginalLabel = 1
	Truck               OriginalLabel = 2
	Bus                 OriginalLabel = 3
	Train               OriginalLabel = 4
	Bicycle             OriginalLabel = 5
	MotorizedTwoWheeler OriginalLabel = 6
	Pedestrian          OriginalLabel = 7
	PedestrianGroup     OriginalLabel = 8
	Animal              OriginalLabel = 9
	OtherDynamic        OriginalLabel = 10
	Static              OriginalLabel = 11
)

var originalLabelNames = [...]string{
	Car:                 "CAR",
	LargeVehicle:        "LARGE_VEHICLE",
	Truck:               "TRUCK",
	Bus:                 "BUS",
	Train:               "TRAIN",
	Bicycle:             "BICYCLE",
	MotorizedTwoWheeler: "MOTORIZED_TWO_WHEELER",
	Pedestrian:          "PEDESTRIAN",
	PedestrianGroup:     "PEDESTRIAN_GROUP",
	Animal:              "ANIMAL",
	OtherDynamic:        "OTHER",
	Static:              "STATIC",
}

// ParseOriginalLabel validates a stored label ID against the source taxonomy.
func ParseOriginalLabel(id int) (OriginalLabel, error) {
	if id < int(Car) || id > int(Static) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownOriginalLabel, id)
	}
	return OriginalLabel(id), nil
}

// IsStatic reports whether l is the background class. Every other member of
// the taxonomy is an object class.
func (l OriginalLabel) IsStatic() bool {
	return l == Static
}

func (l OriginalLabel) String() string {
	if l >= Car && l <= Static {
		return originalLabelNames[l]
	}
	return fmt.Sprintf("OriginalLabel(%d)", int(l))
}
