// Package units provides angle and speed conversions shared by configuration
// and reporting.
package units

import "fmt"

// Speed unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid speed unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

const mpsToMPH = 2.2369362920544

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// ConvertSpeed converts a speed from metres per second to the target units.
// Unknown units leave the value unchanged.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * mpsToMPH
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// ConvertToMPS converts a speed given in sourceUnits to metres per second.
func ConvertToMPS(speed float64, sourceUnits string) (float64, error) {
	switch sourceUnits {
	case MPS, "":
		return speed, nil
	case MPH:
		return speed / mpsToMPH, nil
	case KMPH, KPH:
		return speed / 3.6, nil
	default:
		return 0, fmt.Errorf("unknown speed unit %q (valid: mps, mph, kmph, kph)", sourceUnits)
	}
}
