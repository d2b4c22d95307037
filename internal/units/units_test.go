package units

import (
	"math"
	"testing"
)

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name     string
		speedMPS float64
		units    string
		expected float64
	}{
		{"10 m/s to mph", 10.0, MPH, 22.3694},
		{"10 m/s to kmph", 10.0, KMPH, 36.0},
		{"10 m/s to kph", 10.0, KPH, 36.0},
		{"10 m/s to mps", 10.0, MPS, 10.0},
		{"unknown units default to mps", 10.0, "unknown", 10.0},
		{"motion threshold to kmph", 0.5, KMPH, 1.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertSpeed(tt.speedMPS, tt.units)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("ConvertSpeed(%f, %s) = %f, want %f", tt.speedMPS, tt.units, result, tt.expected)
			}
		})
	}
}

func TestConvertToMPS(t *testing.T) {
	tests := []struct {
		name    string
		speed   float64
		units   string
		want    float64
		wantErr bool
	}{
		{"mps passthrough", 0.5, MPS, 0.5, false},
		{"empty means mps", 0.5, "", 0.5, false},
		{"kmph", 1.8, KMPH, 0.5, false},
		{"kph", 36, KPH, 10, false},
		{"mph", 22.3694, MPH, 10, false},
		{"unknown", 1, "knots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertToMPS(tt.speed, tt.units)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.units)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("ConvertToMPS(%f, %s) = %f, want %f", tt.speed, tt.units, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, u := range ValidUnits {
		if !IsValid(u) {
			t.Errorf("IsValid(%s) = false", u)
		}
	}
	if IsValid("MPH") {
		t.Error("unit names are case sensitive")
	}
}

func TestAngleConversions(t *testing.T) {
	if got := DegToRad(2); math.Abs(got-math.Pi/90) > 1e-15 {
		t.Errorf("DegToRad(2) = %v, want pi/90", got)
	}
	if got := DegToRad(60); math.Abs(got-math.Pi/3) > 1e-15 {
		t.Errorf("DegToRad(60) = %v, want pi/3", got)
	}
	if got := RadToDeg(math.Pi / 45); math.Abs(got-4) > 1e-12 {
		t.Errorf("RadToDeg(pi/45) = %v, want 4", got)
	}
}
