package radar

import (
	"encoding/json"
	"testing"
)

func TestIndexRangeJSON(t *testing.T) {
	var r IndexRange
	if err := json.Unmarshal([]byte(`[120, 245]`), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r != (IndexRange{Start: 120, End: 245}) {
		t.Errorf("Unmarshal = %+v", r)
	}
	if r.Len() != 125 {
		t.Errorf("Len() = %d, want 125", r.Len())
	}
	if got := r.String(); got != "[120, 245)" {
		t.Errorf("String() = %q", got)
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != "[120,245]" {
		t.Errorf("Marshal = %s, want [120,245]", out)
	}

	for _, bad := range []string{`[1]`, `{"start": 1}`} {
		if err := json.Unmarshal([]byte(bad), &r); err == nil {
			t.Errorf("Unmarshal(%s) should fail", bad)
		}
	}
}

func TestIndexRangeValidate(t *testing.T) {
	tests := []struct {
		r       IndexRange
		wantErr bool
	}{
		{IndexRange{Start: 0, End: 0}, false},
		{IndexRange{Start: 3, End: 9}, false},
		{IndexRange{Start: -1, End: 2}, true},
		{IndexRange{Start: 5, End: 4}, true},
	}
	for _, tt := range tests {
		err := tt.r.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%+v.Validate() error = %v, wantErr %v", tt.r, err, tt.wantErr)
		}
	}
}

func TestDetectionCompensatedVelocity(t *testing.T) {
	d := Detection{VelocityRelative: 1.2}
	if d.HasCompensatedVelocity() {
		t.Error("detection without vr_compensated reports one")
	}

	d.VelocityCompensated = Float64(0)
	if !d.HasCompensatedVelocity() {
		t.Error("zero vr_compensated should count as defined")
	}
}
