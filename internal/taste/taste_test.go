package taste

import (
	"errors"
	"testing"
)

func TestValidateAcceptsFullRange(t *testing.T) {
	vectors := []Vector{
		Default(),
		{Boldness: 0, MaterialValue: 0, Utility: 0, Reliability: 0, Comfort: 0, Exclusivity: 0},
		{Boldness: 1, MaterialValue: 1, Utility: 1, Reliability: 1, Comfort: 1, Exclusivity: 1},
		{Boldness: 0.3, MaterialValue: 0.7, Utility: 0.1, Reliability: 0.9, Comfort: 0.5, Exclusivity: 0.5},
	}
	for _, v := range vectors {
		if err := v.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v, want nil", v, err)
		}
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		v    Vector
	}{
		{"negative boldness", Vector{Boldness: -0.1, MaterialValue: 0.5, Utility: 0.5, Reliability: 0.5, Comfort: 0.5, Exclusivity: 0.5}},
		{"excess exclusivity", Vector{Boldness: 0.5, MaterialValue: 0.5, Utility: 0.5, Reliability: 0.5, Comfort: 0.5, Exclusivity: 1.2}},
		{"excess reliability", Vector{Boldness: 0.5, MaterialValue: 0.5, Utility: 0.5, Reliability: 2, Comfort: 0.5, Exclusivity: 0.5}},
	}
	for _, tt := range tests {
		err := tt.v.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		var re *RangeError
		if !errors.As(err, &re) {
			t.Errorf("%s: expected *RangeError, got %T", tt.name, err)
		}
	}
}

func TestIsDefault(t *testing.T) {
	tests := []struct {
		name string
		v    Vector
		want bool
	}{
		{"exact default", Default(), true},
		{"slider float noise", Vector{Boldness: 0.49999999, MaterialValue: 0.5, Utility: 0.5, Reliability: 0.50000001, Comfort: 0.5, Exclusivity: 0.5}, true},
		{"single axis raised", Vector{Boldness: 0.6, MaterialValue: 0.5, Utility: 0.5, Reliability: 0.5, Comfort: 0.5, Exclusivity: 0.5}, false},
		{"single axis lowered", Vector{Boldness: 0.5, MaterialValue: 0.5, Utility: 0.4, Reliability: 0.5, Comfort: 0.5, Exclusivity: 0.5}, false},
		{"all ones", Vector{Boldness: 1, MaterialValue: 1, Utility: 1, Reliability: 1, Comfort: 1, Exclusivity: 1}, false},
	}
	for _, tt := range tests {
		if got := tt.v.IsDefault(); got != tt.want {
			t.Errorf("%s: IsDefault() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestQuantizedRoundsToSliderStep(t *testing.T) {
	v := Vector{Boldness: 0.44, MaterialValue: 0.46, Utility: 0.55, Reliability: 0.5, Comfort: 0.04, Exclusivity: 0.96}
	q := v.Quantized()
	if q.Boldness != quantize(0.44) || quantize(0.44) == quantize(0.46) {
		t.Errorf("0.44 and 0.46 should quantize to different steps: %v vs %v", quantize(0.44), quantize(0.46))
	}
	if q.Reliability != 0.5 {
		t.Errorf("0.5 should survive quantization, got %v", q.Reliability)
	}
	if quantize(0.04) != 0 {
		t.Errorf("0.04 should round down to 0, got %v", quantize(0.04))
	}
	if quantize(0.96) != 1 {
		t.Errorf("0.96 should round up to 1, got %v", quantize(0.96))
	}
}
