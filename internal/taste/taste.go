// Package taste defines the six-axis preference profile ("hexagon") that
// shoppers tune in the storefront and the engine uses to bias ranking.
package taste

import (
	"fmt"
	"math"
)

// Each axis is a slider from a low pole to a high pole; 0.5 is neutral.
// The storefront widget moves in 0.1 steps, so values are compared after
// rounding to one decimal.
const step = 0.1

// Vector is a six-dimensional taste profile. All fields are in [0, 1].
type Vector struct {
	Boldness      float64 `json:"boldness" koanf:"boldness"`
	MaterialValue float64 `json:"materialValue" koanf:"material_value"`
	Utility       float64 `json:"utility" koanf:"utility"`
	Reliability   float64 `json:"reliability" koanf:"reliability"`
	Comfort       float64 `json:"comfort" koanf:"comfort"`
	Exclusivity   float64 `json:"exclusivity" koanf:"exclusivity"`
}

// Default returns the neutral profile: every axis at 0.5.
func Default() Vector {
	return Vector{
		Boldness:      0.5,
		MaterialValue: 0.5,
		Utility:       0.5,
		Reliability:   0.5,
		Comfort:       0.5,
		Exclusivity:   0.5,
	}
}

// RangeError reports a taste axis outside the closed interval [0, 1].
type RangeError struct {
	Field string
	Value float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("taste axis %s = %v out of range [0, 1]", e.Field, e.Value)
}

// Validate checks every axis against [0, 1].
func (v Vector) Validate() error {
	for _, a := range v.axes() {
		if a.value < 0 || a.value > 1 || math.IsNaN(a.value) {
			return &RangeError{Field: a.name, Value: a.value}
		}
	}
	return nil
}

// IsDefault reports whether every axis equals the neutral 0.5. The check
// quantizes to the slider step first, so near-0.5 float noise from the
// input widget still counts as default.
func (v Vector) IsDefault() bool {
	q := v.Quantized()
	return q == Default()
}

// Quantized returns the vector with every axis rounded to the slider step.
func (v Vector) Quantized() Vector {
	return Vector{
		Boldness:      quantize(v.Boldness),
		MaterialValue: quantize(v.MaterialValue),
		Utility:       quantize(v.Utility),
		Reliability:   quantize(v.Reliability),
		Comfort:       quantize(v.Comfort),
		Exclusivity:   quantize(v.Exclusivity),
	}
}

func quantize(x float64) float64 {
	return math.Round(x/step) * step
}

type axis struct {
	name  string
	value float64
}

func (v Vector) axes() []axis {
	return []axis{
		{"boldness", v.Boldness},
		{"materialValue", v.MaterialValue},
		{"utility", v.Utility},
		{"reliability", v.Reliability},
		{"comfort", v.Comfort},
		{"exclusivity", v.Exclusivity},
	}
}
