package session

import "math"

// Slider mirrors a float slider widget: values are clamped into [Min, Max]
// and snapped to Min + k*Step.
type Slider struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Value float64 `json:"value"`
}

// NewSlider returns a slider positioned at value.
func NewSlider(lo, hi, step, value float64) Slider {
	return Slider{Min: lo, Max: hi, Step: step}.Set(value)
}

// Set returns a copy of s moved as close to v as the widget allows.
func (s Slider) Set(v float64) Slider {
	if math.IsNaN(v) {
		return s
	}
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	v = math.Max(s.Min, math.Min(s.Max, v))
	s.Value = roundNoise(v)
	return s
}

// roundNoise trims float error introduced by step arithmetic, e.g. 1.3000000000000003.
func roundNoise(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
