package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Prediction is a single extrapolated value.
type Prediction struct {
	Year  float64 `json:"year"`
	Value float64 `json:"value"` // ppm
}

// Predict returns p.Slope*(target-initial) + p.Intercept. target may lie
// arbitrarily far from initial; no extrapolation warning is raised.
func Predict(p LineParams, initial, target float64) float64 {
	return p.Slope*(target-initial) + p.Intercept
}

// PredictAt wraps Predict into a Prediction for target.
func PredictAt(p LineParams, initial, target float64) Prediction {
	return Prediction{Year: target, Value: Predict(p, initial, target)}
}

// String renders the prediction as "Predicted CO2 in 2030: 459.00 ppm".
func (p Prediction) String() string {
	return fmt.Sprintf("Predicted CO2 in %s: %1.2f ppm", formatYear(p.Year), p.Value)
}

// formatYear prints whole years without a fractional part.
func formatYear(y float64) string {
	if y == math.Trunc(y) && !math.IsInf(y, 0) {
		return strconv.FormatFloat(y, 'f', 0, 64)
	}
	return strconv.FormatFloat(y, 'f', -1, 64)
}
