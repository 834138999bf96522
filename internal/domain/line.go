package domain

import "iter"

// LineParams are the hand-tuned parameters of a straight line.
type LineParams struct {
	Slope     float64 `json:"slope"`     // ppm per year
	Intercept float64 `json:"intercept"` // ppm at the anchor date
}

// Anchor returns min(xs), the date at which Project pins the line to the
// intercept. ok is false for empty xs.
func Anchor(xs []float64) (x0 float64, ok bool) {
	x0, _, ok = ValueExtent(xs)
	return x0, ok
}

// Project evaluates ys[i] = p.Slope*(xs[i]-min(xs)) + p.Intercept.
//
// The anchor is min(xs) of the slice passed in, not of the full series. Two
// callers projecting the same params over different ranges get different
// lines; that is intended. The returned sequence is lazy and can be ranged
// over any number of times. It captures xs, so callers must not mutate xs
// while still iterating.
func Project(xs []float64, p LineParams) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		x0, ok := Anchor(xs)
		if !ok {
			return
		}
		for _, x := range xs {
			if !yield(p.Slope*(x-x0) + p.Intercept) {
				return
			}
		}
	}
}

// ProjectPoints materializes Project as renderer points.
func ProjectPoints(xs []float64, p LineParams) []Point {
	pts := make([]Point, 0, len(xs))
	i := 0
	for y := range Project(xs, p) {
		pts = append(pts, Point{X: xs[i], Y: y})
		i++
	}
	return pts
}
