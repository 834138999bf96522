package domain

// Filter returns the dates and values of s that fall inside r, inclusive at
// both ends, in their original order. A nil r means the full extent of s.
// An empty intersection returns empty, non-nil slices.
func Filter(s TimeSeries, r *DateRange) (dates, values []float64) {
	bounds := FullRange(s)
	if r != nil {
		bounds = *r
	}

	dates = make([]float64, 0, len(s.obs))
	values = make([]float64, 0, len(s.obs))
	for _, o := range s.obs {
		if bounds.Contains(o.Date) {
			dates = append(dates, o.Date)
			values = append(values, o.Value)
		}
	}
	return dates, values
}

// FilterPoints is Filter shaped for a renderer.
func FilterPoints(s TimeSeries, r *DateRange) []Point {
	dates, values := Filter(s, r)
	pts := make([]Point, len(dates))
	for i := range dates {
		pts[i] = Point{X: dates[i], Y: values[i]}
	}
	return pts
}
