package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RollingMean returns the trailing-window mean of values. The first
// window-1 entries are NaN, as is any window containing a NaN.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if window <= 0 || i+1 < window {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.Mean(values[i+1-window:i+1], nil)
	}
	return out
}

// EWMA blends each value with its predecessor:
// out[t] = current*x[t] + previous*x[t-1], using x[t] for the missing x[-1].
// Results are rounded to two decimals.
func EWMA(values []float64, current, previous float64) []float64 {
	out := make([]float64, len(values))
	for i, x := range values {
		prev := x
		if i > 0 {
			prev = values[i-1]
		}
		out[i] = Round(current*x+previous*prev, 2)
	}
	return out
}

// Round rounds v half away from zero to the given number of decimals
func Round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}

func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
