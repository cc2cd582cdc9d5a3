package detect

import "math"

// meanStd returns the mean and population standard deviation of xs.
// Both are NaN for an empty slice, which fails every acceptance test.
func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}

// uniform reports whether the spread of distances is within tolerance as
// a fraction of their mean.
func uniform(mean, std, tolerance float64) bool {
	return std < tolerance*mean
}
