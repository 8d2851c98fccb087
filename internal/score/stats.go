package score

import "gonum.org/v1/gonum/stat"

// Spread is the mean and sample standard deviation of timing offsets.
func Spread(offsets []float64) (mean, stdev float64) {
	switch len(offsets) {
	case 0:
		return 0, 0
	case 1:
		return offsets[0], 0
	}
	return stat.MeanStdDev(offsets, nil)
}
