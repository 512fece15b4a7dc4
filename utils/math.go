package utils

import (
	"math"
)

// Square returns n*n.
func Square(n float64) float64 {
	return n * n
}

// Lerp linearly interpolates between x and y by a.
func Lerp(x, y, a float64) float64 {
	return x*(1-a) + y*a
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// SelectKth returns the k-th smallest (0 based) value of values using
// Hoare's selection in expected linear time. values is reordered in place.
// It returns 0 for an empty slice and clamps k into range.
func SelectKth(values []float64, k int) float64 {
	if len(values) == 0 {
		return 0
	}
	if k < 0 {
		k = 0
	}
	if k >= len(values) {
		k = len(values) - 1
	}

	lo, hi := 0, len(values)-1
	for lo < hi {
		pivot := medianOfThree(values, lo, hi)
		i, j := lo, hi
		for i <= j {
			for values[i] < pivot {
				i++
			}
			for values[j] > pivot {
				j--
			}
			if i <= j {
				values[i], values[j] = values[j], values[i]
				i++
				j--
			}
		}
		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return values[k]
		}
	}
	return values[k]
}

func medianOfThree(values []float64, lo, hi int) float64 {
	a, b, c := values[lo], values[lo+(hi-lo)/2], values[hi]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}
	return b
}
