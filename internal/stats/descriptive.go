package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or 0 for an empty series.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle order statistic, averaging the two middle
// elements for an even count. Returns 0 for an empty series.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := sortedCopy(values)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// StdDev returns the population standard deviation, or 0 for an empty
// series.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return math.Sqrt(variance(values))
}

// variance is the population variance around the mean.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// Min returns the smallest value, or 0 for an empty series.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value, or 0 for an empty series.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Quantile returns the p-th quantile (p in [0,1]) by linear interpolation
// between order statistics: index = p*(n-1), interpolating between the
// floor and ceil positions. Returns 0 for an empty series.
func Quantile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return Min(values)
	}
	if p >= 1 {
		return Max(values)
	}

	sorted := sortedCopy(values)
	idx := p * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Skewness returns the population skewness (mean of standardized cubes),
// or 0 when the series is empty or has zero variance.
func Skewness(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := Mean(values)
	sd := StdDev(values)
	if sd == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		z := (v - mean) / sd
		sum += z * z * z
	}
	return sum / float64(n)
}

// Kurtosis returns the excess kurtosis (mean of standardized fourth powers
// minus 3), or 0 when the series is empty or has zero variance.
func Kurtosis(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := Mean(values)
	sd := StdDev(values)
	if sd == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		z := (v - mean) / sd
		sum += z * z * z * z
	}
	return sum/float64(n) - 3
}

// Returns converts an ordered close series into percentage returns:
// returns[i-1] = (close[i]-close[i-1]) / close[i-1] * 100. A zero previous
// close contributes a 0 return rather than dividing.
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return []float64{}
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (closes[i]-prev)/prev*100)
	}
	return out
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}
