package stats

import (
	"math"
)

// JarqueBera returns the Jarque-Bera test statistic
// (n/6) * (skew^2 + kurt^2/4) over the excess kurtosis.
func JarqueBera(returns []float64) float64 {
	n := len(returns)
	if n == 0 {
		return 0
	}
	skew := Skewness(returns)
	kurt := Kurtosis(returns)
	return float64(n) / 6 * (skew*skew + kurt*kurt/4)
}

// JarqueBeraPValue returns the p-value of the statistic under the
// chi-square distribution with 2 degrees of freedom, whose survival
// function is exp(-x/2).
func JarqueBeraPValue(statistic float64) float64 {
	if statistic < 0 {
		return 1
	}
	return math.Exp(-statistic / 2)
}

// AndersonDarling returns the A-squared statistic of the returns against a
// normal distribution fitted by sample mean and population stdev, using the
// standard order-statistic formula. Returns 0 for fewer than 2 observations
// or zero variance.
func AndersonDarling(returns []float64) float64 {
	n := len(returns)
	if n < 2 {
		return 0
	}
	mean := Mean(returns)
	sd := StdDev(returns)
	if sd == 0 {
		return 0
	}

	sorted := sortedCopy(returns)
	sum := 0.0
	for i := 0; i < n; i++ {
		fi := clampProb(normalCDF((sorted[i] - mean) / sd))
		fn := clampProb(normalCDF((sorted[n-1-i] - mean) / sd))
		sum += float64(2*i+1) * (math.Log(fi) + math.Log(1-fn))
	}
	return -float64(n) - sum/float64(n)
}

// normalCDF is the standard normal CDF via the Abramowitz-Stegun 7.1.26
// erf approximation (max absolute error about 1.5e-7).
func normalCDF(z float64) float64 {
	return 0.5 * (1 + erf(z/math.Sqrt2))
}

func erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1
		x = -x
	}

	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)

	t := 1 / (1 + p*x)
	y := 1 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)
	return sign * y
}

// clampProb keeps CDF values strictly inside (0,1) so the log terms stay
// finite for extreme observations.
func clampProb(p float64) float64 {
	const eps = 1e-10
	if p < eps {
		return eps
	}
	if p > 1-eps {
		return 1 - eps
	}
	return p
}
