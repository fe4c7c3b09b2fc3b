package stats

import (
	"math"
)

// TotalReturn returns the cumulative percentage change from the first to
// the last close, or 0 when fewer than 2 closes or a zero first close.
func TotalReturn(closes []float64) float64 {
	if len(closes) < 2 || closes[0] == 0 {
		return 0
	}
	return (closes[len(closes)-1] - closes[0]) / closes[0] * 100
}

// AnnualizedReturn converts a total percentage return over n periods into a
// compound annual rate assuming TradingPeriodsPerYear periods per year.
// The result is a fraction (0.08 for 8% a year).
func AnnualizedReturn(totalReturn float64, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	base := 1 + totalReturn/100
	if base <= 0 {
		return -1
	}
	return math.Pow(base, TradingPeriodsPerYear/float64(periods)) - 1
}

// AnnualizedVolatility scales per-period volatility by sqrt of the number
// of periods per year.
func AnnualizedVolatility(returns []float64) float64 {
	return StdDev(returns) * math.Sqrt(TradingPeriodsPerYear)
}

// WinRate returns the fraction of strictly positive returns, or 0 for an
// empty series.
func WinRate(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(returns))
}

// ProfitFactor returns the ratio of summed gains to the magnitude of summed
// losses. A series with no losses yields 0 rather than infinity.
func ProfitFactor(returns []float64) float64 {
	var gains, losses float64
	for _, r := range returns {
		if r > 0 {
			gains += r
		} else if r < 0 {
			losses += r
		}
	}
	if losses == 0 {
		return 0
	}
	return gains / math.Abs(losses)
}

// CalmarRatio relates annualized return (a fraction) to max drawdown (in
// percentage points). Zero drawdown yields 0.
func CalmarRatio(annualizedReturn, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return 0
	}
	return annualizedReturn * 100 / maxDrawdown
}
