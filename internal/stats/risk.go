package stats

// TradingPeriodsPerYear is the annualization base for daily series.
const TradingPeriodsPerYear = 252

// VaR returns the historical Value at Risk at tail probability p (for
// example p=0.05 for 95% VaR) as the p-th quantile of the return series.
func VaR(returns []float64, p float64) float64 {
	return Quantile(returns, p)
}

// ExpectedShortfall returns the mean of returns at or below VaR(p), the
// tail-conditional expectation. Returns 0 when the tail is empty.
func ExpectedShortfall(returns []float64, p float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	cutoff := VaR(returns, p)
	var tail []float64
	for _, r := range returns {
		if r <= cutoff {
			tail = append(tail, r)
		}
	}
	return Mean(tail)
}

// SharpeRatio returns the per-period Sharpe ratio with the annual risk-free
// rate spread over TradingPeriodsPerYear periods. Zero volatility yields 0.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	sd := StdDev(returns)
	if sd == 0 {
		return 0
	}
	return (Mean(returns) - riskFreeRate/TradingPeriodsPerYear) / sd
}

// SortinoRatio is the Sharpe variant that penalizes only downside
// volatility. Zero downside deviation yields 0.
func SortinoRatio(returns []float64, riskFreeRate float64) float64 {
	dd := DownsideDeviation(returns)
	if dd == 0 {
		return 0
	}
	return (Mean(returns) - riskFreeRate/TradingPeriodsPerYear) / dd
}

// DownsideDeviation returns the population standard deviation of the
// negative returns only, or 0 when there are none.
func DownsideDeviation(returns []float64) float64 {
	var negatives []float64
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	return StdDev(negatives)
}

// MaxDrawdown returns the largest peak-to-trough decline of the cumulative
// sum of percentage returns, as a non-negative number. The cumulative-sum
// basis is a linear approximation of compounded drawdown, preserved
// deliberately; see the package documentation.
func MaxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	cum, peak, maxDD := 0.0, 0.0, 0.0
	for _, r := range returns {
		cum += r
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
