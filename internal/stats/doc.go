// Package stats implements the statistics engine over close-price and
// return series: descriptive moments and quantiles, tail risk (VaR,
// expected shortfall), risk-adjusted ratios (Sharpe, Sortino, Calmar),
// annualized performance and approximate normality diagnostics
// (Jarque-Bera, Anderson-Darling).
//
// Leaf aggregate functions treat an empty input as 0 and guard every
// division; only the comprehensive snapshot entry point returns an
// insufficient-data error, and only for fewer than 2 observations.
//
// Max drawdown operates on the cumulative sum of percentage returns, a
// linear approximation rather than compounded drawdown. The pinned test
// documents this; do not switch to a cumulative product without a product
// decision.
package stats
