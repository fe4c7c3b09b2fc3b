package domain

import (
	"time"
)

// PriceStatistics summarizes the raw close-price level of a series.
type PriceStatistics struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	First    float64 `json:"first"`
	Last     float64 `json:"last"`
	Count    int     `json:"count"`
}

// ReturnStatistics summarizes the daily percentage-return distribution.
type ReturnStatistics struct {
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess kurtosis
	Count    int     `json:"count"`
}

// RiskMetrics bundles tail and ratio risk measures over a return series.
type RiskMetrics struct {
	Volatility        float64 `json:"volatility"`
	VaR95             float64 `json:"var_95"`
	VaR99             float64 `json:"var_99"`
	ExpectedShortfall float64 `json:"expected_shortfall"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	SortinoRatio      float64 `json:"sortino_ratio"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	DownsideDeviation float64 `json:"downside_deviation"`
}

// PerformanceMetrics bundles annualized performance measures.
type PerformanceMetrics struct {
	TotalReturn          float64 `json:"total_return"`
	AnnualizedReturn     float64 `json:"annualized_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	WinRate              float64 `json:"win_rate"`
	ProfitFactor         float64 `json:"profit_factor"`
	CalmarRatio          float64 `json:"calmar_ratio"`
}

// DistributionAnalysis carries normality diagnostics for a return series.
// The tests are approximations; statistics follow the standard formulas.
type DistributionAnalysis struct {
	JarqueBera       float64 `json:"jarque_bera"`
	JarqueBeraPValue float64 `json:"jarque_bera_p_value"`
	AndersonDarling  float64 `json:"anderson_darling"`
	IsNormal         bool    `json:"is_normal"`
}

// SeasonalitySummary condenses the strongest patterns into the snapshot.
type SeasonalitySummary struct {
	BestMonth    string  `json:"best_month,omitempty"`
	WorstMonth   string  `json:"worst_month,omitempty"`
	BestWeekday  string  `json:"best_weekday,omitempty"`
	WorstWeekday string  `json:"worst_weekday,omitempty"`
	BestQuarter  string  `json:"best_quarter,omitempty"`
	WorstQuarter string  `json:"worst_quarter,omitempty"`
	PatternCount int     `json:"pattern_count"`
	TopAvgReturn float64 `json:"top_avg_return"`
}

// StatisticsSnapshot is the cached, JSON-serializable statistics bundle for
// one (symbol, timeframe, analysis type). Staleness policy is owned by the
// caller; the snapshot only records when it was computed and when it expires.
type StatisticsSnapshot struct {
	ID           string                `json:"id" validate:"required,uuid"`
	Symbol       string                `json:"symbol" validate:"required"`
	Timeframe    Timeframe             `json:"timeframe" validate:"required"`
	AnalysisType string                `json:"analysis_type" validate:"required"`
	Price        PriceStatistics       `json:"price"`
	Returns      ReturnStatistics      `json:"returns"`
	Risk         RiskMetrics           `json:"risk"`
	Performance  PerformanceMetrics    `json:"performance"`
	Distribution DistributionAnalysis  `json:"distribution"`
	Seasonality  *SeasonalitySummary   `json:"seasonality,omitempty"`
	RangeStart   time.Time             `json:"range_start"`
	RangeEnd     time.Time             `json:"range_end"`
	ComputedAt   time.Time             `json:"computed_at"`
	ExpiresAt    time.Time             `json:"expires_at"`
}
