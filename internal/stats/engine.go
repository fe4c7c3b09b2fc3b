package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/pkg/contracts/domain"
)

// normalityAlpha is the significance level used to call a distribution
// normal from the Jarque-Bera p-value.
const normalityAlpha = 0.05

// Engine computes comprehensive statistics snapshots over close series.
// It is stateless apart from configuration and safe for concurrent use.
type Engine struct {
	logger       *slog.Logger
	riskFreeRate float64
}

// EngineConfig holds statistics engine configuration.
type EngineConfig struct {
	RiskFreeRate float64 // annual, as a percentage (6.5 for 6.5%)
}

// NewEngine creates a statistics engine.
func NewEngine(logger *slog.Logger, cfg EngineConfig) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, riskFreeRate: cfg.RiskFreeRate}
}

// Comprehensive computes the full statistics snapshot for one instrument's
// close series. It is the only entry point that fails on short input:
// fewer than 2 closes returns an insufficient-data error. Every leaf
// aggregate underneath treats empty input as 0.
func (e *Engine) Comprehensive(ctx context.Context, symbol string, tf domain.Timeframe, analysisType string, closes []float64, rangeStart, rangeEnd time.Time, ttl time.Duration) (*domain.StatisticsSnapshot, error) {
	if len(closes) < 2 {
		return nil, apperrors.NewInsufficientDataError(
			fmt.Sprintf("need at least 2 closes for %s, got %d", symbol, len(closes)))
	}

	start := time.Now()
	returns := Returns(closes)

	totalReturn := TotalReturn(closes)
	annualized := AnnualizedReturn(totalReturn, len(returns))
	maxDD := MaxDrawdown(returns)
	jb := JarqueBera(returns)
	jbP := JarqueBeraPValue(jb)

	now := time.Now().UTC()
	snapshot := &domain.StatisticsSnapshot{
		ID:           uuid.NewString(),
		Symbol:       symbol,
		Timeframe:    tf,
		AnalysisType: analysisType,
		Price: domain.PriceStatistics{
			Mean:   Mean(closes),
			Median: Median(closes),
			StdDev: StdDev(closes),
			Min:    Min(closes),
			Max:    Max(closes),
			First:  closes[0],
			Last:   closes[len(closes)-1],
			Count:  len(closes),
		},
		Returns: domain.ReturnStatistics{
			Mean:     Mean(returns),
			Median:   Median(returns),
			StdDev:   StdDev(returns),
			Min:      Min(returns),
			Max:      Max(returns),
			Skewness: Skewness(returns),
			Kurtosis: Kurtosis(returns),
			Count:    len(returns),
		},
		Risk: domain.RiskMetrics{
			Volatility:        StdDev(returns),
			VaR95:             VaR(returns, 0.05),
			VaR99:             VaR(returns, 0.01),
			ExpectedShortfall: ExpectedShortfall(returns, 0.05),
			SharpeRatio:       SharpeRatio(returns, e.riskFreeRate),
			SortinoRatio:      SortinoRatio(returns, e.riskFreeRate),
			MaxDrawdown:       maxDD,
			DownsideDeviation: DownsideDeviation(returns),
		},
		Performance: domain.PerformanceMetrics{
			TotalReturn:          totalReturn,
			AnnualizedReturn:     annualized,
			AnnualizedVolatility: AnnualizedVolatility(returns),
			WinRate:              WinRate(returns),
			ProfitFactor:         ProfitFactor(returns),
			CalmarRatio:          CalmarRatio(annualized, maxDD),
		},
		Distribution: domain.DistributionAnalysis{
			JarqueBera:       jb,
			JarqueBeraPValue: jbP,
			AndersonDarling:  AndersonDarling(returns),
			IsNormal:         jbP > normalityAlpha,
		},
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		ComputedAt: now,
		ExpiresAt:  now.Add(ttl),
	}

	e.logger.DebugContext(ctx, "computed statistics snapshot",
		slog.String("symbol", symbol),
		slog.String("timeframe", string(tf)),
		slog.Int("observations", len(closes)),
		slog.Duration("took", time.Since(start)))

	return snapshot, nil
}
