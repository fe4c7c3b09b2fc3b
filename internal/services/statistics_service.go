package services

import (
	"context"
	"log/slog"
	"time"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/internal/persistence"
	"seasonpulse/internal/stats"
	"seasonpulse/pkg/contracts/domain"
)

// AnalysisComprehensive is the analysis type served by Comprehensive.
const AnalysisComprehensive = "comprehensive"

// StatisticsService serves statistics snapshots with a cache read-through
// over derived timeframe records.
type StatisticsService struct {
	timeframes persistence.TimeframeStore
	patterns   persistence.PatternStore
	cache      persistence.SnapshotCache
	engine     *stats.Engine
	logger     *slog.Logger
	ttl        time.Duration
}

// NewStatisticsService creates a statistics service. cache may be nil, in
// which case every call recomputes. patterns may be nil, in which case
// snapshots carry no seasonality summary.
func NewStatisticsService(
	timeframes persistence.TimeframeStore,
	patterns persistence.PatternStore,
	cache persistence.SnapshotCache,
	engine *stats.Engine,
	logger *slog.Logger,
	ttl time.Duration,
) *StatisticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatisticsService{
		timeframes: timeframes,
		patterns:   patterns,
		cache:      cache,
		engine:     engine,
		logger:     logger,
		ttl:        ttl,
	}
}

// Comprehensive returns the comprehensive statistics snapshot for one
// instrument and timeframe. A fresh cached snapshot is returned as-is;
// otherwise the snapshot is recomputed from stored records and cached.
// Cache failures degrade to recomputation, never to a request error.
func (s *StatisticsService) Comprehensive(ctx context.Context, symbol string, tf domain.Timeframe) (*domain.StatisticsSnapshot, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSnapshot(ctx, symbol, tf, AnalysisComprehensive)
		if err != nil {
			s.logger.WarnContext(ctx, "snapshot cache read failed",
				slog.String("symbol", symbol),
				slog.String("timeframe", string(tf)),
				slog.String("error", err.Error()))
		} else if cached != nil && cached.ExpiresAt.After(time.Now()) {
			return cached, nil
		}
	}

	records, err := s.timeframes.LoadRecords(ctx, symbol, tf)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.NewNotFoundError("no records for " + symbol + " at " + string(tf))
	}

	closes := make([]float64, len(records))
	for i, r := range records {
		closes[i] = r.Close
	}

	snapshot, err := s.engine.Comprehensive(ctx, symbol, tf, AnalysisComprehensive,
		closes, records[0].Date, records[len(records)-1].Date, s.ttl)
	if err != nil {
		return nil, err
	}
	snapshot.Seasonality = s.seasonalitySummary(ctx, symbol)

	if s.cache != nil {
		if err := s.cache.PutSnapshot(ctx, snapshot); err != nil {
			s.logger.WarnContext(ctx, "snapshot cache write failed",
				slog.String("symbol", symbol),
				slog.String("timeframe", string(tf)),
				slog.String("error", err.Error()))
		}
	}
	return snapshot, nil
}

// seasonalitySummary condenses the instrument's stored patterns into the
// snapshot. Missing patterns or store failures yield a nil summary, never
// an error.
func (s *StatisticsService) seasonalitySummary(ctx context.Context, symbol string) *domain.SeasonalitySummary {
	if s.patterns == nil {
		return nil
	}

	summary := &domain.SeasonalitySummary{}
	for _, pt := range []domain.PatternType{
		domain.PatternMonthlySeasonal,
		domain.PatternWeeklySeasonal,
		domain.PatternQuarterlySeasonal,
	} {
		patterns, err := s.patterns.PatternsBySymbol(ctx, symbol, pt)
		if err != nil {
			s.logger.WarnContext(ctx, "seasonality summary lookup failed",
				slog.String("symbol", symbol),
				slog.String("type", string(pt)),
				slog.String("error", err.Error()))
			continue
		}
		if len(patterns) == 0 {
			continue
		}

		best, worst := &patterns[0], &patterns[0]
		for i := range patterns {
			if patterns[i].AvgReturn > best.AvgReturn {
				best = &patterns[i]
			}
			if patterns[i].AvgReturn < worst.AvgReturn {
				worst = &patterns[i]
			}
		}
		summary.PatternCount += len(patterns)
		if best.AvgReturn > summary.TopAvgReturn {
			summary.TopAvgReturn = best.AvgReturn
		}
		switch pt {
		case domain.PatternMonthlySeasonal:
			summary.BestMonth, summary.WorstMonth = best.PeriodLabel(), worst.PeriodLabel()
		case domain.PatternWeeklySeasonal:
			summary.BestWeekday, summary.WorstWeekday = best.PeriodLabel(), worst.PeriodLabel()
		case domain.PatternQuarterlySeasonal:
			summary.BestQuarter, summary.WorstQuarter = best.PeriodLabel(), worst.PeriodLabel()
		}
	}

	if summary.PatternCount == 0 {
		return nil
	}
	return summary
}
