package http

import (
	"context"
	"time"

	"seasonpulse/internal/basket"
	"seasonpulse/internal/services"
	"seasonpulse/pkg/contracts/domain"
)

// RecordReader serves stored timeframe records.
type RecordReader interface {
	LoadRecords(ctx context.Context, symbol string, tf domain.Timeframe) ([]domain.TimeframeRecord, error)
}

// PatternReader serves stored seasonality patterns.
type PatternReader interface {
	PatternsBySymbol(ctx context.Context, symbol string, pt domain.PatternType) ([]domain.Pattern, error)
}

// StatisticsProvider serves statistics snapshots.
type StatisticsProvider interface {
	Comprehensive(ctx context.Context, symbol string, tf domain.Timeframe) (*domain.StatisticsSnapshot, error)
}

// BasketAnalyzer serves basket aggregation and political overlay queries.
type BasketAnalyzer interface {
	Analyze(ctx context.Context, name string, symbols []string, pt domain.PatternType) (*basket.Result, error)
	PoliticalImpact(ctx context.Context, date time.Time, country string) (float64, error)
	SpecialDays(ctx context.Context, start, end time.Time, country string) ([]domain.SpecialDay, error)
}

// PipelineRunner triggers seasonality pipeline runs.
type PipelineRunner interface {
	ProcessSymbol(ctx context.Context, symbol string) (*services.PipelineResult, error)
	ProcessAll(ctx context.Context) (*services.RunSummary, error)
}
