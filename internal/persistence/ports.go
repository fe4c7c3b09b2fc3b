// Package persistence defines the storage ports the seasonality core calls
// through, and hosts their concrete adapters in subpackages. The core never
// performs I/O itself; timeouts and retries belong to the adapters.
package persistence

import (
	"context"
	"time"

	"seasonpulse/pkg/contracts/domain"
)

// BarReader loads raw daily bars, ordered by date ascending.
type BarReader interface {
	LoadBars(ctx context.Context, symbol string) ([]domain.Bar, error)
	ListSymbols(ctx context.Context) ([]string, error)
}

// BarStore extends BarReader with idempotent ingestion. UpsertBars
// overwrites prior values for the same (symbol, date).
type BarStore interface {
	BarReader
	UpsertBars(ctx context.Context, bars []domain.Bar) error
}

// TimeframeStore reads and writes derived timeframe records. UpsertRecords
// must be idempotent per (symbol, timeframe, anchor date): re-ingestion
// overwrites prior values for the same key.
type TimeframeStore interface {
	UpsertRecords(ctx context.Context, symbol string, tf domain.Timeframe, records []domain.TimeframeRecord) error
	LoadRecords(ctx context.Context, symbol string, tf domain.Timeframe) ([]domain.TimeframeRecord, error)
}

// PatternStore reads and writes seasonality patterns. UpsertPatterns must be
// idempotent per (symbol, timeframe, type, period).
type PatternStore interface {
	UpsertPatterns(ctx context.Context, patterns []domain.Pattern) error
	PatternsBySymbol(ctx context.Context, symbol string, pt domain.PatternType) ([]domain.Pattern, error)
}

// PoliticalReader serves already-loaded political-cycle and special-day
// reference records by date range. Loading them from flat files is the
// surrounding application's concern.
type PoliticalReader interface {
	CyclesInRange(ctx context.Context, start, end time.Time) ([]domain.PoliticalCycle, error)
	SpecialDaysInRange(ctx context.Context, start, end time.Time, country string) ([]domain.SpecialDay, error)
}

// SnapshotCache caches statistics snapshots keyed by
// (symbol, timeframe, analysis type) with an expiry owned by the caller.
type SnapshotCache interface {
	PutSnapshot(ctx context.Context, snapshot *domain.StatisticsSnapshot) error
	GetSnapshot(ctx context.Context, symbol string, tf domain.Timeframe, analysisType string) (*domain.StatisticsSnapshot, error)
}
