package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"seasonpulse/internal/aggregation"
	apperrors "seasonpulse/internal/errors"
	"seasonpulse/internal/infrastructure"
	"seasonpulse/internal/pattern"
	"seasonpulse/internal/persistence"
	"seasonpulse/pkg/contracts/domain"
)

// PipelineResult summarizes one instrument's pipeline run.
type PipelineResult struct {
	Symbol   string        `json:"symbol"`
	Records  int           `json:"records"`
	Patterns int           `json:"patterns"`
	Took     time.Duration `json:"took"`
}

// RunSummary summarizes a ProcessAll run across instruments. Failed maps
// symbol to the error message that aborted its pipeline.
type RunSummary struct {
	Processed int               `json:"processed"`
	Failed    map[string]string `json:"failed,omitempty"`
	Records   int               `json:"records"`
	Patterns  int               `json:"patterns"`
	Took      time.Duration     `json:"took"`
}

// PipelineService orchestrates the per-instrument seasonality pipeline.
type PipelineService struct {
	bars        persistence.BarReader
	timeframes  persistence.TimeframeStore
	patterns    persistence.PatternStore
	aggregator  *aggregation.Aggregator
	analyzer    *pattern.Analyzer
	metrics     *infrastructure.PipelineMetrics
	logger      *slog.Logger
	concurrency int
}

// NewPipelineService creates a pipeline service. metrics may be nil when
// telemetry is disabled.
func NewPipelineService(
	bars persistence.BarReader,
	timeframes persistence.TimeframeStore,
	patterns persistence.PatternStore,
	aggregator *aggregation.Aggregator,
	analyzer *pattern.Analyzer,
	metrics *infrastructure.PipelineMetrics,
	logger *slog.Logger,
	concurrency int,
) *PipelineService {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &PipelineService{
		bars:        bars,
		timeframes:  timeframes,
		patterns:    patterns,
		aggregator:  aggregator,
		analyzer:    analyzer,
		metrics:     metrics,
		logger:      logger,
		concurrency: concurrency,
	}
}

// ProcessSymbol runs the full pipeline for one instrument: load bars,
// aggregate into all timeframes, link cross-references, upsert the derived
// records and the patterns computed from them.
func (s *PipelineService) ProcessSymbol(ctx context.Context, symbol string) (*PipelineResult, error) {
	start := time.Now()
	result, err := s.processSymbol(ctx, symbol)
	took := time.Since(start)

	if s.metrics != nil {
		records, patterns := 0, 0
		if result != nil {
			records, patterns = result.Records, result.Patterns
		}
		s.metrics.RecordPipelineRun(ctx, symbol, records, patterns, took.Seconds(), err)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "pipeline failed",
			slog.String("symbol", symbol),
			slog.Duration("took", took),
			slog.String("error", err.Error()))
		return nil, err
	}

	result.Took = took
	s.logger.InfoContext(ctx, "pipeline completed",
		slog.String("symbol", symbol),
		slog.Int("records", result.Records),
		slog.Int("patterns", result.Patterns),
		slog.Duration("took", took))
	return result, nil
}

func (s *PipelineService) processSymbol(ctx context.Context, symbol string) (*PipelineResult, error) {
	bars, err := s.bars.LoadBars(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, apperrors.NewInsufficientDataError(
			fmt.Sprintf("no bars available for %s", symbol))
	}

	series := aggregation.Link(s.aggregator.Aggregate(ctx, symbol, bars))

	records := 0
	for _, tf := range domain.AllTimeframes() {
		recs := series.ByTimeframe(tf)
		if len(recs) == 0 {
			continue
		}
		if err := s.timeframes.UpsertRecords(ctx, symbol, tf, recs); err != nil {
			return nil, fmt.Errorf("upsert %s records for %s: %w", tf, symbol, err)
		}
		records += len(recs)
	}

	patterns := s.analyzer.Analyze(ctx, symbol, series.Daily, series.Monthly)
	if len(patterns) > 0 {
		if err := s.patterns.UpsertPatterns(ctx, patterns); err != nil {
			return nil, fmt.Errorf("upsert patterns for %s: %w", symbol, err)
		}
	}

	return &PipelineResult{Symbol: symbol, Records: records, Patterns: len(patterns)}, nil
}

// ProcessAll runs the pipeline for every known instrument with bounded
// concurrency. A failed instrument does not stop the others; failures are
// collected into the summary. The run as a whole errs only when symbol
// listing fails or the context is cancelled.
func (s *PipelineService) ProcessAll(ctx context.Context) (*RunSummary, error) {
	start := time.Now()

	symbols, err := s.bars.ListSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	s.logger.InfoContext(ctx, "pipeline run starting",
		slog.Int("symbols", len(symbols)),
		slog.Int("concurrency", s.concurrency))

	type outcome struct {
		symbol string
		result *PipelineResult
		err    error
	}
	outcomes := make([]outcome, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			result, err := s.ProcessSymbol(gctx, symbol)
			outcomes[i] = outcome{symbol: symbol, result: result, err: err}
			// Propagate only cancellation so sibling pipelines keep running.
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &RunSummary{Failed: map[string]string{}, Took: time.Since(start)}
	for _, o := range outcomes {
		if o.err != nil {
			summary.Failed[o.symbol] = o.err.Error()
			continue
		}
		summary.Processed++
		summary.Records += o.result.Records
		summary.Patterns += o.result.Patterns
	}
	if len(summary.Failed) == 0 {
		summary.Failed = nil
	}

	s.logger.InfoContext(ctx, "pipeline run finished",
		slog.Int("processed", summary.Processed),
		slog.Int("failed", len(summary.Failed)),
		slog.Int("records", summary.Records),
		slog.Int("patterns", summary.Patterns),
		slog.Duration("took", summary.Took))
	return summary, nil
}
