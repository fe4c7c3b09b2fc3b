package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/internal/persistence"
	"seasonpulse/pkg/contracts/domain"
)

// patternRepo implements persistence.PatternStore on PostgreSQL.
type patternRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewPatternRepo creates a pattern store.
func NewPatternRepo(db *sqlx.DB, timeout time.Duration) persistence.PatternStore {
	return &patternRepo{db: db, timeout: timeout}
}

// UpsertPatterns writes all patterns in one transaction, keyed by
// (symbol, timeframe, type, period). Reruns overwrite prior rows.
func (r *patternRepo) UpsertPatterns(ctx context.Context, patterns []domain.Pattern) error {
	if len(patterns) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("begin pattern upsert", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO patterns (
			id, symbol, timeframe, type, period,
			avg_return, volatility, win_rate, max_gain, max_loss,
			sample_size, confidence, significance,
			analyzed_at, range_start, range_end
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (symbol, timeframe, type, period) DO UPDATE SET
			id = EXCLUDED.id,
			avg_return = EXCLUDED.avg_return,
			volatility = EXCLUDED.volatility,
			win_rate = EXCLUDED.win_rate,
			max_gain = EXCLUDED.max_gain,
			max_loss = EXCLUDED.max_loss,
			sample_size = EXCLUDED.sample_size,
			confidence = EXCLUDED.confidence,
			significance = EXCLUDED.significance,
			analyzed_at = EXCLUDED.analyzed_at,
			range_start = EXCLUDED.range_start,
			range_end = EXCLUDED.range_end`)
	if err != nil {
		return apperrors.NewStorageError("prepare pattern upsert", err)
	}
	defer stmt.Close()

	for i := range patterns {
		p := &patterns[i]
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Symbol, p.Timeframe, p.Type, p.Period,
			p.AvgReturn, p.Volatility, p.WinRate, p.MaxGain, p.MaxLoss,
			p.SampleSize, p.Confidence, p.Significance,
			p.AnalyzedAt, p.RangeStart, p.RangeEnd); err != nil {
			return apperrors.NewStorageError(
				fmt.Sprintf("upsert pattern %s/%s/%d", p.Symbol, p.Type, p.Period), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("commit pattern upsert", err)
	}
	return nil
}

func (r *patternRepo) PatternsBySymbol(ctx context.Context, symbol string, pt domain.PatternType) ([]domain.Pattern, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, symbol, timeframe, type, period,
		       avg_return, volatility, win_rate, max_gain, max_loss,
		       sample_size, confidence, significance,
		       analyzed_at, range_start, range_end
		FROM patterns
		WHERE symbol = $1 AND type = $2
		ORDER BY period ASC`

	var patterns []domain.Pattern
	if err := r.db.SelectContext(ctx, &patterns, query, symbol, pt); err != nil {
		return nil, apperrors.NewStorageError("load patterns", err).
			WithContext("symbol", symbol).
			WithContext("type", string(pt))
	}
	return patterns, nil
}
