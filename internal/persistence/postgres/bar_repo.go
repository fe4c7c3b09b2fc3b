package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"seasonpulse/internal/errors"
	"seasonpulse/internal/persistence"
	"seasonpulse/pkg/contracts/domain"
)

// barRepo implements persistence.BarStore on PostgreSQL.
type barRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewBarRepo creates a bar store backed by the bars table.
func NewBarRepo(db *sqlx.DB, timeout time.Duration) persistence.BarStore {
	return &barRepo{db: db, timeout: timeout}
}

func (r *barRepo) LoadBars(ctx context.Context, symbol string) ([]domain.Bar, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT symbol, date, open, high, low, close, volume, open_interest
		FROM bars
		WHERE symbol = $1
		ORDER BY date ASC`

	var bars []domain.Bar
	if err := r.db.SelectContext(ctx, &bars, query, symbol); err != nil {
		return nil, errors.NewStorageError("load bars", err).WithContext("symbol", symbol)
	}
	return bars, nil
}

func (r *barRepo) UpsertBars(ctx context.Context, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("begin bar upsert", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bars (symbol, date, open, high, low, close, volume, open_interest)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			open_interest = EXCLUDED.open_interest`)
	if err != nil {
		return errors.NewStorageError("prepare bar upsert", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, b.Symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume, b.OpenInterest); err != nil {
			return errors.NewStorageError("upsert bar", err).
				WithContext("symbol", b.Symbol).
				WithContext("date", b.Date.Format("2006-01-02"))
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("commit bar upsert", err)
	}
	return nil
}

func (r *barRepo) ListSymbols(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var symbols []string
	if err := r.db.SelectContext(ctx, &symbols, `SELECT DISTINCT symbol FROM bars ORDER BY symbol`); err != nil {
		return nil, errors.NewStorageError("list symbols", err)
	}
	return symbols, nil
}
