package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/internal/persistence"
	"seasonpulse/pkg/contracts/domain"
)

// politicalRepo implements persistence.PoliticalReader on PostgreSQL.
type politicalRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewPoliticalRepo creates a political-cycle/special-day reader.
func NewPoliticalRepo(db *sqlx.DB, timeout time.Duration) persistence.PoliticalReader {
	return &politicalRepo{db: db, timeout: timeout}
}

// CyclesInRange returns the cycles whose date range overlaps [start, end].
func (r *politicalRepo) CyclesInRange(ctx context.Context, start, end time.Time) ([]domain.PoliticalCycle, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, name, country, start_date, end_date, impact_score, description
		FROM political_cycles
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY start_date ASC`

	var cycles []domain.PoliticalCycle
	if err := r.db.SelectContext(ctx, &cycles, query, start, end); err != nil {
		return nil, apperrors.NewStorageError("load political cycles", err)
	}
	return cycles, nil
}

// SpecialDaysInRange returns special days within [start, end], optionally
// filtered to one country plus the GLOBAL scope.
func (r *politicalRepo) SpecialDaysInRange(ctx context.Context, start, end time.Time, country string) ([]domain.SpecialDay, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, name, country, date, kind, impact_score
		FROM special_days
		WHERE date >= $1 AND date <= $2`
	args := []interface{}{start, end}

	if country != "" {
		query += ` AND (country = $3 OR country = $4)`
		args = append(args, country, domain.CountryGlobal)
	}
	query += ` ORDER BY date ASC`

	var days []domain.SpecialDay
	if err := r.db.SelectContext(ctx, &days, query, args...); err != nil {
		return nil, apperrors.NewStorageError("load special days", err)
	}
	return days, nil
}
