package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "seasonpulse/internal/errors"
	"seasonpulse/internal/persistence"
	"seasonpulse/pkg/contracts/domain"
)

// upsertBatchSize bounds the records per transaction so one failed batch
// never leaves partial rows and never blocks the batches after it.
const upsertBatchSize = 500

// timeframeRepo implements persistence.TimeframeStore on PostgreSQL.
type timeframeRepo struct {
	db      *sqlx.DB
	timeout time.Duration
	logger  *slog.Logger
}

// NewTimeframeRepo creates a timeframe-record store.
func NewTimeframeRepo(db *sqlx.DB, timeout time.Duration, logger *slog.Logger) persistence.TimeframeStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &timeframeRepo{db: db, timeout: timeout, logger: logger}
}

// calendarFields is the JSONB projection of the timeframe-specific
// calendar attributes.
type calendarFields struct {
	CalendarMonthDay     int  `json:"calendar_month_day,omitempty"`
	CalendarYearDay      int  `json:"calendar_year_day,omitempty"`
	TradingMonthDay      int  `json:"trading_month_day,omitempty"`
	TradingYearDay       int  `json:"trading_year_day,omitempty"`
	EvenCalendarMonthDay bool `json:"even_calendar_month_day,omitempty"`
	EvenCalendarYearDay  bool `json:"even_calendar_year_day,omitempty"`
	WeekOfMonth          int  `json:"week_of_month,omitempty"`
	WeekOfYear           int  `json:"week_of_year,omitempty"`
	EvenWeekOfMonth      bool `json:"even_week_of_month,omitempty"`
	EvenWeekOfYear       bool `json:"even_week_of_year,omitempty"`
	EvenMonth            bool `json:"even_month,omitempty"`
	EvenYear             bool `json:"even_year,omitempty"`
}

// crossRefs is the JSONB projection of the linker's cross-reference fields.
type crossRefs struct {
	MondayWeek *domain.WeekRef   `json:"monday_week,omitempty"`
	ExpiryWeek *domain.WeekRef   `json:"expiry_week,omitempty"`
	Month      *domain.PeriodRef `json:"month,omitempty"`
	Year       *domain.PeriodRef `json:"year,omitempty"`
}

// UpsertRecords writes records in transactional batches keyed by
// (symbol, timeframe, date). A failed batch is rolled back, logged and
// skipped; remaining batches still run. The returned error reports how many
// batches failed, if any.
func (r *timeframeRepo) UpsertRecords(ctx context.Context, symbol string, tf domain.Timeframe, records []domain.TimeframeRecord) error {
	if len(records) == 0 {
		return nil
	}

	var failed int
	var firstErr error
	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}

		if err := r.upsertBatch(ctx, records[start:end]); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			r.logger.WarnContext(ctx, "timeframe record batch failed",
				slog.String("symbol", symbol),
				slog.String("timeframe", string(tf)),
				slog.Int("batch_start", start),
				slog.Int("batch_size", end-start),
				slog.String("error", err.Error()))
		}
	}

	if failed > 0 {
		return apperrors.NewStorageError(
			fmt.Sprintf("upsert timeframe records: %d batch(es) failed", failed), firstErr).
			WithContext("symbol", symbol).
			WithContext("timeframe", string(tf))
	}
	return nil
}

func (r *timeframeRepo) upsertBatch(ctx context.Context, records []domain.TimeframeRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO timeframe_records (
			symbol, timeframe, date, weekday,
			open, high, low, close, volume, open_interest,
			return_points, return_percentage, positive,
			calendar_fields, cross_refs, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now())
		ON CONFLICT (symbol, timeframe, date) DO UPDATE SET
			weekday = EXCLUDED.weekday,
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			open_interest = EXCLUDED.open_interest,
			return_points = EXCLUDED.return_points,
			return_percentage = EXCLUDED.return_percentage,
			positive = EXCLUDED.positive,
			calendar_fields = EXCLUDED.calendar_fields,
			cross_refs = EXCLUDED.cross_refs,
			updated_at = now()`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]

		calJSON, err := json.Marshal(calendarFields{
			CalendarMonthDay:     rec.CalendarMonthDay,
			CalendarYearDay:      rec.CalendarYearDay,
			TradingMonthDay:      rec.TradingMonthDay,
			TradingYearDay:       rec.TradingYearDay,
			EvenCalendarMonthDay: rec.EvenCalendarMonthDay,
			EvenCalendarYearDay:  rec.EvenCalendarYearDay,
			WeekOfMonth:          rec.WeekOfMonth,
			WeekOfYear:           rec.WeekOfYear,
			EvenWeekOfMonth:      rec.EvenWeekOfMonth,
			EvenWeekOfYear:       rec.EvenWeekOfYear,
			EvenMonth:            rec.EvenMonth,
			EvenYear:             rec.EvenYear,
		})
		if err != nil {
			return fmt.Errorf("marshal calendar fields: %w", err)
		}

		refsJSON, err := json.Marshal(crossRefs{
			MondayWeek: rec.MondayWeek,
			ExpiryWeek: rec.ExpiryWeek,
			Month:      rec.Month,
			Year:       rec.Year,
		})
		if err != nil {
			return fmt.Errorf("marshal cross refs: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			rec.Symbol, rec.Timeframe, rec.Date, rec.Weekday,
			rec.Open, rec.High, rec.Low, rec.Close, rec.Volume, rec.OpenInterest,
			rec.ReturnPoints, rec.ReturnPercentage, rec.Positive,
			calJSON, refsJSON); err != nil {
			return fmt.Errorf("upsert record %s/%s/%s: %w", rec.Symbol, rec.Timeframe, rec.AnchorKey(), err)
		}
	}

	return tx.Commit()
}

// timeframeRow is the scan target for LoadRecords.
type timeframeRow struct {
	Symbol           string    `db:"symbol"`
	Timeframe        string    `db:"timeframe"`
	Date             time.Time `db:"date"`
	Weekday          string    `db:"weekday"`
	Open             float64   `db:"open"`
	High             float64   `db:"high"`
	Low              float64   `db:"low"`
	Close            float64   `db:"close"`
	Volume           int64     `db:"volume"`
	OpenInterest     int64     `db:"open_interest"`
	ReturnPoints     float64   `db:"return_points"`
	ReturnPercentage float64   `db:"return_percentage"`
	Positive         bool      `db:"positive"`
	CalendarFields   []byte    `db:"calendar_fields"`
	CrossRefs        []byte    `db:"cross_refs"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// LoadRecords returns one timeframe's records for an instrument, ordered by
// anchor date ascending.
func (r *timeframeRepo) LoadRecords(ctx context.Context, symbol string, tf domain.Timeframe) ([]domain.TimeframeRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT symbol, timeframe, date, weekday,
		       open, high, low, close, volume, open_interest,
		       return_points, return_percentage, positive,
		       calendar_fields, cross_refs, updated_at
		FROM timeframe_records
		WHERE symbol = $1 AND timeframe = $2
		ORDER BY date ASC`

	var rows []timeframeRow
	if err := r.db.SelectContext(ctx, &rows, query, symbol, tf); err != nil {
		return nil, apperrors.NewStorageError("load timeframe records", err).
			WithContext("symbol", symbol).
			WithContext("timeframe", string(tf))
	}

	records := make([]domain.TimeframeRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			return nil, apperrors.NewParsingError("decode timeframe record", err).
				WithContext("symbol", symbol)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (row *timeframeRow) toDomain() (domain.TimeframeRecord, error) {
	var cal calendarFields
	if len(row.CalendarFields) > 0 {
		if err := json.Unmarshal(row.CalendarFields, &cal); err != nil {
			return domain.TimeframeRecord{}, err
		}
	}
	var refs crossRefs
	if len(row.CrossRefs) > 0 {
		if err := json.Unmarshal(row.CrossRefs, &refs); err != nil {
			return domain.TimeframeRecord{}, err
		}
	}

	return domain.TimeframeRecord{
		Symbol:               row.Symbol,
		Timeframe:            domain.Timeframe(row.Timeframe),
		Date:                 row.Date,
		Weekday:              row.Weekday,
		Open:                 row.Open,
		High:                 row.High,
		Low:                  row.Low,
		Close:                row.Close,
		Volume:               row.Volume,
		OpenInterest:         row.OpenInterest,
		ReturnPoints:         row.ReturnPoints,
		ReturnPercentage:     row.ReturnPercentage,
		Positive:             row.Positive,
		CalendarMonthDay:     cal.CalendarMonthDay,
		CalendarYearDay:      cal.CalendarYearDay,
		TradingMonthDay:      cal.TradingMonthDay,
		TradingYearDay:       cal.TradingYearDay,
		EvenCalendarMonthDay: cal.EvenCalendarMonthDay,
		EvenCalendarYearDay:  cal.EvenCalendarYearDay,
		WeekOfMonth:          cal.WeekOfMonth,
		WeekOfYear:           cal.WeekOfYear,
		EvenWeekOfMonth:      cal.EvenWeekOfMonth,
		EvenWeekOfYear:       cal.EvenWeekOfYear,
		EvenMonth:            cal.EvenMonth,
		EvenYear:             cal.EvenYear,
		MondayWeek:           refs.MondayWeek,
		ExpiryWeek:           refs.ExpiryWeek,
		Month:                refs.Month,
		Year:                 refs.Year,
	}, nil
}
