// Package postgres implements the persistence ports on PostgreSQL via sqlx.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	defaultMaxOpenConns    = 16
	defaultMaxIdleConns    = 4
	defaultConnMaxLifetime = 30 * time.Minute
)

// Connect opens and pings a PostgreSQL connection pool.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	return db, nil
}

// Migrate creates the schema objects this adapter needs. Statements are
// idempotent so repeated startup is safe.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol        TEXT             NOT NULL,
			date          DATE             NOT NULL,
			open          DOUBLE PRECISION NOT NULL,
			high          DOUBLE PRECISION NOT NULL,
			low           DOUBLE PRECISION NOT NULL,
			close         DOUBLE PRECISION NOT NULL,
			volume        BIGINT           NOT NULL DEFAULT 0,
			open_interest BIGINT           NOT NULL DEFAULT 0,
			PRIMARY KEY (symbol, date)
		)`,
		`CREATE TABLE IF NOT EXISTS timeframe_records (
			symbol            TEXT             NOT NULL,
			timeframe         TEXT             NOT NULL,
			date              DATE             NOT NULL,
			weekday           TEXT             NOT NULL,
			open              DOUBLE PRECISION NOT NULL,
			high              DOUBLE PRECISION NOT NULL,
			low               DOUBLE PRECISION NOT NULL,
			close             DOUBLE PRECISION NOT NULL,
			volume            BIGINT           NOT NULL,
			open_interest     BIGINT           NOT NULL,
			return_points     DOUBLE PRECISION NOT NULL,
			return_percentage DOUBLE PRECISION NOT NULL,
			positive          BOOLEAN          NOT NULL,
			calendar_fields   JSONB            NOT NULL DEFAULT '{}',
			cross_refs        JSONB            NOT NULL DEFAULT '{}',
			updated_at        TIMESTAMPTZ      NOT NULL DEFAULT now(),
			PRIMARY KEY (symbol, timeframe, date)
		)`,
		`CREATE TABLE IF NOT EXISTS patterns (
			id           UUID             NOT NULL,
			symbol       TEXT             NOT NULL,
			timeframe    TEXT             NOT NULL,
			type         TEXT             NOT NULL,
			period       INT              NOT NULL,
			avg_return   DOUBLE PRECISION NOT NULL,
			volatility   DOUBLE PRECISION NOT NULL,
			win_rate     DOUBLE PRECISION NOT NULL,
			max_gain     DOUBLE PRECISION NOT NULL,
			max_loss     DOUBLE PRECISION NOT NULL,
			sample_size  INT              NOT NULL,
			confidence   DOUBLE PRECISION NOT NULL,
			significance DOUBLE PRECISION NOT NULL,
			analyzed_at  TIMESTAMPTZ      NOT NULL,
			range_start  DATE             NOT NULL,
			range_end    DATE             NOT NULL,
			PRIMARY KEY (symbol, timeframe, type, period)
		)`,
		`CREATE TABLE IF NOT EXISTS political_cycles (
			id           UUID             NOT NULL PRIMARY KEY,
			name         TEXT             NOT NULL,
			country      TEXT             NOT NULL,
			start_date   DATE             NOT NULL,
			end_date     DATE             NOT NULL,
			impact_score DOUBLE PRECISION NOT NULL,
			description  TEXT             NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS special_days (
			id           UUID             NOT NULL PRIMARY KEY,
			name         TEXT             NOT NULL,
			country      TEXT             NOT NULL,
			date         DATE             NOT NULL,
			kind         TEXT             NOT NULL DEFAULT '',
			impact_score DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_political_cycles_range ON political_cycles (start_date, end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_special_days_date ON special_days (date)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
