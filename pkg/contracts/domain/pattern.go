package domain

import (
	"time"
)

// PatternType identifies a seasonality grouping analysis.
type PatternType string

const (
	PatternMonthlySeasonal   PatternType = "monthly_seasonal"
	PatternWeeklySeasonal    PatternType = "weekly_seasonal"
	PatternQuarterlySeasonal PatternType = "quarterly_seasonal"
)

// IsValid reports whether pt is one of the known pattern types.
func (pt PatternType) IsValid() bool {
	switch pt {
	case PatternMonthlySeasonal, PatternWeeklySeasonal, PatternQuarterlySeasonal:
		return true
	}
	return false
}

// Pattern is one statistically summarized seasonal tendency for a fixed
// calendar period (month-of-year, day-of-week or quarter) across an
// instrument's history. A pattern row exists only when its group met the
// minimum sample size for its type.
type Pattern struct {
	ID           string      `json:"id" db:"id" validate:"required,uuid"`
	Symbol       string      `json:"symbol" db:"symbol" validate:"required"`
	Timeframe    Timeframe   `json:"timeframe" db:"timeframe" validate:"required"`
	Type         PatternType `json:"type" db:"type" validate:"required"`
	Period       int         `json:"period" db:"period" validate:"min=0"`
	AvgReturn    float64     `json:"avg_return" db:"avg_return"`
	Volatility   float64     `json:"volatility" db:"volatility" validate:"min=0"`
	WinRate      float64     `json:"win_rate" db:"win_rate" validate:"min=0,max=1"`
	MaxGain      float64     `json:"max_gain" db:"max_gain"`
	MaxLoss      float64     `json:"max_loss" db:"max_loss"`
	SampleSize   int         `json:"sample_size" db:"sample_size" validate:"min=1"`
	Confidence   float64     `json:"confidence" db:"confidence" validate:"min=0,max=1"`
	Significance float64     `json:"significance" db:"significance"`
	AnalyzedAt   time.Time   `json:"analyzed_at" db:"analyzed_at"`
	RangeStart   time.Time   `json:"range_start" db:"range_start"`
	RangeEnd     time.Time   `json:"range_end" db:"range_end"`
}

// PeriodLabel returns a human-readable label for the pattern's period index.
func (p *Pattern) PeriodLabel() string {
	switch p.Type {
	case PatternMonthlySeasonal:
		if p.Period >= 1 && p.Period <= 12 {
			return time.Month(p.Period).String()
		}
	case PatternWeeklySeasonal:
		if p.Period >= 0 && p.Period <= 6 {
			return time.Weekday(p.Period).String()
		}
	case PatternQuarterlySeasonal:
		switch p.Period {
		case 1:
			return "Q1"
		case 2:
			return "Q2"
		case 3:
			return "Q3"
		case 4:
			return "Q4"
		}
	}
	return "unknown"
}
