package domain

import (
	"time"
)

// Timeframe identifies one of the five derived aggregation levels.
type Timeframe string

const (
	TimeframeDaily        Timeframe = "daily"
	TimeframeMondayWeekly Timeframe = "monday_weekly"
	TimeframeExpiryWeekly Timeframe = "expiry_weekly"
	TimeframeMonthly      Timeframe = "monthly"
	TimeframeYearly       Timeframe = "yearly"
)

// AllTimeframes lists every timeframe in aggregation order.
func AllTimeframes() []Timeframe {
	return []Timeframe{
		TimeframeDaily,
		TimeframeMondayWeekly,
		TimeframeExpiryWeekly,
		TimeframeMonthly,
		TimeframeYearly,
	}
}

// IsValid reports whether tf is one of the known timeframes.
func (tf Timeframe) IsValid() bool {
	switch tf {
	case TimeframeDaily, TimeframeMondayWeekly, TimeframeExpiryWeekly, TimeframeMonthly, TimeframeYearly:
		return true
	}
	return false
}

// PeriodRef carries the fields copied from an enclosing coarser-timeframe
// record into a finer-grained one by the cross-timeframe linker. A nil
// reference means no enclosing record existed at link time, which is
// expected at series boundaries.
type PeriodRef struct {
	Even             bool    `json:"even" db:"even"`
	ReturnPoints     float64 `json:"return_points" db:"return_points"`
	ReturnPercentage float64 `json:"return_percentage" db:"return_percentage"`
	Positive         bool    `json:"positive" db:"positive"`
}

// WeekRef is the weekly variant of PeriodRef; it additionally carries the
// enclosing week's month/year-local week numbers and their parities.
type WeekRef struct {
	PeriodRef
	WeekOfMonth     int  `json:"week_of_month" db:"week_of_month"`
	WeekOfYear      int  `json:"week_of_year" db:"week_of_year"`
	EvenWeekOfMonth bool `json:"even_week_of_month" db:"even_week_of_month"`
	EvenWeekOfYear  bool `json:"even_week_of_year" db:"even_week_of_year"`
}

// TimeframeRecord is the unit produced by the aggregator and linker, one per
// (symbol, timeframe, anchor date). The anchor date is the bucket's
// representative date: the day itself for daily, the Monday for
// monday_weekly, the Thursday for expiry_weekly, the first of the month for
// monthly and Jan 1 for yearly.
type TimeframeRecord struct {
	Symbol    string    `json:"symbol" db:"symbol" validate:"required"`
	Timeframe Timeframe `json:"timeframe" db:"timeframe" validate:"required"`
	Date      time.Time `json:"date" db:"date" validate:"required"`
	Weekday   string    `json:"weekday" db:"weekday"`

	Open         float64 `json:"open" db:"open"`
	High         float64 `json:"high" db:"high"`
	Low          float64 `json:"low" db:"low"`
	Close        float64 `json:"close" db:"close"`
	Volume       int64   `json:"volume" db:"volume"`
	OpenInterest int64   `json:"open_interest" db:"open_interest"`

	ReturnPoints     float64 `json:"return_points" db:"return_points"`
	ReturnPercentage float64 `json:"return_percentage" db:"return_percentage"`
	Positive         bool    `json:"positive" db:"positive"`

	// Daily calendar fields. CalendarMonthDay/CalendarYearDay are calendar
	// ordinals; TradingMonthDay/TradingYearDay count only the bars actually
	// present, resetting at month/year boundaries.
	CalendarMonthDay     int  `json:"calendar_month_day,omitempty" db:"calendar_month_day"`
	CalendarYearDay      int  `json:"calendar_year_day,omitempty" db:"calendar_year_day"`
	TradingMonthDay      int  `json:"trading_month_day,omitempty" db:"trading_month_day"`
	TradingYearDay       int  `json:"trading_year_day,omitempty" db:"trading_year_day"`
	EvenCalendarMonthDay bool `json:"even_calendar_month_day,omitempty" db:"even_calendar_month_day"`
	EvenCalendarYearDay  bool `json:"even_calendar_year_day,omitempty" db:"even_calendar_year_day"`

	// Weekly calendar fields, reset to 1 at each month/year boundary.
	WeekOfMonth     int  `json:"week_of_month,omitempty" db:"week_of_month"`
	WeekOfYear      int  `json:"week_of_year,omitempty" db:"week_of_year"`
	EvenWeekOfMonth bool `json:"even_week_of_month,omitempty" db:"even_week_of_month"`
	EvenWeekOfYear  bool `json:"even_week_of_year,omitempty" db:"even_week_of_year"`

	// Monthly/yearly parity of the anchor itself.
	EvenMonth bool `json:"even_month,omitempty" db:"even_month"`
	EvenYear  bool `json:"even_year,omitempty" db:"even_year"`

	// Cross-references populated by the linker; nil until linking runs, and
	// nil afterwards iff no enclosing record exists for the anchor key.
	MondayWeek *WeekRef   `json:"monday_week,omitempty" db:"-"`
	ExpiryWeek *WeekRef   `json:"expiry_week,omitempty" db:"-"`
	Month      *PeriodRef `json:"month,omitempty" db:"-"`
	Year       *PeriodRef `json:"year,omitempty" db:"-"`
}

// AnchorKey returns the ISO date string used as the lookup key for
// cross-timeframe joins.
func (r *TimeframeRecord) AnchorKey() string {
	return r.Date.Format("2006-01-02")
}
