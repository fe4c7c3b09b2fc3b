// Package calendar provides the pure date arithmetic behind the
// multi-timeframe seasonality dataset: period anchors, calendar ordinals and
// the sequential week counters used by the aggregator. All functions operate
// on naive calendar days; time-of-day and timezone are never consulted
// beyond truncation.
package calendar

import (
	"time"
)

// DateOnly truncates t to midnight, dropping any time-of-day component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayOfYear returns the ordinal day within t's year, 1..366.
func DayOfYear(t time.Time) int {
	return t.YearDay()
}

// ISOWeekNumber returns the ISO-8601 week number of t, 1..53. The week
// containing the year's first Thursday is week 1.
func ISOWeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// QuarterOf returns the calendar quarter of t, 1..4.
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// MondayOf returns the Monday of the calendar week containing t, truncated
// to midnight. A Sunday belongs to the previous week's Monday.
func MondayOf(t time.Time) time.Time {
	d := DateOnly(t)
	wd := int(d.Weekday())
	offset := 1 - wd
	if wd == 0 { // Sunday
		offset = -6
	}
	return d.AddDate(0, 0, offset)
}

// ExpiryThursdayOf returns the Thursday anchoring t's expiry week: the next
// Thursday strictly after t when t itself is a Thursday, otherwise the next
// Thursday on or after t. The forward shift on Thursdays is long-standing
// behavior relied on by the derived dataset; see the pinned test before
// changing it.
func ExpiryThursdayOf(t time.Time) time.Time {
	d := DateOnly(t)
	days := (int(time.Thursday) - int(d.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return d.AddDate(0, 0, days)
}

// MonthAnchor returns the first day of t's month, truncated to midnight.
func MonthAnchor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// YearAnchor returns January 1st of t's year, truncated to midnight.
func YearAnchor(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// NextWeekOfMonth returns the sequential week counter for a weekly bucket
// anchored at date, given the previous bucket's anchor and counter. The
// counter resets to 1 whenever the month changes between buckets.
func NextWeekOfMonth(date time.Time, prior *time.Time, priorWeekOfMonth int) int {
	if prior == nil || prior.Month() != date.Month() || prior.Year() != date.Year() {
		return 1
	}
	return priorWeekOfMonth + 1
}

// NextWeekOfYear is the year-boundary variant of NextWeekOfMonth.
func NextWeekOfYear(date time.Time, prior *time.Time, priorWeekOfYear int) int {
	if prior == nil || prior.Year() != date.Year() {
		return 1
	}
	return priorWeekOfYear + 1
}

// IsEven reports whether n is even. Parity flags on derived records all
// funnel through here.
func IsEven(n int) bool {
	return n%2 == 0
}
