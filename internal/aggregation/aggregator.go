package aggregation

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"seasonpulse/internal/calendar"
	"seasonpulse/pkg/contracts/domain"
)

// Aggregator derives the five timeframe series from an instrument's daily
// bars. It holds no cross-instrument state; one instance is safe to share
// across concurrent per-instrument pipelines.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a new timeframe aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate partitions the instrument's bars into daily, Monday-weekly,
// expiry-weekly, monthly and yearly buckets and rolls each bucket up into
// one TimeframeRecord. Bars missing a positive close are skipped with a
// warning. Empty input yields five empty sequences, never an error.
func (a *Aggregator) Aggregate(ctx context.Context, symbol string, bars []domain.Bar) *Series {
	clean := a.sanitize(ctx, symbol, bars)

	series := &Series{
		Symbol:       symbol,
		Daily:        a.buildDaily(symbol, clean),
		MondayWeekly: a.buildGrouped(symbol, clean, domain.TimeframeMondayWeekly, calendar.MondayOf),
		ExpiryWeekly: a.buildGrouped(symbol, clean, domain.TimeframeExpiryWeekly, calendar.ExpiryThursdayOf),
		Monthly:      a.buildGrouped(symbol, clean, domain.TimeframeMonthly, calendar.MonthAnchor),
		Yearly:       a.buildGrouped(symbol, clean, domain.TimeframeYearly, calendar.YearAnchor),
	}

	applyReturns(series.Daily)
	applyReturns(series.MondayWeekly)
	applyReturns(series.ExpiryWeekly)
	applyReturns(series.Monthly)
	applyReturns(series.Yearly)

	a.logger.DebugContext(ctx, "aggregated instrument bars",
		slog.String("symbol", symbol),
		slog.Int("bars", len(clean)),
		slog.Int("daily", len(series.Daily)),
		slog.Int("monday_weekly", len(series.MondayWeekly)),
		slog.Int("expiry_weekly", len(series.ExpiryWeekly)),
		slog.Int("monthly", len(series.Monthly)),
		slog.Int("yearly", len(series.Yearly)))

	return series
}

// sanitize normalizes bars, drops the invalid ones with a warning and sorts
// the remainder by date ascending. Input is assumed sorted; the sort is
// defensive.
func (a *Aggregator) sanitize(ctx context.Context, symbol string, bars []domain.Bar) []domain.Bar {
	clean := make([]domain.Bar, 0, len(bars))
	for _, b := range bars {
		if !b.IsValid() {
			a.logger.WarnContext(ctx, "skipping invalid bar",
				slog.String("symbol", symbol),
				slog.Time("date", b.Date),
				slog.Float64("close", b.Close))
			continue
		}
		b.Date = calendar.DateOnly(b.Date)
		clean = append(clean, b.Normalize())
	}

	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Date.Before(clean[j].Date)
	})
	return clean
}

// buildDaily emits one record per bar, carrying calendar ordinals and the
// trading-day counters that advance over the bars actually present.
func (a *Aggregator) buildDaily(symbol string, bars []domain.Bar) []domain.TimeframeRecord {
	records := make([]domain.TimeframeRecord, 0, len(bars))

	tradingMonthDay, tradingYearDay := 0, 0
	var prev *domain.Bar
	for i := range bars {
		b := bars[i]
		if prev != nil && prev.Date.Month() == b.Date.Month() && prev.Date.Year() == b.Date.Year() {
			tradingMonthDay++
		} else {
			tradingMonthDay = 1
		}
		if prev != nil && prev.Date.Year() == b.Date.Year() {
			tradingYearDay++
		} else {
			tradingYearDay = 1
		}

		monthDay := b.Date.Day()
		yearDay := calendar.DayOfYear(b.Date)

		records = append(records, domain.TimeframeRecord{
			Symbol:               symbol,
			Timeframe:            domain.TimeframeDaily,
			Date:                 b.Date,
			Weekday:              b.Date.Weekday().String(),
			Open:                 b.Open,
			High:                 b.High,
			Low:                  b.Low,
			Close:                b.Close,
			Volume:               b.Volume,
			OpenInterest:         b.OpenInterest,
			CalendarMonthDay:     monthDay,
			CalendarYearDay:      yearDay,
			TradingMonthDay:      tradingMonthDay,
			TradingYearDay:       tradingYearDay,
			EvenCalendarMonthDay: calendar.IsEven(monthDay),
			EvenCalendarYearDay:  calendar.IsEven(yearDay),
			EvenMonth:            calendar.IsEven(int(b.Date.Month())),
			EvenYear:             calendar.IsEven(b.Date.Year()),
		})
		prev = &bars[i]
	}
	return records
}

// buildGrouped folds bars into buckets keyed by anchor(date). Anchors are
// monotone in the bar date for every grouping used here, so a single
// sequential pass suffices; a bucket is flushed as soon as the anchor moves.
func (a *Aggregator) buildGrouped(symbol string, bars []domain.Bar, tf domain.Timeframe, anchor func(time.Time) time.Time) []domain.TimeframeRecord {
	if len(bars) == 0 {
		return []domain.TimeframeRecord{}
	}

	var records []domain.TimeframeRecord
	var cur *domain.TimeframeRecord

	flush := func() {
		if cur != nil {
			records = append(records, *cur)
			cur = nil
		}
	}

	for _, b := range bars {
		key := anchor(b.Date)
		if cur == nil || !cur.Date.Equal(key) {
			flush()
			cur = &domain.TimeframeRecord{
				Symbol:       symbol,
				Timeframe:    tf,
				Date:         key,
				Weekday:      key.Weekday().String(),
				Open:         b.Open,
				High:         b.High,
				Low:          b.Low,
				Close:        b.Close,
				Volume:       b.Volume,
				OpenInterest: b.OpenInterest,
			}
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
		cur.OpenInterest = b.OpenInterest
	}
	flush()

	decorate(records, tf)
	return records
}

// decorate fills the timeframe-specific calendar fields on freshly grouped
// records: week counters with month/year resets for the weekly timeframes,
// anchor parity for monthly and yearly.
func decorate(records []domain.TimeframeRecord, tf domain.Timeframe) {
	switch tf {
	case domain.TimeframeMondayWeekly, domain.TimeframeExpiryWeekly:
		var prior *time.Time
		weekOfMonth, weekOfYear := 0, 0
		for i := range records {
			r := &records[i]
			weekOfMonth = calendar.NextWeekOfMonth(r.Date, prior, weekOfMonth)
			weekOfYear = calendar.NextWeekOfYear(r.Date, prior, weekOfYear)
			r.WeekOfMonth = weekOfMonth
			r.WeekOfYear = weekOfYear
			r.EvenWeekOfMonth = calendar.IsEven(weekOfMonth)
			r.EvenWeekOfYear = calendar.IsEven(weekOfYear)
			r.EvenMonth = calendar.IsEven(int(r.Date.Month()))
			r.EvenYear = calendar.IsEven(r.Date.Year())
			d := r.Date
			prior = &d
		}
	case domain.TimeframeMonthly:
		for i := range records {
			records[i].EvenMonth = calendar.IsEven(int(records[i].Date.Month()))
			records[i].EvenYear = calendar.IsEven(records[i].Date.Year())
		}
	case domain.TimeframeYearly:
		for i := range records {
			records[i].EvenYear = calendar.IsEven(records[i].Date.Year())
		}
	}
}

// applyReturns walks one timeframe sequence in anchor order carrying just
// the previous close, and fills period-over-period returns. A zero previous
// close yields a 0% return rather than dividing.
func applyReturns(records []domain.TimeframeRecord) {
	prevClose := 0.0
	for i := range records {
		r := &records[i]
		if i == 0 {
			r.ReturnPoints = 0
			r.ReturnPercentage = 0
			r.Positive = false
		} else {
			r.ReturnPoints = r.Close - prevClose
			if prevClose != 0 {
				r.ReturnPercentage = round2(r.ReturnPoints / prevClose * 100)
			} else {
				r.ReturnPercentage = 0
			}
			r.Positive = r.ReturnPoints > 0
		}
		prevClose = r.Close
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
