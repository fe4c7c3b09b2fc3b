package aggregation

import (
	"time"

	"seasonpulse/internal/calendar"
	"seasonpulse/pkg/contracts/domain"
)

// Link populates the cross-reference fields across the five timeframe
// sequences of one instrument and returns the same Series. No records are
// created or removed; only cross-reference fields change. A lookup that
// finds no enclosing record leaves the reference nil, which is expected at
// series boundaries such as a trailing partial month.
func Link(s *Series) *Series {
	mondayIdx := indexByAnchor(s.MondayWeekly)
	expiryIdx := indexByAnchor(s.ExpiryWeekly)
	monthIdx := indexByAnchor(s.Monthly)
	yearIdx := indexByAnchor(s.Yearly)

	for i := range s.Daily {
		r := &s.Daily[i]
		r.MondayWeek = weekRef(mondayIdx[isoKey(calendar.MondayOf(r.Date))])
		r.ExpiryWeek = weekRef(expiryIdx[isoKey(calendar.ExpiryThursdayOf(r.Date))])
		r.Month = monthRef(monthIdx[isoKey(calendar.MonthAnchor(r.Date))])
		r.Year = yearRef(yearIdx[isoKey(calendar.YearAnchor(r.Date))])
	}

	linkWeekly(s.MondayWeekly, monthIdx, yearIdx)
	linkWeekly(s.ExpiryWeekly, monthIdx, yearIdx)

	for i := range s.Monthly {
		r := &s.Monthly[i]
		r.Year = yearRef(yearIdx[isoKey(calendar.YearAnchor(r.Date))])
	}

	return s
}

func linkWeekly(records []domain.TimeframeRecord, monthIdx, yearIdx map[string]*domain.TimeframeRecord) {
	for i := range records {
		r := &records[i]
		r.Month = monthRef(monthIdx[isoKey(calendar.MonthAnchor(r.Date))])
		r.Year = yearRef(yearIdx[isoKey(calendar.YearAnchor(r.Date))])
	}
}

// indexByAnchor builds the per-timeframe lookup map keyed on ISO anchor
// dates, keeping linking O(n) rather than scanning per record.
func indexByAnchor(records []domain.TimeframeRecord) map[string]*domain.TimeframeRecord {
	idx := make(map[string]*domain.TimeframeRecord, len(records))
	for i := range records {
		idx[records[i].AnchorKey()] = &records[i]
	}
	return idx
}

func isoKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func weekRef(src *domain.TimeframeRecord) *domain.WeekRef {
	if src == nil {
		return nil
	}
	return &domain.WeekRef{
		PeriodRef: domain.PeriodRef{
			Even:             src.EvenWeekOfYear,
			ReturnPoints:     src.ReturnPoints,
			ReturnPercentage: src.ReturnPercentage,
			Positive:         src.Positive,
		},
		WeekOfMonth:     src.WeekOfMonth,
		WeekOfYear:      src.WeekOfYear,
		EvenWeekOfMonth: src.EvenWeekOfMonth,
		EvenWeekOfYear:  src.EvenWeekOfYear,
	}
}

func monthRef(src *domain.TimeframeRecord) *domain.PeriodRef {
	if src == nil {
		return nil
	}
	return &domain.PeriodRef{
		Even:             src.EvenMonth,
		ReturnPoints:     src.ReturnPoints,
		ReturnPercentage: src.ReturnPercentage,
		Positive:         src.Positive,
	}
}

func yearRef(src *domain.TimeframeRecord) *domain.PeriodRef {
	if src == nil {
		return nil
	}
	return &domain.PeriodRef{
		Even:             src.EvenYear,
		ReturnPoints:     src.ReturnPoints,
		ReturnPercentage: src.ReturnPercentage,
		Positive:         src.Positive,
	}
}
