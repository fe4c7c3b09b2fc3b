package aggregation

import (
	"seasonpulse/pkg/contracts/domain"
)

// Series holds the five derived timeframe sequences for one instrument,
// each ordered by anchor date ascending.
type Series struct {
	Symbol       string
	Daily        []domain.TimeframeRecord
	MondayWeekly []domain.TimeframeRecord
	ExpiryWeekly []domain.TimeframeRecord
	Monthly      []domain.TimeframeRecord
	Yearly       []domain.TimeframeRecord
}

// ByTimeframe returns the sequence for the given timeframe, or nil for an
// unknown timeframe.
func (s *Series) ByTimeframe(tf domain.Timeframe) []domain.TimeframeRecord {
	switch tf {
	case domain.TimeframeDaily:
		return s.Daily
	case domain.TimeframeMondayWeekly:
		return s.MondayWeekly
	case domain.TimeframeExpiryWeekly:
		return s.ExpiryWeekly
	case domain.TimeframeMonthly:
		return s.Monthly
	case domain.TimeframeYearly:
		return s.Yearly
	}
	return nil
}

// Total returns the record count across all five timeframes.
func (s *Series) Total() int {
	return len(s.Daily) + len(s.MondayWeekly) + len(s.ExpiryWeekly) + len(s.Monthly) + len(s.Yearly)
}
