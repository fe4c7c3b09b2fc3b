package domain

import (
	"time"
)

// Bar represents a single instrument's OHLCV observation for one trading day.
// This is the primary input structure for the seasonality pipeline. Close is
// the only mandatory price; absent open/high/low default to close during
// normalization.
type Bar struct {
	Symbol       string    `json:"symbol" db:"symbol" validate:"required,min=1,max=20"`
	Date         time.Time `json:"date" db:"date" validate:"required"`
	Open         float64   `json:"open" db:"open" validate:"min=0"`
	High         float64   `json:"high" db:"high" validate:"min=0"`
	Low          float64   `json:"low" db:"low" validate:"min=0"`
	Close        float64   `json:"close" db:"close" validate:"required,gt=0"`
	Volume       int64     `json:"volume" db:"volume" validate:"min=0"`
	OpenInterest int64     `json:"open_interest" db:"open_interest" validate:"min=0"`
}

// IsValid reports whether the bar carries a usable close price.
// Bars failing this check are skipped with a warning, not fatal to the
// instrument's processing.
func (b *Bar) IsValid() bool {
	return b.Close > 0 && !b.Date.IsZero() && b.Symbol != ""
}

// Normalize fills absent open/high/low prices from the close price and
// clamps negative volume/open interest to zero. It returns the normalized
// copy without mutating the receiver.
func (b Bar) Normalize() Bar {
	if b.Open <= 0 {
		b.Open = b.Close
	}
	if b.High <= 0 {
		b.High = b.Close
	}
	if b.Low <= 0 {
		b.Low = b.Close
	}
	if b.Volume < 0 {
		b.Volume = 0
	}
	if b.OpenInterest < 0 {
		b.OpenInterest = 0
	}
	return b
}

// BarFilter represents filters for querying historical bars.
type BarFilter struct {
	Symbols  []string   `json:"symbols,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
}
