package domain

import (
	"time"
)

// CountryGlobal is the wildcard scope matching every country in
// political-cycle and special-day lookups.
const CountryGlobal = "GLOBAL"

// PoliticalCycle represents one political-cycle reference record (election
// windows, budget sessions and similar) with an expected market impact.
type PoliticalCycle struct {
	ID          string    `json:"id" db:"id" validate:"required,uuid"`
	Name        string    `json:"name" db:"name" validate:"required"`
	Country     string    `json:"country" db:"country" validate:"required"`
	StartDate   time.Time `json:"start_date" db:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" db:"end_date" validate:"required"`
	ImpactScore float64   `json:"impact_score" db:"impact_score"`
	Description string    `json:"description,omitempty" db:"description"`
}

// Overlaps reports whether the cycle's date range contains the given date.
func (c *PoliticalCycle) Overlaps(date time.Time) bool {
	return !date.Before(c.StartDate) && !date.After(c.EndDate)
}

// AppliesTo reports whether the cycle is scoped to the given country or is
// globally scoped.
func (c *PoliticalCycle) AppliesTo(country string) bool {
	return c.Country == country || c.Country == CountryGlobal
}

// SpecialDay represents one calendar reference day (holiday eve, expiry day,
// budget day) that overlays the seasonality dataset.
type SpecialDay struct {
	ID          string    `json:"id" db:"id" validate:"required,uuid"`
	Name        string    `json:"name" db:"name" validate:"required"`
	Country     string    `json:"country" db:"country" validate:"required"`
	Date        time.Time `json:"date" db:"date" validate:"required"`
	Kind        string    `json:"kind,omitempty" db:"kind"`
	ImpactScore float64   `json:"impact_score" db:"impact_score"`
}
