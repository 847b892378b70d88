package models

import "time"

// DistributionEntry is one named share of a plan's daily calories.
// Percentage is a pointer so that entries submitted without a numeric
// percentage can be told apart from an explicit zero.
type DistributionEntry struct {
	MealName      string   `json:"mealName"`
	Percentage    *float64 `json:"percentage"`
	CalorieAmount int      `json:"calorieAmount"`
}

// Pct returns the entry's percentage, or 0 when none was given.
func (e DistributionEntry) Pct() float64 {
	if e.Percentage == nil {
		return 0
	}
	return *e.Percentage
}

// Percent is a convenience constructor for DistributionEntry.Percentage.
func Percent(v float64) *float64 {
	return &v
}

type MealPlan struct {
	ID                  string              `json:"id"`
	OwnerID             string              `json:"owner_id"`
	Name                string              `json:"name"`
	Description         string              `json:"description,omitempty"`
	StartDate           string              `json:"start_date"`         // YYYY-MM-DD
	EndDate             *string             `json:"end_date,omitempty"` // YYYY-MM-DD, nil for open-ended
	TargetCalories      int                 `json:"target_calories"`
	CalorieDistribution []DistributionEntry `json:"calorie_distribution"`
	Meals               []Meal              `json:"meals,omitempty"`
	CreatedAt           string              `json:"created_at"` // RFC3339 timestamp
	UpdatedAt           string              `json:"updated_at"` // RFC3339 timestamp
}

// Distributor is the normalization contract the plan aggregate relies on.
type Distributor interface {
	Normalize([]DistributionEntry) []DistributionEntry
	ComputeAmounts([]DistributionEntry, int) []DistributionEntry
}

// ApplyDistribution normalizes entries and recomputes calorie amounts against
// the plan's current target. It is the only way a plan's distribution changes.
func (p *MealPlan) ApplyDistribution(entries []DistributionEntry, d Distributor) {
	p.CalorieDistribution = d.ComputeAmounts(d.Normalize(entries), p.TargetCalories)
}

// Covers reports whether date (YYYY-MM-DD) falls inside the plan's window.
// An open-ended plan covers every date from its start onward.
func (p MealPlan) Covers(date string) bool {
	if date < p.StartDate {
		return false
	}
	return p.EndDate == nil || date <= *p.EndDate
}

// Touch stamps UpdatedAt, and CreatedAt when it is empty.
func (p *MealPlan) Touch(now time.Time) {
	ts := now.UTC().Format(time.RFC3339)
	if p.CreatedAt == "" {
		p.CreatedAt = ts
	}
	p.UpdatedAt = ts
}
