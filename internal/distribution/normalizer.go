// Package distribution splits a plan's daily calories across named meals.
package distribution

import (
	"math"
	"strings"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
	apperrors "github.com/Ahmad-Mosha/cyborg-nutrition/internal/errors"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
)

// Normalizer holds the tunables for distribution arithmetic. The zero value
// is not useful; start from New and override fields as needed.
type Normalizer struct {
	// Tolerance is how far, in percentage points, a total may drift from 100
	// before it is rescaled.
	Tolerance float64
	// MaxNewMealPercentage caps the share a newly inserted meal may claim.
	MaxNewMealPercentage float64
	// DefaultNewMealPercentage is used when no share is requested.
	DefaultNewMealPercentage float64
}

// New returns a Normalizer with the standard tolerance and caps.
func New() *Normalizer {
	return &Normalizer{
		Tolerance:                constants.DistributionTolerance,
		MaxNewMealPercentage:     constants.MaxNewMealPercentage,
		DefaultNewMealPercentage: constants.DefaultNewMealPercentage,
	}
}

// Default returns the fallback Breakfast/Lunch/Dinner split.
func Default() []models.DistributionEntry {
	return []models.DistributionEntry{
		{MealName: constants.MealBreakfast, Percentage: models.Percent(25)},
		{MealName: constants.MealLunch, Percentage: models.Percent(40)},
		{MealName: constants.MealDinner, Percentage: models.Percent(35)},
	}
}

// Valid returns the entries that carry a name and a usable percentage.
func Valid(entries []models.DistributionEntry) []models.DistributionEntry {
	valid := make([]models.DistributionEntry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.MealName) == "" || e.Percentage == nil {
			continue
		}
		p := *e.Percentage
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			continue
		}
		valid = append(valid, models.DistributionEntry{
			MealName:      strings.TrimSpace(e.MealName),
			Percentage:    models.Percent(p),
			CalorieAmount: e.CalorieAmount,
		})
	}
	return valid
}

// Total sums the entries' percentages.
func Total(entries []models.DistributionEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Pct()
	}
	return total
}

// Normalize drops malformed entries and rescales the rest proportionally so
// they sum to 100. An empty result falls back to Default. Input is not modified.
func (n *Normalizer) Normalize(entries []models.DistributionEntry) []models.DistributionEntry {
	valid := Valid(entries)
	if len(valid) == 0 {
		return Default()
	}

	total := Total(valid)
	if total <= 0 {
		// All-zero shares carry no proportion to preserve
		return Default()
	}
	if math.Abs(total-100) < n.Tolerance {
		return valid
	}

	factor := 100 / total
	for i := range valid {
		valid[i].Percentage = models.Percent(valid[i].Pct() * factor)
	}
	return valid
}

// ComputeAmounts sets each entry's calorie amount from its percentage.
// Percentages are left as they are.
func (n *Normalizer) ComputeAmounts(entries []models.DistributionEntry, targetCalories int) []models.DistributionEntry {
	out := make([]models.DistributionEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		out[i].CalorieAmount = int(math.Round(e.Pct() / 100 * float64(targetCalories)))
	}
	return out
}

// AdjustForNewMeal shrinks every existing share by the same factor to make
// room for a new meal and appends it. requested is clamped to
// MaxNewMealPercentage and defaults to DefaultNewMealPercentage.
func (n *Normalizer) AdjustForNewMeal(existing []models.DistributionEntry, mealName string, requested *float64) ([]models.DistributionEntry, error) {
	pct := n.DefaultNewMealPercentage
	if requested != nil && !math.IsNaN(*requested) {
		pct = *requested
	}
	pct = math.Max(0, math.Min(pct, n.MaxNewMealPercentage))

	valid := Valid(existing)
	if len(valid) == 0 {
		return []models.DistributionEntry{{MealName: mealName, Percentage: models.Percent(100)}}, nil
	}

	// Bring the existing entries to 100 first so the result does too
	valid = n.Normalize(valid)

	reduction := (100 - pct) / 100
	out := make([]models.DistributionEntry, 0, len(valid)+1)
	for _, e := range valid {
		out = append(out, models.DistributionEntry{
			MealName:   e.MealName,
			Percentage: models.Percent(e.Pct() * reduction),
		})
	}
	out = append(out, models.DistributionEntry{MealName: mealName, Percentage: models.Percent(pct)})

	if total := Total(out); math.Abs(total-100) >= n.Tolerance {
		return nil, apperrors.ConsistencyViolation("adjusted distribution sums to %.4f", total)
	}
	return out, nil
}
