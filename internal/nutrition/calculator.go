// Package nutrition scales food nutrients and aggregates them per meal, day and week.
// Everything here is pure arithmetic: missing inputs degrade to zero and no
// function returns an error.
package nutrition

import (
	"math"
	"time"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
)

// CalorieSource selects which value is authoritative for a portion's calories.
type CalorieSource int

const (
	// CaloriesFromLabel scales the food's stored calorie value.
	CaloriesFromLabel CalorieSource = iota
	// CaloriesFromMacros derives calories as 4P + 4C + 9F of the scaled portion.
	CaloriesFromMacros
)

// Calculator scales portions and builds meal, day and week summaries.
// Location is the zone eaten timestamps are compared in against HH:MM meal
// targets; nil means time.Local.
type Calculator struct {
	CalorieSource CalorieSource
	Location      *time.Location
}

// New returns a Calculator that trusts stored calorie values.
func New() *Calculator {
	return &Calculator{CalorieSource: CaloriesFromLabel}
}

// sanitize maps NaN, infinite and negative values to zero.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// defaults is the single place missing nutrient inputs are filled in.
func defaults(food models.Food) models.Food {
	n := food.Nutrients
	food.Nutrients = models.NutrientSet{
		Calories:      sanitize(n.Calories),
		Protein:       sanitize(n.Protein),
		Carbohydrates: sanitize(n.Carbohydrates),
		Fat:           sanitize(n.Fat),
		Fiber:         sanitize(n.Fiber),
		Sugar:         sanitize(n.Sugar),
		Sodium:        sanitize(n.Sodium),
		Cholesterol:   sanitize(n.Cholesterol),
	}
	if food.ServingSize = sanitize(food.ServingSize); food.ServingSize == 0 {
		food.ServingSize = constants.DefaultReferenceServing
	}
	return food
}

// MacroCalories converts macro grams to kcal.
func MacroCalories(protein, carbs, fat float64) float64 {
	return protein*constants.KcalPerGramProtein + carbs*constants.KcalPerGramCarbs + fat*constants.KcalPerGramFat
}

// Scale returns the nutrients of servingSize units of food, relative to the
// food's reference portion.
func (c *Calculator) Scale(food models.Food, servingSize float64) models.NutrientSet {
	food = defaults(food)
	ratio := sanitize(servingSize) / food.ServingSize

	scaled := food.Nutrients.Scale(ratio)
	if c.CalorieSource == CaloriesFromMacros {
		scaled.Calories = MacroCalories(scaled.Protein, scaled.Carbohydrates, scaled.Fat)
	}
	return scaled
}

// MacroGoalsFor splits calories 25/50/25 across protein, carbs and fat and
// returns whole grams.
func MacroGoalsFor(calories int) models.MacroGoals {
	kcal := float64(calories)
	return models.MacroGoals{
		Protein: math.Round(kcal * constants.MacroShareProtein / constants.KcalPerGramProtein),
		Carbs:   math.Round(kcal * constants.MacroShareCarbs / constants.KcalPerGramCarbs),
		Fat:     math.Round(kcal * constants.MacroShareFat / constants.KcalPerGramFat),
	}
}

// percentOf returns part/whole*100, or 0 when whole is zero.
func percentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// round2 rounds to two decimals for presentation.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
