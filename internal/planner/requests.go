package planner

import (
	"math"
	"strings"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
	apperrors "github.com/Ahmad-Mosha/cyborg-nutrition/internal/errors"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/utils"
)

// CreatePlanRequest describes a new meal plan. Zero values take defaults:
// today for StartDate, 2000 kcal for TargetCalories and the
// Breakfast/Lunch/Dinner split for an empty or unusable distribution.
type CreatePlanRequest struct {
	Name                string
	Description         string
	StartDate           string  // YYYY-MM-DD
	EndDate             *string // YYYY-MM-DD
	TargetCalories      int
	CalorieDistribution []models.DistributionEntry
	// SkipMealGeneration creates the plan without one meal per entry.
	SkipMealGeneration bool
}

func (r CreatePlanRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.InvalidInput("plan name is required")
	}
	if r.TargetCalories < 0 {
		return apperrors.InvalidInput("target calories cannot be negative")
	}
	return validateWindow(r.StartDate, r.EndDate)
}

// validateWindow checks date formats and that end is not before start.
// An empty start is allowed and means today.
func validateWindow(start string, end *string) error {
	if start != "" {
		if _, err := utils.ParseDate(start); err != nil {
			return apperrors.InvalidInput("invalid start date %q (expected YYYY-MM-DD)", start)
		}
	}
	if end == nil {
		return nil
	}
	if _, err := utils.ParseDate(*end); err != nil {
		return apperrors.InvalidInput("invalid end date %q (expected YYYY-MM-DD)", *end)
	}
	if start != "" && *end < start {
		return apperrors.InvalidInput("end date %s is before start date %s", *end, start)
	}
	return nil
}

func validDate(date string) error {
	if _, err := utils.ParseDate(date); err != nil {
		return apperrors.InvalidInput("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return nil
}

// PlanPatch lists the plan fields to change; nil fields are left alone.
// A non-nil CalorieDistribution replaces the distribution.
type PlanPatch struct {
	Name                *string
	Description         *string
	StartDate           *string
	EndDate             *string
	ClearEndDate        bool
	TargetCalories      *int
	CalorieDistribution []models.DistributionEntry
}

func (p PlanPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.StartDate == nil && p.EndDate == nil &&
		!p.ClearEndDate && p.TargetCalories == nil && p.CalorieDistribution == nil
}

func (p PlanPatch) Validate() error {
	if p.IsEmpty() {
		return apperrors.InvalidInput("update contains no fields")
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperrors.InvalidInput("plan name cannot be empty")
	}
	if p.TargetCalories != nil && *p.TargetCalories < 0 {
		return apperrors.InvalidInput("target calories cannot be negative")
	}
	if p.ClearEndDate && p.EndDate != nil {
		return apperrors.InvalidInput("cannot both set and clear the end date")
	}
	start := ""
	if p.StartDate != nil {
		if *p.StartDate == "" {
			return apperrors.InvalidInput("start date cannot be empty")
		}
		start = *p.StartDate
	}
	return validateWindow(start, p.EndDate)
}

// MealSpec describes a meal added to a plan by hand.
type MealSpec struct {
	Name           string
	TargetTime     string // HH:MM, defaults to 12:00
	TargetCalories int
	// NutritionGoals defaults to the 25/50/25 split of TargetCalories.
	NutritionGoals *models.MacroGoals
}

func (s MealSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return apperrors.InvalidInput("meal name is required")
	}
	if s.TargetCalories < 0 {
		return apperrors.InvalidInput("target calories cannot be negative")
	}
	if _, err := utils.NormalizeClock(s.TargetTime); err != nil {
		return apperrors.InvalidInput("%v", err)
	}
	if s.NutritionGoals != nil && !validGoals(*s.NutritionGoals) {
		return apperrors.InvalidInput("nutrition goals cannot be negative")
	}
	return nil
}

func validGoals(g models.MacroGoals) bool {
	return validAmount(g.Protein) && validAmount(g.Carbs) && validAmount(g.Fat)
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// MealPatch lists the meal fields to change. Eaten state is changed only
// through the toggle operations.
type MealPatch struct {
	Name           *string
	TargetTime     *string
	TargetCalories *int
	NutritionGoals *models.MacroGoals
}

func (p MealPatch) Validate() error {
	if p.Name == nil && p.TargetTime == nil && p.TargetCalories == nil && p.NutritionGoals == nil {
		return apperrors.InvalidInput("update contains no fields")
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperrors.InvalidInput("meal name cannot be empty")
	}
	if p.TargetTime != nil {
		if _, err := utils.NormalizeClock(*p.TargetTime); err != nil {
			return apperrors.InvalidInput("%v", err)
		}
	}
	if p.TargetCalories != nil && *p.TargetCalories < 0 {
		return apperrors.InvalidInput("target calories cannot be negative")
	}
	if p.NutritionGoals != nil && !validGoals(*p.NutritionGoals) {
		return apperrors.InvalidInput("nutrition goals cannot be negative")
	}
	return nil
}

// CustomFood is a caller-supplied food record. Nutrients are per
// ServingSize ServingUnit.
type CustomFood struct {
	Name        string
	Brand       string
	ServingSize float64
	ServingUnit string
	Nutrients   models.NutrientSet
}

func (c CustomFood) toFood() models.Food {
	size, unit := c.ServingSize, c.ServingUnit
	if size <= 0 {
		size = constants.DefaultReferenceServing
	}
	if unit == "" {
		unit = constants.DefaultServingUnit
	}
	return models.Food{
		Name:        strings.TrimSpace(c.Name),
		Brand:       c.Brand,
		ServingSize: size,
		ServingUnit: unit,
		Nutrients:   c.Nutrients,
		Source:      models.FoodSourceCustom,
	}
}

// AddFoodRequest attaches a food to a meal. Exactly one of FoodID,
// ExternalFoodID, CustomFood and Query must be set.
type AddFoodRequest struct {
	FoodID         string
	ExternalFoodID string
	CustomFood     *CustomFood
	Query          string
	// SaveToCollection stores a custom food in the catalog.
	SaveToCollection bool

	// ServingSize defaults to the food's reference serving.
	ServingSize float64
	ServingUnit string
}

type foodStrategy int

const (
	byFoodID foodStrategy = iota
	byExternalID
	byCustomFood
	byQuery
)

func (r AddFoodRequest) strategy() foodStrategy {
	switch {
	case strings.TrimSpace(r.FoodID) != "":
		return byFoodID
	case strings.TrimSpace(r.ExternalFoodID) != "":
		return byExternalID
	case r.CustomFood != nil:
		return byCustomFood
	default:
		return byQuery
	}
}

func (r AddFoodRequest) Validate() error {
	set := 0
	for _, given := range []bool{
		strings.TrimSpace(r.FoodID) != "",
		strings.TrimSpace(r.ExternalFoodID) != "",
		r.CustomFood != nil,
		strings.TrimSpace(r.Query) != "",
	} {
		if given {
			set++
		}
	}
	if set != 1 {
		return apperrors.InvalidInput("exactly one of food id, external food id, custom food or query is required (got %d)", set)
	}
	if r.CustomFood != nil && strings.TrimSpace(r.CustomFood.Name) == "" {
		return apperrors.InvalidInput("custom food name is required")
	}
	if r.SaveToCollection && r.CustomFood == nil {
		return apperrors.InvalidInput("save to collection only applies to custom foods")
	}
	if math.IsNaN(r.ServingSize) || math.IsInf(r.ServingSize, 0) || r.ServingSize < 0 {
		return apperrors.InvalidInput("serving size must be a positive number")
	}
	return nil
}

// MealFoodPatch changes a meal food's portion.
type MealFoodPatch struct {
	ServingSize *float64
	ServingUnit *string
}

func (p MealFoodPatch) Validate() error {
	if p.ServingSize == nil && p.ServingUnit == nil {
		return apperrors.InvalidInput("update contains no fields")
	}
	if p.ServingSize != nil && (!validAmount(*p.ServingSize) || *p.ServingSize == 0) {
		return apperrors.InvalidInput("serving size must be a positive number")
	}
	if p.ServingUnit != nil && strings.TrimSpace(*p.ServingUnit) == "" {
		return apperrors.InvalidInput("serving unit cannot be empty")
	}
	return nil
}
