package nutrition

import (
	"math"
	"time"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/utils"
)

// Macros is a calories + macro grams tuple.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

func macrosOf(n models.NutrientSet) Macros {
	return Macros{Calories: n.Calories, Protein: n.Protein, Carbs: n.Carbohydrates, Fat: n.Fat}
}

// CalorieProgress compares eaten calories against a target.
type CalorieProgress struct {
	Percentage float64 `json:"percentage"`
	Remaining  float64 `json:"remaining"`
}

// FoodNutrition is one attached food inside a MealSummary.
type FoodNutrition struct {
	MealFoodID  string             `json:"meal_food_id"`
	Name        string             `json:"name"`
	ServingSize float64            `json:"serving_size"`
	ServingUnit string             `json:"serving_unit"`
	Nutrients   models.NutrientSet `json:"nutrients"`
	Eaten       bool               `json:"eaten"`
	EatenAt     *time.Time         `json:"eaten_at,omitempty"`
	OnTime      *bool              `json:"on_time,omitempty"`
}

// MealSummary holds a meal's target, eaten and planned totals.
type MealSummary struct {
	MealID     string          `json:"meal_id"`
	Name       string          `json:"name"`
	TargetTime string          `json:"target_time"`
	Eaten      bool            `json:"eaten"`
	EatenAt    *time.Time      `json:"eaten_at,omitempty"`
	OnTime     *bool           `json:"on_time,omitempty"`
	Target     Macros          `json:"target"`
	Actual     Macros          `json:"actual"`
	Planned    Macros          `json:"planned"`
	Progress   CalorieProgress `json:"progress"`
	Foods      []FoodNutrition `json:"foods"`
}

// FoodNutrients returns a meal food's nutrients, rescaled from its food when
// the food is loaded and taken from the stored snapshot otherwise.
func (c *Calculator) FoodNutrients(mf models.MealFood) models.NutrientSet {
	if mf.Food != nil {
		return c.Scale(*mf.Food, mf.ServingSize)
	}
	return mf.Nutrients
}

func (c *Calculator) onTime(eatenAt *time.Time, target string) *bool {
	on, ok := utils.OnTime(eatenAt, target, c.Location)
	if !ok {
		return nil
	}
	return &on
}

// MealNutrition summarizes one meal. Actual totals only count eaten foods;
// Planned counts every attached food.
func (c *Calculator) MealNutrition(meal models.Meal) MealSummary {
	s := MealSummary{
		MealID:     meal.ID,
		Name:       meal.Name,
		TargetTime: meal.TargetTime,
		Eaten:      meal.Eaten,
		EatenAt:    meal.EatenAt,
		OnTime:     c.onTime(meal.EatenAt, meal.TargetTime),
		Target: Macros{
			Calories: float64(meal.TargetCalories),
			Protein:  meal.NutritionGoals.Protein,
			Carbs:    meal.NutritionGoals.Carbs,
			Fat:      meal.NutritionGoals.Fat,
		},
		Foods: make([]FoodNutrition, 0, len(meal.Foods)),
	}

	var actual, planned models.NutrientSet
	for _, mf := range meal.Foods {
		n := c.FoodNutrients(mf)
		planned = planned.Add(n)
		if mf.Eaten {
			actual = actual.Add(n)
		}

		name := ""
		if mf.Food != nil {
			name = mf.Food.Name
		}
		s.Foods = append(s.Foods, FoodNutrition{
			MealFoodID:  mf.ID,
			Name:        name,
			ServingSize: mf.ServingSize,
			ServingUnit: mf.ServingUnit,
			Nutrients:   n,
			Eaten:       mf.Eaten,
			EatenAt:     mf.EatenAt,
			OnTime:      c.onTime(mf.EatenAt, meal.TargetTime),
		})
	}

	s.Actual = macrosOf(actual)
	s.Planned = macrosOf(planned)
	s.Progress = CalorieProgress{
		Percentage: round2(percentOf(s.Actual.Calories, s.Target.Calories)),
		Remaining:  s.Target.Calories - s.Actual.Calories,
	}
	return s
}

// MacroShare is one macro's grams, kcal and share of macro kcal.
type MacroShare struct {
	Grams      float64 `json:"grams"`
	Calories   float64 `json:"calories"`
	Percentage float64 `json:"percentage"`
}

// MacroBreakdown splits eaten calories across protein, carbs and fat.
type MacroBreakdown struct {
	Protein MacroShare `json:"protein"`
	Carbs   MacroShare `json:"carbs"`
	Fat     MacroShare `json:"fat"`
}

// DayCalories totals calorie targets and intake for a date.
type DayCalories struct {
	Target    float64 `json:"target"`
	Eaten     float64 `json:"eaten"`
	Remaining float64 `json:"remaining"`
}

// MealProgress is one meal's line in a DailySummary.
type MealProgress struct {
	MealID         string  `json:"meal_id"`
	Name           string  `json:"name"`
	TargetTime     string  `json:"target_time"`
	TargetCalories float64 `json:"target_calories"`
	ActualCalories float64 `json:"actual_calories"`
	Eaten          bool    `json:"eaten"`
}

// MealsProgress counts eaten meals against planned meals.
type MealsProgress struct {
	MealsEaten int     `json:"meals_eaten"`
	TotalMeals int     `json:"total_meals"`
	Percentage float64 `json:"percentage"`
}

// DistributionProgress compares a distribution entry with what was eaten.
type DistributionProgress struct {
	MealName   string  `json:"meal_name"`
	Percentage float64 `json:"percentage"`
	Target     float64 `json:"target"`
	Actual     float64 `json:"actual"`
	Deficit    float64 `json:"deficit"`
}

// DailySummary aggregates every meal planned for one date.
type DailySummary struct {
	Date         string                 `json:"date"`
	Calories     DayCalories            `json:"calories"`
	Macros       MacroBreakdown         `json:"macros"`
	Nutrients    models.NutrientSet     `json:"nutrients"`
	Meals        []MealProgress         `json:"meals"`
	Progress     MealsProgress          `json:"progress"`
	Distribution []DistributionProgress `json:"distribution,omitempty"`
}

// DailyNutrition summarizes the meals planned for one date. distribution is
// the calorie distribution of the plans those meals belong to; when empty no
// per-name breakdown is produced.
func (c *Calculator) DailyNutrition(date string, meals []models.Meal, distribution []models.DistributionEntry) DailySummary {
	s := DailySummary{Date: date, Meals: make([]MealProgress, 0, len(meals))}

	var eaten models.NutrientSet
	actualByName := make(map[string]float64)
	for _, meal := range meals {
		var mealEaten models.NutrientSet
		for _, mf := range meal.Foods {
			if mf.Eaten {
				mealEaten = mealEaten.Add(c.FoodNutrients(mf))
			}
		}
		eaten = eaten.Add(mealEaten)
		actualByName[meal.Name] += mealEaten.Calories

		s.Calories.Target += float64(meal.TargetCalories)
		s.Progress.TotalMeals++
		if meal.Eaten {
			s.Progress.MealsEaten++
		}
		s.Meals = append(s.Meals, MealProgress{
			MealID:         meal.ID,
			Name:           meal.Name,
			TargetTime:     meal.TargetTime,
			TargetCalories: float64(meal.TargetCalories),
			ActualCalories: mealEaten.Calories,
			Eaten:          meal.Eaten,
		})
	}

	s.Nutrients = eaten
	s.Calories.Eaten = eaten.Calories
	s.Calories.Remaining = s.Calories.Target - eaten.Calories
	s.Progress.Percentage = round2(percentOf(float64(s.Progress.MealsEaten), float64(s.Progress.TotalMeals)))
	s.Macros = macroBreakdown(eaten)

	for _, e := range distribution {
		target := float64(e.CalorieAmount)
		actual := actualByName[e.MealName]
		s.Distribution = append(s.Distribution, DistributionProgress{
			MealName:   e.MealName,
			Percentage: e.Pct(),
			Target:     target,
			Actual:     actual,
			Deficit:    target - actual,
		})
	}
	return s
}

// macroBreakdown expresses each macro as a share of the calories the three
// macros supply together.
func macroBreakdown(n models.NutrientSet) MacroBreakdown {
	protein := MacroCalories(n.Protein, 0, 0)
	carbs := MacroCalories(0, n.Carbohydrates, 0)
	fat := MacroCalories(0, 0, n.Fat)
	total := protein + carbs + fat
	return MacroBreakdown{
		Protein: MacroShare{Grams: n.Protein, Calories: protein, Percentage: round2(percentOf(protein, total))},
		Carbs:   MacroShare{Grams: n.Carbohydrates, Calories: carbs, Percentage: round2(percentOf(carbs, total))},
		Fat:     MacroShare{Grams: n.Fat, Calories: fat, Percentage: round2(percentOf(fat, total))},
	}
}

// WeekCalories totals calories over a date range.
type WeekCalories struct {
	Target       float64 `json:"target"`
	Eaten        float64 `json:"eaten"`
	AverageDaily float64 `json:"average_daily"`
}

// WeeklySummary folds a range of DailySummary values.
type WeeklySummary struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Calories  WeekCalories   `json:"calories"`
	Macros    Macros         `json:"macros"`
	Progress  MealsProgress  `json:"progress"`
	Days      []DailySummary `json:"days"`
}

// WeeklyNutrition folds daily summaries into one range summary.
func (c *Calculator) WeeklyNutrition(start, end string, days []DailySummary) WeeklySummary {
	s := WeeklySummary{StartDate: start, EndDate: end, Days: days}
	for _, d := range days {
		s.Calories.Target += d.Calories.Target
		s.Calories.Eaten += d.Calories.Eaten
		s.Macros.Calories += d.Calories.Eaten
		s.Macros.Protein += d.Nutrients.Protein
		s.Macros.Carbs += d.Nutrients.Carbohydrates
		s.Macros.Fat += d.Nutrients.Fat
		s.Progress.MealsEaten += d.Progress.MealsEaten
		s.Progress.TotalMeals += d.Progress.TotalMeals
	}
	if len(days) > 0 {
		s.Calories.AverageDaily = round2(s.Calories.Eaten / float64(len(days)))
	}
	s.Progress.Percentage = round2(percentOf(float64(s.Progress.MealsEaten), float64(s.Progress.TotalMeals)))
	return s
}

// MealTarget is the calorie and macro target derived for one meal name.
type MealTarget struct {
	MealName   string  `json:"meal_name"`
	Percentage float64 `json:"percentage"`
	Calories   int     `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
}

// MealDistribution turns a distribution into per-meal calorie and macro targets.
func (c *Calculator) MealDistribution(targetCalories int, distribution []models.DistributionEntry) []MealTarget {
	out := make([]MealTarget, 0, len(distribution))
	for _, e := range distribution {
		calories := int(math.Round(float64(targetCalories) * e.Pct() / 100))
		goals := MacroGoalsFor(calories)
		out = append(out, MealTarget{
			MealName:   e.MealName,
			Percentage: e.Pct(),
			Calories:   calories,
			Protein:    goals.Protein,
			Carbs:      goals.Carbs,
			Fat:        goals.Fat,
		})
	}
	return out
}
