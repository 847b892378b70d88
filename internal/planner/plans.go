package planner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/distribution"
	apperrors "github.com/Ahmad-Mosha/cyborg-nutrition/internal/errors"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/logger"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/nutrition"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/utils"
)

// PlanManager owns the meal plan lifecycle.
type PlanManager struct {
	store      storage.Provider
	normalizer *distribution.Normalizer
	now        func() time.Time
}

// CreateMealPlan stores a new plan and, unless SkipMealGeneration is set, one
// meal per distribution entry. Plan and meals commit together.
func (m *PlanManager) CreateMealPlan(ctx context.Context, req CreatePlanRequest, owner string) (models.MealPlan, error) {
	if err := req.Validate(); err != nil {
		return models.MealPlan{}, err
	}

	now := m.now()
	plan := models.MealPlan{
		ID:             uuid.New().String(),
		OwnerID:        owner,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TargetCalories: req.TargetCalories,
	}
	if plan.StartDate == "" {
		plan.StartDate = utils.FormatDate(now)
	}
	if plan.EndDate != nil && *plan.EndDate < plan.StartDate {
		return models.MealPlan{}, apperrors.InvalidInput("end date %s is before start date %s", *plan.EndDate, plan.StartDate)
	}
	if plan.TargetCalories == 0 {
		plan.TargetCalories = constants.DefaultTargetCalories
	}
	plan.ApplyDistribution(req.CalorieDistribution, m.normalizer)
	plan.Touch(now)

	if !req.SkipMealGeneration {
		for _, e := range plan.CalorieDistribution {
			plan.Meals = append(plan.Meals, generatedMeal(plan.ID, e))
		}
	}

	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.InsertPlan(plan); err != nil {
			return err
		}
		for _, meal := range plan.Meals {
			if err := tx.InsertMeal(meal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.MealPlan{}, err
	}

	logger.Info("Created meal plan", "plan_id", plan.ID, "owner", owner, "meals", len(plan.Meals))
	return plan, nil
}

// generatedMeal builds the meal for one distribution entry.
func generatedMeal(planID string, e models.DistributionEntry) models.Meal {
	targetTime, ok := constants.DefaultMealTimes[e.MealName]
	if !ok {
		targetTime = constants.DefaultMealTime
	}
	return models.Meal{
		ID:             uuid.New().String(),
		PlanID:         planID,
		Name:           e.MealName,
		TargetTime:     targetTime,
		TargetCalories: e.CalorieAmount,
		NutritionGoals: nutrition.MacroGoalsFor(e.CalorieAmount),
	}
}

// GetMealPlans lists the owner's plans, newest start date first. Meals are
// not loaded. page starts at 1; pageSize defaults to 20 and is capped at 100.
func (m *PlanManager) GetMealPlans(ctx context.Context, owner string, page, pageSize int) (Page[models.MealPlan], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	result := Page[models.MealPlan]{Page: page, PageSize: pageSize}
	err := m.store.View(ctx, func(tx storage.Tx) error {
		plans, total, err := tx.ListPlans(owner, pageSize, (page-1)*pageSize)
		if err != nil {
			return err
		}
		result.Items = plans
		result.Total = total
		return nil
	})
	if err != nil {
		return Page[models.MealPlan]{}, err
	}
	if result.Items == nil {
		result.Items = []models.MealPlan{}
	}
	result.TotalPages = (result.Total + pageSize - 1) / pageSize
	return result, nil
}

// GetMealPlanByID returns the plan with its meals and their foods.
func (m *PlanManager) GetMealPlanByID(ctx context.Context, id, owner string) (models.MealPlan, error) {
	var plan models.MealPlan
	err := m.store.View(ctx, func(tx storage.Tx) error {
		var err error
		plan, err = loadPlan(tx, id, owner)
		return err
	})
	return plan, err
}

func loadPlan(tx storage.Tx, id, owner string) (models.MealPlan, error) {
	plan, err := tx.GetPlan(id, owner)
	if err != nil {
		return models.MealPlan{}, err
	}
	if plan.Meals, err = tx.MealsForPlan(plan.ID); err != nil {
		return models.MealPlan{}, err
	}
	return plan, nil
}

// UpdateMealPlan applies patch. A new distribution is normalized; a new
// target recomputes the calorie amounts of whichever distribution results.
func (m *PlanManager) UpdateMealPlan(ctx context.Context, id string, patch PlanPatch, owner string) (models.MealPlan, error) {
	if err := patch.Validate(); err != nil {
		return models.MealPlan{}, err
	}

	var plan models.MealPlan
	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		if plan, err = tx.GetPlan(id, owner); err != nil {
			return err
		}

		if patch.Name != nil {
			plan.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			plan.Description = *patch.Description
		}
		if patch.StartDate != nil {
			plan.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			end := *patch.EndDate
			plan.EndDate = &end
		}
		if patch.ClearEndDate {
			plan.EndDate = nil
		}
		if plan.EndDate != nil && *plan.EndDate < plan.StartDate {
			return apperrors.InvalidInput("end date %s is before start date %s", *plan.EndDate, plan.StartDate)
		}

		if patch.TargetCalories != nil {
			plan.TargetCalories = *patch.TargetCalories
		}
		switch {
		case patch.CalorieDistribution != nil:
			plan.ApplyDistribution(patch.CalorieDistribution, m.normalizer)
		case patch.TargetCalories != nil:
			plan.ApplyDistribution(plan.CalorieDistribution, m.normalizer)
		}

		plan.Touch(m.now())
		if err := tx.UpdatePlan(plan); err != nil {
			return err
		}
		plan.Meals, err = tx.MealsForPlan(plan.ID)
		return err
	})
	if err != nil {
		return models.MealPlan{}, err
	}

	logger.Debug("Updated meal plan", "plan_id", id, "owner", owner)
	return plan, nil
}

// DeleteMealPlan removes the plan with all its meals and meal foods.
func (m *PlanManager) DeleteMealPlan(ctx context.Context, id, owner string) error {
	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		return tx.DeletePlan(id, owner)
	})
	if err != nil {
		return err
	}
	logger.Info("Deleted meal plan", "plan_id", id, "owner", owner)
	return nil
}

// DuplicateMealPlan deep-copies a plan under new ids, starting on targetDate
// (today when nil). Meals and foods start uneaten; nutrient snapshots are
// kept. Meal foods without a catalog food are not copied. A bounded plan
// keeps its length.
func (m *PlanManager) DuplicateMealPlan(ctx context.Context, id, owner string, targetDate *time.Time) (models.MealPlan, error) {
	start := m.now()
	if targetDate != nil {
		start = *targetDate
	}

	var (
		clone   models.MealPlan
		skipped int
	)
	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		src, err := loadPlan(tx, id, owner)
		if err != nil {
			return err
		}

		clone, skipped, err = duplicate(src, start, m.now())
		if err != nil {
			return err
		}

		if err := tx.InsertPlan(clone); err != nil {
			return err
		}
		for _, meal := range clone.Meals {
			if err := tx.InsertMeal(meal); err != nil {
				return err
			}
			for _, mf := range meal.Foods {
				if err := tx.InsertMealFood(mf); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.MealPlan{}, err
	}

	if skipped > 0 {
		logger.Warn("Skipped meal foods without a catalog food while duplicating", "plan_id", id, "skipped", skipped)
	}
	logger.Info("Duplicated meal plan", "source_id", id, "plan_id", clone.ID, "owner", owner)
	return clone, nil
}

func duplicate(src models.MealPlan, start, now time.Time) (models.MealPlan, int, error) {
	clone := models.MealPlan{
		ID:                  uuid.New().String(),
		OwnerID:             src.OwnerID,
		Name:                constants.DuplicateNamePrefix + src.Name,
		Description:         src.Description,
		StartDate:           utils.FormatDate(start),
		TargetCalories:      src.TargetCalories,
		CalorieDistribution: append([]models.DistributionEntry(nil), src.CalorieDistribution...),
	}
	if src.EndDate != nil {
		end, err := shiftEnd(src.StartDate, *src.EndDate, start)
		if err != nil {
			return models.MealPlan{}, 0, err
		}
		clone.EndDate = &end
	}
	clone.Touch(now)

	skipped := 0
	for _, meal := range src.Meals {
		copied := models.Meal{
			ID:             uuid.New().String(),
			PlanID:         clone.ID,
			Name:           meal.Name,
			TargetTime:     meal.TargetTime,
			TargetCalories: meal.TargetCalories,
			NutritionGoals: meal.NutritionGoals,
		}
		for _, mf := range meal.Foods {
			if mf.FoodID == nil {
				skipped++
				continue
			}
			foodID := *mf.FoodID
			copied.Foods = append(copied.Foods, models.MealFood{
				ID:          uuid.New().String(),
				MealID:      copied.ID,
				FoodID:      &foodID,
				Food:        mf.Food,
				ServingSize: mf.ServingSize,
				ServingUnit: mf.ServingUnit,
				Nutrients:   mf.Nutrients,
			})
		}
		clone.Meals = append(clone.Meals, copied)
	}
	return clone, skipped, nil
}

// shiftEnd moves end so the window starting at newStart spans as many days
// as [start, end].
func shiftEnd(start, end string, newStart time.Time) (string, error) {
	s, err := utils.ParseDate(start)
	if err != nil {
		return "", apperrors.ConsistencyViolation("stored start date %q: %v", start, err)
	}
	e, err := utils.ParseDate(end)
	if err != nil {
		return "", apperrors.ConsistencyViolation("stored end date %q: %v", end, err)
	}
	days := int(e.Sub(s).Hours() / 24)
	from := time.Date(newStart.Year(), newStart.Month(), newStart.Day(), 0, 0, 0, 0, time.UTC)
	return utils.FormatDate(from.AddDate(0, 0, days)), nil
}

// AdjustMealPercentagesForNewMeal returns the plan's distribution rebalanced
// to make room for mealName at percentage (default 20, at most 50), with
// amounts against the plan's target. The plan itself is not changed.
func (m *PlanManager) AdjustMealPercentagesForNewMeal(ctx context.Context, planID, mealName string, percentage *float64, owner string) ([]models.DistributionEntry, error) {
	mealName = strings.TrimSpace(mealName)
	if mealName == "" {
		return nil, apperrors.InvalidInput("meal name is required")
	}

	var plan models.MealPlan
	err := m.store.View(ctx, func(tx storage.Tx) error {
		var err error
		plan, err = tx.GetPlan(planID, owner)
		return err
	})
	if err != nil {
		return nil, err
	}

	adjusted, err := m.normalizer.AdjustForNewMeal(plan.CalorieDistribution, mealName, percentage)
	if err != nil {
		return nil, err
	}
	return m.normalizer.ComputeAmounts(adjusted, plan.TargetCalories), nil
}
