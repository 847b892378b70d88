package planner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/food"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/logger"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/nutrition"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/utils"
)

// MealManager owns meals, their foods and the eaten cascade between them.
type MealManager struct {
	store    storage.Provider
	calc     *nutrition.Calculator
	resolver food.Resolver
	now      func() time.Time
}

// AddMealToPlan adds a meal to an owned plan. The plan's distribution is
// left alone; use AdjustMealPercentagesForNewMeal to rebalance it.
func (m *MealManager) AddMealToPlan(ctx context.Context, planID string, spec MealSpec, owner string) (models.Meal, error) {
	if err := spec.Validate(); err != nil {
		return models.Meal{}, err
	}
	targetTime, _ := utils.NormalizeClock(spec.TargetTime)

	meal := models.Meal{
		ID:             uuid.New().String(),
		PlanID:         planID,
		Name:           strings.TrimSpace(spec.Name),
		TargetTime:     targetTime,
		TargetCalories: spec.TargetCalories,
		NutritionGoals: nutrition.MacroGoalsFor(spec.TargetCalories),
	}
	if spec.NutritionGoals != nil {
		meal.NutritionGoals = *spec.NutritionGoals
	}

	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetPlan(planID, owner); err != nil {
			return err
		}
		return tx.InsertMeal(meal)
	})
	if err != nil {
		return models.Meal{}, err
	}

	logger.Debug("Added meal to plan", "plan_id", planID, "meal_id", meal.ID, "owner", owner)
	return meal, nil
}

// GetMealByID returns the meal with its foods.
func (m *MealManager) GetMealByID(ctx context.Context, id, owner string) (models.Meal, error) {
	var meal models.Meal
	err := m.store.View(ctx, func(tx storage.Tx) error {
		var err error
		meal, err = tx.GetMeal(id, owner)
		return err
	})
	return meal, err
}

func (m *MealManager) UpdateMeal(ctx context.Context, id string, patch MealPatch, owner string) (models.Meal, error) {
	if err := patch.Validate(); err != nil {
		return models.Meal{}, err
	}

	var meal models.Meal
	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		if meal, err = tx.GetMeal(id, owner); err != nil {
			return err
		}
		if patch.Name != nil {
			meal.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.TargetTime != nil {
			meal.TargetTime, _ = utils.NormalizeClock(*patch.TargetTime)
		}
		if patch.TargetCalories != nil {
			meal.TargetCalories = *patch.TargetCalories
		}
		if patch.NutritionGoals != nil {
			meal.NutritionGoals = *patch.NutritionGoals
		}
		return tx.UpdateMeal(meal)
	})
	if err != nil {
		return models.Meal{}, err
	}

	logger.Debug("Updated meal", "meal_id", id, "owner", owner)
	return meal, nil
}

// DeleteMeal removes the meal and its foods.
func (m *MealManager) DeleteMeal(ctx context.Context, id, owner string) error {
	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		return tx.DeleteMeal(id, owner)
	})
	if err != nil {
		return err
	}
	logger.Debug("Deleted meal", "meal_id", id, "owner", owner)
	return nil
}

// ToggleFoodEaten flips one meal food and brings the meal's eaten flag in
// line with its foods. It returns the food's new value.
func (m *MealManager) ToggleFoodEaten(ctx context.Context, mealID, mealFoodID, owner string) (bool, error) {
	var eaten bool
	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		meal, err := tx.GetMeal(mealID, owner)
		if err != nil {
			return err
		}
		if eaten, err = meal.ToggleFood(mealFoodID, m.now()); err != nil {
			return err
		}
		mf, _ := meal.FindFood(mealFoodID)
		if err := tx.UpdateMealFood(*mf); err != nil {
			return err
		}
		if err := tx.UpdateMeal(meal); err != nil {
			return err
		}
		return meal.CheckConsistency()
	})
	if err != nil {
		return false, err
	}

	logger.Debug("Toggled meal food", "meal_id", mealID, "meal_food_id", mealFoodID, "eaten", eaten, "owner", owner)
	return eaten, nil
}

// ToggleMealEaten flips the meal and sets every food to the same value.
// It returns the meal's new value.
func (m *MealManager) ToggleMealEaten(ctx context.Context, mealID, owner string) (bool, error) {
	var eaten bool
	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		meal, err := tx.GetMeal(mealID, owner)
		if err != nil {
			return err
		}
		eaten = meal.ToggleEaten(m.now())
		if err := tx.UpdateMeal(meal); err != nil {
			return err
		}
		for _, mf := range meal.Foods {
			if err := tx.UpdateMealFood(mf); err != nil {
				return err
			}
		}
		return meal.CheckConsistency()
	})
	if err != nil {
		return false, err
	}

	logger.Debug("Toggled meal", "meal_id", mealID, "eaten", eaten, "owner", owner)
	return eaten, nil
}

// GetMealsByDate returns the meals of every owned plan covering date,
// ordered by target time.
func (m *MealManager) GetMealsByDate(ctx context.Context, date, owner string) ([]models.Meal, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	var meals []models.Meal
	err := m.store.View(ctx, func(tx storage.Tx) error {
		var err error
		meals, err = tx.MealsForDate(owner, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	return meals, nil
}
