package planner

import (
	"context"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/Ahmad-Mosha/cyborg-nutrition/internal/errors"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/food"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/logger"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage"
)

// AddFoodToMeal resolves the requested food, snapshots its nutrients for the
// serving size and attaches it to the meal uneaten.
//
// Resolver calls happen before the write transaction opens; caching the
// fetched food and inserting the meal food then commit together.
func (m *MealManager) AddFoodToMeal(ctx context.Context, mealID string, req AddFoodRequest, owner string) (models.MealFood, error) {
	if err := req.Validate(); err != nil {
		return models.MealFood{}, err
	}

	strategy := req.strategy()
	var fetched *food.FoodRecord
	switch strategy {
	case byExternalID:
		externalID := strings.TrimSpace(req.ExternalFoodID)
		cached, err := m.cachedFood(ctx, externalID)
		if err != nil {
			return models.MealFood{}, err
		}
		if !cached {
			rec, err := m.fetch(ctx, externalID)
			if err != nil {
				return models.MealFood{}, err
			}
			fetched = &rec
		}
	case byQuery:
		rec, err := m.search(ctx, strings.TrimSpace(req.Query))
		if err != nil {
			return models.MealFood{}, err
		}
		fetched = &rec
	}

	var mf models.MealFood
	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		meal, err := tx.GetMeal(mealID, owner)
		if err != nil {
			return err
		}

		f, err := m.resolveInTx(tx, strategy, req, fetched, owner)
		if err != nil {
			return err
		}

		mf = m.newMealFood(f, req)
		changed := meal.AttachFood(mf, m.now())
		mf.MealID = meal.ID
		if err := tx.InsertMealFood(mf); err != nil {
			return err
		}
		if changed {
			return tx.UpdateMeal(meal)
		}
		return nil
	})
	if err != nil {
		return models.MealFood{}, err
	}

	logger.Debug("Added food to meal", "meal_id", mealID, "meal_food_id", mf.ID, "food", mf.Food.Name, "owner", owner)
	return mf, nil
}

// resolveInTx turns the request into a food, caching external records and
// saving custom foods when asked.
func (m *MealManager) resolveInTx(tx storage.Tx, strategy foodStrategy, req AddFoodRequest, fetched *food.FoodRecord, owner string) (models.Food, error) {
	switch strategy {
	case byFoodID:
		return tx.GetFood(strings.TrimSpace(req.FoodID), owner)

	case byCustomFood:
		f := req.CustomFood.toFood()
		if req.SaveToCollection {
			f.ID = uuid.New().String()
			f.OwnerID = owner
			if err := tx.InsertFood(f); err != nil {
				return models.Food{}, err
			}
		}
		return f, nil

	default:
		externalID := strings.TrimSpace(req.ExternalFoodID)
		if fetched != nil {
			externalID = fetched.ExternalID
		}
		if externalID == "" {
			// Provider results without an id cannot be cached
			return fetched.ToFood(), nil
		}
		cached, err := tx.GetFoodByExternalID(externalID)
		if err == nil {
			return cached, nil
		}
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return models.Food{}, err
		}
		if fetched == nil {
			// Evicted between the pre-check and this transaction
			return models.Food{}, apperrors.NotFound("food with external id %s", externalID)
		}
		f := fetched.ToFood()
		f.ID = uuid.New().String()
		if err := tx.InsertFood(f); err != nil {
			return models.Food{}, err
		}
		return f, nil
	}
}

func (m *MealManager) newMealFood(f models.Food, req AddFoodRequest) models.MealFood {
	size := req.ServingSize
	if size == 0 {
		size = f.ServingSize
	}
	unit := strings.TrimSpace(req.ServingUnit)
	if unit == "" {
		unit = f.ServingUnit
	}

	mf := models.MealFood{
		ID:          uuid.New().String(),
		Food:        &f,
		ServingSize: size,
		ServingUnit: unit,
		Nutrients:   m.calc.Scale(f, size),
	}
	if f.Persisted() {
		id := f.ID
		mf.FoodID = &id
	}
	return mf
}

func (m *MealManager) cachedFood(ctx context.Context, externalID string) (bool, error) {
	err := m.store.View(ctx, func(tx storage.Tx) error {
		_, err := tx.GetFoodByExternalID(externalID)
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case apperrors.Is(err, apperrors.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (m *MealManager) fetch(ctx context.Context, externalID string) (food.FoodRecord, error) {
	if m.resolver == nil {
		return food.FoodRecord{}, apperrors.ExternalLookup(nil, "no food resolver configured")
	}
	rec, err := m.resolver.GetByID(ctx, externalID)
	if err != nil {
		logger.Warn("Food lookup failed", "external_id", externalID, "error", err)
		return food.FoodRecord{}, lookupError(err, "fetch food %s", externalID)
	}
	if rec.ExternalID == "" {
		rec.ExternalID = externalID
	}
	return rec, nil
}

func (m *MealManager) search(ctx context.Context, query string) (food.FoodRecord, error) {
	if m.resolver == nil {
		return food.FoodRecord{}, apperrors.ExternalLookup(nil, "no food resolver configured")
	}
	results, err := m.resolver.Search(ctx, query)
	if err != nil {
		logger.Warn("Food search failed", "query", query, "error", err)
		return food.FoodRecord{}, lookupError(err, "search %q", query)
	}
	if len(results) == 0 {
		return food.FoodRecord{}, apperrors.ExternalLookup(apperrors.NotFound("no foods match %q", query), "search %q", query)
	}
	return results[0], nil
}

// lookupError keeps NotFound and ExternalLookup errors as they are and
// classifies anything else as an external lookup failure.
func lookupError(err error, format string, args ...interface{}) error {
	if apperrors.Is(err, apperrors.ErrNotFound) || apperrors.Is(err, apperrors.ErrExternalLookup) {
		return err
	}
	return apperrors.ExternalLookup(err, format, args...)
}

// RemoveFoodFromMeal deletes a meal food. The meal's eaten flag is not
// recomputed.
func (m *MealManager) RemoveFoodFromMeal(ctx context.Context, mealFoodID, owner string) error {
	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		return tx.DeleteMealFood(mealFoodID, owner)
	})
	if err != nil {
		return err
	}
	logger.Debug("Removed food from meal", "meal_food_id", mealFoodID, "owner", owner)
	return nil
}

// UpdateMealFood changes a meal food's portion. A new serving size
// recomputes the nutrient snapshot from the food, or rescales the old
// snapshot when the food record is gone.
func (m *MealManager) UpdateMealFood(ctx context.Context, id string, patch MealFoodPatch, owner string) (models.MealFood, error) {
	if err := patch.Validate(); err != nil {
		return models.MealFood{}, err
	}

	var mf models.MealFood
	err := m.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		if mf, err = tx.GetMealFood(id, owner); err != nil {
			return err
		}

		if patch.ServingSize != nil && *patch.ServingSize != mf.ServingSize {
			size := *patch.ServingSize
			switch {
			case mf.Food != nil:
				mf.Nutrients = m.calc.Scale(*mf.Food, size)
			case mf.ServingSize > 0:
				mf.Nutrients = mf.Nutrients.Scale(size / mf.ServingSize)
			}
			mf.ServingSize = size
		}
		if patch.ServingUnit != nil {
			mf.ServingUnit = strings.TrimSpace(*patch.ServingUnit)
		}
		return tx.UpdateMealFood(mf)
	})
	if err != nil {
		return models.MealFood{}, err
	}

	logger.Debug("Updated meal food", "meal_food_id", id, "owner", owner)
	return mf, nil
}
