package sqldb

import (
	"database/sql"
	"fmt"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
)

const mealFoodSelect = `
	SELECT mf.id, mf.meal_id, mf.food_ref, mf.custom_food, mf.serving_size, mf.serving_unit, mf.nutrients, mf.eaten, mf.eaten_at,
	       f.id, f.external_id, f.name, f.brand, f.serving_size, f.serving_unit, f.nutrients, f.source, f.owner_id, f.created_at
	FROM meal_foods mf
	LEFT JOIN foods f ON f.id = mf.food_ref`

// InsertMealFood stores a meal food. Foods without a catalog reference have
// their record embedded in custom_food.
func (t *Tx) InsertMealFood(mf models.MealFood) error {
	nutrients, err := encodeJSON(mf.Nutrients)
	if err != nil {
		return fmt.Errorf("failed to encode nutrients: %w", err)
	}
	var custom sql.NullString
	if mf.FoodID == nil && mf.Food != nil {
		raw, err := encodeJSON(mf.Food)
		if err != nil {
			return fmt.Errorf("failed to encode custom food: %w", err)
		}
		custom = sql.NullString{String: raw, Valid: true}
	}
	_, err = t.exec(`
		INSERT INTO meal_foods (id, meal_id, food_ref, custom_food, serving_size, serving_unit, nutrients, eaten, eaten_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mf.ID, mf.MealID, nullString(mf.FoodID), custom, mf.ServingSize, mf.ServingUnit, nutrients,
		mf.Eaten, nullTime(mf.EatenAt), now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal food: %w", err)
	}
	return nil
}

func (t *Tx) UpdateMealFood(mf models.MealFood) error {
	nutrients, err := encodeJSON(mf.Nutrients)
	if err != nil {
		return fmt.Errorf("failed to encode nutrients: %w", err)
	}
	res, err := t.exec(`
		UPDATE meal_foods
		SET serving_size = ?, serving_unit = ?, nutrients = ?, eaten = ?, eaten_at = ?
		WHERE id = ?`,
		mf.ServingSize, mf.ServingUnit, nutrients, mf.Eaten, nullTime(mf.EatenAt), mf.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meal food: %w", err)
	}
	return mustAffect(res, "meal food", mf.ID)
}

func (t *Tx) GetMealFood(id, owner string) (models.MealFood, error) {
	row := t.queryRow(mealFoodSelect+`
		JOIN meals m ON m.id = mf.meal_id
		JOIN meal_plans p ON p.id = m.plan_id
		WHERE mf.id = ? AND p.owner_id = ?`, id, owner)
	mf, err := scanMealFood(row)
	if err != nil {
		return models.MealFood{}, notFoundOr(err, "meal food", id)
	}
	return mf, nil
}

func (t *Tx) DeleteMealFood(id, owner string) error {
	res, err := t.exec(`
		DELETE FROM meal_foods
		WHERE id = ? AND meal_id IN (
			SELECT m.id FROM meals m JOIN meal_plans p ON p.id = m.plan_id WHERE p.owner_id = ?
		)`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete meal food: %w", err)
	}
	return mustAffect(res, "meal food", id)
}

func (t *Tx) foodsForMeal(mealID string) ([]models.MealFood, error) {
	rows, err := t.query(mealFoodSelect+`
		WHERE mf.meal_id = ?
		ORDER BY mf.created_at, mf.id`, mealID)
	if err != nil {
		return nil, fmt.Errorf("failed to query foods of meal %s: %w", mealID, err)
	}
	defer rows.Close()

	var foods []models.MealFood
	for rows.Next() {
		mf, err := scanMealFood(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal food: %w", err)
		}
		foods = append(foods, mf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal foods: %w", err)
	}
	return foods, nil
}

func scanMealFood(row rowScanner) (models.MealFood, error) {
	var (
		mf        models.MealFood
		foodRef   sql.NullString
		custom    sql.NullString
		nutrients string
		eatenAt   sql.NullString
		food      nullFood
	)
	err := row.Scan(&mf.ID, &mf.MealID, &foodRef, &custom, &mf.ServingSize, &mf.ServingUnit, &nutrients, &mf.Eaten, &eatenAt,
		&food.id, &food.externalID, &food.name, &food.brand, &food.servingSize, &food.servingUnit, &food.nutrients,
		&food.source, &food.ownerID, &food.createdAt)
	if err != nil {
		return models.MealFood{}, err
	}
	if err := decodeJSON(nutrients, &mf.Nutrients); err != nil {
		return models.MealFood{}, fmt.Errorf("failed to decode nutrients of meal food %s: %w", mf.ID, err)
	}
	if mf.EatenAt, err = parseNullTime(eatenAt); err != nil {
		return models.MealFood{}, err
	}

	switch {
	case food.id.Valid:
		f, err := food.toFood()
		if err != nil {
			return models.MealFood{}, err
		}
		mf.FoodID = &f.ID
		mf.Food = &f
	case custom.Valid:
		var f models.Food
		if err := decodeJSON(custom.String, &f); err != nil {
			return models.MealFood{}, fmt.Errorf("failed to decode custom food of meal food %s: %w", mf.ID, err)
		}
		mf.Food = &f
	}
	return mf, nil
}
