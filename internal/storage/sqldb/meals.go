package sqldb

import (
	"database/sql"
	"fmt"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
)

const mealColumns = `m.id, m.plan_id, m.name, m.target_time, m.target_calories, m.nutrition_goals, m.eaten, m.eaten_at`

func (t *Tx) InsertMeal(m models.Meal) error {
	goals, err := encodeJSON(m.NutritionGoals)
	if err != nil {
		return fmt.Errorf("failed to encode nutrition goals: %w", err)
	}
	_, err = t.exec(`
		INSERT INTO meals (id, plan_id, name, target_time, target_calories, nutrition_goals, eaten, eaten_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.PlanID, m.Name, m.TargetTime, m.TargetCalories, goals, m.Eaten, nullTime(m.EatenAt), now(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}
	return nil
}

// UpdateMeal writes the meal row only; foods are saved with UpdateMealFood.
func (t *Tx) UpdateMeal(m models.Meal) error {
	goals, err := encodeJSON(m.NutritionGoals)
	if err != nil {
		return fmt.Errorf("failed to encode nutrition goals: %w", err)
	}
	res, err := t.exec(`
		UPDATE meals
		SET name = ?, target_time = ?, target_calories = ?, nutrition_goals = ?, eaten = ?, eaten_at = ?
		WHERE id = ?`,
		m.Name, m.TargetTime, m.TargetCalories, goals, m.Eaten, nullTime(m.EatenAt), m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	return mustAffect(res, "meal", m.ID)
}

func (t *Tx) GetMeal(id, owner string) (models.Meal, error) {
	row := t.queryRow(`
		SELECT `+mealColumns+`
		FROM meals m JOIN meal_plans p ON p.id = m.plan_id
		WHERE m.id = ? AND p.owner_id = ?`, id, owner)
	m, err := scanMeal(row)
	if err != nil {
		return models.Meal{}, notFoundOr(err, "meal", id)
	}
	if m.Foods, err = t.foodsForMeal(m.ID); err != nil {
		return models.Meal{}, err
	}
	return m, nil
}

func (t *Tx) MealsForPlan(planID string) ([]models.Meal, error) {
	rows, err := t.query(`
		SELECT `+mealColumns+`
		FROM meals m
		WHERE m.plan_id = ?
		ORDER BY m.target_time, m.created_at, m.id`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals of plan %s: %w", planID, err)
	}
	return t.collectMeals(rows)
}

// MealsForDate returns meals of every owned plan whose window contains date,
// ordered by target time.
func (t *Tx) MealsForDate(owner, date string) ([]models.Meal, error) {
	rows, err := t.query(`
		SELECT `+mealColumns+`
		FROM meals m JOIN meal_plans p ON p.id = m.plan_id
		WHERE p.owner_id = ? AND p.start_date <= ? AND (p.end_date IS NULL OR p.end_date >= ?)
		ORDER BY m.target_time, m.created_at, m.id`, owner, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals for %s: %w", date, err)
	}
	return t.collectMeals(rows)
}

// DeleteMeal removes the meal's foods, then the meal.
func (t *Tx) DeleteMeal(id, owner string) error {
	var planID string
	err := t.queryRow(`
		SELECT m.plan_id FROM meals m JOIN meal_plans p ON p.id = m.plan_id
		WHERE m.id = ? AND p.owner_id = ?`, id, owner).Scan(&planID)
	if err != nil {
		return notFoundOr(err, "meal", id)
	}
	if _, err := t.exec(`DELETE FROM meal_foods WHERE meal_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete meal foods: %w", err)
	}
	res, err := t.exec(`DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return mustAffect(res, "meal", id)
}

func scanMeal(row rowScanner) (models.Meal, error) {
	var (
		m       models.Meal
		goals   string
		eatenAt sql.NullString
	)
	if err := row.Scan(&m.ID, &m.PlanID, &m.Name, &m.TargetTime, &m.TargetCalories, &goals, &m.Eaten, &eatenAt); err != nil {
		return models.Meal{}, err
	}
	if err := decodeJSON(goals, &m.NutritionGoals); err != nil {
		return models.Meal{}, fmt.Errorf("failed to decode nutrition goals of meal %s: %w", m.ID, err)
	}
	var err error
	if m.EatenAt, err = parseNullTime(eatenAt); err != nil {
		return models.Meal{}, err
	}
	return m, nil
}

// collectMeals drains rows before loading foods, since a transaction can
// only have one active result set. Rows without an id are skipped.
func (t *Tx) collectMeals(rows *sql.Rows) ([]models.Meal, error) {
	meals, err := scanMeals(rows)
	if err != nil {
		return nil, err
	}
	for i := range meals {
		foods, err := t.foodsForMeal(meals[i].ID)
		if err != nil {
			return nil, err
		}
		meals[i].Foods = foods
	}
	return meals, nil
}

func scanMeals(rows *sql.Rows) ([]models.Meal, error) {
	defer rows.Close()
	var meals []models.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		if m.ID == "" {
			continue
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}
	return meals, nil
}
