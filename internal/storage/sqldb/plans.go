package sqldb

import (
	"database/sql"
	"fmt"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
)

const planColumns = `id, owner_id, name, description, start_date, end_date, target_calories, calorie_distribution, created_at, updated_at`

func (t *Tx) InsertPlan(p models.MealPlan) error {
	dist, err := encodeJSON(p.CalorieDistribution)
	if err != nil {
		return fmt.Errorf("failed to encode calorie distribution: %w", err)
	}
	_, err = t.exec(`INSERT INTO meal_plans (`+planColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Name, p.Description, p.StartDate, nullString(p.EndDate),
		p.TargetCalories, dist, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}
	return nil
}

func (t *Tx) UpdatePlan(p models.MealPlan) error {
	dist, err := encodeJSON(p.CalorieDistribution)
	if err != nil {
		return fmt.Errorf("failed to encode calorie distribution: %w", err)
	}
	res, err := t.exec(`
		UPDATE meal_plans
		SET name = ?, description = ?, start_date = ?, end_date = ?, target_calories = ?, calorie_distribution = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		p.Name, p.Description, p.StartDate, nullString(p.EndDate), p.TargetCalories, dist, p.UpdatedAt,
		p.ID, p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meal plan: %w", err)
	}
	return mustAffect(res, "meal plan", p.ID)
}

func (t *Tx) GetPlan(id, owner string) (models.MealPlan, error) {
	row := t.queryRow(`SELECT `+planColumns+` FROM meal_plans WHERE id = ? AND owner_id = ?`, id, owner)
	p, err := scanPlan(row)
	if err != nil {
		return models.MealPlan{}, notFoundOr(err, "meal plan", id)
	}
	return p, nil
}

// ListPlans returns one page of the owner's plans, newest start date first,
// together with the owner's total plan count.
func (t *Tx) ListPlans(owner string, limit, offset int) ([]models.MealPlan, int, error) {
	var total int
	if err := t.queryRow(`SELECT COUNT(*) FROM meal_plans WHERE owner_id = ?`, owner).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meal plans: %w", err)
	}

	rows, err := t.query(`
		SELECT `+planColumns+` FROM meal_plans
		WHERE owner_id = ?
		ORDER BY start_date DESC, created_at DESC, id
		LIMIT ? OFFSET ?`, owner, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meal plans: %w", err)
	}
	plans, err := collectPlans(rows)
	if err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// PlansForDate returns the owner's plans whose window contains date.
func (t *Tx) PlansForDate(owner, date string) ([]models.MealPlan, error) {
	rows, err := t.query(`
		SELECT `+planColumns+` FROM meal_plans
		WHERE owner_id = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)
		ORDER BY start_date, created_at`, owner, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plans for %s: %w", date, err)
	}
	return collectPlans(rows)
}

// DeletePlan removes the plan, its meals and their foods.
func (t *Tx) DeletePlan(id, owner string) error {
	if _, err := t.GetPlan(id, owner); err != nil {
		return err
	}
	if _, err := t.exec(`DELETE FROM meal_foods WHERE meal_id IN (SELECT id FROM meals WHERE plan_id = ?)`, id); err != nil {
		return fmt.Errorf("failed to delete meal foods: %w", err)
	}
	if _, err := t.exec(`DELETE FROM meals WHERE plan_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete meals: %w", err)
	}
	res, err := t.exec(`DELETE FROM meal_plans WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	return mustAffect(res, "meal plan", id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (models.MealPlan, error) {
	var (
		p       models.MealPlan
		endDate sql.NullString
		dist    string
	)
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.StartDate, &endDate,
		&p.TargetCalories, &dist, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.MealPlan{}, err
	}
	p.EndDate = stringPtr(endDate)
	if err := decodeJSON(dist, &p.CalorieDistribution); err != nil {
		return models.MealPlan{}, fmt.Errorf("failed to decode calorie distribution of plan %s: %w", p.ID, err)
	}
	return p, nil
}

func collectPlans(rows *sql.Rows) ([]models.MealPlan, error) {
	defer rows.Close()
	var plans []models.MealPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal plans: %w", err)
	}
	return plans, nil
}
