package models

import (
	"time"

	apperrors "github.com/Ahmad-Mosha/cyborg-nutrition/internal/errors"
)

type Meal struct {
	ID             string     `json:"id"`
	PlanID         string     `json:"plan_id"`
	Name           string     `json:"name"`
	TargetTime     string     `json:"target_time"` // HH:MM format
	TargetCalories int        `json:"target_calories"`
	NutritionGoals MacroGoals `json:"nutrition_goals"`
	Eaten          bool       `json:"eaten"`
	EatenAt        *time.Time `json:"eaten_at,omitempty"`
	Foods          []MealFood `json:"foods,omitempty"`
}

// MealFood is a food attached to a meal with a nutrient snapshot taken at
// attach time. FoodID is nil for unsaved custom foods, whose record is
// embedded in Food instead.
type MealFood struct {
	ID          string      `json:"id"`
	MealID      string      `json:"meal_id"`
	FoodID      *string     `json:"food_id,omitempty"`
	Food        *Food       `json:"food,omitempty"`
	ServingSize float64     `json:"serving_size"`
	ServingUnit string      `json:"serving_unit"`
	Nutrients   NutrientSet `json:"nutrients"`
	Eaten       bool        `json:"eaten"`
	EatenAt     *time.Time  `json:"eaten_at,omitempty"`
}

// setEaten updates the flag and keeps EatenAt in step with it.
func (mf *MealFood) setEaten(eaten bool, now time.Time) {
	mf.Eaten = eaten
	if eaten {
		t := now
		mf.EatenAt = &t
	} else {
		mf.EatenAt = nil
	}
}

func (m *Meal) setEaten(eaten bool, now time.Time) {
	m.Eaten = eaten
	if eaten {
		t := now
		m.EatenAt = &t
	} else {
		m.EatenAt = nil
	}
}

// FoodsEaten is the logical AND of the foods' eaten flags. ok is false
// when the meal has no foods and the AND is undefined.
func (m *Meal) FoodsEaten() (eaten bool, ok bool) {
	if len(m.Foods) == 0 {
		return false, false
	}
	for _, f := range m.Foods {
		if !f.Eaten {
			return false, true
		}
	}
	return true, true
}

// Reconcile sets the meal's eaten flag to the AND of its foods when they
// disagree. It returns true if the meal changed.
func (m *Meal) Reconcile(now time.Time) bool {
	want, ok := m.FoodsEaten()
	if !ok || want == m.Eaten {
		return false
	}
	m.setEaten(want, now)
	return true
}

// ToggleFood flips one food's eaten flag and reconciles the meal.
// It returns the food's new eaten value.
func (m *Meal) ToggleFood(mealFoodID string, now time.Time) (bool, error) {
	for i := range m.Foods {
		if m.Foods[i].ID != mealFoodID {
			continue
		}
		m.Foods[i].setEaten(!m.Foods[i].Eaten, now)
		m.Reconcile(now)
		return m.Foods[i].Eaten, nil
	}
	return false, apperrors.NotFound("meal food %s in meal %s", mealFoodID, m.ID)
}

// ToggleEaten flips the meal and pushes the new value to every food.
// It returns the meal's new eaten value.
func (m *Meal) ToggleEaten(now time.Time) bool {
	m.setEaten(!m.Eaten, now)
	for i := range m.Foods {
		m.Foods[i].Eaten = m.Eaten
		if m.Eaten {
			t := *m.EatenAt
			m.Foods[i].EatenAt = &t
		} else {
			m.Foods[i].EatenAt = nil
		}
	}
	return m.Eaten
}

// AttachFood appends a meal food and reconciles the meal, so an eaten meal
// that gains an uneaten food is no longer eaten.
func (m *Meal) AttachFood(mf MealFood, now time.Time) bool {
	mf.MealID = m.ID
	m.Foods = append(m.Foods, mf)
	return m.Reconcile(now)
}

// CheckConsistency returns ErrConsistencyViolation if the meal's eaten flag
// disagrees with its foods.
func (m *Meal) CheckConsistency() error {
	want, ok := m.FoodsEaten()
	if ok && want != m.Eaten {
		return apperrors.ConsistencyViolation("meal %s eaten=%t but foods eaten=%t", m.ID, m.Eaten, want)
	}
	return nil
}

// FindFood returns the meal food with the given ID.
func (m *Meal) FindFood(mealFoodID string) (*MealFood, bool) {
	for i := range m.Foods {
		if m.Foods[i].ID == mealFoodID {
			return &m.Foods[i], true
		}
	}
	return nil, false
}
