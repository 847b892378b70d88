package planner

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	apperrors "github.com/Ahmad-Mosha/cyborg-nutrition/internal/errors"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
)

func TestAddMealToPlan(t *testing.T) {
	p, _ := setupTestPlanner(t)
	ctx := context.Background()
	plan := mustCreatePlan(t, p, "Meals")

	meal, err := p.Meals.AddMealToPlan(ctx, plan.ID, MealSpec{Name: "Snack", TargetCalories: 200}, testOwner)
	if err != nil {
		t.Fatalf("AddMealToPlan failed: %v", err)
	}
	if meal.TargetTime != "12:00" {
		t.Errorf("TargetTime = %s, want 12:00", meal.TargetTime)
	}
	if meal.NutritionGoals != (models.MacroGoals{Protein: 13, Carbs: 25, Fat: 6}) {
		t.Errorf("NutritionGoals = %+v, want 13/25/6", meal.NutritionGoals)
	}

	meal, err = p.Meals.AddMealToPlan(ctx, plan.ID, MealSpec{
		Name:           "Early",
		TargetTime:     "7:05",
		NutritionGoals: &models.MacroGoals{Protein: 40},
	}, testOwner)
	if err != nil {
		t.Fatalf("AddMealToPlan failed: %v", err)
	}
	if meal.TargetTime != "07:05" || meal.NutritionGoals.Protein != 40 {
		t.Errorf("meal = %+v", meal)
	}

	got, err := p.Meals.GetMealByID(ctx, meal.ID, testOwner)
	if err != nil {
		t.Fatalf("GetMealByID failed: %v", err)
	}
	if got.PlanID != plan.ID || got.Name != "Early" {
		t.Errorf("stored meal = %+v", got)
	}

	if _, err := p.Meals.AddMealToPlan(ctx, plan.ID, MealSpec{Name: "x"}, otherOwner); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("foreign plan: err = %v, want ErrNotFound", err)
	}
	if _, err := p.Meals.AddMealToPlan(ctx, plan.ID, MealSpec{Name: "x", TargetTime: "25:99"}, testOwner); !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("bad time: err = %v, want ErrInvalidInput", err)
	}
	if _, err := p.Meals.AddMealToPlan(ctx, plan.ID, MealSpec{}, testOwner); !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("no name: err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateAndDeleteMeal(t *testing.T) {
	p, _ := setupTestPlanner(t)
	ctx := context.Background()
	plan := mustCreatePlan(t, p, "Edit")
	meal := mustAddMeal(t, p, plan.ID, "Lunch", "13:00", 600)
	mf := mustAddCustomFood(t, p, meal.ID, "Salad", 150, false)

	if _, err := p.Meals.UpdateMeal(ctx, meal.ID, MealPatch{}, testOwner); !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("empty patch: err = %v, want ErrInvalidInput", err)
	}

	updated, err := p.Meals.UpdateMeal(ctx, meal.ID, MealPatch{Name: strPtr("Late lunch"), TargetTime: strPtr("14:30"), TargetCalories: intPtr(700)}, testOwner)
	if err != nil {
		t.Fatalf("UpdateMeal failed: %v", err)
	}
	if updated.Name != "Late lunch" || updated.TargetTime != "14:30" || updated.TargetCalories != 700 {
		t.Errorf("updated = %+v", updated)
	}
	if len(updated.Foods) != 1 {
		t.Errorf("update dropped foods: %d", len(updated.Foods))
	}

	if err := p.Meals.DeleteMeal(ctx, meal.ID, otherOwner); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("foreign delete: err = %v, want ErrNotFound", err)
	}
	if err := p.Meals.DeleteMeal(ctx, meal.ID, testOwner); err != nil {
		t.Fatalf("DeleteMeal failed: %v", err)
	}
	if _, err := p.Meals.GetMealByID(ctx, meal.ID, testOwner); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("meal still readable: %v", err)
	}
	if err := p.Meals.RemoveFoodFromMeal(ctx, mf.ID, testOwner); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("meal food outlived its meal: %v", err)
	}
}

// Three foods: eating two leaves the meal open, eating the third closes it.
func TestToggleFoodEatenCascade(t *testing.T) {
	p, _ := setupTestPlanner(t)
	ctx := context.Background()
	plan := mustCreatePlan(t, p, "Scenario B")
	meal := mustAddMeal(t, p, plan.ID, "Dinner", "19:00", 700)
	foods := []models.MealFood{
		mustAddCustomFood(t, p, meal.ID, "Steak", 300, true),
		mustAddCustomFood(t, p, meal.ID, "Potato", 200, true),
		mustAddCustomFood(t, p, meal.ID, "Beans", 100, true),
	}

	for _, mf := range foods[:2] {
		eaten, err := p.Meals.ToggleFoodEaten(ctx, meal.ID, mf.ID, testOwner)
		if err != nil {
			t.Fatalf("ToggleFoodEaten failed: %v", err)
		}
		if !eaten {
			t.Errorf("food %s: eaten = false after first toggle", mf.Food.Name)
		}
	}
	got, err := p.Meals.GetMealByID(ctx, meal.ID, testOwner)
	if err != nil {
		t.Fatalf("GetMealByID failed: %v", err)
	}
	if got.Eaten || got.EatenAt != nil {
		t.Error("meal eaten with one food left")
	}

	if _, err := p.Meals.ToggleFoodEaten(ctx, meal.ID, foods[2].ID, testOwner); err != nil {
		t.Fatalf("ToggleFoodEaten failed: %v", err)
	}
	got, err = p.Meals.GetMealByID(ctx, meal.ID, testOwner)
	if err != nil {
		t.Fatalf("GetMealByID failed: %v", err)
	}
	if !got.Eaten || got.EatenAt == nil {
		t.Fatal("meal not eaten after every food was")
	}
	if !got.EatenAt.Equal(testNow) {
		t.Errorf("EatenAt = %v, want %v", got.EatenAt, testNow)
	}

	// Un-eating one food reopens the meal
	eaten, err := p.Meals.ToggleFoodEaten(ctx, meal.ID, foods[0].ID, testOwner)
	if err != nil {
		t.Fatalf("ToggleFoodEaten failed: %v", err)
	}
	got, _ = p.Meals.GetMealByID(ctx, meal.ID, testOwner)
	if eaten || got.Eaten || got.EatenAt != nil {
		t.Errorf("after un-eating: food=%t meal=%t", eaten, got.Eaten)
	}
}

func TestToggleFoodEatenErrors(t *testing.T) {
	p, _ := setupTestPlanner(t)
	ctx := context.Background()
	plan := mustCreatePlan(t, p, "Errors")
	meal := mustAddMeal(t, p, plan.ID, "Lunch", "13:00", 600)
	other := mustAddMeal(t, p, plan.ID, "Dinner", "19:00", 600)
	mf := mustAddCustomFood(t, p, other.ID, "Rice", 200, false)

	if _, err := p.Meals.ToggleFoodEaten(ctx, meal.ID, mf.ID, testOwner); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("food of another meal: err = %v, want ErrNotFound", err)
	}
	if _, err := p.Meals.ToggleFoodEaten(ctx, other.ID, mf.ID, otherOwner); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("foreign owner: err = %v, want ErrNotFound", err)
	}
	if _, err := p.Meals.ToggleMealEaten(ctx, "missing", testOwner); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("missing meal: err = %v, want ErrNotFound", err)
	}
}

func TestToggleMealEatenPropagates(t *testing.T) {
	p, _ := setupTestPlanner(t)
	ctx := context.Background()
	plan := mustCreatePlan(t, p, "Propagate")
	meal := mustAddMeal(t, p, plan.ID, "Breakfast", "08:00", 500)
	first := mustAddCustomFood(t, p, meal.ID, "Eggs", 150, false)
	mustAddCustomFood(t, p, meal.ID, "Toast", 120, false)

	// One food already eaten must not stop the meal from flipping to eaten
	if _, err := p.Meals.ToggleFoodEaten(ctx, meal.ID, first.ID, testOwner); err != nil {
		t.Fatalf("ToggleFoodEaten failed: %v", err)
	}

	eaten, err := p.Meals.ToggleMealEaten(ctx, meal.ID, testOwner)
	if err != nil {
		t.Fatalf("ToggleMealEaten failed: %v", err)
	}
	if !eaten {
		t.Fatal("ToggleMealEaten returned false on an uneaten meal")
	}
	got, _ := p.Meals.GetMealByID(ctx, meal.ID, testOwner)
	for _, mf := range got.Foods {
		if !mf.Eaten || mf.EatenAt == nil || !mf.EatenAt.Equal(*got.EatenAt) {
			t.Errorf("food %s = eaten %t at %v, want meal's %v", mf.ID, mf.Eaten, mf.EatenAt, got.EatenAt)
		}
	}

	if eaten, err = p.Meals.ToggleMealEaten(ctx, meal.ID, testOwner); err != nil || eaten {
		t.Fatalf("second ToggleMealEaten = %t, %v", eaten, err)
	}
	got, _ = p.Meals.GetMealByID(ctx, meal.ID, testOwner)
	for _, mf := range got.Foods {
		if mf.Eaten || mf.EatenAt != nil {
			t.Errorf("food %s still eaten", mf.ID)
		}
	}
}

func TestToggleRollsBackWhenMealWriteFails(t *testing.T) {
	store := setupTestStore(t)
	p := New(store, WithClock(func() time.Time { return testNow }))
	ctx := context.Background()
	plan := mustCreatePlan(t, p, "Rollback")
	meal := mustAddMeal(t, p, plan.ID, "Lunch", "13:00", 600)
	mf := mustAddCustomFood(t, p, meal.ID, "Wrap", 450, false)

	failing := New(&failingStore{Provider: store, failUpdateMeal: true}, WithClock(func() time.Time { return testNow }))

	if _, err := failing.Meals.ToggleFoodEaten(ctx, meal.ID, mf.ID, testOwner); !errors.Is(err, errInjected) {
		t.Fatalf("ToggleFoodEaten err = %v, want injected failure", err)
	}
	if _, err := failing.Meals.ToggleMealEaten(ctx, meal.ID, testOwner); !errors.Is(err, errInjected) {
		t.Fatalf("ToggleMealEaten err = %v, want injected failure", err)
	}

	got, err := p.Meals.GetMealByID(ctx, meal.ID, testOwner)
	if err != nil {
		t.Fatalf("GetMealByID failed: %v", err)
	}
	if got.Eaten || got.Foods[0].Eaten || got.Foods[0].EatenAt != nil {
		t.Errorf("partial cascade persisted: meal=%t food=%t", got.Eaten, got.Foods[0].Eaten)
	}
}

// Any sequence of toggles keeps meal.eaten equal to the AND of its foods.
func TestEatenCascadeInvariant(t *testing.T) {
	p, _ := setupTestPlanner(t)
	ctx := context.Background()
	plan := mustCreatePlan(t, p, "Invariant")
	meal := mustAddMeal(t, p, plan.ID, "Lunch", "13:00", 600)
	var ids []string
	for _, name := range []string{"A", "B", "C", "D"} {
		ids = append(ids, mustAddCustomFood(t, p, meal.ID, name, 100, false).ID)
	}

	rng := rand.New(rand.NewSource(7))
	for step := 0; step < 40; step++ {
		var err error
		if rng.Intn(5) == 0 {
			_, err = p.Meals.ToggleMealEaten(ctx, meal.ID, testOwner)
		} else {
			_, err = p.Meals.ToggleFoodEaten(ctx, meal.ID, ids[rng.Intn(len(ids))], testOwner)
		}
		if err != nil {
			t.Fatalf("step %d: toggle failed: %v", step, err)
		}

		got, err := p.Meals.GetMealByID(ctx, meal.ID, testOwner)
		if err != nil {
			t.Fatalf("step %d: GetMealByID failed: %v", step, err)
		}
		if err := got.CheckConsistency(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
}

func TestRemoveFoodDoesNotToggleMeal(t *testing.T) {
	p, _ := setupTestPlanner(t)
	ctx := context.Background()
	plan := mustCreatePlan(t, p, "Remove")
	meal := mustAddMeal(t, p, plan.ID, "Lunch", "13:00", 600)
	eaten := mustAddCustomFood(t, p, meal.ID, "Eaten", 100, false)
	pending := mustAddCustomFood(t, p, meal.ID, "Pending", 100, false)
	if _, err := p.Meals.ToggleFoodEaten(ctx, meal.ID, eaten.ID, testOwner); err != nil {
		t.Fatalf("ToggleFoodEaten failed: %v", err)
	}

	if err := p.Meals.RemoveFoodFromMeal(ctx, pending.ID, otherOwner); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("foreign remove: err = %v, want ErrNotFound", err)
	}
	if err := p.Meals.RemoveFoodFromMeal(ctx, pending.ID, testOwner); err != nil {
		t.Fatalf("RemoveFoodFromMeal failed: %v", err)
	}

	got, _ := p.Meals.GetMealByID(ctx, meal.ID, testOwner)
	if len(got.Foods) != 1 {
		t.Fatalf("meal has %d foods, want 1", len(got.Foods))
	}
	if got.Eaten {
		t.Error("removing a food flipped the meal to eaten")
	}
}

func TestGetMealsByDate(t *testing.T) {
	p, _ := setupTestPlanner(t)
	ctx := context.Background()

	open := mustCreatePlan(t, p, "Open")
	mustAddMeal(t, p, open.ID, "Dinner", "19:00", 700)
	mustAddMeal(t, p, open.ID, "Breakfast", "08:00", 500)

	bounded, err := p.Plans.CreateMealPlan(ctx, CreatePlanRequest{
		Name:               "March week",
		StartDate:          "2025-03-12",
		EndDate:            strPtr("2025-03-14"),
		SkipMealGeneration: true,
	}, testOwner)
	if err != nil {
		t.Fatalf("CreateMealPlan failed: %v", err)
	}
	mustAddMeal(t, p, bounded.ID, "Lunch", "13:00", 800)

	tests := []struct {
		date string
		want []string
	}{
		{"2025-03-09", nil},
		{"2025-03-10", []string{"Breakfast", "Dinner"}},
		{"2025-03-12", []string{"Breakfast", "Lunch", "Dinner"}},
		{"2025-03-14", []string{"Breakfast", "Lunch", "Dinner"}},
		{"2025-03-15", []string{"Breakfast", "Dinner"}},
		{"2026-01-01", []string{"Breakfast", "Dinner"}},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			meals, err := p.Meals.GetMealsByDate(ctx, tt.date, testOwner)
			if err != nil {
				t.Fatalf("GetMealsByDate failed: %v", err)
			}
			if len(meals) != len(tt.want) {
				t.Fatalf("got %d meals, want %d", len(meals), len(tt.want))
			}
			for i, name := range tt.want {
				if meals[i].Name != name {
					t.Errorf("meal %d = %s, want %s", i, meals[i].Name, name)
				}
			}
		})
	}

	meals, err := p.Meals.GetMealsByDate(ctx, "2025-03-12", otherOwner)
	if err != nil || len(meals) != 0 {
		t.Errorf("other owner sees %d meals, err %v", len(meals), err)
	}
	if _, err := p.Meals.GetMealsByDate(ctx, "tomorrow", testOwner); !apperrors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("bad date: err = %v, want ErrInvalidInput", err)
	}
}
