package planner

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	apperrors "github.com/Ahmad-Mosha/cyborg-nutrition/internal/errors"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
)

// setupReportPlan creates an open-ended plan from 2025-03-10 with Breakfast
// and Dinner at 1000 kcal each, and eats a 400 kcal breakfast.
func setupReportPlan(t *testing.T, p *Planner) models.MealPlan {
	t.Helper()
	ctx := context.Background()
	plan, err := p.Plans.CreateMealPlan(ctx, CreatePlanRequest{
		Name:      "Report",
		StartDate: "2025-03-10",
		CalorieDistribution: []models.DistributionEntry{
			{MealName: "Breakfast", Percentage: models.Percent(50)},
			{MealName: "Dinner", Percentage: models.Percent(50)},
		},
	}, testOwner)
	if err != nil {
		t.Fatalf("CreateMealPlan failed: %v", err)
	}
	plan, err = p.Plans.GetMealPlanByID(ctx, plan.ID, testOwner)
	if err != nil {
		t.Fatalf("GetMealPlanByID failed: %v", err)
	}
	return plan
}

func eatBreakfast(t *testing.T, p *Planner, plan models.MealPlan) {
	t.Helper()
	breakfast := plan.Meals[0]
	mustAddCustomFood(t, p, breakfast.ID, "Porridge", 400, false)
	if _, err := p.Meals.ToggleMealEaten(context.Background(), breakfast.ID, testOwner); err != nil {
		t.Fatalf("ToggleMealEaten failed: %v", err)
	}
}

// Nothing eaten out of two planned meals.
func TestDailyNutritionNothingEaten(t *testing.T) {
	p, _ := setupTestPlanner(t)
	plan := setupReportPlan(t, p)
	mustAddCustomFood(t, p, plan.Meals[1].ID, "Pasta", 600, false)

	day, err := p.Reports.GetDailyNutrition(context.Background(), "2025-03-10", testOwner)
	if err != nil {
		t.Fatalf("GetDailyNutrition failed: %v", err)
	}
	if day.Calories.Eaten != 0 || day.Progress.Percentage != 0 || day.Progress.TotalMeals != 2 || day.Progress.MealsEaten != 0 {
		t.Errorf("day = %+v %+v", day.Calories, day.Progress)
	}
	if day.Calories.Target != 2000 || day.Calories.Remaining != 2000 {
		t.Errorf("calories = %+v, want target and remaining 2000", day.Calories)
	}
	if day.Macros.Protein.Percentage != 0 {
		t.Errorf("macro share with nothing eaten = %.2f, want 0", day.Macros.Protein.Percentage)
	}
}

func TestDailyNutrition(t *testing.T) {
	p, _ := setupTestPlanner(t)
	plan := setupReportPlan(t, p)
	eatBreakfast(t, p, plan)

	day, err := p.Reports.GetDailyNutrition(context.Background(), "", testOwner)
	if err != nil {
		t.Fatalf("GetDailyNutrition failed: %v", err)
	}
	if day.Date != "2025-03-10" {
		t.Errorf("Date = %s, want today", day.Date)
	}
	if !approx(day.Calories.Eaten, 400) || day.Progress.MealsEaten != 1 || day.Progress.Percentage != 50 {
		t.Errorf("day = %+v %+v", day.Calories, day.Progress)
	}
	// 10 g protein, 20 g carbs, 5 g fat per 100 g: 40 + 80 + 45 kcal
	if !approx(day.Macros.Protein.Percentage, 24.24) || !approx(day.Macros.Fat.Calories, 45) {
		t.Errorf("macros = %+v", day.Macros)
	}

	if len(day.Distribution) != 2 {
		t.Fatalf("distribution has %d entries, want 2", len(day.Distribution))
	}
	b := day.Distribution[0]
	if b.MealName != "Breakfast" || b.Target != 1000 || !approx(b.Actual, 400) || !approx(b.Deficit, 600) {
		t.Errorf("breakfast distribution = %+v", b)
	}
	if d := day.Distribution[1]; d.Actual != 0 || d.Deficit != 1000 {
		t.Errorf("dinner distribution = %+v", d)
	}
}

func TestDailyNutritionMergesPlans(t *testing.T) {
	p, _ := setupTestPlanner(t)
	setupReportPlan(t, p)
	if _, err := p.Plans.CreateMealPlan(context.Background(), CreatePlanRequest{
		Name:           "Extra",
		StartDate:      "2025-03-01",
		TargetCalories: 400,
		CalorieDistribution: []models.DistributionEntry{
			{MealName: "Breakfast", Percentage: models.Percent(50)},
			{MealName: "Snack", Percentage: models.Percent(50)},
		},
	}, testOwner); err != nil {
		t.Fatalf("CreateMealPlan failed: %v", err)
	}

	day, err := p.Reports.GetDailyNutrition(context.Background(), "2025-03-10", testOwner)
	if err != nil {
		t.Fatalf("GetDailyNutrition failed: %v", err)
	}
	targets := make(map[string]float64)
	for _, d := range day.Distribution {
		targets[d.MealName] = d.Target
	}
	if len(targets) != 3 || targets["Breakfast"] != 1200 || targets["Dinner"] != 1000 || targets["Snack"] != 200 {
		t.Errorf("merged targets = %v", targets)
	}
	if day.Progress.TotalMeals != 4 {
		t.Errorf("TotalMeals = %d, want 4", day.Progress.TotalMeals)
	}
}

func TestWeeklyNutrition(t *testing.T) {
	p, _ := setupTestPlanner(t)
	plan := setupReportPlan(t, p)
	eatBreakfast(t, p, plan)
	ctx := context.Background()

	week, err := p.Reports.GetWeeklyNutrition(ctx, "2025-03-10", "2025-03-16", testOwner)
	if err != nil {
		t.Fatalf("GetWeeklyNutrition failed: %v", err)
	}
	if len(week.Days) != 7 || week.Days[0].Date != "2025-03-10" || week.Days[6].Date != "2025-03-16" {
		t.Fatalf("days = %d, want 7 in order", len(week.Days))
	}
	if !approx(week.Calories.Eaten, 2800) || !approx(week.Calories.AverageDaily, 400) || week.Calories.Target != 14000 {
		t.Errorf("calories = %+v", week.Calories)
	}
	if week.Progress.TotalMeals != 14 || week.Progress.MealsEaten != 7 || week.Progress.Percentage != 50 {
		t.Errorf("progress = %+v", week.Progress)
	}

	week, err = p.Reports.GetWeeklyNutrition(ctx, "2025-03-08", "2025-03-10", testOwner)
	if err != nil {
		t.Fatalf("GetWeeklyNutrition failed: %v", err)
	}
	if week.Progress.TotalMeals != 2 || !approx(week.Calories.AverageDaily, 133.33) {
		t.Errorf("partial week = %+v %+v", week.Calories, week.Progress)
	}
}

func TestWeeklyNutritionRange(t *testing.T) {
	p, _ := setupTestPlanner(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"single day", "2025-03-10", "2025-03-10", false},
		{"31 days", "2025-03-01", "2025-03-31", false},
		{"32 days", "2025-03-01", "2025-04-01", true},
		{"reversed", "2025-03-10", "2025-03-09", true},
		{"bad start", "2025-3-1", "2025-03-09", true},
		{"bad end", "2025-03-01", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week, err := p.Reports.GetWeeklyNutrition(ctx, tt.start, tt.end, testOwner)
			if tt.wantErr {
				if !apperrors.Is(err, apperrors.ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetWeeklyNutrition failed: %v", err)
			}
			if week.Progress.Percentage != 0 || week.Calories.AverageDaily != 0 {
				t.Errorf("empty range summary = %+v", week)
			}
		})
	}
}

func TestGetMealNutrition(t *testing.T) {
	p, _ := setupTestPlanner(t)
	plan := setupReportPlan(t, p)
	eatBreakfast(t, p, plan)
	ctx := context.Background()

	s, err := p.Reports.GetMealNutrition(ctx, plan.Meals[0].ID, testOwner)
	if err != nil {
		t.Fatalf("GetMealNutrition failed: %v", err)
	}
	if s.Target.Calories != 1000 || !approx(s.Actual.Calories, 400) || s.Progress.Percentage != 40 || !approx(s.Progress.Remaining, 600) {
		t.Errorf("summary = target %+v actual %+v progress %+v", s.Target, s.Actual, s.Progress)
	}
	// Eaten at 09:30 against an 08:00 target
	if s.OnTime == nil || *s.OnTime {
		t.Errorf("meal OnTime = %v, want false", s.OnTime)
	}
	if len(s.Foods) != 1 || s.Foods[0].OnTime == nil || *s.Foods[0].OnTime {
		t.Errorf("food on-time flags = %+v", s.Foods)
	}

	if _, err := p.Reports.GetMealNutrition(ctx, plan.Meals[0].ID, otherOwner); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("foreign owner: err = %v, want ErrNotFound", err)
	}
}

// 07:50 in New York is 11:50 UTC; the 08:00 target is a New York wall clock.
func TestGetMealNutritionOnTimeInClockZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}
	now := time.Date(2025, 3, 10, 7, 50, 0, 0, loc)
	p, _ := setupTestPlanner(t, WithClock(func() time.Time { return now }))
	plan := setupReportPlan(t, p)
	eatBreakfast(t, p, plan)

	s, err := p.Reports.GetMealNutrition(context.Background(), plan.Meals[0].ID, testOwner)
	if err != nil {
		t.Fatalf("GetMealNutrition failed: %v", err)
	}
	if s.EatenAt == nil || !s.EatenAt.Equal(now) {
		t.Fatalf("EatenAt = %v, want %v", s.EatenAt, now)
	}
	if s.OnTime == nil || !*s.OnTime {
		t.Errorf("meal OnTime = %v, want true", s.OnTime)
	}
	if len(s.Foods) != 1 || s.Foods[0].OnTime == nil || !*s.Foods[0].OnTime {
		t.Errorf("food on-time flags = %+v", s.Foods)
	}
}

func TestGetMealDistribution(t *testing.T) {
	p, _ := setupTestPlanner(t)
	plan := mustCreatePlan(t, p, "Distribution")

	targets, err := p.Reports.GetMealDistribution(context.Background(), plan.ID, testOwner)
	if err != nil {
		t.Fatalf("GetMealDistribution failed: %v", err)
	}
	want := []int{500, 800, 700}
	if len(targets) != len(want) {
		t.Fatalf("got %d targets, want %d", len(targets), len(want))
	}
	for i, w := range want {
		if targets[i].Calories != w {
			t.Errorf("%s = %d kcal, want %d", targets[i].MealName, targets[i].Calories, w)
		}
	}
	if targets[0].Protein != 31 || targets[0].Carbs != 63 || targets[0].Fat != 14 {
		t.Errorf("breakfast macros = %+v, want 31/63/14", targets[0])
	}

	if _, err := p.Reports.GetMealDistribution(context.Background(), plan.ID, otherOwner); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("foreign owner: err = %v, want ErrNotFound", err)
	}
}
