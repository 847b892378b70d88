package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/nutrition"
)

var refNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func TestDateString(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "2025-03-10", false},
		{"today", "2025-03-10", false},
		{"Yesterday", "2025-03-09", false},
		{"tomorrow", "2025-03-11", false},
		{"2025-02-28", "2025-02-28", false},
		{"03/10/2025", "", true},
		{"2025-02-30", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DateString(tt.in, refNow)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DateString(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DateString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDistribution(t *testing.T) {
	got, err := ParseDistribution([]string{"Breakfast=30", " Second Lunch = 45.5", "Dinner=24.5"})
	if err != nil {
		t.Fatalf("ParseDistribution() error = %v", err)
	}
	want := []struct {
		name string
		pct  float64
	}{{"Breakfast", 30}, {"Second Lunch", 45.5}, {"Dinner", 24.5}}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].MealName != w.name || got[i].Percentage == nil || *got[i].Percentage != w.pct {
			t.Errorf("entry %d = %q %v, want %q %v", i, got[i].MealName, got[i].Pct(), w.name, w.pct)
		}
	}

	for _, bad := range []string{"Breakfast", "=20", "Lunch=abc"} {
		if _, err := ParseDistribution([]string{bad}); err == nil {
			t.Errorf("ParseDistribution(%q) expected error", bad)
		}
	}
}

func TestConfirmSkipsPromptWhenYes(t *testing.T) {
	ok, err := Confirm("Delete?", true)
	if err != nil || !ok {
		t.Errorf("Confirm(yes) = %v, %v; want true, nil", ok, err)
	}
}

func TestRenderPlan(t *testing.T) {
	end := "2025-03-16"
	plan := models.MealPlan{
		ID:             "plan-1",
		Name:           "Cut",
		StartDate:      "2025-03-10",
		EndDate:        &end,
		TargetCalories: 1800,
		CalorieDistribution: []models.DistributionEntry{
			{MealName: "Breakfast", Percentage: models.Percent(40), CalorieAmount: 720},
			{MealName: "Dinner", Percentage: models.Percent(60), CalorieAmount: 1080},
		},
		Meals: []models.Meal{{
			ID: "meal-1", Name: "Breakfast", TargetTime: "08:00", TargetCalories: 720, Eaten: true,
			Foods: []models.MealFood{{
				ID: "mf-1", Food: &models.Food{Name: "Oats"}, ServingSize: 80, ServingUnit: "g",
				Nutrients: models.NutrientSet{Calories: 311.2}, Eaten: true,
			}},
		}},
	}

	out := RenderPlan(plan)
	for _, want := range []string{"Cut", "2025-03-10 .. 2025-03-16", "1800 kcal", "Breakfast", "720 kcal", "1080 kcal", "Oats", "311.2 kcal", "mf-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderPlan() missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderDaily(t *testing.T) {
	s := nutrition.DailySummary{
		Date:     "2025-03-10",
		Calories: nutrition.DayCalories{Target: 2000, Eaten: 400, Remaining: 1600},
		Progress: nutrition.MealsProgress{MealsEaten: 1, TotalMeals: 2, Percentage: 50},
		Distribution: []nutrition.DistributionProgress{
			{MealName: "Breakfast", Percentage: 50, Target: 1000, Actual: 400, Deficit: 600},
		},
	}
	out := RenderDaily(s)
	for _, want := range []string{"2025-03-10", "400.0 eaten of 2000", "1/2 eaten (50.0%)", "deficit   600.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDaily() missing %q in:\n%s", want, out)
		}
	}
}
