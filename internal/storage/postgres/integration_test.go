package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	apperrors "github.com/Ahmad-Mosha/cyborg-nutrition/internal/errors"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage"
)

// setupIntegrationStore needs POSTGRES_TEST_URL pointing at a disposable
// database; the test drops the app schema when done.
func setupIntegrationStore(t *testing.T) *Store {
	t.Helper()
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	s := New(connStr)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() {
		s.db.SQL().Exec("DROP SCHEMA IF EXISTS cyborg CASCADE")
		s.Close()
	})
	return s
}

func TestPostgresPlanRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupIntegrationStore(t)

	plan := models.MealPlan{
		ID:             "pg-plan-1",
		OwnerID:        "owner",
		Name:           "Cut",
		StartDate:      "2024-03-01",
		TargetCalories: 1800,
		CalorieDistribution: []models.DistributionEntry{
			{MealName: "Lunch", Percentage: models.Percent(100), CalorieAmount: 1800},
		},
		CreatedAt: "2024-03-01T00:00:00Z",
		UpdatedAt: "2024-03-01T00:00:00Z",
	}
	meal := models.Meal{ID: "pg-meal-1", PlanID: plan.ID, Name: "Lunch", TargetTime: "13:00", TargetCalories: 1800}

	err := s.WithTx(ctx, func(tx storage.Tx) error {
		if err := tx.InsertPlan(plan); err != nil {
			return err
		}
		return tx.InsertMeal(meal)
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	err = s.View(ctx, func(tx storage.Tx) error {
		got, err := tx.GetPlan(plan.ID, "owner")
		if err != nil {
			return err
		}
		if got.CalorieDistribution[0].CalorieAmount != 1800 {
			t.Errorf("distribution = %+v", got.CalorieDistribution)
		}
		meals, err := tx.MealsForDate("owner", "2024-03-05")
		if err != nil {
			return err
		}
		if len(meals) != 1 {
			t.Errorf("MealsForDate returned %d meals, want 1", len(meals))
		}
		_, err = tx.GetPlan(plan.ID, "someone-else")
		if !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("foreign owner lookup error = %v, want ErrNotFound", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
}
