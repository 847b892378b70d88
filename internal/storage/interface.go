package storage

import (
	"context"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
)

// Provider is a database backend. All reads and writes go through a Tx
// obtained from WithTx or View; there is no ambient connection.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// WithTx runs fn in one read-write transaction. If fn returns an error
	// every write made through the Tx is rolled back.
	WithTx(ctx context.Context, fn func(Tx) error) error
	// View runs fn in a read-only transaction for a consistent snapshot.
	View(ctx context.Context, fn func(Tx) error) error

	// Utils
	GetConfigPath() string
}

// Tx is the repository surface bound to one transaction. Lookups that take
// an owner return an error wrapping errors.ErrNotFound for rows that are
// absent or belong to someone else.
type Tx interface {
	// Meal plans. GetPlan and ListPlans do not load meals.
	InsertPlan(models.MealPlan) error
	UpdatePlan(models.MealPlan) error
	GetPlan(id, owner string) (models.MealPlan, error)
	ListPlans(owner string, limit, offset int) ([]models.MealPlan, int, error)
	PlansForDate(owner, date string) ([]models.MealPlan, error)
	DeletePlan(id, owner string) error

	// Meals are returned with their foods.
	InsertMeal(models.Meal) error
	UpdateMeal(models.Meal) error
	GetMeal(id, owner string) (models.Meal, error)
	MealsForPlan(planID string) ([]models.Meal, error)
	MealsForDate(owner, date string) ([]models.Meal, error)
	DeleteMeal(id, owner string) error

	// Meal foods
	InsertMealFood(models.MealFood) error
	UpdateMealFood(models.MealFood) error
	GetMealFood(id, owner string) (models.MealFood, error)
	DeleteMealFood(id, owner string) error

	// Food catalog
	InsertFood(models.Food) error
	// GetFood only returns shared foods and foods saved by owner.
	GetFood(id, owner string) (models.Food, error)
	GetFoodByExternalID(externalID string) (models.Food, error)
}

// Migrator is implemented by providers that can upgrade their schema in place.
type Migrator interface {
	Migrate(ctx context.Context, progress func(string)) (int, error)
}
