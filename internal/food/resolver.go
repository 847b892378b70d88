// Package food defines the boundary to external food databases. Providers
// map their payloads into FoodRecord once; nothing past this package sees
// provider-specific JSON.
package food

import (
	"context"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
)

// Resolver looks foods up in an external database.
//
// GetByID returns an error wrapping errors.ErrNotFound when the provider has
// no such food. Search returns an empty slice, not an error, on no match.
type Resolver interface {
	GetByID(ctx context.Context, externalID string) (FoodRecord, error)
	Search(ctx context.Context, query string) ([]FoodRecord, error)
}

// FoodRecord is a provider-neutral food description. Nutrient values are per
// ServingSize ServingUnit.
type FoodRecord struct {
	ExternalID  string
	Name        string
	Brand       string
	ServingSize float64
	ServingUnit string
	Nutrients   models.NutrientSet
}

// ToFood converts the record into an unsaved catalog food.
func (r FoodRecord) ToFood() models.Food {
	size, unit := r.ServingSize, r.ServingUnit
	if size <= 0 {
		size = constants.DefaultReferenceServing
	}
	if unit == "" {
		unit = constants.DefaultServingUnit
	}
	return models.Food{
		ExternalID:  r.ExternalID,
		Name:        r.Name,
		Brand:       r.Brand,
		ServingSize: size,
		ServingUnit: unit,
		Nutrients:   r.Nutrients,
		Source:      models.FoodSourceExternal,
	}
}
