package models

// FoodSource identifies where a Food record came from.
type FoodSource string

const (
	FoodSourceCatalog  FoodSource = "catalog"
	FoodSourceExternal FoodSource = "external"
	FoodSourceCustom   FoodSource = "custom"
)

// Food is a catalog entry. Nutrients are given per reference portion
// (ServingSize ServingUnit).
type Food struct {
	ID          string      `json:"id,omitempty"`
	ExternalID  string      `json:"external_id,omitempty"`
	Name        string      `json:"name"`
	Brand       string      `json:"brand,omitempty"`
	ServingSize float64     `json:"serving_size"`
	ServingUnit string      `json:"serving_unit"`
	Nutrients   NutrientSet `json:"nutrients"`
	Source      FoodSource  `json:"source"`
	OwnerID     string      `json:"owner_id,omitempty"` // set for custom foods saved to a collection
	CreatedAt   string      `json:"created_at,omitempty"`
}

// Persisted reports whether the food is backed by a catalog row.
func (f Food) Persisted() bool {
	return f.ID != ""
}
