package sqldb

import (
	"database/sql"
	"fmt"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
)

const foodColumns = `id, external_id, name, brand, serving_size, serving_unit, nutrients, source, owner_id, created_at`

func (t *Tx) InsertFood(f models.Food) error {
	nutrients, err := encodeJSON(f.Nutrients)
	if err != nil {
		return fmt.Errorf("failed to encode nutrients: %w", err)
	}
	createdAt := f.CreatedAt
	if createdAt == "" {
		createdAt = now()
	}
	_, err = t.exec(`INSERT INTO foods (`+foodColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, nullString(&f.ExternalID), f.Name, f.Brand, f.ServingSize, f.ServingUnit, nutrients,
		string(f.Source), f.OwnerID, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert food: %w", err)
	}
	return nil
}

// GetFood looks a catalog food up by id. Cached external foods have no
// owner and are visible to everyone; saved custom foods only to their owner.
func (t *Tx) GetFood(id, owner string) (models.Food, error) {
	return t.getFood(id, `SELECT `+foodColumns+` FROM foods
		WHERE id = ? AND (owner_id IS NULL OR owner_id = '' OR owner_id = ?)`, id, owner)
}

func (t *Tx) GetFoodByExternalID(externalID string) (models.Food, error) {
	return t.getFood(externalID, `SELECT `+foodColumns+` FROM foods WHERE external_id = ?`, externalID)
}

func (t *Tx) getFood(key, query string, args ...interface{}) (models.Food, error) {
	var nf nullFood
	err := t.queryRow(query, args...).Scan(&nf.id, &nf.externalID, &nf.name, &nf.brand, &nf.servingSize,
		&nf.servingUnit, &nf.nutrients, &nf.source, &nf.ownerID, &nf.createdAt)
	if err != nil {
		return models.Food{}, notFoundOr(err, "food", key)
	}
	return nf.toFood()
}

// nullFood scans a foods row that may come from a LEFT JOIN.
type nullFood struct {
	id, externalID, name, brand sql.NullString
	servingSize                 sql.NullFloat64
	servingUnit, nutrients      sql.NullString
	source, ownerID, createdAt  sql.NullString
}

func (nf nullFood) toFood() (models.Food, error) {
	f := models.Food{
		ID:          nf.id.String,
		ExternalID:  nf.externalID.String,
		Name:        nf.name.String,
		Brand:       nf.brand.String,
		ServingSize: nf.servingSize.Float64,
		ServingUnit: nf.servingUnit.String,
		Source:      models.FoodSource(nf.source.String),
		OwnerID:     nf.ownerID.String,
		CreatedAt:   nf.createdAt.String,
	}
	if err := decodeJSON(nf.nutrients.String, &f.Nutrients); err != nil {
		return models.Food{}, fmt.Errorf("failed to decode nutrients of food %s: %w", f.ID, err)
	}
	return f, nil
}
