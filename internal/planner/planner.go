// Package planner implements meal plan, meal and reporting operations on top
// of a storage.Provider. Every write that touches more than one row runs in a
// single Provider.WithTx call; input is validated before the transaction
// starts.
package planner

import (
	"time"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/distribution"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/food"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/nutrition"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage"
)

// Planner bundles the managers that share one store.
type Planner struct {
	Plans   *PlanManager
	Meals   *MealManager
	Reports *Reports
}

// Option customizes a Planner.
type Option func(*deps)

type deps struct {
	normalizer *distribution.Normalizer
	calc       *nutrition.Calculator
	resolver   food.Resolver
	now        func() time.Time
}

// WithNormalizer overrides the distribution tunables.
func WithNormalizer(n *distribution.Normalizer) Option {
	return func(d *deps) { d.normalizer = n }
}

// WithCalculator overrides the nutrient calculator.
func WithCalculator(c *nutrition.Calculator) Option {
	return func(d *deps) { d.calc = c }
}

// WithResolver sets the external food lookup used by AddFoodToMeal.
func WithResolver(r food.Resolver) Option {
	return func(d *deps) { d.resolver = r }
}

// WithClock replaces time.Now. Unless the calculator sets a Location, the
// zone of the returned times is used for on-time checks.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

func New(store storage.Provider, opts ...Option) *Planner {
	d := &deps{
		normalizer: distribution.New(),
		calc:       nutrition.New(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.calc.Location == nil {
		// On-time flags follow the clock's zone, not the UTC the store returns.
		calc := *d.calc
		calc.Location = d.now().Location()
		d.calc = &calc
	}

	meals := &MealManager{store: store, calc: d.calc, resolver: d.resolver, now: d.now}
	return &Planner{
		Plans:   &PlanManager{store: store, normalizer: d.normalizer, now: d.now},
		Meals:   meals,
		Reports: &Reports{store: store, calc: d.calc, now: d.now},
	}
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
