package foods

import (
	"fmt"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/cli"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/planner"
)

// FoodAddCmd attaches a food to a meal from the catalog, Open Food Facts or
// a custom record.
type FoodAddCmd struct {
	MealID string `arg:"" help:"Meal ID."`

	FoodID   string `help:"Catalog food ID." xor:"source"`
	External string `short:"x" help:"Open Food Facts barcode." xor:"source"`
	Query    string `short:"q" help:"Search Open Food Facts and use the first match." xor:"source"`
	Custom   string `help:"Name of a custom food." xor:"source"`

	Calories    float64 `help:"Custom food calories per reference serving."`
	Protein     float64 `help:"Custom food protein (g)."`
	Carbs       float64 `help:"Custom food carbohydrates (g)."`
	Fat         float64 `help:"Custom food fat (g)."`
	Fiber       float64 `help:"Custom food fiber (g)."`
	Sugar       float64 `help:"Custom food sugar (g)."`
	Sodium      float64 `help:"Custom food sodium (mg)."`
	Cholesterol float64 `help:"Custom food cholesterol (mg)."`
	Per         float64 `help:"Reference serving size the custom values are given for." default:"100"`
	Unit        string  `help:"Reference serving unit of the custom food." default:"g"`
	Save        bool    `help:"Save the custom food to the catalog for reuse."`

	Serving     float64 `short:"s" help:"Portion size. Defaults to the food's reference serving."`
	ServingUnit string  `help:"Portion unit. Defaults to the food's unit."`
}

func (c *FoodAddCmd) request() planner.AddFoodRequest {
	req := planner.AddFoodRequest{
		FoodID:           c.FoodID,
		ExternalFoodID:   c.External,
		Query:            c.Query,
		SaveToCollection: c.Save,
		ServingSize:      c.Serving,
		ServingUnit:      c.ServingUnit,
	}
	if c.Custom != "" {
		req.CustomFood = &planner.CustomFood{
			Name:        c.Custom,
			ServingSize: c.Per,
			ServingUnit: c.Unit,
			Nutrients: models.NutrientSet{
				Calories:      c.Calories,
				Protein:       c.Protein,
				Carbohydrates: c.Carbs,
				Fat:           c.Fat,
				Fiber:         c.Fiber,
				Sugar:         c.Sugar,
				Sodium:        c.Sodium,
				Cholesterol:   c.Cholesterol,
			},
		}
	}
	return req
}

func (c *FoodAddCmd) Run(ctx *cli.Context) error {
	mf, err := ctx.Planner.Meals.AddFoodToMeal(ctx.Ctx, c.MealID, c.request(), ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to add food: %w", err)
	}
	name := "food"
	if mf.Food != nil {
		name = mf.Food.Name
	}
	fmt.Printf("✓ Added %s, %.0f %s, %.1f kcal (ID: %s)\n", name, mf.ServingSize, mf.ServingUnit, mf.Nutrients.Calories, mf.ID)
	return nil
}

type FoodRemoveCmd struct {
	ID string `arg:"" help:"Meal food ID."`
}

func (c *FoodRemoveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Planner.Meals.RemoveFoodFromMeal(ctx.Ctx, c.ID, ctx.Owner); err != nil {
		return fmt.Errorf("failed to remove food: %w", err)
	}
	fmt.Printf("✓ Removed food (ID: %s)\n", c.ID)
	return nil
}

type FoodUpdateCmd struct {
	ID      string  `arg:"" help:"Meal food ID."`
	Serving float64 `short:"s" help:"New portion size."`
	Unit    string  `short:"u" help:"New portion unit."`
}

func (c *FoodUpdateCmd) Run(ctx *cli.Context) error {
	var patch planner.MealFoodPatch
	if c.Serving != 0 {
		patch.ServingSize = &c.Serving
	}
	if c.Unit != "" {
		patch.ServingUnit = &c.Unit
	}
	mf, err := ctx.Planner.Meals.UpdateMealFood(ctx.Ctx, c.ID, patch, ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to update food: %w", err)
	}
	fmt.Printf("✓ Updated portion to %.0f %s, %.1f kcal\n", mf.ServingSize, mf.ServingUnit, mf.Nutrients.Calories)
	return nil
}

// FoodEatCmd flips one food's eaten state. The meal follows when every
// food agrees.
type FoodEatCmd struct {
	MealID string `arg:"" help:"Meal ID."`
	ID     string `arg:"" help:"Meal food ID."`
}

func (c *FoodEatCmd) Run(ctx *cli.Context) error {
	eaten, err := ctx.Planner.Meals.ToggleFoodEaten(ctx.Ctx, c.MealID, c.ID, ctx.Owner)
	if err != nil {
		return err
	}
	if eaten {
		fmt.Println("✓ Food marked as eaten")
	} else {
		fmt.Println("✓ Food marked as not eaten")
	}

	meal, err := ctx.Planner.Meals.GetMealByID(ctx.Ctx, c.MealID, ctx.Owner)
	if err != nil {
		return err
	}
	if meal.Eaten {
		fmt.Printf("✓ %s is complete\n", meal.Name)
	}
	return nil
}
