package meals

import (
	"fmt"
	"time"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/cli"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/nutrition"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/planner"
)

// MacroFlags are optional per-meal macro goals in grams. Negative means
// unset.
type MacroFlags struct {
	Protein float64 `help:"Protein goal in grams." default:"-1"`
	Carbs   float64 `help:"Carbohydrate goal in grams." default:"-1"`
	Fat     float64 `help:"Fat goal in grams." default:"-1"`
}

func (m MacroFlags) set() bool {
	return m.Protein >= 0 || m.Carbs >= 0 || m.Fat >= 0
}

// goals fills unset macros from the fallback.
func (m MacroFlags) goals(fallback models.MacroGoals) *models.MacroGoals {
	if !m.set() {
		return nil
	}
	g := fallback
	if m.Protein >= 0 {
		g.Protein = m.Protein
	}
	if m.Carbs >= 0 {
		g.Carbs = m.Carbs
	}
	if m.Fat >= 0 {
		g.Fat = m.Fat
	}
	return &g
}

type MealAddCmd struct {
	PlanID   string     `arg:"" help:"Plan ID."`
	Name     string     `arg:"" help:"Meal name."`
	Time     string     `short:"t" help:"Target time (HH:MM)." default:"12:00"`
	Calories int        `short:"c" help:"Target calories." required:""`
	Macros   MacroFlags `embed:""`
}

func (c *MealAddCmd) Run(ctx *cli.Context) error {
	spec := planner.MealSpec{
		Name:           c.Name,
		TargetTime:     c.Time,
		TargetCalories: c.Calories,
		NutritionGoals: c.Macros.goals(nutrition.MacroGoalsFor(c.Calories)),
	}
	meal, err := ctx.Planner.Meals.AddMealToPlan(ctx.Ctx, c.PlanID, spec, ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to add meal: %w", err)
	}
	fmt.Printf("✓ Added meal %s at %s (ID: %s)\n", meal.Name, meal.TargetTime, meal.ID)
	return nil
}

type MealShowCmd struct {
	ID string `arg:"" help:"Meal ID."`
}

func (c *MealShowCmd) Run(ctx *cli.Context) error {
	meal, err := ctx.Planner.Meals.GetMealByID(ctx.Ctx, c.ID, ctx.Owner)
	if err != nil {
		return err
	}
	fmt.Print(cli.RenderMeal(meal))
	return nil
}

type MealUpdateCmd struct {
	ID       string     `arg:"" help:"Meal ID."`
	Name     string     `short:"n" help:"New meal name."`
	Time     string     `short:"t" help:"New target time (HH:MM)."`
	Calories int        `short:"c" help:"New target calories."`
	Macros   MacroFlags `embed:""`
}

func (c *MealUpdateCmd) Run(ctx *cli.Context) error {
	var patch planner.MealPatch
	if c.Name != "" {
		patch.Name = &c.Name
	}
	if c.Time != "" {
		patch.TargetTime = &c.Time
	}
	if c.Calories > 0 {
		patch.TargetCalories = &c.Calories
	}
	if c.Macros.set() {
		current, err := ctx.Planner.Meals.GetMealByID(ctx.Ctx, c.ID, ctx.Owner)
		if err != nil {
			return err
		}
		patch.NutritionGoals = c.Macros.goals(current.NutritionGoals)
	}

	meal, err := ctx.Planner.Meals.UpdateMeal(ctx.Ctx, c.ID, patch, ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	fmt.Printf("✓ Updated meal %s\n", meal.Name)
	return nil
}

type MealDeleteCmd struct {
	ID  string `arg:"" help:"Meal ID to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *MealDeleteCmd) Run(ctx *cli.Context) error {
	meal, err := ctx.Planner.Meals.GetMealByID(ctx.Ctx, c.ID, ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to find meal with ID %s: %w", c.ID, err)
	}
	ok, err := cli.Confirm(fmt.Sprintf("Delete meal %q?", meal.Name), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}
	if err := ctx.Planner.Meals.DeleteMeal(ctx.Ctx, c.ID, ctx.Owner); err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	fmt.Printf("✓ Deleted meal: %s (ID: %s)\n", meal.Name, c.ID)
	return nil
}

// MealEatCmd flips a meal's eaten state and every food in it.
type MealEatCmd struct {
	ID string `arg:"" help:"Meal ID."`
}

func (c *MealEatCmd) Run(ctx *cli.Context) error {
	eaten, err := ctx.Planner.Meals.ToggleMealEaten(ctx.Ctx, c.ID, ctx.Owner)
	if err != nil {
		return err
	}
	if eaten {
		fmt.Println("✓ Meal marked as eaten")
	} else {
		fmt.Println("✓ Meal marked as not eaten")
	}
	return nil
}

type MealDayCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *MealDayCmd) Run(ctx *cli.Context) error {
	date, err := cli.DateString(c.Date, time.Now())
	if err != nil {
		return err
	}
	meals, err := ctx.Planner.Meals.GetMealsByDate(ctx.Ctx, date, ctx.Owner)
	if err != nil {
		return err
	}
	fmt.Println(cli.Title("Meals for " + date))
	if len(meals) == 0 {
		fmt.Println("No meals planned for this day.")
		return nil
	}
	for _, m := range meals {
		fmt.Print(cli.RenderMeal(m))
	}
	return nil
}
