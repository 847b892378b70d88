package plans

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/cli"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/planner"
)

type PlanCreateCmd struct {
	Name        string   `arg:"" help:"Plan name."`
	Description string   `short:"d" help:"Plan description."`
	Start       string   `short:"s" help:"Start date (YYYY-MM-DD, today, tomorrow)." default:"today"`
	End         string   `short:"e" help:"End date (YYYY-MM-DD). Open-ended when omitted."`
	Calories    int      `short:"c" help:"Daily calorie target." default:"2000"`
	Meal        []string `short:"m" help:"Calorie distribution entry as Name=percentage. Repeat for each meal."`
	NoMeals     bool     `help:"Do not generate one meal per distribution entry."`
}

func (c *PlanCreateCmd) Run(ctx *cli.Context) error {
	now := time.Now()
	start, err := cli.DateString(c.Start, now)
	if err != nil {
		return err
	}
	req := planner.CreatePlanRequest{
		Name:               c.Name,
		Description:        c.Description,
		StartDate:          start,
		TargetCalories:     c.Calories,
		SkipMealGeneration: c.NoMeals,
	}
	if c.End != "" {
		end, err := cli.DateString(c.End, now)
		if err != nil {
			return err
		}
		req.EndDate = &end
	}
	if len(c.Meal) > 0 {
		dist, err := cli.ParseDistribution(c.Meal)
		if err != nil {
			return err
		}
		req.CalorieDistribution = dist
	}

	plan, err := ctx.Planner.Plans.CreateMealPlan(ctx.Ctx, req, ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	fmt.Printf("✓ Created plan %s (ID: %s)\n\n", plan.Name, plan.ID)
	fmt.Print(cli.RenderPlan(plan))
	return nil
}

type PlanListCmd struct {
	Page     int `short:"p" help:"Page number." default:"1"`
	PageSize int `help:"Plans per page (max 100)." default:"20"`
}

func (c *PlanListCmd) Run(ctx *cli.Context) error {
	page, err := ctx.Planner.Plans.GetMealPlans(ctx.Ctx, ctx.Owner, c.Page, c.PageSize)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}
	if page.Total == 0 {
		fmt.Println("No meal plans yet. Create one with 'cyborg plan create'.")
		return nil
	}
	for _, p := range page.Items {
		fmt.Println(cli.RenderPlanHeader(p))
	}
	fmt.Println(cli.Muted(fmt.Sprintf("page %d of %d, %d plans", page.Page, page.TotalPages, page.Total)))
	return nil
}

type PlanShowCmd struct {
	ID string `arg:"" help:"Plan ID."`
}

func (c *PlanShowCmd) Run(ctx *cli.Context) error {
	plan, err := ctx.Planner.Plans.GetMealPlanByID(ctx.Ctx, c.ID, ctx.Owner)
	if err != nil {
		return err
	}
	fmt.Print(cli.RenderPlan(plan))
	return nil
}

type PlanUpdateCmd struct {
	ID          string   `arg:"" help:"Plan ID."`
	Name        string   `short:"n" help:"New plan name."`
	Description string   `short:"d" help:"New description."`
	Start       string   `short:"s" help:"New start date (YYYY-MM-DD)."`
	End         string   `short:"e" help:"New end date (YYYY-MM-DD)."`
	ClearEnd    bool     `help:"Make the plan open-ended."`
	Calories    int      `short:"c" help:"New daily calorie target."`
	Meal        []string `short:"m" help:"Replace the distribution. Repeat Name=percentage for each meal."`
}

func (c *PlanUpdateCmd) patch(now time.Time) (planner.PlanPatch, error) {
	patch := planner.PlanPatch{ClearEndDate: c.ClearEnd}
	if c.Name != "" {
		patch.Name = &c.Name
	}
	if c.Description != "" {
		patch.Description = &c.Description
	}
	if c.Calories > 0 {
		patch.TargetCalories = &c.Calories
	}
	if c.Start != "" {
		start, err := cli.DateString(c.Start, now)
		if err != nil {
			return patch, err
		}
		patch.StartDate = &start
	}
	if c.End != "" {
		end, err := cli.DateString(c.End, now)
		if err != nil {
			return patch, err
		}
		patch.EndDate = &end
	}
	if len(c.Meal) > 0 {
		dist, err := cli.ParseDistribution(c.Meal)
		if err != nil {
			return patch, err
		}
		patch.CalorieDistribution = dist
	}
	return patch, nil
}

func (c *PlanUpdateCmd) Run(ctx *cli.Context) error {
	patch, err := c.patch(time.Now())
	if err != nil {
		return err
	}
	plan, err := ctx.Planner.Plans.UpdateMealPlan(ctx.Ctx, c.ID, patch, ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	fmt.Printf("✓ Updated plan %s\n\n", plan.Name)
	fmt.Print(cli.RenderPlan(plan))
	return nil
}

type PlanDeleteCmd struct {
	ID  string `arg:"" help:"Plan ID to delete."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *PlanDeleteCmd) Run(ctx *cli.Context) error {
	plan, err := ctx.Planner.Plans.GetMealPlanByID(ctx.Ctx, c.ID, ctx.Owner)
	if err != nil {
		return fmt.Errorf("failed to find plan with ID %s: %w", c.ID, err)
	}

	ok, err := cli.Confirm(fmt.Sprintf("Delete plan %q and its %d meal(s)?", plan.Name, len(plan.Meals)), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := ctx.Planner.Plans.DeleteMealPlan(ctx.Ctx, c.ID, ctx.Owner); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	fmt.Printf("✓ Deleted plan: %s (ID: %s)\n", plan.Name, c.ID)
	return nil
}

type PlanDuplicateCmd struct {
	ID   string `arg:"" help:"Plan ID to copy."`
	Date string `help:"Start date of the copy (YYYY-MM-DD). Defaults to today."`
}

func (c *PlanDuplicateCmd) Run(ctx *cli.Context) error {
	var target *time.Time
	if c.Date != "" {
		t, err := cli.ParseDate(c.Date, time.Now())
		if err != nil {
			return err
		}
		target = &t
	}
	plan, err := ctx.Planner.Plans.DuplicateMealPlan(ctx.Ctx, c.ID, ctx.Owner, target)
	if err != nil {
		return fmt.Errorf("failed to duplicate plan: %w", err)
	}
	fmt.Printf("✓ Created %s (ID: %s) starting %s\n", plan.Name, plan.ID, plan.StartDate)
	return nil
}

type PlanAdjustCmd struct {
	ID         string `arg:"" help:"Plan ID."`
	Name       string `arg:"" help:"Name of the meal to make room for."`
	Percentage string `arg:"" optional:"" help:"Share for the new meal (default 20, capped at 50)."`
}

func (c *PlanAdjustCmd) Run(ctx *cli.Context) error {
	var pct *float64
	if s := strings.TrimSpace(c.Percentage); s != "" {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return fmt.Errorf("invalid percentage %q", c.Percentage)
		}
		pct = &v
	}
	entries, err := ctx.Planner.Plans.AdjustMealPercentagesForNewMeal(ctx.Ctx, c.ID, c.Name, pct, ctx.Owner)
	if err != nil {
		return err
	}
	fmt.Println(cli.Title("Proposed distribution"))
	fmt.Println(cli.RenderDistribution(entries))
	fmt.Println(cli.Muted("Nothing was saved. Apply it with 'cyborg plan update --meal'."))
	return nil
}
