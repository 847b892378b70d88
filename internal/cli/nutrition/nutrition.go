package nutrition

import (
	"fmt"
	"time"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/cli"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
)

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD, today, yesterday)." default:"today"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	date, err := cli.DateString(c.Date, time.Now())
	if err != nil {
		return err
	}
	summary, err := ctx.Planner.Reports.GetDailyNutrition(ctx.Ctx, date, ctx.Owner)
	if err != nil {
		return err
	}
	fmt.Print(cli.RenderDaily(summary))
	return nil
}

// WeekCmd summarizes a date range, the last seven days by default.
type WeekCmd struct {
	Start string `short:"s" help:"First day (YYYY-MM-DD). Defaults to six days before the end."`
	End   string `short:"e" help:"Last day (YYYY-MM-DD)." default:"today"`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	now := time.Now()
	end, err := cli.ParseDate(c.End, now)
	if err != nil {
		return err
	}
	start := end.AddDate(0, 0, -6)
	if c.Start != "" {
		if start, err = cli.ParseDate(c.Start, now); err != nil {
			return err
		}
	}

	summary, err := ctx.Planner.Reports.GetWeeklyNutrition(ctx.Ctx, start.Format(constants.DateFormat), end.Format(constants.DateFormat), ctx.Owner)
	if err != nil {
		return err
	}
	fmt.Print(cli.RenderWeekly(summary))
	return nil
}

type MealCmd struct {
	ID string `arg:"" help:"Meal ID."`
}

func (c *MealCmd) Run(ctx *cli.Context) error {
	summary, err := ctx.Planner.Reports.GetMealNutrition(ctx.Ctx, c.ID, ctx.Owner)
	if err != nil {
		return err
	}
	fmt.Print(cli.RenderMealSummary(summary))
	return nil
}

type DistributionCmd struct {
	PlanID string `arg:"" help:"Plan ID."`
}

func (c *DistributionCmd) Run(ctx *cli.Context) error {
	targets, err := ctx.Planner.Reports.GetMealDistribution(ctx.Ctx, c.PlanID, ctx.Owner)
	if err != nil {
		return err
	}
	fmt.Println(cli.RenderMealTargets(targets))
	return nil
}
