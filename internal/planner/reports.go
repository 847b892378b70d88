package planner

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
	apperrors "github.com/Ahmad-Mosha/cyborg-nutrition/internal/errors"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/nutrition"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/utils"
)

// Reports computes nutrition summaries over persisted meals. It never writes.
type Reports struct {
	store storage.Provider
	calc  *nutrition.Calculator
	now   func() time.Time
}

// GetDailyNutrition summarizes the meals planned for date (YYYY-MM-DD, today
// when empty).
func (r *Reports) GetDailyNutrition(ctx context.Context, date, owner string) (nutrition.DailySummary, error) {
	if date == "" {
		date = utils.FormatDate(r.now())
	}
	if err := validDate(date); err != nil {
		return nutrition.DailySummary{}, err
	}
	return r.daily(ctx, date, owner)
}

func (r *Reports) daily(ctx context.Context, date, owner string) (nutrition.DailySummary, error) {
	var (
		meals []models.Meal
		plans []models.MealPlan
	)
	err := r.store.View(ctx, func(tx storage.Tx) error {
		var err error
		if meals, err = tx.MealsForDate(owner, date); err != nil {
			return err
		}
		plans, err = tx.PlansForDate(owner, date)
		return err
	})
	if err != nil {
		return nutrition.DailySummary{}, err
	}
	return r.calc.DailyNutrition(date, meals, mergeDistributions(plans)), nil
}

// mergeDistributions combines the distributions of every plan active on a
// day, summing calorie amounts of entries that share a meal name. Entry
// order follows first appearance.
func mergeDistributions(plans []models.MealPlan) []models.DistributionEntry {
	if len(plans) == 1 {
		return plans[0].CalorieDistribution
	}
	var out []models.DistributionEntry
	index := make(map[string]int)
	for _, p := range plans {
		for _, e := range p.CalorieDistribution {
			i, ok := index[e.MealName]
			if !ok {
				index[e.MealName] = len(out)
				out = append(out, e)
				continue
			}
			out[i].CalorieAmount += e.CalorieAmount
		}
	}
	return out
}

// GetWeeklyNutrition summarizes every day from start to end inclusive. The
// range may not exceed constants.MaxReportDays days.
func (r *Reports) GetWeeklyNutrition(ctx context.Context, start, end, owner string) (nutrition.WeeklySummary, error) {
	from, err := utils.ParseDate(start)
	if err != nil {
		return nutrition.WeeklySummary{}, apperrors.InvalidInput("invalid start date %q (expected YYYY-MM-DD)", start)
	}
	to, err := utils.ParseDate(end)
	if err != nil {
		return nutrition.WeeklySummary{}, apperrors.InvalidInput("invalid end date %q (expected YYYY-MM-DD)", end)
	}
	if to.Before(from) {
		return nutrition.WeeklySummary{}, apperrors.InvalidInput("end date %s is before start date %s", end, start)
	}
	dates := utils.DatesBetween(from, to)
	if len(dates) > constants.MaxReportDays {
		return nutrition.WeeklySummary{}, apperrors.InvalidInput("range covers %d days, at most %d allowed", len(dates), constants.MaxReportDays)
	}

	days := make([]nutrition.DailySummary, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.ReportReadWorkers)
	for i, date := range dates {
		g.Go(func() error {
			day, err := r.daily(gctx, date, owner)
			if err != nil {
				return err
			}
			days[i] = day
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nutrition.WeeklySummary{}, err
	}

	return r.calc.WeeklyNutrition(start, end, days), nil
}

// GetMealNutrition summarizes one meal with per-food on-time flags.
func (r *Reports) GetMealNutrition(ctx context.Context, mealID, owner string) (nutrition.MealSummary, error) {
	var meal models.Meal
	err := r.store.View(ctx, func(tx storage.Tx) error {
		var err error
		meal, err = tx.GetMeal(mealID, owner)
		return err
	})
	if err != nil {
		return nutrition.MealSummary{}, err
	}
	return r.calc.MealNutrition(meal), nil
}

// GetMealDistribution returns per-meal calorie and macro targets for a plan.
func (r *Reports) GetMealDistribution(ctx context.Context, planID, owner string) ([]nutrition.MealTarget, error) {
	var plan models.MealPlan
	err := r.store.View(ctx, func(tx storage.Tx) error {
		var err error
		plan, err = tx.GetPlan(planID, owner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.calc.MealDistribution(plan.TargetCalories, plan.CalorieDistribution), nil
}
