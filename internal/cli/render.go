package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/nutrition"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	eatenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func check(eaten bool) string {
	if eaten {
		return eatenStyle.Render("[x]")
	}
	return "[ ]"
}

// Title renders a section heading.
func Title(s string) string {
	return titleStyle.Render(s)
}

// Muted renders secondary text such as ids.
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// Warning renders a highlighted notice.
func Warning(s string) string {
	return warningStyle.Render(s)
}

// RenderPlanHeader renders one line per plan for listings.
func RenderPlanHeader(p models.MealPlan) string {
	window := p.StartDate + " .."
	if p.EndDate != nil {
		window = p.StartDate + " .. " + *p.EndDate
	}
	return fmt.Sprintf("%s  %s  %d kcal  %s", p.Name, window, p.TargetCalories, Muted(p.ID))
}

// RenderPlan renders a plan with its distribution and meals.
func RenderPlan(p models.MealPlan) string {
	var b strings.Builder
	fmt.Fprintln(&b, Title(p.Name)+"  "+Muted(p.ID))
	if p.Description != "" {
		fmt.Fprintln(&b, p.Description)
	}
	fmt.Fprintln(&b, RenderPlanHeader(p))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, RenderDistribution(p.CalorieDistribution))
	for _, meal := range p.Meals {
		fmt.Fprintln(&b)
		fmt.Fprint(&b, RenderMeal(meal))
	}
	return b.String()
}

// RenderDistribution renders distribution entries as a bordered table.
func RenderDistribution(entries []models.DistributionEntry) string {
	rows := make([]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, fmt.Sprintf("%-18s %6.2f%%  %5d kcal", e.MealName, e.Pct(), e.CalorieAmount))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

// RenderMeal renders a meal with its foods.
func RenderMeal(m models.Meal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s  %d kcal  %s\n", check(m.Eaten), m.TargetTime, Title(m.Name), m.TargetCalories, Muted(m.ID))
	fmt.Fprintf(&b, "    goals: %.0fg protein, %.0fg carbs, %.0fg fat\n", m.NutritionGoals.Protein, m.NutritionGoals.Carbs, m.NutritionGoals.Fat)
	for _, mf := range m.Foods {
		name := "(unknown food)"
		if mf.Food != nil {
			name = mf.Food.Name
		}
		fmt.Fprintf(&b, "    %s %s  %.0f %s  %.1f kcal  %s\n", check(mf.Eaten), name, mf.ServingSize, mf.ServingUnit, mf.Nutrients.Calories, Muted(mf.ID))
	}
	return b.String()
}

// RenderMealSummary renders a per-meal nutrition summary.
func RenderMealSummary(s nutrition.MealSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n", check(s.Eaten), s.TargetTime, Title(s.Name))
	fmt.Fprintf(&b, "  calories: %.1f / %.0f (%.1f%%), %.1f remaining\n", s.Actual.Calories, s.Target.Calories, s.Progress.Percentage, s.Progress.Remaining)
	fmt.Fprintf(&b, "  protein %.1f/%.0fg  carbs %.1f/%.0fg  fat %.1f/%.0fg\n",
		s.Actual.Protein, s.Target.Protein, s.Actual.Carbs, s.Target.Carbs, s.Actual.Fat, s.Target.Fat)
	if s.OnTime != nil && !*s.OnTime {
		fmt.Fprintln(&b, "  "+Warning("eaten after the target time"))
	}
	for _, f := range s.Foods {
		fmt.Fprintf(&b, "    %s %s  %.0f %s  %.1f kcal\n", check(f.Eaten), f.Name, f.ServingSize, f.ServingUnit, f.Nutrients.Calories)
	}
	return b.String()
}

// RenderDaily renders a daily summary.
func RenderDaily(s nutrition.DailySummary) string {
	var b strings.Builder
	fmt.Fprintln(&b, Title("Nutrition for "+s.Date))
	fmt.Fprintf(&b, "calories: %.1f eaten of %.0f, %.1f remaining\n", s.Calories.Eaten, s.Calories.Target, s.Calories.Remaining)
	fmt.Fprintf(&b, "meals: %d/%d eaten (%.1f%%)\n", s.Progress.MealsEaten, s.Progress.TotalMeals, s.Progress.Percentage)
	fmt.Fprintf(&b, "macros: protein %.1fg (%.1f%%)  carbs %.1fg (%.1f%%)  fat %.1fg (%.1f%%)\n",
		s.Macros.Protein.Grams, s.Macros.Protein.Percentage,
		s.Macros.Carbs.Grams, s.Macros.Carbs.Percentage,
		s.Macros.Fat.Grams, s.Macros.Fat.Percentage)

	if len(s.Meals) > 0 {
		rows := make([]string, 0, len(s.Meals))
		for _, m := range s.Meals {
			rows = append(rows, fmt.Sprintf("%s %s  %-18s %7.1f / %5.0f kcal", check(m.Eaten), m.TargetTime, m.Name, m.ActualCalories, m.TargetCalories))
		}
		fmt.Fprintln(&b, boxStyle.Render(strings.Join(rows, "\n")))
	}
	if len(s.Distribution) > 0 {
		fmt.Fprintln(&b, "distribution:")
		for _, d := range s.Distribution {
			fmt.Fprintf(&b, "  %-18s target %5.0f  actual %7.1f  deficit %7.1f\n", d.MealName, d.Target, d.Actual, d.Deficit)
		}
	}
	return b.String()
}

// RenderWeekly renders a range summary with one line per day.
func RenderWeekly(s nutrition.WeeklySummary) string {
	var b strings.Builder
	fmt.Fprintln(&b, Title(fmt.Sprintf("Nutrition %s .. %s", s.StartDate, s.EndDate)))
	fmt.Fprintf(&b, "calories: %.1f eaten of %.0f, %.1f per day\n", s.Calories.Eaten, s.Calories.Target, s.Calories.AverageDaily)
	fmt.Fprintf(&b, "meals: %d/%d eaten (%.1f%%)\n", s.Progress.MealsEaten, s.Progress.TotalMeals, s.Progress.Percentage)
	fmt.Fprintf(&b, "macros: protein %.1fg  carbs %.1fg  fat %.1fg\n", s.Macros.Protein, s.Macros.Carbs, s.Macros.Fat)

	rows := make([]string, 0, len(s.Days))
	for _, d := range s.Days {
		rows = append(rows, fmt.Sprintf("%s  %7.1f / %5.0f kcal  %d/%d meals", d.Date, d.Calories.Eaten, d.Calories.Target, d.Progress.MealsEaten, d.Progress.TotalMeals))
	}
	if len(rows) > 0 {
		fmt.Fprintln(&b, boxStyle.Render(strings.Join(rows, "\n")))
	}
	return b.String()
}

// RenderMealTargets renders per-meal calorie and macro targets.
func RenderMealTargets(targets []nutrition.MealTarget) string {
	rows := make([]string, 0, len(targets))
	for _, t := range targets {
		rows = append(rows, fmt.Sprintf("%-18s %6.2f%%  %5d kcal  P %3.0fg  C %3.0fg  F %3.0fg",
			t.MealName, t.Percentage, t.Calories, t.Protein, t.Carbs, t.Fat))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}
