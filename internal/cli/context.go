package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/models"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/planner"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/storage"
	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Ctx     context.Context
	Store   storage.Provider
	Planner *planner.Planner
	Owner   string
}

// ParseDate accepts YYYY-MM-DD or one of today, yesterday and tomorrow.
func ParseDate(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	}
	t, err := utils.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD or 'today'", s)
	}
	return t, nil
}

// DateString is ParseDate formatted back to YYYY-MM-DD.
func DateString(s string, now time.Time) (string, error) {
	t, err := ParseDate(s, now)
	if err != nil {
		return "", err
	}
	return t.Format(constants.DateFormat), nil
}

// ParseDistribution parses entries of the form "Breakfast=25".
func ParseDistribution(specs []string) ([]models.DistributionEntry, error) {
	out := make([]models.DistributionEntry, 0, len(specs))
	for _, spec := range specs {
		name, pct, ok := strings.Cut(spec, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid distribution entry %q, use Name=percentage", spec)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percentage in %q: %w", spec, err)
		}
		out = append(out, models.DistributionEntry{MealName: strings.TrimSpace(name), Percentage: models.Percent(p)})
	}
	return out, nil
}

// Confirm asks a yes/no question. It returns true without asking when yes
// is already set.
func Confirm(title string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeBase()).Run()
	if err != nil {
		return false, fmt.Errorf("interactive form error: %w", err)
	}
	return ok, nil
}
