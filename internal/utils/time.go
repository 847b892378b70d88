package utils

import (
	"fmt"
	"time"

	"github.com/Ahmad-Mosha/cyborg-nutrition/internal/constants"
)

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// NormalizeClock parses an HH:MM string and re-formats it zero-padded,
// so "8:05" becomes "08:05". An empty string yields the default meal time.
func NormalizeClock(timeStr string) (string, error) {
	if timeStr == "" {
		return constants.DefaultMealTime, nil
	}
	t, err := time.Parse("15:4", timeStr)
	if err != nil {
		return "", fmt.Errorf("invalid time %q (expected HH:MM): %w", timeStr, err)
	}
	return t.Format(constants.TimeFormat), nil
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseDate parses a date string (YYYY-MM-DD).
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(constants.DateFormat, dateStr)
}

// FormatDate formats t as YYYY-MM-DD in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// DatesBetween returns every date from start to end inclusive as YYYY-MM-DD.
// It returns nil when end is before start.
func DatesBetween(start, end time.Time) []string {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates
}

// OnTime reports whether eatenAt, read as a wall clock in loc, is at or
// before the HH:MM target. A nil loc means time.Local. ok is false when
// either value is missing or unparseable.
func OnTime(eatenAt *time.Time, target string, loc *time.Location) (onTime bool, ok bool) {
	if eatenAt == nil || target == "" {
		return false, false
	}
	targetMin, err := ParseTimeToMinutes(target)
	if err != nil {
		return false, false
	}
	if loc == nil {
		loc = time.Local
	}
	local := eatenAt.In(loc)
	eatenMin := local.Hour()*60 + local.Minute()
	return eatenMin <= targetMin, true
}
