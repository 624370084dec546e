package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitquest/internal/constants"
)

// DayKey returns the canonical YYYY-MM-DD key for t in t's own location.
// Two instants on the same local calendar day always share a key.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDay parses a day key (YYYY-MM-DD) and returns midnight of that day in loc.
func ParseDay(key string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ValidDayKey reports whether key is a well-formed YYYY-MM-DD day.
func ValidDayKey(key string) bool {
	_, err := time.Parse(constants.DateFormat, key)
	return err == nil
}

// StartOfDay returns midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days. AddDate keeps wall-clock midnight across
// DST transitions, unlike adding 24h durations.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// WeekStart returns Monday 00:00 of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return AddDays(day, -offset)
}

// WeekDates returns the seven consecutive days starting at start.
func WeekDates(start time.Time) []time.Time {
	start = StartOfDay(start)
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = AddDays(start, i)
	}
	return dates
}

// MonthStart returns midnight of the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthEnd returns midnight of the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return AddDays(MonthStart(t).AddDate(0, 1, 0), -1)
}

// YearStart returns midnight of January 1st of year in loc.
func YearStart(year int, loc *time.Location) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
}

// Season names the meteorological seasons used by completion badges.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// SeasonBounds returns the first and last day of the season that starts in
// the given year. Winter starts in December and ends in February of year+1.
func SeasonBounds(s Season, year int, loc *time.Location) (time.Time, time.Time, error) {
	var first time.Month
	switch s {
	case Spring:
		first = time.March
	case Summer:
		first = time.June
	case Autumn:
		first = time.September
	case Winter:
		first = time.December
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown season %q", s)
	}
	start := time.Date(year, first, 1, 0, 0, 0, 0, loc)
	end := AddDays(start.AddDate(0, 3, 0), -1)
	return start, end, nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseClock parses an HH:MM string and returns minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
