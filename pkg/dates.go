package pkg

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for every day-keyed record.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date. The result is midnight UTC.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w [%s], expected YYYY-MM-DD: %w", ErrInvalidDate, date, err)
	}
	return t, nil
}

// TodayIn returns the calendar date of now as seen in loc.
func TodayIn(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return FormatDate(now.In(loc))
}

// IsAfterDate reports whether date is strictly after reference. Both must be YYYY-MM-DD,
// which makes lexical order equal to calendar order.
func IsAfterDate(date, reference string) bool {
	return date > reference
}

func AddDays(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, days)), nil
}

// MondayIndex returns 0 for Monday through 6 for Sunday.
func MondayIndex(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return (int(t.Weekday()) + 6) % 7, nil
}

// LoadLocation resolves an IANA timezone name, falling back to fallback and then UTC.
func LoadLocation(name string, fallback *time.Location) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if fallback != nil {
		return fallback
	}
	return time.UTC
}
