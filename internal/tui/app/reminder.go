package app

import (
	"fmt"
	"strings"
	"time"
)

// ParseReminder reads the reminder prompt. It accepts a clock time today
// ("15:04"), a date and time ("2006-01-02 15:04") or an offset from now
// ("+10m", "90s"). Clock times already past are moved to the next day by
// the editor.
func ParseReminder(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("enter a time like 15:04 or +10m")
	}

	if d, err := time.ParseDuration(strings.TrimPrefix(s, "+")); err == nil {
		if d <= 0 {
			return time.Time{}, fmt.Errorf("offset must be positive")
		}
		return now.Add(d), nil
	}

	loc := now.Location()
	if t, err := time.ParseInLocation("15:04", s, loc); err == nil {
		y, m, d := now.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
