package domain

import (
	"fmt"
	"time"
)

// All scheduling math works in naive local business time: dates are plain
// "2006-01-02" strings and clock values are minutes since midnight.

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// SlotGridMinutes is the fixed quantization of bookable start times,
	// anchored at each day's opening time.
	SlotGridMinutes = 15
)

var dayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DayOfWeek maps a date to the 0-based weekday used by BusinessHours,
// Monday=0..Sunday=6.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DayName returns the English weekday name for a BusinessHours day index.
func DayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ""
	}
	return dayNames[dayOfWeek]
}

// ParseClock converts a 24-hour "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether two half-open minute intervals intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return !(aEnd <= bStart || aStart >= bEnd)
}
