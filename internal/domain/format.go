package domain

import (
	"fmt"
	"time"
)

// FormatDuration renders seconds as "45s", "12m", "2h" or "2h 30m".
func FormatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", int(seconds))
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", int(minutes))
	}

	hours := int(minutes / 60)
	rem := int(minutes) % 60
	if rem == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rem)
}

// FormatDistance renders meters as "850 m" or "5.2 km".
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(meters))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// TimePeriod buckets the hour of t into morning, afternoon, evening or night.
func TimePeriod(t time.Time) string {
	h := t.Hour()
	switch {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 21:
		return "evening"
	default:
		return "night"
	}
}

// IsPeakHour reports weekday rush hours (7-9 and 17-19, inclusive).
func IsPeakHour(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	h := t.Hour()
	return (h >= 7 && h <= 9) || (h >= 17 && h <= 19)
}
