package domain

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := map[float64]string{
		45:   "45s",
		59.9: "59s",
		720:  "12m",
		7200: "2h",
		9000: "2h 30m",
	}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := map[float64]string{
		850:   "850 m",
		999.9: "999 m",
		1000:  "1.0 km",
		5200:  "5.2 km",
	}
	for in, want := range tests {
		if got := FormatDistance(in); got != want {
			t.Errorf("FormatDistance(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTimePeriod(t *testing.T) {
	tests := map[int]string{
		5: "morning", 11: "morning",
		12: "afternoon", 16: "afternoon",
		17: "evening", 20: "evening",
		21: "night", 0: "night", 4: "night",
	}
	for hour, want := range tests {
		at := time.Date(2026, 3, 4, hour, 0, 0, 0, time.UTC)
		if got := TimePeriod(at); got != want {
			t.Errorf("TimePeriod(%02d:00) = %q, want %q", hour, got, want)
		}
	}
}

func TestIsPeakHour(t *testing.T) {
	wednesday := func(h int) time.Time { return time.Date(2026, 3, 4, h, 30, 0, 0, time.UTC) }
	saturday := time.Date(2026, 3, 7, 8, 0, 0, 0, time.UTC)

	for _, h := range []int{7, 9, 17, 19} {
		if !IsPeakHour(wednesday(h)) {
			t.Errorf("IsPeakHour(Wed %d:30) = false, want true", h)
		}
	}
	for _, h := range []int{6, 10, 16, 20} {
		if IsPeakHour(wednesday(h)) {
			t.Errorf("IsPeakHour(Wed %d:30) = true, want false", h)
		}
	}
	if IsPeakHour(saturday) {
		t.Error("IsPeakHour(Sat 08:00) = true, want false")
	}
}
