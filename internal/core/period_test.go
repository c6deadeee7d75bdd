package core

import (
	"testing"
	"time"
)

func TestPeriodKey(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC), "2026-8"},
		{time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), "2026-1"},
		{time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC), "2025-12"},
		{time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC), "2026-10"},
	}
	for _, tt := range tests {
		if got := PeriodKey(tt.date); got != tt.want {
			t.Errorf("PeriodKey(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}
