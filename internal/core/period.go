package core

import (
	"strconv"
	"time"
)

// PeriodKey derives the budget bucket key for a point in time. The key is
// "YYYY-M" with no zero padding on the month ("2026-8", "2026-12"), matching
// the document keys already in production. Each new calendar month starts a
// fresh, zero-initialized bucket on first access; there is no rollover or
// archival step.
func PeriodKey(t time.Time) string {
	return strconv.Itoa(t.Year()) + "-" + strconv.Itoa(int(t.Month()))
}

// CurrentPeriod returns the key for the current calendar month.
func CurrentPeriod() string {
	return PeriodKey(time.Now())
}
