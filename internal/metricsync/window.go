// Package metricsync derives monthly metrics from the billing ledger and
// reconciles them into the metrics store.
package metricsync

import (
	"time"

	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
)

// Window is one calendar month, [Start, End] inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// Month returns the window's canonical YYYY-MM key.
func (w Window) Month() string {
	return w.Start.Format(metricsdomain.MonthFormat)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Windows returns n consecutive calendar-month windows ending at now's month,
// oldest first. time.Date normalizes out-of-range months, so the arithmetic
// rolls over year boundaries.
func Windows(now time.Time, n int) []Window {
	now = now.UTC()
	windows := make([]Window, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		windows = append(windows, Window{Start: start, End: end})
	}
	return windows
}
