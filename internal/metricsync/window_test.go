package metricsync

import (
	"testing"
	"time"
)

func TestWindowsYearBoundary(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	windows := Windows(now, 12)

	if len(windows) != 12 {
		t.Fatalf("len = %d, want 12", len(windows))
	}
	if got := windows[0].Month(); got != "2023-02" {
		t.Fatalf("first month = %s, want 2023-02", got)
	}
	if got := windows[11].Month(); got != "2024-01" {
		t.Fatalf("last month = %s, want 2024-01", got)
	}
}

func TestWindowsContiguousAndOrdered(t *testing.T) {
	for _, now := range []time.Time{
		time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	} {
		windows := Windows(now, 12)
		for i := 1; i < len(windows); i++ {
			if !windows[i].Start.After(windows[i-1].End) {
				t.Fatalf("now=%v: window %d overlaps previous", now, i)
			}
			if windows[i].Start.Sub(windows[i-1].End) != time.Nanosecond {
				t.Fatalf("now=%v: gap between windows %d and %d", now, i-1, i)
			}
		}

		last := windows[len(windows)-1]
		wantEnd := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
		if !last.End.Equal(wantEnd) {
			t.Fatalf("now=%v: last end = %v, want %v", now, last.End, wantEnd)
		}
	}
}

func TestWindowContains(t *testing.T) {
	w := Windows(time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), 1)[0]

	if !w.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("first day excluded")
	}
	if !w.Contains(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)) {
		t.Fatal("leap day excluded")
	}
	if w.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("next month included")
	}
	if w.Contains(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)) {
		t.Fatal("previous month included")
	}
}
