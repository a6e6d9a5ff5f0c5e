package performance

import (
	"testing"
	"time"
)

func TestWindowsAtMidweek(t *testing.T) {
	// Thursday 2026-03-19 15:04:05.
	at := time.Date(2026, 3, 19, 15, 4, 5, 0, time.UTC)
	w := windowsAt(at)

	if !w.Day.Equal(time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day window = %v", w.Day)
	}
	// Weeks start on Monday, so the week begins on the 16th.
	if !w.Week.Equal(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week window = %v", w.Week)
	}
	if !w.Month.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month window = %v", w.Month)
	}
	if !w.Year.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("year window = %v", w.Year)
	}
}

func TestWindowsAtSundayBelongsToPreviousMonday(t *testing.T) {
	// Sunday 2026-03-22: with Monday week starts, still week of the 16th.
	at := time.Date(2026, 3, 22, 23, 59, 0, 0, time.UTC)
	w := windowsAt(at)

	if !w.Week.Equal(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week window = %v, want Monday the 16th", w.Week)
	}
}

func TestWindowsAtMondayStartsNewWeek(t *testing.T) {
	at := time.Date(2026, 3, 23, 0, 0, 1, 0, time.UTC)
	w := windowsAt(at)

	if !w.Week.Equal(time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week window = %v, want Monday the 23rd", w.Week)
	}
}
