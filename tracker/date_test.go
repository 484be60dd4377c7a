package tracker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ghostmode/ninety/tracker"
)

// =============================================================================
// DATE
// =============================================================================

func TestParseDateRoundTrips(t *testing.T) {
	d, err := tracker.ParseDate("2026-01-13")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.String() != "2026-01-13" {
		t.Errorf("round trip: got %q", d.String())
	}
	if !d.Equal(tracker.NewDate(2026, time.January, 13)) {
		t.Error("parsed date does not equal constructed date")
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := tracker.ParseDate("13/01/2026"); err == nil {
		t.Error("expected an error for a non-canonical format")
	}
}

func TestDaysUntilRoundsUp(t *testing.T) {
	d := tracker.NewDate(2026, time.March, 5)

	cases := []struct {
		at   time.Time
		want int
	}{
		{d.Time, 0},
		{d.Time.Add(1 * time.Hour), 1},
		{d.Time.AddDate(0, 0, 10), 10},
		{d.Time.AddDate(0, 0, 10).Add(time.Minute), 11},
		{d.Time.AddDate(0, 0, -3), 3}, // absolute distance
	}

	for _, tc := range cases {
		if got := d.DaysUntil(tc.at); got != tc.want {
			t.Errorf("DaysUntil(%s) = %d, want %d", tc.at, got, tc.want)
		}
	}
}

func TestDateOfDropsTimeOfDay(t *testing.T) {
	at := time.Date(2026, time.March, 5, 23, 59, 59, 0, time.UTC)
	if got := tracker.DateOf(at).String(); got != "2026-03-05" {
		t.Errorf("DateOf = %q", got)
	}
}

// =============================================================================
// OPTIMISTIC MUTATION
// =============================================================================

func TestOptimisticResolve(t *testing.T) {
	mut := tracker.Apply(false, true)

	if got := mut.Resolve(nil); got != true {
		t.Error("expected tentative value on success")
	}
	if got := mut.Resolve(errors.New("disk full")); got != false {
		t.Error("expected prior value on failure")
	}
}

func TestOptimisticResolveStrings(t *testing.T) {
	mut := tracker.Apply("Not Started", "Completed")

	if got := mut.Resolve(nil); got != "Completed" {
		t.Errorf("expected tentative, got %q", got)
	}
	if got := mut.Resolve(errors.New("x")); got != "Not Started" {
		t.Errorf("expected prior, got %q", got)
	}
}
