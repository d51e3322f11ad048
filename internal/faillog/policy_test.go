package faillog

import (
	"testing"
	"time"
)

func TestFrequentExactlyThresholdWithinHour(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var failures []time.Time
	for i := 5; i >= 1; i-- {
		failures = append(failures, now.Add(-time.Duration(i)*10*time.Minute))
	}
	if !Frequent(failures, 5, now) {
		t.Fatal("5 failures within the hour should be frequent")
	}
}

func TestFrequentBelowThreshold(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var failures []time.Time
	for i := 4; i >= 1; i-- {
		failures = append(failures, now.Add(-time.Duration(i)*time.Minute))
	}
	if Frequent(failures, 5, now) {
		t.Fatal("4 failures must not be frequent at threshold 5")
	}
}

func TestFrequentOldestOfClusterOutsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	failures := []time.Time{
		now.Add(-61 * time.Minute), // oldest of the most recent 5
		now.Add(-40 * time.Minute),
		now.Add(-30 * time.Minute),
		now.Add(-20 * time.Minute),
		now.Add(-10 * time.Minute),
	}
	if Frequent(failures, 5, now) {
		t.Fatal("cluster straddling the window must not be frequent")
	}
}

func TestFrequentLongHistoryRecentCluster(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var failures []time.Time
	// Old noise from days ago, then a fresh cluster.
	for i := 0; i < 10; i++ {
		failures = append(failures, now.Add(-48*time.Hour).Add(time.Duration(i)*time.Minute))
	}
	for i := 5; i >= 1; i-- {
		failures = append(failures, now.Add(-time.Duration(i)*time.Minute))
	}
	if !Frequent(failures, 5, now) {
		t.Fatal("recent cluster of 5 should be frequent regardless of old history")
	}
}

func TestFrequentZeroThreshold(t *testing.T) {
	now := time.Now()
	if Frequent([]time.Time{now}, 0, now) {
		t.Fatal("non-positive threshold must never be frequent")
	}
}

func TestCountSince(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	failures := []time.Time{
		now.Add(-2 * time.Hour),
		now.Add(-50 * time.Minute),
		now.Add(-10 * time.Minute),
		now, // boundary is inclusive
	}
	if got := CountSince(failures, now.Add(-time.Hour)); got != 3 {
		t.Fatalf("expected 3 failures in the last hour, got %d", got)
	}
	if got := CountSince(failures, now); got != 1 {
		t.Fatalf("expected 1 failure at now, got %d", got)
	}
}

func TestStartOfLocalDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	ts := time.Date(2026, 3, 1, 18, 45, 12, 999, loc)
	got := StartOfLocalDay(ts)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got.Location() != loc {
		t.Fatalf("location not preserved: %v", got.Location())
	}
}
