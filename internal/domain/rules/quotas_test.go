package rules

import (
	"testing"
	"time"
)

func TestTierLimit(t *testing.T) {
	if got := TierLimit(false); got != FreeUploadsPerDay {
		t.Fatalf("unexpected free tier limit: %d", got)
	}
	if got := TierLimit(true); got != ProUploadsPerDay {
		t.Fatalf("unexpected pro tier limit: %d", got)
	}
}

func TestWindowStartIsTrailing24Hours(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	got := WindowStart(now)
	want := time.Date(2026, 3, 13, 15, 9, 26, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected window start: got %s want %s", got.Format(time.RFC3339), want.Format(time.RFC3339))
	}
}

func TestDayKeyUsesTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Minsk")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	utc := time.Date(2026, 2, 8, 21, 30, 0, 0, time.UTC)
	got := DayKey(utc, loc)
	want := "2026-02-09"
	if got != want {
		t.Fatalf("unexpected day key: got %s want %s", got, want)
	}
}

func TestDayKeyDefaultsToUTC(t *testing.T) {
	utc := time.Date(2026, 2, 8, 23, 59, 59, 0, time.UTC)
	got := DayKey(utc, nil)
	want := "2026-02-08"
	if got != want {
		t.Fatalf("unexpected day key: got %s want %s", got, want)
	}
}
