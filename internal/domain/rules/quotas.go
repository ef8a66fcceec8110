package rules

import "time"

const (
	FreeUploadsPerDay   = 10
	ProUploadsPerDay    = 100
	GlobalUploadsPerDay = 1000

	// UploadWindow is the trailing window for per-user upload enforcement.
	// The system-wide cap is keyed by calendar day instead.
	UploadWindow = 24 * time.Hour
)

func TierLimit(isPro bool) int {
	if isPro {
		return ProUploadsPerDay
	}
	return FreeUploadsPerDay
}

func WindowStart(now time.Time) time.Time {
	return now.UTC().Add(-UploadWindow)
}

func DayKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01-02")
}
