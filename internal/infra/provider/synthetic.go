package provider

import (
	"time"
)

// Seed derives a stable non-negative integer from a URL by summing its
// character codes. All synthetic (demo) numbers are functions of this seed
// composed with fixed ranges, so the same URL always yields the same fake
// metrics. Never use a true random source here: demo repeatability is a
// tested property.
func Seed(url string) int64 {
	var sum int64
	for _, r := range url {
		sum += int64(r)
	}
	return sum
}

// PublishedDaysAgo returns a publish timestamp seed%mod days in the past,
// truncated to day granularity so repeated calls within a day agree.
func PublishedDaysAgo(seed, mod int64) time.Time {
	days := int(seed % mod)
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -days)
}
