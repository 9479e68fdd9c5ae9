package utils

import "time"

// cache key windows roll over every minute, so a cached listing cannot keep
// serving an event past its start time beyond the window boundary
const upcomingKeyWindow = time.Minute

// BuildUpcomingEventsCacheKey names the cached upcoming-events listing. The
// zone is part of the key because the cached body contains rendered local
// times; now is truncated into the key so every window takes a fresh read.
func BuildUpcomingEventsCacheKey(tz string, now time.Time) string {
	return "events:upcoming:v1:tz=" + tz + ":t=" + now.UTC().Truncate(upcomingKeyWindow).Format(time.RFC3339)
}
