package redis

import (
	"fmt"
	"time"
)

const ns = "bookgo:v1"

func KeyAvailableDates(year, month int) string {
	return fmt.Sprintf("%s:calendar:%04d-%02d:available", ns, year, month)
}

func KeyDashboardStats() string {
	return ns + ":dashboard:stats"
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelCalendarChanged() string {
	return ns + ":calendar:changed"
}

// MonthOf returns the (year, month) pair a date belongs to, for cache
// invalidation keyed per month.
func MonthOf(date time.Time) (int, int) {
	return date.Year(), int(date.Month())
}
