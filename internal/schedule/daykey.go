package schedule

import (
	"strings"
	"time"
)

// NormalizeDayKey maps a day key or label ("Mon", "monday", "WED") to its
// canonical 3-letter key by case-insensitive prefix match, or "" when the
// value does not name a day.
func NormalizeDayKey(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if len(v) < 3 {
		return ""
	}
	for _, key := range DayKeys {
		if strings.HasPrefix(v, key) {
			return key
		}
	}
	return ""
}

// NormalizeDayShort resolves a stored day entry to its canonical key,
// preferring the key field and falling back to the label. The label only
// counts when it itself starts with a day token; "Mon - gym" in a label
// is not a day name.
func NormalizeDayShort(key, label string) string {
	if k := NormalizeDayKey(key); k != "" {
		return k
	}
	trimmed := strings.TrimSpace(label)
	// The whole label must be a day word; "Mon - gym" does not count.
	if strings.ContainsAny(trimmed, " \t-–") {
		return ""
	}
	return NormalizeDayKey(trimmed)
}

// TodayKey returns the canonical key for t's weekday.
func TodayKey(t time.Time) string {
	return strings.ToLower(t.Weekday().String()[:3])
}
