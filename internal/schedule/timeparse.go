package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

// NoTime is returned by MinutesFromLine when a line carries no time token.
// It sorts after every real minute of the day.
const NoTime = 1 << 30

var timeTokenRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)

// MinutesFromLine finds the first time token in a free-text schedule line
// and returns it as minutes since midnight, or NoTime when absent. Times
// written with AM/PM follow 12-hour rules (12 AM is midnight, PM adds 12
// except at 12). A bare hour with no meridiem is read as written on a
// 24-hour clock, clamped to [0,23].
func MinutesFromLine(line string) int {
	m := timeTokenRe.FindStringSubmatch(line)
	if m == nil {
		return NoTime
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return NoTime
	}
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return NoTime
	}

	switch strings.ToLower(m[3]) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	default:
		if hour < 0 {
			hour = 0
		}
		if hour > 23 {
			hour = 23
		}
	}

	if hour > 23 {
		return NoTime
	}
	return hour*60 + minute
}

// DueWithin reports whether the line's time token falls inside the window
// [now, now+windowMinutes]. Lines without a time token are never due.
func DueWithin(line string, nowMinutes, windowMinutes int) bool {
	slot := MinutesFromLine(line)
	if slot == NoTime {
		return false
	}
	return nowMinutes <= slot && slot <= nowMinutes+windowMinutes
}
