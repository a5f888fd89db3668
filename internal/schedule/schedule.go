// Package schedule holds the pure parsing and merge logic behind the
// master-schedule feature: time-token parsing, day-key normalization,
// extraction of proposed additions from a companion reply, and the
// dedup/merge rules for folding those additions into a stored week.
package schedule

// DayKeys lists the canonical week in stored order, Monday first.
var DayKeys = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var dayLabels = map[string]string{
	"mon": "Monday",
	"tue": "Tuesday",
	"wed": "Wednesday",
	"thu": "Thursday",
	"fri": "Friday",
	"sat": "Saturday",
	"sun": "Sunday",
}

// Day is one day of a master schedule. Blocks are free-text lines,
// optionally prefixed with a time token like "7:30 AM".
type Day struct {
	Key    string   `json:"key"`
	Label  string   `json:"label"`
	Blocks []string `json:"blocks"`
}

// MasterSchedule is the persisted weekly schedule. Version counts writes
// and guards the read-modify-write cycle against concurrent mergers.
// Invariant: exactly 7 days with unique canonical keys.
type MasterSchedule struct {
	Version int   `json:"version"`
	Days    []Day `json:"days"`
}

// New returns an empty 7-day schedule at version 1.
func New() MasterSchedule {
	days := make([]Day, 0, len(DayKeys))
	for _, key := range DayKeys {
		days = append(days, Day{Key: key, Label: dayLabels[key], Blocks: []string{}})
	}
	return MasterSchedule{Version: 1, Days: days}
}

// Valid reports whether s holds exactly the 7 canonical days, each key
// appearing once.
func (s MasterSchedule) Valid() bool {
	if len(s.Days) != 7 {
		return false
	}
	seen := make(map[string]bool, 7)
	for _, d := range s.Days {
		key := NormalizeDayKey(d.Key)
		if key == "" || seen[key] {
			return false
		}
		seen[key] = true
	}
	return true
}

// dedup returns items with exact-string duplicates removed, preserving
// first-seen order.
func dedup(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
