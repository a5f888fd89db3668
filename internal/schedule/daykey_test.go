package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDayKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mon", "mon"},
		{"monday", "mon"},
		{"WEDNESDAY", "wed"},
		{"Wed", "wed"},
		{"  thu ", "thu"},
		{"Su", ""},
		{"holiday", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDayKey(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeDayShort(t *testing.T) {
	assert.Equal(t, "wed", NormalizeDayShort("Wednesday", ""))
	assert.Equal(t, "tue", NormalizeDayShort("tue", "whatever"))

	// The label fallback requires the label to be a day word on its own.
	assert.Equal(t, "", NormalizeDayShort("", "Mon - gym"))
	assert.Equal(t, "mon", NormalizeDayShort("", "Monday"))
	assert.Equal(t, "", NormalizeDayShort("", ""))
}

func TestTodayKey(t *testing.T) {
	// 2026-08-29 is a Saturday.
	assert.Equal(t, "sat", TodayKey(time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "sun", TodayKey(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)))
}
