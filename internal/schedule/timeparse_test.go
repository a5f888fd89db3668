package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinutesFromLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int
	}{
		{"evening 12-hour", "7:30 PM – wind-down stretch", 19*60 + 30},
		{"midnight", "12:00 AM – lights out", 0},
		{"noon", "12:00 PM lunch away from desk", 12 * 60},
		{"morning", "7:00 AM walk", 7 * 60},
		{"lowercase meridiem", "9:15 pm journaling", 21*60 + 15},
		{"no minutes", "3 PM tea break", 15 * 60},
		{"24-hour no meridiem", "14:30 focus block", 14*60 + 30},
		{"bare hour stays as written", "3 breathing reps", 3 * 60},
		{"no time at all", "no time here", NoTime},
		{"empty", "", NoTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinutesFromLine(tt.line))
		})
	}
}

func TestDueWithin(t *testing.T) {
	// 9:00 AM slot, clock at 8:50, 15-minute window.
	assert.True(t, DueWithin("9:00 AM check-in", 8*60+50, 15))
	// Already past.
	assert.False(t, DueWithin("9:00 AM check-in", 9*60+1, 15))
	// Too far out.
	assert.False(t, DueWithin("9:30 AM check-in", 8*60+50, 15))
	// Untimed lines are never due.
	assert.False(t, DueWithin("drink water", 8*60+50, 15))
}
