package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proposalWith(day string, items ...string) Proposal {
	p := Proposal{Additions: map[string][]string{}}
	p.Additions[day] = items
	return p
}

func TestMergeAppendsAfterExisting(t *testing.T) {
	s := New()
	s.Days[0].Blocks = []string{"7:00 AM walk"}

	merged, added := Merge(s, proposalWith("mon", "9:00 PM journaling"))

	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"7:00 AM walk", "9:00 PM journaling"}, merged.Days[0].Blocks)
	// The input schedule is left alone.
	assert.Equal(t, []string{"7:00 AM walk"}, s.Days[0].Blocks)
}

func TestMergeIsIdempotentForUnchangedInput(t *testing.T) {
	s := New()
	p := proposalWith("wed", "box breathing", "7:30 PM wind-down")

	once, added := Merge(s, p)
	require.Equal(t, 2, added)

	twice, added := Merge(once, p)
	assert.Equal(t, 0, added)
	assert.Equal(t, once.Days, twice.Days)
}

func TestMergeResolvesDayFromLabel(t *testing.T) {
	s := New()
	s.Days[4].Key = "" // stored row with a missing key but a clean label
	s.Days[4].Label = "Friday"

	merged, added := Merge(s, proposalWith("fri", "call a friend"))

	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"call a friend"}, merged.Days[4].Blocks)
}

func TestMergeSkipsUnresolvableDays(t *testing.T) {
	s := New()
	s.Days[2].Key = "someday"
	s.Days[2].Label = "Wed - errands"

	_, added := Merge(s, proposalWith("wed", "box breathing"))
	assert.Equal(t, 0, added)
}

func TestSortDayBlocks(t *testing.T) {
	blocks := []string{"untimed reflection", "7:30 PM wind-down", "7:00 AM walk"}
	sorted := SortDayBlocks(blocks)
	assert.Equal(t, []string{"7:00 AM walk", "7:30 PM wind-down", "untimed reflection"}, sorted)
}

func TestNewScheduleShape(t *testing.T) {
	s := New()
	require.Len(t, s.Days, 7)
	assert.True(t, s.Valid())
	assert.Equal(t, 1, s.Version)
	assert.Equal(t, "mon", s.Days[0].Key)
	assert.Equal(t, "sun", s.Days[6].Key)
}
