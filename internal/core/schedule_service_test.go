package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/schedule"
	"github.com/nervilabs/nervi-backend/internal/store"
)

// fakeScheduleStore keeps one row in memory and can inject version
// conflicts to exercise the retry loop.
type fakeScheduleStore struct {
	row           *store.MasterScheduleRow
	conflictsLeft int
	updateCalls   int
}

func (f *fakeScheduleStore) GetMasterSchedule(userID string) (*store.MasterScheduleRow, error) {
	if f.row == nil {
		return nil, nil
	}
	copied := *f.row
	return &copied, nil
}

func (f *fakeScheduleStore) InsertMasterSchedule(userID string, sched schedule.MasterSchedule) error {
	f.row = &store.MasterScheduleRow{UserID: userID, Version: sched.Version, Schedule: sched}
	return nil
}

func (f *fakeScheduleStore) UpdateMasterScheduleCAS(userID string, expectVersion int, sched schedule.MasterSchedule) error {
	f.updateCalls++
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		// Simulate a concurrent writer winning the race.
		f.row.Version++
		f.row.Schedule.Version = f.row.Version
		return store.ErrConflict
	}
	if f.row == nil || f.row.Version != expectVersion {
		return store.ErrConflict
	}
	f.row = &store.MasterScheduleRow{UserID: userID, Version: sched.Version, Schedule: sched}
	return nil
}

func proposalFor(day string, items ...string) schedule.Proposal {
	return schedule.Proposal{Additions: map[string][]string{day: items}}
}

func TestApplyProposalCreatesScheduleOnFirstWrite(t *testing.T) {
	f := &fakeScheduleStore{}
	svc := NewScheduleService(f, zap.NewNop())

	result, err := svc.ApplyProposal("u1", proposalFor("mon", "7am walk"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	require.NotNil(t, f.row)
	assert.Equal(t, []string{"7am walk"}, f.row.Schedule.Days[0].Blocks)
}

func TestApplyProposalIsIdempotent(t *testing.T) {
	f := &fakeScheduleStore{}
	svc := NewScheduleService(f, zap.NewNop())
	p := proposalFor("wed", "box breathing")

	first, err := svc.ApplyProposal("u1", p)
	require.NoError(t, err)
	require.Equal(t, 1, first.Added)
	versionAfterFirst := f.row.Version

	second, err := svc.ApplyProposal("u1", p)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Added)
	// No write happened the second time.
	assert.Equal(t, versionAfterFirst, f.row.Version)
	assert.Equal(t, []string{"box breathing"}, f.row.Schedule.Days[2].Blocks)
}

func TestApplyProposalRetriesThroughVersionConflict(t *testing.T) {
	f := &fakeScheduleStore{conflictsLeft: 2}
	require.NoError(t, f.InsertMasterSchedule("u1", schedule.New()))
	svc := NewScheduleService(f, zap.NewNop())

	result, err := svc.ApplyProposal("u1", proposalFor("fri", "call a friend"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 3, f.updateCalls)
	assert.Contains(t, f.row.Schedule.Days[4].Blocks, "call a friend")
}

func TestApplyProposalGivesUpAfterSustainedContention(t *testing.T) {
	f := &fakeScheduleStore{conflictsLeft: 10}
	require.NoError(t, f.InsertMasterSchedule("u1", schedule.New()))
	svc := NewScheduleService(f, zap.NewNop())

	_, err := svc.ApplyProposal("u1", proposalFor("fri", "call a friend"))
	assert.ErrorIs(t, err, ErrMergeContention)
}

func TestApplyReplyParsesAndMerges(t *testing.T) {
	f := &fakeScheduleStore{}
	svc := NewScheduleService(f, zap.NewNop())

	reply := "Let's keep this light.\n\nProposed additions to your schedule\n" +
		"Mon – 7am walk\nDaily – drink water\nSomeday – rest\n"

	result, err := svc.ApplyReply("u1", reply)
	require.NoError(t, err)
	assert.Equal(t, 8, result.Added) // 1 for mon + 7 daily
	assert.Equal(t, []string{"Someday"}, result.Unrecognized)
	assert.Equal(t, []string{"7am walk", "drink water"}, f.row.Schedule.Days[0].Blocks)
}

func TestGetReturnsSkeletonWithoutWrite(t *testing.T) {
	f := &fakeScheduleStore{}
	svc := NewScheduleService(f, zap.NewNop())

	sched, exists, err := svc.Get("u1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Len(t, sched.Days, 7)
	assert.Nil(t, f.row)
}

func TestPutRejectsMalformedWeek(t *testing.T) {
	svc := NewScheduleService(&fakeScheduleStore{}, zap.NewNop())

	bad := schedule.New()
	bad.Days = bad.Days[:6]
	_, err := svc.Put("u1", bad)
	assert.Error(t, err)
}

func TestPutBumpsVersion(t *testing.T) {
	f := &fakeScheduleStore{}
	svc := NewScheduleService(f, zap.NewNop())

	first, err := svc.Put("u1", schedule.New())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)

	updated := first
	updated.Days[0].Blocks = []string{"7:00 AM walk"}
	second, err := svc.Put("u1", updated)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
}
