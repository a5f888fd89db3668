package core

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/schedule"
	"github.com/nervilabs/nervi-backend/internal/store"
)

// ErrMergeContention is returned when the compare-and-swap merge loses the
// version race on every attempt.
var ErrMergeContention = errors.New("schedule merge contention")

const mergeAttempts = 3

// ScheduleStore is the slice of the store the schedule service needs.
type ScheduleStore interface {
	GetMasterSchedule(userID string) (*store.MasterScheduleRow, error)
	InsertMasterSchedule(userID string, sched schedule.MasterSchedule) error
	UpdateMasterScheduleCAS(userID string, expectVersion int, sched schedule.MasterSchedule) error
}

// ScheduleService owns the stored weekly schedule and the merge of parsed
// proposals into it.
type ScheduleService struct {
	schedules ScheduleStore
	logger    *zap.Logger
}

func NewScheduleService(schedules ScheduleStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{schedules: schedules, logger: logger}
}

// Get returns the stored schedule and whether one existed. Callers get the
// default 7-day skeleton when nothing is stored yet, without a write.
func (s *ScheduleService) Get(userID string) (schedule.MasterSchedule, bool, error) {
	row, err := s.schedules.GetMasterSchedule(userID)
	if err != nil {
		return schedule.MasterSchedule{}, false, err
	}
	if row == nil {
		return schedule.New(), false, nil
	}
	return row.Schedule, true, nil
}

// Put replaces the stored schedule wholesale. The write still goes through
// the version guard so a stale client cannot silently clobber a merge.
func (s *ScheduleService) Put(userID string, sched schedule.MasterSchedule) (schedule.MasterSchedule, error) {
	if !sched.Valid() {
		return schedule.MasterSchedule{}, fmt.Errorf("schedule must hold exactly the 7 canonical days")
	}

	row, err := s.schedules.GetMasterSchedule(userID)
	if err != nil {
		return schedule.MasterSchedule{}, err
	}
	if row == nil {
		sched.Version = 1
		if err := s.schedules.InsertMasterSchedule(userID, sched); err != nil {
			return schedule.MasterSchedule{}, err
		}
		return sched, nil
	}

	sched.Version = row.Version + 1
	if err := s.schedules.UpdateMasterScheduleCAS(userID, row.Version, sched); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return schedule.MasterSchedule{}, ErrMergeContention
		}
		return schedule.MasterSchedule{}, err
	}
	return sched, nil
}

// ApplyResult reports what a proposal merge did.
type ApplyResult struct {
	Schedule     schedule.MasterSchedule `json:"schedule"`
	Added        int                     `json:"added"`
	Unrecognized []string                `json:"unrecognized"`
}

// ApplyReply parses a companion reply and merges any proposed additions
// into the stored schedule.
func (s *ScheduleService) ApplyReply(userID, replyText string) (*ApplyResult, error) {
	proposal := schedule.ExtractProposal(replyText)
	return s.ApplyProposal(userID, proposal)
}

// ApplyProposal folds the proposal into the stored schedule with a
// read-merge-write loop guarded by the schedule version. A concurrent
// writer costs a retry, not a lost update. Merging the same proposal
// against an unchanged schedule a second time adds nothing.
func (s *ScheduleService) ApplyProposal(userID string, proposal schedule.Proposal) (*ApplyResult, error) {
	if proposal.Empty() {
		current, _, err := s.Get(userID)
		if err != nil {
			return nil, err
		}
		return &ApplyResult{Schedule: current, Unrecognized: proposal.Unrecognized}, nil
	}

	for attempt := 0; attempt < mergeAttempts; attempt++ {
		row, err := s.schedules.GetMasterSchedule(userID)
		if err != nil {
			return nil, err
		}

		if row == nil {
			merged, added := schedule.Merge(schedule.New(), proposal)
			if err := s.schedules.InsertMasterSchedule(userID, merged); err != nil {
				// A concurrent first write surfaces as an insert failure;
				// loop back around and merge into whatever won.
				s.logger.Debug("first schedule write contended", zap.String("user_id", userID), zap.Error(err))
				continue
			}
			return &ApplyResult{Schedule: merged, Added: added, Unrecognized: proposal.Unrecognized}, nil
		}

		merged, added := schedule.Merge(row.Schedule, proposal)
		if added == 0 {
			return &ApplyResult{Schedule: row.Schedule, Unrecognized: proposal.Unrecognized}, nil
		}

		merged.Version = row.Version + 1
		err = s.schedules.UpdateMasterScheduleCAS(userID, row.Version, merged)
		if err == nil {
			return &ApplyResult{Schedule: merged, Added: added, Unrecognized: proposal.Unrecognized}, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, err
		}
		s.logger.Debug("schedule merge retry after version conflict",
			zap.String("user_id", userID),
			zap.Int("attempt", attempt+1))
	}

	return nil, ErrMergeContention
}
