package core

import (
	"fmt"
	"time"

	"github.com/nervilabs/nervi-backend/internal/store"
)

// JournalStore is the slice of the store the journal needs.
type JournalStore interface {
	CreateNote(note *store.Note) error
	ListNotesSince(userID string, since time.Time) ([]store.Note, error)
	DeleteNote(userID, noteID string) error
	CreateCheckIn(checkIn *store.CheckIn) error
	ListCheckInsSince(userID string, since time.Time) ([]store.CheckIn, error)
}

// JournalService covers notes and check-ins, the raw material the
// daily-read heuristics work from.
type JournalService struct {
	journal JournalStore
}

func NewJournalService(journal JournalStore) *JournalService {
	return &JournalService{journal: journal}
}

func (s *JournalService) CreateNote(userID, feeling, activity, content string) (*store.Note, error) {
	if feeling == "" && content == "" {
		return nil, fmt.Errorf("a note needs a feeling or some content")
	}
	note := &store.Note{
		UserID:   userID,
		Feeling:  feeling,
		Activity: activity,
		Content:  content,
	}
	if err := s.journal.CreateNote(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *JournalService) ListNotes(userID string, windowDays int) ([]store.Note, error) {
	if windowDays <= 0 || windowDays > 90 {
		windowDays = 14
	}
	return s.journal.ListNotesSince(userID, time.Now().AddDate(0, 0, -windowDays))
}

func (s *JournalService) DeleteNote(userID, noteID string) error {
	return s.journal.DeleteNote(userID, noteID)
}

var validSleepQualities = map[string]bool{"poor": true, "fair": true, "good": true}

func (s *JournalService) CreateCheckIn(userID, sleepQuality, mood string) (*store.CheckIn, error) {
	if !validSleepQualities[sleepQuality] {
		return nil, fmt.Errorf("sleep_quality must be poor, fair, or good")
	}
	checkIn := &store.CheckIn{
		UserID:       userID,
		SleepQuality: sleepQuality,
		Mood:         mood,
	}
	if err := s.journal.CreateCheckIn(checkIn); err != nil {
		return nil, err
	}
	return checkIn, nil
}

func (s *JournalService) ListCheckIns(userID string, windowDays int) ([]store.CheckIn, error) {
	if windowDays <= 0 || windowDays > 90 {
		windowDays = 7
	}
	return s.journal.ListCheckInsSince(userID, time.Now().AddDate(0, 0, -windowDays))
}
