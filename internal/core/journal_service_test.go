package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervilabs/nervi-backend/internal/store"
)

type fakeJournalStore struct {
	notes     []store.Note
	checkIns  []store.CheckIn
	lastSince time.Time
}

func (f *fakeJournalStore) CreateNote(note *store.Note) error {
	f.notes = append(f.notes, *note)
	return nil
}

func (f *fakeJournalStore) ListNotesSince(userID string, since time.Time) ([]store.Note, error) {
	f.lastSince = since
	return f.notes, nil
}

func (f *fakeJournalStore) DeleteNote(userID, noteID string) error { return nil }

func (f *fakeJournalStore) CreateCheckIn(checkIn *store.CheckIn) error {
	f.checkIns = append(f.checkIns, *checkIn)
	return nil
}

func (f *fakeJournalStore) ListCheckInsSince(userID string, since time.Time) ([]store.CheckIn, error) {
	f.lastSince = since
	return f.checkIns, nil
}

func TestCreateNoteRequiresFeelingOrContent(t *testing.T) {
	svc := NewJournalService(&fakeJournalStore{})

	_, err := svc.CreateNote("u1", "", "scrolling", "")
	assert.Error(t, err)

	note, err := svc.CreateNote("u1", "anxious", "", "")
	require.NoError(t, err)
	assert.Equal(t, "anxious", note.Feeling)

	note, err = svc.CreateNote("u1", "", "", "long day at work")
	require.NoError(t, err)
	assert.Equal(t, "long day at work", note.Content)
}

func TestCheckInSleepQuality(t *testing.T) {
	svc := NewJournalService(&fakeJournalStore{})

	for _, q := range []string{"poor", "fair", "good"} {
		_, err := svc.CreateCheckIn("u1", q, "ok")
		assert.NoError(t, err, q)
	}

	_, err := svc.CreateCheckIn("u1", "amazing", "ok")
	assert.Error(t, err)
	_, err = svc.CreateCheckIn("u1", "", "ok")
	assert.Error(t, err)
}

func TestListWindowsClampToDefaults(t *testing.T) {
	fake := &fakeJournalStore{}
	svc := NewJournalService(fake)

	_, err := svc.ListNotes("u1", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -14), fake.lastSince, time.Minute)

	_, err = svc.ListNotes("u1", 365)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -14), fake.lastSince, time.Minute)

	_, err = svc.ListCheckIns("u1", -1)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), fake.lastSince, time.Minute)
}

func TestTriggerCreateValidation(t *testing.T) {
	svc := NewTriggerService(&fakeTriggerStore{})

	_, err := svc.Create("u1", "habit", "doomscrolling", nil)
	assert.Error(t, err)

	_, err = svc.Create("u1", store.TypeTrigger, "", nil)
	assert.Error(t, err)

	item, err := svc.Create("u1", store.TypeBuffer, "evening walk", []string{"after dinner"})
	require.NoError(t, err)
	assert.Equal(t, store.TypeBuffer, item.Type)

	_, err = svc.List("u1", "neither")
	assert.Error(t, err)
}

type fakeTriggerStore struct {
	items []store.TriggerBuffer
}

func (f *fakeTriggerStore) ListTriggerBuffers(userID, typ string) ([]store.TriggerBuffer, error) {
	return f.items, nil
}

func (f *fakeTriggerStore) CreateTriggerBuffer(item *store.TriggerBuffer) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeTriggerStore) IncrementTriggerBuffer(userID, id string) error { return nil }
func (f *fakeTriggerStore) DeleteTriggerBuffer(userID, id string) error    { return nil }
