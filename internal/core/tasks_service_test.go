package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/store"
)

type fakeTaskStore struct {
	tasks map[string]*store.DailyTask
	seq   int
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: map[string]*store.DailyTask{}}
}

func (f *fakeTaskStore) ListDailyTasks(userID, dayKey string) ([]store.DailyTask, error) {
	var out []store.DailyTask
	for _, t := range f.tasks {
		if t.UserID == userID && (dayKey == "" || t.DayKey == dayKey) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) GetDailyTask(userID, id string) (*store.DailyTask, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTaskStore) CreateDailyTask(task *store.DailyTask) error {
	f.seq++
	task.ID = string(rune('a' + f.seq))
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskStore) UpdateDailyTask(task *store.DailyTask) error {
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskStore) DeleteDailyTask(userID, id string) error {
	delete(f.tasks, id)
	return nil
}

func TestParseTaskByRegex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantDay  string
		wantTime int
		wantText string
	}{
		{"full form", "every monday at 7:30 pm take a walk", "mon", 19*60 + 30, "take a walk"},
		{"short day", "tue at 9am morning pages", "tue", 9 * 60, "morning pages"},
		{"no day", "at 12:00 pm eat lunch away from desk", "daily", 12 * 60, "eat lunch away from desk"},
		{"no time", "on friday call a friend", "fri", -1, "call a friend"},
		{"every day", "every day drink water", "daily", -1, "drink water"},
		{"bare activity", "stretch for five minutes", "daily", -1, "stretch for five minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := parseTaskByRegex(tt.input)
			require.NotNil(t, parsed)
			assert.Equal(t, tt.wantDay, parsed.DayKey)
			assert.Equal(t, tt.wantTime, parsed.TimeMinute)
			assert.Equal(t, tt.wantText, parsed.Activity)
		})
	}
}

func TestCreateCustomDailyFansOut(t *testing.T) {
	taskStore := newFakeTaskStore()
	svc := NewTaskService(taskStore, &fakeCompleter{}, zap.NewNop())

	created, err := svc.CreateCustom(context.Background(), "u1", "every day at 8am drink water")
	require.NoError(t, err)
	assert.Len(t, created, 7)

	mon, err := svc.List("u1", "mon")
	require.NoError(t, err)
	require.Len(t, mon, 1)
	assert.Equal(t, "drink water", mon[0].Activity)
	assert.Equal(t, 8*60, mon[0].TimeMinute)
	assert.True(t, mon[0].Custom)
}

func TestCreateCustomSingleDay(t *testing.T) {
	taskStore := newFakeTaskStore()
	svc := NewTaskService(taskStore, &fakeCompleter{}, zap.NewNop())

	created, err := svc.CreateCustom(context.Background(), "u1", "on wednesday at 7:30 pm wind down")
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "wed", created[0].DayKey)
}

func TestUpdateCustomRejectsNonCustom(t *testing.T) {
	taskStore := newFakeTaskStore()
	require.NoError(t, taskStore.CreateDailyTask(&store.DailyTask{UserID: "u1", DayKey: "mon", Activity: "program task"}))
	svc := NewTaskService(taskStore, &fakeCompleter{}, zap.NewNop())

	var id string
	for k := range taskStore.tasks {
		id = k
	}
	_, err := svc.UpdateCustom(context.Background(), "u1", id, "mon at 9am something else")
	assert.Error(t, err)
}

func TestDeleteCustomMissing(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore(), &fakeCompleter{}, zap.NewNop())
	err := svc.DeleteCustom("u1", "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListRejectsUnknownDay(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore(), &fakeCompleter{}, zap.NewNop())
	_, err := svc.List("u1", "someday")
	assert.Error(t, err)
}
