package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/store"
)

type fakeProgramStore struct {
	programs map[string][]store.Program // user id -> newest first
	userIDs  []string
}

func newFakeProgramStore() *fakeProgramStore {
	return &fakeProgramStore{programs: map[string][]store.Program{}}
}

func (f *fakeProgramStore) GetLatestProgram(userID, typ string) (*store.Program, error) {
	for _, p := range f.programs[userID] {
		if typ == "" || p.Type == typ {
			copied := p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeProgramStore) CreateProgram(program *store.Program) error {
	program.ID = "p-" + program.UserID
	f.programs[program.UserID] = append([]store.Program{*program}, f.programs[program.UserID]...)
	return nil
}

func (f *fakeProgramStore) ListUserIDsWithPlan(plan string) ([]string, error) {
	return f.userIDs, nil
}

const validPlanJSON = `{
	"title": "Settle week",
	"days": [
		{"day": 1, "focus": "ground", "practices": ["feet on floor"]},
		{"day": 2, "focus": "breath", "practices": ["long exhale"]},
		{"day": 3, "focus": "move", "practices": ["short walk"]},
		{"day": 4, "focus": "orient", "practices": ["look around slowly"]},
		{"day": 5, "focus": "connect", "practices": ["text a friend"]},
		{"day": 6, "focus": "rest", "practices": ["lie down 10 min"]},
		{"day": 7, "focus": "review", "practices": ["note one win"]}
	]
}`

func TestGenerateStoresValidatedPlan(t *testing.T) {
	fake := newFakeProgramStore()
	svc := NewProgramService(fake, &fakeCompleter{jsonReply: validPlanJSON}, zap.NewNop())

	program, err := svc.Generate(context.Background(), "u1", "regulation", "sleep")
	require.NoError(t, err)
	assert.Equal(t, "regulation", program.Type)
	assert.NotEmpty(t, program.Content)
	assert.NotEmpty(t, fake.programs["u1"])
}

func TestGenerateSurfacesBadReply(t *testing.T) {
	svc := NewProgramService(newFakeProgramStore(), &fakeCompleter{jsonReply: ""}, zap.NewNop())
	_, err := svc.Generate(context.Background(), "u1", "", "")
	assert.ErrorIs(t, err, ErrBadLLMReply)
}

func TestAutoGenerateSkipsActivePrograms(t *testing.T) {
	fake := newFakeProgramStore()
	fake.userIDs = []string{"active", "expired", "fresh"}

	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	fake.programs["active"] = []store.Program{{
		UserID: "active", Type: "regulation",
		StartDate: now.AddDate(0, 0, -3).Format("2006-01-02"),
	}}
	fake.programs["expired"] = []store.Program{{
		UserID: "expired", Type: "sleep",
		StartDate: now.AddDate(0, 0, -10).Format("2006-01-02"),
	}}

	svc := NewProgramService(fake, &fakeCompleter{jsonReply: validPlanJSON}, zap.NewNop())
	svc.now = func() time.Time { return now }

	result, err := svc.AutoGenerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Considered)
	assert.Equal(t, 2, result.Generated) // expired rolls over, fresh gets a first program
	assert.Equal(t, 0, result.Failed)

	// The rolled-over program keeps its previous type.
	latest, _ := fake.GetLatestProgram("expired", "")
	assert.Equal(t, "sleep", latest.Type)
	assert.Len(t, fake.programs["active"], 1)
}
