package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/schedule"
	"github.com/nervilabs/nervi-backend/internal/store"
)

type fakePushStore struct {
	subs     []store.PushSubscription
	schedule *store.MasterScheduleRow
	deleted  []string
}

func (f *fakePushStore) CreatePushSubscription(sub *store.PushSubscription) error {
	f.subs = append(f.subs, *sub)
	return nil
}

func (f *fakePushStore) DeletePushSubscription(userID, endpoint string) error {
	f.deleted = append(f.deleted, endpoint)
	return nil
}

func (f *fakePushStore) ListAllPushSubscriptions() ([]store.PushSubscription, error) {
	return f.subs, nil
}

func (f *fakePushStore) GetMasterSchedule(userID string) (*store.MasterScheduleRow, error) {
	return f.schedule, nil
}

func TestSendDueOnlyPushesBlocksInWindow(t *testing.T) {
	// Saturday 2026-08-29, 08:50.
	now := time.Date(2026, 8, 29, 8, 50, 0, 0, time.UTC)

	sched := schedule.New()
	for i := range sched.Days {
		if sched.Days[i].Key == "sat" {
			sched.Days[i].Blocks = []string{
				"9:00 AM morning walk", // due
				"2:00 PM deep work",    // not yet
				"drink water",          // untimed, never pushed
			}
		}
		if sched.Days[i].Key == "sun" {
			sched.Days[i].Blocks = []string{"9:00 AM sleep in"} // wrong day
		}
	}

	fake := &fakePushStore{
		subs:     []store.PushSubscription{{UserID: "u1", Endpoint: "https://push/1"}},
		schedule: &store.MasterScheduleRow{UserID: "u1", Schedule: sched},
	}

	var delivered []string
	svc := NewPushService(fake, VAPIDKeys{}, 15, zap.NewNop())
	svc.now = func() time.Time { return now }
	svc.sendOverride = func(sub *store.PushSubscription, payload []byte) error {
		delivered = append(delivered, string(payload))
		return nil
	}

	result, err := svc.SendDue()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, delivered, 1)
	assert.Contains(t, delivered[0], "9:00 AM morning walk")
}

func TestSendDueNoScheduleNoPush(t *testing.T) {
	fake := &fakePushStore{
		subs: []store.PushSubscription{{UserID: "u1", Endpoint: "https://push/1"}},
	}
	svc := NewPushService(fake, VAPIDKeys{}, 15, zap.NewNop())
	svc.sendOverride = func(sub *store.PushSubscription, payload []byte) error { return nil }

	result, err := svc.SendDue()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
}
