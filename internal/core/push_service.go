package core

import (
	"encoding/json"
	"fmt"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/schedule"
	"github.com/nervilabs/nervi-backend/internal/store"
)

// PushStore is the slice of the store the push dispatcher needs.
type PushStore interface {
	CreatePushSubscription(sub *store.PushSubscription) error
	DeletePushSubscription(userID, endpoint string) error
	ListAllPushSubscriptions() ([]store.PushSubscription, error)
	GetMasterSchedule(userID string) (*store.MasterScheduleRow, error)
}

// VAPIDKeys carries the Web Push credentials.
type VAPIDKeys struct {
	PublicKey  string
	PrivateKey string
	Subject    string
}

// PushService dispatches reminders for schedule blocks whose time token
// falls inside the due window. Delivery mechanics live in the webpush
// library; this service only decides what is due.
type PushService struct {
	subs         PushStore
	keys         VAPIDKeys
	windowMin    int
	logger       *zap.Logger
	now          func() time.Time
	sendOverride func(sub *store.PushSubscription, payload []byte) error // tests only
}

func NewPushService(subs PushStore, keys VAPIDKeys, windowMinutes int, logger *zap.Logger) *PushService {
	return &PushService{subs: subs, keys: keys, windowMin: windowMinutes, logger: logger, now: time.Now}
}

func (s *PushService) Subscribe(userID, endpoint, p256dh, auth string) error {
	return s.subs.CreatePushSubscription(&store.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	})
}

// SendDueResult summarizes one cron sweep.
type SendDueResult struct {
	Subscriptions int `json:"subscriptions"`
	Sent          int `json:"sent"`
	Failed        int `json:"failed"`
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SendDue walks every subscription, reads its user's schedule for today,
// and pushes each block due inside the window. Per-subscription failures
// are logged and counted; the sweep keeps going.
func (s *PushService) SendDue() (*SendDueResult, error) {
	subs, err := s.subs.ListAllPushSubscriptions()
	if err != nil {
		return nil, err
	}

	now := s.now()
	todayKey := schedule.TodayKey(now)
	nowMinutes := now.Hour()*60 + now.Minute()

	result := &SendDueResult{Subscriptions: len(subs)}
	schedules := map[string][]string{} // user id -> today's due blocks

	for i := range subs {
		sub := &subs[i]
		due, ok := schedules[sub.UserID]
		if !ok {
			due = s.dueBlocks(sub.UserID, todayKey, nowMinutes)
			schedules[sub.UserID] = due
		}

		for _, block := range due {
			payload, _ := json.Marshal(pushPayload{Title: "Nervi", Body: block})
			if err := s.send(sub, payload); err != nil {
				s.logger.Warn("push delivery failed",
					zap.String("user_id", sub.UserID),
					zap.Error(err))
				result.Failed++
				continue
			}
			result.Sent++
		}
	}
	return result, nil
}

func (s *PushService) dueBlocks(userID, todayKey string, nowMinutes int) []string {
	row, err := s.subs.GetMasterSchedule(userID)
	if err != nil {
		s.logger.Warn("push: schedule fetch failed", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	if row == nil {
		return nil
	}

	var due []string
	for _, day := range row.Schedule.Days {
		if schedule.NormalizeDayShort(day.Key, day.Label) != todayKey {
			continue
		}
		for _, block := range day.Blocks {
			if schedule.DueWithin(block, nowMinutes, s.windowMin) {
				due = append(due, block)
			}
		}
	}
	return due
}

func (s *PushService) send(sub *store.PushSubscription, payload []byte) error {
	if s.sendOverride != nil {
		return s.sendOverride(sub, payload)
	}

	resp, err := webpush.SendNotification(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		VAPIDPublicKey:  s.keys.PublicKey,
		VAPIDPrivateKey: s.keys.PrivateKey,
		Subscriber:      s.keys.Subject,
		TTL:             60,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 404/410 mean the browser dropped the subscription; clean it up.
	if resp.StatusCode == 404 || resp.StatusCode == 410 {
		if err := s.subs.DeletePushSubscription(sub.UserID, sub.Endpoint); err != nil {
			s.logger.Warn("failed to remove stale push subscription", zap.Error(err))
		}
		return fmt.Errorf("subscription gone (status %d)", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
