package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/schedule"
)

// Supabase talks to the hosted Postgres through PostgREST. All queries are
// simple per-user filters; schema management lives outside this service.
type Supabase struct {
	client *supabase.Client
	logger *zap.Logger
}

func NewSupabase(url, serviceKey string, logger *zap.Logger) (*Supabase, error) {
	client, err := supabase.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Supabase{client: client, logger: logger}, nil
}

func (s *Supabase) selectInto(table string, out interface{}, apply func(*postgrest.FilterBuilder) *postgrest.FilterBuilder) error {
	q := s.client.From(table).Select("*", "", false)
	q = apply(q)
	data, _, err := q.Execute()
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s rows: %w", table, err)
	}
	return nil
}

func (s *Supabase) insert(table string, row interface{}) error {
	if _, _, err := s.client.From(table).Insert(row, false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

// --- users ---

func (s *Supabase) GetUserByEmail(email string) (*User, error) {
	var users []User
	err := s.selectInto("users", &users, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("email", email).Limit(1, "")
	})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (s *Supabase) GetUserByID(id string) (*User, error) {
	var users []User
	err := s.selectInto("users", &users, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("id", id).Limit(1, "")
	})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (s *Supabase) CreateUser(email, passwordHash string) (*User, error) {
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Plan:         "free",
		CreatedAt:    time.Now().UTC(),
	}
	row := map[string]interface{}{
		"id":            user.ID,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"plan":          user.Plan,
		"created_at":    user.CreatedAt,
	}
	if err := s.insert("users", row); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Supabase) UpdateUserPlan(userID, plan string) error {
	patch := map[string]interface{}{"plan": plan}
	if _, _, err := s.client.From("users").Update(patch, "", "").Eq("id", userID).Execute(); err != nil {
		return fmt.Errorf("failed to update plan for user: %w", err)
	}
	return nil
}

// --- notes ---

func (s *Supabase) CreateNote(note *Note) error {
	note.ID = uuid.NewString()
	note.CreatedAt = time.Now().UTC()
	return s.insert("notes", note)
}

func (s *Supabase) ListNotesSince(userID string, since time.Time) ([]Note, error) {
	var notes []Note
	err := s.selectInto("notes", &notes, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("user_id", userID).
			Gte("created_at", since.UTC().Format(time.RFC3339)).
			Order("created_at", &postgrest.OrderOpts{Ascending: false})
	})
	return notes, err
}

func (s *Supabase) DeleteNote(userID, noteID string) error {
	if _, _, err := s.client.From("notes").Delete("", "").
		Eq("user_id", userID).Eq("id", noteID).Execute(); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// --- check-ins ---

func (s *Supabase) CreateCheckIn(checkIn *CheckIn) error {
	checkIn.ID = uuid.NewString()
	checkIn.CreatedAt = time.Now().UTC()
	return s.insert("check_ins", checkIn)
}

func (s *Supabase) ListCheckInsSince(userID string, since time.Time) ([]CheckIn, error) {
	var checkIns []CheckIn
	err := s.selectInto("check_ins", &checkIns, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("user_id", userID).
			Gte("created_at", since.UTC().Format(time.RFC3339)).
			Order("created_at", &postgrest.OrderOpts{Ascending: false})
	})
	return checkIns, err
}

// --- master schedule ---

func (s *Supabase) GetMasterSchedule(userID string) (*MasterScheduleRow, error) {
	var rows []MasterScheduleRow
	err := s.selectInto("master_schedules", &rows, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("user_id", userID).Limit(1, "")
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Supabase) InsertMasterSchedule(userID string, sched schedule.MasterSchedule) error {
	row := map[string]interface{}{
		"user_id":    userID,
		"version":    sched.Version,
		"schedule":   sched,
		"updated_at": time.Now().UTC(),
	}
	return s.insert("master_schedules", row)
}

// UpdateMasterScheduleCAS writes the schedule conditional on the stored
// version still being expectVersion. A write that matches no row reports
// ErrConflict so the caller can re-read and retry.
func (s *Supabase) UpdateMasterScheduleCAS(userID string, expectVersion int, sched schedule.MasterSchedule) error {
	patch := map[string]interface{}{
		"version":    sched.Version,
		"schedule":   sched,
		"updated_at": time.Now().UTC(),
	}
	data, _, err := s.client.From("master_schedules").
		Update(patch, "representation", "").
		Eq("user_id", userID).
		Eq("version", fmt.Sprintf("%d", expectVersion)).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update master schedule: %w", err)
	}
	var updated []json.RawMessage
	if err := json.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("failed to decode master schedule update result: %w", err)
	}
	if len(updated) == 0 {
		s.logger.Debug("master schedule version moved under writer",
			zap.String("user_id", userID),
			zap.Int("expect_version", expectVersion))
		return ErrConflict
	}
	return nil
}

// --- triggers and buffers ---

func (s *Supabase) ListTriggerBuffers(userID, typ string) ([]TriggerBuffer, error) {
	var items []TriggerBuffer
	err := s.selectInto("trigger_buffers", &items, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		q = q.Eq("user_id", userID)
		if typ != "" {
			q = q.Eq("type", typ)
		}
		return q.Order("confidence_score", &postgrest.OrderOpts{Ascending: false})
	})
	return items, err
}

func (s *Supabase) GetTriggerBuffer(userID, id string) (*TriggerBuffer, error) {
	var items []TriggerBuffer
	err := s.selectInto("trigger_buffers", &items, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("user_id", userID).Eq("id", id).Limit(1, "")
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *Supabase) CreateTriggerBuffer(item *TriggerBuffer) error {
	item.ID = uuid.NewString()
	if item.ConfidenceScore == 0 {
		item.ConfidenceScore = 1
	}
	item.LastObserved = time.Now().UTC()
	return s.insert("trigger_buffers", item)
}

// IncrementTriggerBuffer bumps the confidence counter and last-observed
// timestamp. Plain counter, no decay.
func (s *Supabase) IncrementTriggerBuffer(userID, id string) error {
	item, err := s.GetTriggerBuffer(userID, id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}
	patch := map[string]interface{}{
		"confidence_score": item.ConfidenceScore + 1,
		"last_observed":    time.Now().UTC(),
	}
	if _, _, err := s.client.From("trigger_buffers").Update(patch, "", "").
		Eq("user_id", userID).Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("failed to increment trigger/buffer: %w", err)
	}
	return nil
}

func (s *Supabase) DeleteTriggerBuffer(userID, id string) error {
	if _, _, err := s.client.From("trigger_buffers").Delete("", "").
		Eq("user_id", userID).Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("failed to delete trigger/buffer: %w", err)
	}
	return nil
}

// --- day patterns and micro-actions ---

func (s *Supabase) GetDayPattern(userID, dayKey string) (*DayPattern, error) {
	var patterns []DayPattern
	err := s.selectInto("day_patterns", &patterns, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("user_id", userID).Eq("day_key", dayKey).Limit(1, "")
	})
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	return &patterns[0], nil
}

func (s *Supabase) ListMicroActions(userID, date string) ([]MicroAction, error) {
	var actions []MicroAction
	err := s.selectInto("micro_actions", &actions, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("user_id", userID).Eq("date", date)
	})
	return actions, err
}

// --- chat ---

func (s *Supabase) CreateChatMessage(msg *ChatMessage) error {
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()
	return s.insert("chat_messages", msg)
}

func (s *Supabase) ListSessionMessages(userID, sessionID string, limit int) ([]ChatMessage, error) {
	var messages []ChatMessage
	err := s.selectInto("chat_messages", &messages, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("user_id", userID).Eq("session_id", sessionID).
			Order("created_at", &postgrest.OrderOpts{Ascending: true}).
			Limit(limit, "")
	})
	return messages, err
}

// --- life story ---

func (s *Supabase) ListLifeChapters(userID string) ([]LifeChapter, error) {
	var chapters []LifeChapter
	err := s.selectInto("life_chapters", &chapters, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("user_id", userID).Order("age_start", &postgrest.OrderOpts{Ascending: true})
	})
	return chapters, err
}

func (s *Supabase) ListLifeEvents(userID string) ([]LifeEvent, error) {
	var events []LifeEvent
	err := s.selectInto("life_events", &events, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("user_id", userID).Order("age", &postgrest.OrderOpts{Ascending: true})
	})
	return events, err
}

func (s *Supabase) ListLifeThreads(userID string) ([]LifeThread, error) {
	var threads []LifeThread
	err := s.selectInto("life_threads", &threads, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("user_id", userID)
	})
	return threads, err
}

func (s *Supabase) CreateLifeChapter(chapter *LifeChapter) error {
	chapter.ID = uuid.NewString()
	chapter.CreatedAt = time.Now().UTC()
	return s.insert("life_chapters", chapter)
}

func (s *Supabase) CreateLifeEvent(event *LifeEvent) error {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now().UTC()
	return s.insert("life_events", event)
}

func (s *Supabase) CreateLifeThread(thread *LifeThread) error {
	thread.ID = uuid.NewString()
	thread.CreatedAt = time.Now().UTC()
	return s.insert("life_threads", thread)
}

// --- programs ---

func (s *Supabase) GetLatestProgram(userID, typ string) (*Program, error) {
	var programs []Program
	err := s.selectInto("programs", &programs, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		q = q.Eq("user_id", userID)
		if typ != "" {
			q = q.Eq("type", typ)
		}
		return q.Order("created_at", &postgrest.OrderOpts{Ascending: false}).Limit(1, "")
	})
	if err != nil {
		return nil, err
	}
	if len(programs) == 0 {
		return nil, nil
	}
	return &programs[0], nil
}

func (s *Supabase) CreateProgram(program *Program) error {
	program.ID = uuid.NewString()
	program.CreatedAt = time.Now().UTC()
	return s.insert("programs", program)
}

func (s *Supabase) ListUserIDsWithPlan(plan string) ([]string, error) {
	var users []User
	err := s.selectInto("users", &users, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("plan", plan)
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// --- daily tasks ---

func (s *Supabase) ListDailyTasks(userID, dayKey string) ([]DailyTask, error) {
	var tasks []DailyTask
	err := s.selectInto("daily_tasks", &tasks, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		q = q.Eq("user_id", userID)
		if dayKey != "" {
			q = q.Eq("day_key", dayKey)
		}
		return q.Order("time_minute", &postgrest.OrderOpts{Ascending: true})
	})
	return tasks, err
}

func (s *Supabase) GetDailyTask(userID, id string) (*DailyTask, error) {
	var tasks []DailyTask
	err := s.selectInto("daily_tasks", &tasks, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("user_id", userID).Eq("id", id).Limit(1, "")
	})
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return &tasks[0], nil
}

func (s *Supabase) CreateDailyTask(task *DailyTask) error {
	task.ID = uuid.NewString()
	task.CreatedAt = time.Now().UTC()
	return s.insert("daily_tasks", task)
}

func (s *Supabase) UpdateDailyTask(task *DailyTask) error {
	patch := map[string]interface{}{
		"day_key":     task.DayKey,
		"time_minute": task.TimeMinute,
		"activity":    task.Activity,
	}
	if _, _, err := s.client.From("daily_tasks").Update(patch, "", "").
		Eq("user_id", task.UserID).Eq("id", task.ID).Execute(); err != nil {
		return fmt.Errorf("failed to update daily task: %w", err)
	}
	return nil
}

func (s *Supabase) DeleteDailyTask(userID, id string) error {
	if _, _, err := s.client.From("daily_tasks").Delete("", "").
		Eq("user_id", userID).Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("failed to delete daily task: %w", err)
	}
	return nil
}

// --- push ---

func (s *Supabase) CreatePushSubscription(sub *PushSubscription) error {
	sub.ID = uuid.NewString()
	sub.CreatedAt = time.Now().UTC()
	return s.insert("push_subscriptions", sub)
}

func (s *Supabase) DeletePushSubscription(userID, endpoint string) error {
	if _, _, err := s.client.From("push_subscriptions").Delete("", "").
		Eq("user_id", userID).Eq("endpoint", endpoint).Execute(); err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	return nil
}

func (s *Supabase) ListAllPushSubscriptions() ([]PushSubscription, error) {
	var subs []PushSubscription
	err := s.selectInto("push_subscriptions", &subs, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q
	})
	return subs, err
}

// --- promo codes ---

func (s *Supabase) GetPromoCode(code string) (*PromoCode, error) {
	var codes []PromoCode
	err := s.selectInto("promo_codes", &codes, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("code", code).Limit(1, "")
	})
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, nil
	}
	return &codes[0], nil
}

func (s *Supabase) HasRedeemedPromo(codeID, userID string) (bool, error) {
	var redemptions []struct {
		ID string `json:"id"`
	}
	err := s.selectInto("promo_redemptions", &redemptions, func(q *postgrest.FilterBuilder) *postgrest.FilterBuilder {
		return q.Eq("code_id", codeID).Eq("user_id", userID).Limit(1, "")
	})
	if err != nil {
		return false, err
	}
	return len(redemptions) > 0, nil
}

func (s *Supabase) RedeemPromo(codeID, userID string, newUses int) error {
	row := map[string]interface{}{
		"id":         uuid.NewString(),
		"code_id":    codeID,
		"user_id":    userID,
		"created_at": time.Now().UTC(),
	}
	if err := s.insert("promo_redemptions", row); err != nil {
		return err
	}
	patch := map[string]interface{}{"uses": newUses}
	if _, _, err := s.client.From("promo_codes").Update(patch, "", "").
		Eq("id", codeID).Execute(); err != nil {
		return fmt.Errorf("failed to update promo code uses: %w", err)
	}
	return nil
}
