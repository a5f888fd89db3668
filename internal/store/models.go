package store

import (
	"encoding/json"
	"time"

	"github.com/nervilabs/nervi-backend/internal/schedule"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Plan         string    `json:"plan"` // "free" or "full"
	CreatedAt    time.Time `json:"created_at"`
}

// Note is one journaling entry. Feeling and Activity are free text the
// daily-read heuristics scan for keywords.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Feeling   string    `json:"feeling"`
	Activity  string    `json:"activity"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckIn is a lightweight daily prompt answer.
type CheckIn struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SleepQuality string    `json:"sleep_quality"` // "poor", "fair", "good"
	Mood         string    `json:"mood"`
	CreatedAt    time.Time `json:"created_at"`
}

// MasterScheduleRow is the persisted weekly schedule. Version is mirrored
// out of the JSON document into its own column so writes can be made
// conditional on it.
type MasterScheduleRow struct {
	UserID    string                  `json:"user_id"`
	Version   int                     `json:"version"`
	Schedule  schedule.MasterSchedule `json:"schedule"`
	UpdatedAt time.Time               `json:"updated_at"`
}

const (
	TypeTrigger = "trigger"
	TypeBuffer  = "buffer"
)

// TriggerBuffer is an observed nervous-system trigger or buffer. The
// confidence score is a plain counter bumped on each repeat observation.
type TriggerBuffer struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Type            string    `json:"type"`
	Name            string    `json:"name"`
	Context         []string  `json:"context"`
	ConfidenceScore int       `json:"confidence_score"`
	LastObserved    time.Time `json:"last_observed"`
}

// DayPattern is a stored behavioral pattern for one weekday.
type DayPattern struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	DayKey       string   `json:"day_key"` // canonical 3-letter key
	CommonTheme  string   `json:"common_theme"`
	TimePatterns []string `json:"time_patterns"` // e.g. "afternoon-slump"
	Buffer       string   `json:"buffer"`
}

type MicroAction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	SessionID   string    `json:"session_id"`
	Role        string    `json:"role"` // "user" or "assistant"
	Content     string    `json:"content"`
	ProgramType string    `json:"program_type"`
	Mode        string    `json:"mode"`
	CreatedAt   time.Time `json:"created_at"`
}

// Life-story entities. Events attach to a chapter by id, or later by age
// inference; the age-in-range rule is best effort, not enforced.
type LifeChapter struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	AgeStart      int       `json:"age_start"`
	AgeEnd        int       `json:"age_end"`
	DominantState string    `json:"dominant_state"`
	Summary       string    `json:"summary"`
	CreatedAt     time.Time `json:"created_at"`
}

type LifeEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ChapterID   *string   `json:"chapter_id"`
	Age         int       `json:"age"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type LifeThread struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Program is a generated multi-day support program. Content is the raw
// validated JSON produced by the model.
type Program struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content"`
	StartDate string          `json:"start_date"` // YYYY-MM-DD
	CreatedAt time.Time       `json:"created_at"`
}

// DailyTask is one task on the daily list; custom tasks are user-created
// through the natural-language endpoint.
type DailyTask struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	DayKey     string    `json:"day_key"`
	TimeMinute int       `json:"time_minute"` // minutes since midnight, -1 when untimed
	Activity   string    `json:"activity"`
	Custom     bool      `json:"custom"`
	CreatedAt  time.Time `json:"created_at"`
}

type PushSubscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

type PromoCode struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Plan      string     `json:"plan"`
	MaxUses   int        `json:"max_uses"`
	Uses      int        `json:"uses"`
	ExpiresAt *time.Time `json:"expires_at"`
}
