package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/schedule"
	"github.com/nervilabs/nervi-backend/internal/store"
)

const taskParsePrompt = "You turn one short natural-language task description into JSON: " +
	"{\"day\": one of mon/tue/wed/thu/fri/sat/sun/daily, \"time\": \"H:MM AM|PM\" or \"\", \"activity\": string}. " +
	"Use \"daily\" when no day is named. Return JSON only."

// DailyTaskStore is the slice of the store the task service needs.
type DailyTaskStore interface {
	ListDailyTasks(userID, dayKey string) ([]store.DailyTask, error)
	GetDailyTask(userID, id string) (*store.DailyTask, error)
	CreateDailyTask(task *store.DailyTask) error
	UpdateDailyTask(task *store.DailyTask) error
	DeleteDailyTask(userID, id string) error
}

// TaskService manages custom daily tasks. Natural-language input is parsed
// with the same day/time primitives as the schedule; the model is only a
// fallback for phrasings the regex pass cannot split.
type TaskService struct {
	tasks  DailyTaskStore
	llm    Completer
	logger *zap.Logger
}

func NewTaskService(tasks DailyTaskStore, llm Completer, logger *zap.Logger) *TaskService {
	return &TaskService{tasks: tasks, llm: llm, logger: logger}
}

// ParsedTask is the structured form of one natural-language task line.
type ParsedTask struct {
	DayKey     string // canonical day key or "daily"
	TimeMinute int    // minutes since midnight, -1 when untimed
	Activity   string
}

// leading "on Monday" / "every day" / bare "mon" day phrase
var taskDayRe = regexp.MustCompile(`(?i)^(?:on\s+|every\s+)?(mon(?:day)?|tue(?:sday)?|wed(?:nesday)?|thu(?:rsday)?|fri(?:day)?|sat(?:urday)?|sun(?:day)?|day|daily)\b[,\s]*`)

// "at 7:30 pm" / "at 7am" time phrase anywhere in the line
var taskTimeRe = regexp.MustCompile(`(?i)\bat\s+(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)\b`)

// ParseTask splits "every monday at 7:30 pm take a walk" into day, time,
// and activity. The regex pass handles the common shapes; anything it
// cannot split goes to the model.
func (s *TaskService) ParseTask(ctx context.Context, input string) (*ParsedTask, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("task text must not be empty")
	}

	if parsed := parseTaskByRegex(input); parsed != nil {
		return parsed, nil
	}
	return s.parseTaskByLLM(ctx, input)
}

func parseTaskByRegex(input string) *ParsedTask {
	rest := input
	dayKey := "daily"

	if m := taskDayRe.FindStringSubmatch(rest); m != nil {
		token := strings.ToLower(m[1])
		if token == "day" || token == "daily" {
			dayKey = "daily"
		} else if k := schedule.NormalizeDayKey(token); k != "" {
			dayKey = k
		}
		rest = strings.TrimSpace(rest[len(m[0]):])
	}

	timeMinute := -1
	if m := taskTimeRe.FindStringSubmatch(rest); m != nil {
		if minutes := schedule.MinutesFromLine(m[1]); minutes != schedule.NoTime {
			timeMinute = minutes
			rest = strings.TrimSpace(strings.Replace(rest, m[0], "", 1))
		}
	}

	rest = strings.Trim(rest, " ,.")
	if rest == "" {
		return nil
	}
	return &ParsedTask{DayKey: dayKey, TimeMinute: timeMinute, Activity: rest}
}

func (s *TaskService) parseTaskByLLM(ctx context.Context, input string) (*ParsedTask, error) {
	var reply struct {
		Day      string `json:"day" validate:"required,oneof=mon tue wed thu fri sat sun daily"`
		Time     string `json:"time"`
		Activity string `json:"activity" validate:"required"`
	}
	if err := s.llm.CompleteJSON(ctx, taskParsePrompt, input, &reply); err != nil {
		return nil, err
	}

	timeMinute := -1
	if reply.Time != "" {
		if minutes := schedule.MinutesFromLine(reply.Time); minutes != schedule.NoTime {
			timeMinute = minutes
		}
	}
	return &ParsedTask{DayKey: reply.Day, TimeMinute: timeMinute, Activity: reply.Activity}, nil
}

// CreateCustom parses the text and stores the resulting task. A "daily"
// task is stored once per day so day-scoped listings stay a single filter.
func (s *TaskService) CreateCustom(ctx context.Context, userID, text string) ([]store.DailyTask, error) {
	parsed, err := s.ParseTask(ctx, text)
	if err != nil {
		return nil, err
	}

	dayKeys := []string{parsed.DayKey}
	if parsed.DayKey == "daily" {
		dayKeys = schedule.DayKeys
	}

	created := make([]store.DailyTask, 0, len(dayKeys))
	for _, dayKey := range dayKeys {
		task := store.DailyTask{
			UserID:     userID,
			DayKey:     dayKey,
			TimeMinute: parsed.TimeMinute,
			Activity:   parsed.Activity,
			Custom:     true,
		}
		if err := s.tasks.CreateDailyTask(&task); err != nil {
			return nil, err
		}
		created = append(created, task)
	}
	return created, nil
}

func (s *TaskService) List(userID, dayKey string) ([]store.DailyTask, error) {
	if dayKey != "" {
		if k := schedule.NormalizeDayKey(dayKey); k != "" {
			dayKey = k
		} else {
			return nil, fmt.Errorf("unknown day %q", dayKey)
		}
	}
	return s.tasks.ListDailyTasks(userID, dayKey)
}

// UpdateCustom re-parses the text and rewrites one existing custom task.
func (s *TaskService) UpdateCustom(ctx context.Context, userID, taskID, text string) (*store.DailyTask, error) {
	existing, err := s.tasks.GetDailyTask(userID, taskID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, store.ErrNotFound
	}
	if !existing.Custom {
		return nil, fmt.Errorf("only custom tasks can be edited")
	}

	parsed, err := s.ParseTask(ctx, text)
	if err != nil {
		return nil, err
	}
	if parsed.DayKey != "daily" {
		existing.DayKey = parsed.DayKey
	}
	existing.TimeMinute = parsed.TimeMinute
	existing.Activity = parsed.Activity

	if err := s.tasks.UpdateDailyTask(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *TaskService) DeleteCustom(userID, taskID string) error {
	existing, err := s.tasks.GetDailyTask(userID, taskID)
	if err != nil {
		return err
	}
	if existing == nil {
		return store.ErrNotFound
	}
	return s.tasks.DeleteDailyTask(userID, taskID)
}
