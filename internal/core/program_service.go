package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/store"
)

const programGenerationPrompt = "You design short nervous-system support programs. " +
	"Return a JSON object: {\"title\", \"days\": [{\"day\", \"focus\", \"practices\": [string]}]}. " +
	"days has exactly 7 entries, day running 1..7, each with 2-3 small practices. " +
	"Practices are concrete and under 15 minutes. Return JSON only."

// programPlan is the schema a generated program must satisfy.
type programPlan struct {
	Title string `json:"title" validate:"required"`
	Days  []struct {
		Day       int      `json:"day" validate:"gte=1,lte=7"`
		Focus     string   `json:"focus" validate:"required"`
		Practices []string `json:"practices" validate:"min=1"`
	} `json:"days" validate:"len=7,dive"`
}

// ProgramStore is the slice of the store the program service needs.
type ProgramStore interface {
	GetLatestProgram(userID, typ string) (*store.Program, error)
	CreateProgram(program *store.Program) error
	ListUserIDsWithPlan(plan string) ([]string, error)
}

// ProgramService generates weekly support programs from the model and, on
// the cron path, rolls them over for subscribed users.
type ProgramService struct {
	programs ProgramStore
	llm      Completer
	logger   *zap.Logger
	now      func() time.Time
}

func NewProgramService(programs ProgramStore, llm Completer, logger *zap.Logger) *ProgramService {
	return &ProgramService{programs: programs, llm: llm, logger: logger, now: time.Now}
}

// Generate builds and stores a fresh program of the given type. The model
// reply is schema-validated; a reply that fails twice surfaces as
// ErrBadLLMReply for the handler to map.
func (s *ProgramService) Generate(ctx context.Context, userID, programType, focusHint string) (*store.Program, error) {
	if programType == "" {
		programType = "regulation"
	}

	user := fmt.Sprintf("Program type: %s.", programType)
	if focusHint != "" {
		user += " The user asked to focus on: " + focusHint
	}

	var plan programPlan
	if err := s.llm.CompleteJSON(ctx, programGenerationPrompt, user, &plan); err != nil {
		return nil, err
	}

	content, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode program plan: %w", err)
	}

	program := &store.Program{
		UserID:    userID,
		Type:      programType,
		Content:   content,
		StartDate: s.now().Format("2006-01-02"),
	}
	if err := s.programs.CreateProgram(program); err != nil {
		return nil, err
	}
	return program, nil
}

// Latest returns the most recent program of the given type, nil when the
// user has none yet.
func (s *ProgramService) Latest(userID, programType string) (*store.Program, error) {
	return s.programs.GetLatestProgram(userID, programType)
}

// AutoGenerateResult summarizes one cron sweep.
type AutoGenerateResult struct {
	Considered int `json:"considered"`
	Generated  int `json:"generated"`
	Failed     int `json:"failed"`
}

// AutoGenerate rolls programs over for full-plan users whose latest
// program has run its 7 days. Individual failures are logged and counted;
// the sweep itself keeps going.
func (s *ProgramService) AutoGenerate(ctx context.Context) (*AutoGenerateResult, error) {
	userIDs, err := s.programs.ListUserIDsWithPlan("full")
	if err != nil {
		return nil, err
	}

	result := &AutoGenerateResult{Considered: len(userIDs)}
	today := s.now().Format("2006-01-02")

	for _, userID := range userIDs {
		latest, err := s.programs.GetLatestProgram(userID, "")
		if err != nil {
			s.logger.Warn("auto-generate: latest program lookup failed", zap.String("user_id", userID), zap.Error(err))
			result.Failed++
			continue
		}
		if latest != nil && !programExpired(latest, today) {
			continue
		}

		programType := "regulation"
		if latest != nil {
			programType = latest.Type
		}
		if _, err := s.Generate(ctx, userID, programType, ""); err != nil {
			s.logger.Warn("auto-generate: generation failed", zap.String("user_id", userID), zap.Error(err))
			result.Failed++
			continue
		}
		result.Generated++
	}

	return result, nil
}

// programExpired reports whether the program's 7-day run ended before
// today. Unparseable start dates count as expired so stuck rows roll over.
func programExpired(p *store.Program, today string) bool {
	start, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		return true
	}
	end := start.AddDate(0, 0, 7).Format("2006-01-02")
	return end <= today
}
