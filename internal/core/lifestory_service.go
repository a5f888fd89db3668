package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/store"
)

const lifeStoryExtractionPrompt = "You extract life-story structure from a first-person memory. " +
	"Return a JSON object with three arrays: " +
	"\"chapters\": [{\"title\", \"age_start\", \"age_end\", \"dominant_state\", \"summary\"}], " +
	"\"events\": [{\"title\", \"age\", \"description\"}], " +
	"\"threads\": [{\"name\", \"description\"}]. " +
	"dominant_state is one of: settled, mobilized, shutdown, mixed. " +
	"Only include chapters when the text clearly spans a period of years. " +
	"Arrays may be empty. Return JSON only."

// LifeStoryStore is the slice of the store the life story needs.
type LifeStoryStore interface {
	ListLifeChapters(userID string) ([]store.LifeChapter, error)
	ListLifeEvents(userID string) ([]store.LifeEvent, error)
	ListLifeThreads(userID string) ([]store.LifeThread, error)
	CreateLifeChapter(chapter *store.LifeChapter) error
	CreateLifeEvent(event *store.LifeEvent) error
	CreateLifeThread(thread *store.LifeThread) error
}

// extractedStory is the schema the model's JSON reply is validated
// against. Validation failure is a retryable ErrBadLLMReply inside the
// completer, not a generic transport error.
type extractedStory struct {
	Chapters []struct {
		Title         string `json:"title" validate:"required"`
		AgeStart      int    `json:"age_start" validate:"gte=0,lte=120"`
		AgeEnd        int    `json:"age_end" validate:"gte=0,lte=120"`
		DominantState string `json:"dominant_state" validate:"omitempty,oneof=settled mobilized shutdown mixed"`
		Summary       string `json:"summary"`
	} `json:"chapters" validate:"dive"`
	Events []struct {
		Title       string `json:"title" validate:"required"`
		Age         int    `json:"age" validate:"gte=0,lte=120"`
		Description string `json:"description"`
	} `json:"events" validate:"dive"`
	Threads []struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	} `json:"threads" validate:"dive"`
}

// LifeStory is the assembled timeline for one user.
type LifeStory struct {
	Chapters []store.LifeChapter `json:"chapters"`
	Events   []store.LifeEvent   `json:"events"`
	Threads  []store.LifeThread  `json:"threads"`
}

// LifeStoryService builds the narrative timeline from model-extracted
// chapters, events, and threads. Lifecycle is user- and model-driven; the
// only structural rule is the best-effort placement of an event's age into
// some chapter's range.
type LifeStoryService struct {
	stories LifeStoryStore
	llm     Completer
	logger  *zap.Logger
}

func NewLifeStoryService(stories LifeStoryStore, llm Completer, logger *zap.Logger) *LifeStoryService {
	return &LifeStoryService{stories: stories, llm: llm, logger: logger}
}

func (s *LifeStoryService) Get(userID string) (*LifeStory, error) {
	chapters, err := s.stories.ListLifeChapters(userID)
	if err != nil {
		return nil, err
	}
	events, err := s.stories.ListLifeEvents(userID)
	if err != nil {
		return nil, err
	}
	threads, err := s.stories.ListLifeThreads(userID)
	if err != nil {
		return nil, err
	}
	return &LifeStory{Chapters: chapters, Events: events, Threads: threads}, nil
}

// Extract runs the model over a memory text and merges what comes back
// into the stored timeline. New events are attached to a chapter whose age
// range covers them when one exists; otherwise they stay unattached.
func (s *LifeStoryService) Extract(ctx context.Context, userID, text string) (*LifeStory, error) {
	var extracted extractedStory
	if err := s.llm.CompleteJSON(ctx, lifeStoryExtractionPrompt, text, &extracted); err != nil {
		return nil, err
	}

	for _, ch := range extracted.Chapters {
		chapter := &store.LifeChapter{
			UserID:        userID,
			Title:         ch.Title,
			AgeStart:      ch.AgeStart,
			AgeEnd:        ch.AgeEnd,
			DominantState: ch.DominantState,
			Summary:       ch.Summary,
		}
		if err := s.stories.CreateLifeChapter(chapter); err != nil {
			s.logger.Warn("failed to store extracted chapter", zap.String("title", ch.Title), zap.Error(err))
		}
	}

	// Re-read so chapter placement sees existing plus newly created ones.
	chapters, err := s.stories.ListLifeChapters(userID)
	if err != nil {
		s.logger.Warn("failed to reload chapters for event placement", zap.Error(err))
	}

	for _, ev := range extracted.Events {
		event := &store.LifeEvent{
			UserID:      userID,
			ChapterID:   chapterForAge(chapters, ev.Age),
			Age:         ev.Age,
			Title:       ev.Title,
			Description: ev.Description,
		}
		if err := s.stories.CreateLifeEvent(event); err != nil {
			s.logger.Warn("failed to store extracted event", zap.String("title", ev.Title), zap.Error(err))
		}
	}

	for _, th := range extracted.Threads {
		thread := &store.LifeThread{
			UserID:      userID,
			Name:        th.Name,
			Description: th.Description,
		}
		if err := s.stories.CreateLifeThread(thread); err != nil {
			s.logger.Warn("failed to store extracted thread", zap.String("name", th.Name), zap.Error(err))
		}
	}

	return s.Get(userID)
}

// chapterForAge returns the id of the first chapter whose range covers the
// age, or nil. Best effort only.
func chapterForAge(chapters []store.LifeChapter, age int) *string {
	for i := range chapters {
		if chapters[i].AgeStart <= age && age <= chapters[i].AgeEnd {
			return &chapters[i].ID
		}
	}
	return nil
}
