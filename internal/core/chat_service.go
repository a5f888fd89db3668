package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/store"
)

const (
	companionSystemPrompt = "You are Nervi, a warm nervous-system companion. " +
		"You listen first, reflect what you hear, and offer one small regulating step at a time. " +
		"Keep replies short and grounded. Never diagnose, never prescribe. " +
		"If the user sounds activated, slow down and suggest a body-based settle before anything else."

	scheduleIntentPrompt = "The user is working on their weekly schedule. When you suggest concrete " +
		"schedule changes, end your reply with the heading \"Proposed additions to your schedule\" " +
		"followed by one line per item in the form \"Day – activity\", using Mon/Tue/Wed/Thu/Fri/Sat/Sun " +
		"or Daily for every day. Only include that section when you are actually proposing additions."

	// Shown to the user when the model call fails; chat errors are
	// absorbed, not surfaced as HTTP failures.
	fallbackReply = "I'm having trouble finding my words right now. Can we sit with that thought for a moment and try again?"
)

// scheduleIntentKeywords flips the next reply into proposal mode when the
// latest user message touches scheduling.
var scheduleIntentKeywords = []string{"schedule", "routine", "my week", "calendar", "plan my"}

// ChatService runs the companion conversation: detect schedule intent,
// call the model, and persist both turns of the exchange.
type ChatService struct {
	messages ChatMessageStore
	llm      Completer
	logger   *zap.Logger
}

// ChatMessageStore is the slice of the store the chat service needs.
type ChatMessageStore interface {
	CreateChatMessage(msg *store.ChatMessage) error
	ListSessionMessages(userID, sessionID string, limit int) ([]store.ChatMessage, error)
}

func NewChatService(messages ChatMessageStore, llm Completer, logger *zap.Logger) *ChatService {
	return &ChatService{messages: messages, llm: llm, logger: logger}
}

// ChatRequest is one turn of the conversation from the client. Messages
// is the visible transcript, last entry being the new user message.
type ChatRequest struct {
	SessionID      string
	ProgramType    string
	Mode           string
	Messages       []Turn
	ScheduleIntent bool
}

// ChatResult carries the companion reply plus whether the next turn
// should stay in schedule-proposal mode.
type ChatResult struct {
	Reply          string
	ScheduleIntent bool
}

func (s *ChatService) Respond(ctx context.Context, userID string, req ChatRequest) (*ChatResult, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("messages must not be empty")
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != "user" {
		return nil, fmt.Errorf("last message must be from the user")
	}

	intent := req.ScheduleIntent || detectScheduleIntent(last.Content)
	system := companionSystemPrompt
	if req.Mode != "" {
		system += " Current mode: " + req.Mode + "."
	}
	if req.ProgramType != "" {
		system += " The user is following the " + req.ProgramType + " program."
	}
	if intent {
		system += " " + scheduleIntentPrompt
	}

	s.persistTurn(userID, req, "user", last.Content)

	reply, err := s.llm.Complete(ctx, system, req.Messages)
	if err != nil {
		// The chat surface degrades to an apology instead of a 500.
		s.logger.Error("companion reply failed", zap.String("session_id", req.SessionID), zap.Error(err))
		reply = fallbackReply
	}

	s.persistTurn(userID, req, "assistant", reply)

	return &ChatResult{Reply: reply, ScheduleIntent: intent}, nil
}

// History returns the stored transcript for one session.
func (s *ChatService) History(userID, sessionID string, limit int) ([]store.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return s.messages.ListSessionMessages(userID, sessionID, limit)
}

func (s *ChatService) persistTurn(userID string, req ChatRequest, role, content string) {
	msg := &store.ChatMessage{
		UserID:      userID,
		SessionID:   req.SessionID,
		Role:        role,
		Content:     content,
		ProgramType: req.ProgramType,
		Mode:        req.Mode,
	}
	if err := s.messages.CreateChatMessage(msg); err != nil {
		// A lost transcript row should not break the conversation.
		s.logger.Warn("failed to persist chat turn",
			zap.String("session_id", req.SessionID),
			zap.String("role", role),
			zap.Error(err))
	}
}

func detectScheduleIntent(content string) bool {
	lowered := strings.ToLower(content)
	for _, kw := range scheduleIntentKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
