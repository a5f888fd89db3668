package api

import (
	"net/http"

	"github.com/nervilabs/nervi-backend/internal/core"
)

type chatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

type chatRequest struct {
	SessionID      string     `json:"sessionId" validate:"required"`
	ProgramType    string     `json:"programType"`
	Mode           string     `json:"mode"`
	Messages       []chatTurn `json:"messages" validate:"required,min=1,dive"`
	ScheduleIntent bool       `json:"scheduleIntent"`
}

type chatResponse struct {
	Reply          string `json:"reply"`
	ScheduleIntent bool   `json:"scheduleIntent"`
}

// Nervi is the companion chat endpoint.
func (h *Handler) Nervi(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	turns := make([]core.Turn, len(req.Messages))
	for i, m := range req.Messages {
		turns[i] = core.Turn{Role: m.Role, Content: m.Content}
	}

	result, err := h.svc.Chat.Respond(r.Context(), UserID(r.Context()), core.ChatRequest{
		SessionID:      req.SessionID,
		ProgramType:    req.ProgramType,
		Mode:           req.Mode,
		Messages:       turns,
		ScheduleIntent: req.ScheduleIntent,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: result.Reply, ScheduleIntent: result.ScheduleIntent})
}

func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId query parameter is required")
		return
	}

	messages, err := h.svc.Chat.History(UserID(r.Context()), sessionID, 50)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
