package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListDailyTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.Tasks.List(UserID(r.Context()), r.URL.Query().Get("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

type customTaskRequest struct {
	Text string `json:"text" validate:"required"`
}

// CreateCustomTask parses free text like "every monday at 7:30pm take a
// walk" into one or more scheduled task rows.
func (h *Handler) CreateCustomTask(w http.ResponseWriter, r *http.Request) {
	var req customTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	tasks, err := h.svc.Tasks.CreateCustom(r.Context(), UserID(r.Context()), req.Text)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"tasks": tasks})
}

func (h *Handler) UpdateCustomTask(w http.ResponseWriter, r *http.Request) {
	var req customTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.svc.Tasks.UpdateCustom(r.Context(), UserID(r.Context()), chi.URLParam(r, "taskID"), req.Text)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) DeleteCustomTask(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tasks.DeleteCustom(UserID(r.Context()), chi.URLParam(r, "taskID")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
