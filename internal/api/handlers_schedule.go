package api

import (
	"net/http"

	"github.com/nervilabs/nervi-backend/internal/schedule"
)

func (h *Handler) GetMasterSchedule(w http.ResponseWriter, r *http.Request) {
	sched, exists, err := h.svc.Schedules.Get(UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"schedule": sched, "exists": exists})
}

type putScheduleRequest struct {
	Schedule schedule.MasterSchedule `json:"schedule" validate:"required"`
}

func (h *Handler) PutMasterSchedule(w http.ResponseWriter, r *http.Request) {
	var req putScheduleRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	saved, err := h.svc.Schedules.Put(UserID(r.Context()), req.Schedule)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"schedule": saved})
}

type applyScheduleRequest struct {
	ReplyText string `json:"replyText" validate:"required"`
}

// ApplyScheduleReply extracts the proposed additions from an assistant
// reply and merges them into the caller's master schedule.
func (h *Handler) ApplyScheduleReply(w http.ResponseWriter, r *http.Request) {
	var req applyScheduleRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.Schedules.ApplyReply(UserID(r.Context()), req.ReplyText)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
