package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type createNoteRequest struct {
	Feeling  string `json:"feeling"`
	Activity string `json:"activity"`
	Content  string `json:"content"`
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	note, err := h.svc.Journal.CreateNote(UserID(r.Context()), req.Feeling, req.Activity, req.Content)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	notes, err := h.svc.Journal.ListNotes(UserID(r.Context()), days)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notes": notes})
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Journal.DeleteNote(UserID(r.Context()), chi.URLParam(r, "noteID")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type createCheckInRequest struct {
	SleepQuality string `json:"sleepQuality" validate:"required,oneof=poor fair good"`
	Mood         string `json:"mood"`
}

func (h *Handler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	var req createCheckInRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	checkIn, err := h.svc.Journal.CreateCheckIn(UserID(r.Context()), req.SleepQuality, req.Mood)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, checkIn)
}

func (h *Handler) ListCheckIns(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	checkIns, err := h.svc.Journal.ListCheckIns(UserID(r.Context()), days)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"checkIns": checkIns})
}
