package api

import "net/http"

func (h *Handler) ListTriggerBuffers(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Triggers.List(UserID(r.Context()), r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

type triggerBufferRequest struct {
	Action  string   `json:"action" validate:"omitempty,oneof=increment delete"`
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	Context []string `json:"context"`
}

// MutateTriggerBuffer creates a trigger or buffer, or applies an action
// (increment, delete) to an existing one.
func (h *Handler) MutateTriggerBuffer(w http.ResponseWriter, r *http.Request) {
	var req triggerBufferRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	userID := UserID(r.Context())

	switch req.Action {
	case "increment":
		if req.ID == "" {
			writeError(w, http.StatusBadRequest, "id is required for increment")
			return
		}
		if err := h.svc.Triggers.Increment(userID, req.ID); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "incremented"})
	case "delete":
		if req.ID == "" {
			writeError(w, http.StatusBadRequest, "id is required for delete")
			return
		}
		if err := h.svc.Triggers.Delete(userID, req.ID); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		item, err := h.svc.Triggers.Create(userID, req.Type, req.Name, req.Context)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}
