package api

import "net/http"

func (h *Handler) DailyRead(w http.ResponseWriter, r *http.Request) {
	intensity := r.URL.Query().Get("intensity")

	read, err := h.svc.DailyRead.Generate(r.Context(), UserID(r.Context()), intensity)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, read)
}
