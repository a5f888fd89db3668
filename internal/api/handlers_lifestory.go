package api

import "net/http"

func (h *Handler) GetLifeStory(w http.ResponseWriter, r *http.Request) {
	story, err := h.svc.LifeStory.Get(UserID(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

type lifeStoryExtractRequest struct {
	Text string `json:"text" validate:"required,min=20"`
}

// ExtractLifeStory runs the free-form narrative through the model and
// persists the structured chapters, events and threads it finds.
func (h *Handler) ExtractLifeStory(w http.ResponseWriter, r *http.Request) {
	var req lifeStoryExtractRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	story, err := h.svc.LifeStory.Extract(r.Context(), UserID(r.Context()), req.Text)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}
