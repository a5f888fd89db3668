package api

import "net/http"

type generateProgramRequest struct {
	ProgramType string `json:"programType"`
	FocusHint   string `json:"focusHint"`
}

func (h *Handler) GenerateProgram(w http.ResponseWriter, r *http.Request) {
	var req generateProgramRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	program, err := h.svc.Programs.Generate(r.Context(), UserID(r.Context()), req.ProgramType, req.FocusHint)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, program)
}

func (h *Handler) LatestProgram(w http.ResponseWriter, r *http.Request) {
	program, err := h.svc.Programs.Latest(UserID(r.Context()), r.URL.Query().Get("type"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if program == nil {
		writeError(w, http.StatusNotFound, "no program found")
		return
	}
	writeJSON(w, http.StatusOK, program)
}

// AutoGeneratePrograms is the cron entry point that rolls expired
// programs forward for every full-plan user.
func (h *Handler) AutoGeneratePrograms(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Programs.AutoGenerate(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
