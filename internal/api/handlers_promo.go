package api

import "net/http"

type applyPromoRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *Handler) ApplyPromoCode(w http.ResponseWriter, r *http.Request) {
	var req applyPromoRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	entitlement, err := h.svc.Promos.Apply(UserID(r.Context()), req.Code)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entitlement)
}
