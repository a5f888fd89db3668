package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nervilabs/nervi-backend/internal/core"
	"github.com/nervilabs/nervi-backend/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service-layer sentinels onto the HTTP taxonomy:
// 404 missing, 409 contention/repeat redemption, 502 upstream model
// trouble, 500 everything else.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrMergeContention):
		writeError(w, http.StatusConflict, "schedule is being updated elsewhere, try again")
	case errors.Is(err, core.ErrPromoRedeemed):
		writeError(w, http.StatusConflict, "promo code already redeemed")
	case errors.Is(err, core.ErrPromoInvalid):
		writeError(w, http.StatusBadRequest, "promo code invalid or expired")
	case errors.Is(err, core.ErrBadLLMReply):
		writeError(w, http.StatusBadGateway, "the model returned an unusable reply, please retry")
	case errors.Is(err, core.ErrLLMUnavailable):
		writeError(w, http.StatusBadGateway, "the model is unavailable right now")
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
