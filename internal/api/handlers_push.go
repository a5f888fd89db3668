package api

import "net/http"

type pushSubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys" validate:"required"`
}

func (h *Handler) PushSubscribe(w http.ResponseWriter, r *http.Request) {
	var req pushSubscribeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.Push.Subscribe(UserID(r.Context()), req.Endpoint, req.Keys.P256dh, req.Keys.Auth); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
}

// PushSendDue is the cron entry point that notifies subscribers about
// schedule blocks starting within the due window.
func (h *Handler) PushSendDue(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Push.SendDue()
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
