package handler

import (
	"errors"
	"net/http"

	"github.com/potatomail/potatomail/internal/middleware"
	"github.com/potatomail/potatomail/internal/service"
)

// SendEmail handles POST /send_email. The API key middleware has already
// authenticated the caller and put the owning account in the context.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req service.SendRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.dispatchSvc.Send(r.Context(), userID, req)
	if err == nil {
		writeMessage(w, http.StatusOK, "Email sent successfully")
		return
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Reason)
		return
	}
	if errors.Is(err, service.ErrSenderNotConfigured) {
		writeError(w, http.StatusBadRequest, service.ErrSenderNotConfigured.Error())
		return
	}

	var transportErr *service.TransportError
	if errors.As(err, &transportErr) {
		writeError(w, http.StatusInternalServerError, transportErr.Error())
		return
	}

	h.log.Error().Err(err).Msg("email dispatch failed")
	writeError(w, http.StatusInternalServerError, "Failed to send email")
}
