package handler

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/potatomail/potatomail/internal/middleware"
	"github.com/potatomail/potatomail/internal/model"
	"github.com/potatomail/potatomail/internal/repository"
)

// SMTPSettingsRequest is the body of a credential update
type SMTPSettingsRequest struct {
	SenderEmail string `json:"sender_email"`
	Password    string `json:"password"`
}

// SMTPSettingsResponse never includes the stored secret
type SMTPSettingsResponse struct {
	SenderEmail string    `json:"sender_email"`
	Configured  bool      `json:"configured"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetSMTPSettings handles GET /auth/api/settings/smtp
func (h *Handler) GetSMTPSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	cred, err := h.credRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "SMTP settings not configured")
			return
		}
		h.log.Error().Err(err).Msg("failed to load smtp settings")
		writeError(w, http.StatusInternalServerError, "Failed to load SMTP settings")
		return
	}

	writeJSON(w, http.StatusOK, SMTPSettingsResponse{
		SenderEmail: cred.SenderEmail,
		Configured:  cred.IsConfigured(),
		UpdatedAt:   cred.UpdatedAt,
	})
}

// UpdateSMTPSettings handles PUT /auth/api/settings/smtp
func (h *Handler) UpdateSMTPSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SMTPSettingsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.SenderEmail = strings.TrimSpace(req.SenderEmail)
	if req.SenderEmail == "" || strings.TrimSpace(req.Password) == "" {
		writeError(w, http.StatusBadRequest, "sender_email and password are required")
		return
	}
	if _, err := mail.ParseAddress(req.SenderEmail); err != nil {
		writeError(w, http.StatusBadRequest, "sender_email is not a valid email address")
		return
	}

	cred := &model.SMTPCredential{
		UserID:      userID,
		SenderEmail: req.SenderEmail,
		Password:    req.Password,
		UpdatedAt:   time.Now(),
	}
	if err := h.credRepo.Upsert(r.Context(), cred); err != nil {
		h.log.Error().Err(err).Msg("failed to store smtp settings")
		writeError(w, http.StatusInternalServerError, "Failed to store SMTP settings")
		return
	}

	writeMessage(w, http.StatusOK, "SMTP settings updated")
}
