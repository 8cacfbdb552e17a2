package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/potatomail/potatomail/internal/middleware"
	"github.com/potatomail/potatomail/internal/model"
	"github.com/potatomail/potatomail/internal/repository"
	"github.com/potatomail/potatomail/internal/service"
)

// CreateKeyRequest is the body of an API key issuance request
type CreateKeyRequest struct {
	Name string `json:"name"`
}

// CreateKeyResponse carries the plaintext key value, shown only once
type CreateKeyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
}

// ListKeys handles GET /auth/api/keys
func (h *Handler) ListKeys(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	keys, err := h.keySvc.List(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list api keys")
		writeError(w, http.StatusInternalServerError, "Failed to list API keys")
		return
	}

	resp := make([]model.APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		resp = append(resp, key.ToResponse())
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateKey handles POST /auth/api/keys
func (h *Handler) CreateKey(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateKeyRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key, err := h.keySvc.Issue(r.Context(), userID, req.Name)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to issue api key")
		writeError(w, http.StatusInternalServerError, "Failed to create API key")
		return
	}

	writeJSON(w, http.StatusCreated, CreateKeyResponse{
		ID:        key.ID,
		Name:      key.Name,
		Key:       key.Key,
		CreatedAt: key.CreatedAt,
	})
}

// RevokeKey handles DELETE /auth/api/keys/{id}
func (h *Handler) RevokeKey(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	keyID := r.PathValue("id")

	err := h.keySvc.Revoke(r.Context(), userID, keyID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			writeError(w, http.StatusForbidden, "Unauthorized")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "API key not found")
		default:
			h.log.Error().Err(err).Msg("failed to revoke api key")
			writeError(w, http.StatusInternalServerError, "Failed to revoke API key")
		}
		return
	}

	writeMessage(w, http.StatusOK, "API key revoked")
}
