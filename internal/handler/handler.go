package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/potatomail/potatomail/internal/config"
	"github.com/potatomail/potatomail/internal/database"
	"github.com/potatomail/potatomail/internal/logger"
	"github.com/potatomail/potatomail/internal/repository"
	"github.com/potatomail/potatomail/internal/service"
)

// Handler holds all HTTP handlers
type Handler struct {
	db          *database.Postgres
	rdb         *database.Redis
	log         *logger.Logger
	cfg         *config.Config
	dispatchSvc *service.DispatchService
	keySvc      *service.KeyService
	authSvc     *service.AuthService
	credRepo    *repository.CredentialRepository
}

// New creates a new Handler instance
func New(db *database.Postgres, rdb *database.Redis, log *logger.Logger, cfg *config.Config, dispatchSvc *service.DispatchService, keySvc *service.KeyService, authSvc *service.AuthService, credRepo *repository.CredentialRepository) *Handler {
	return &Handler{
		db:          db,
		rdb:         rdb,
		log:         log,
		cfg:         cfg,
		dispatchSvc: dispatchSvc,
		keySvc:      keySvc,
		authSvc:     authSvc,
		credRepo:    credRepo,
	}
}

// JSON helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"error": reason})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func readJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(v)
}
