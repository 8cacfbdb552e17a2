package router

import (
	"net/http"

	"github.com/potatomail/potatomail/internal/handler"
	"github.com/potatomail/potatomail/internal/middleware"
	"github.com/potatomail/potatomail/internal/service"
)

// New creates and configures the HTTP router
func New(h *handler.Handler, mw *middleware.Middleware, keySvc *service.KeyService, authSvc *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoints (no auth required)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	// Core dispatch endpoint, gated by the API key stage
	apiKeyMw := mw.APIKeyAuth(keySvc)
	mux.Handle("POST /send_email", apiKeyMw(http.HandlerFunc(h.SendEmail)))

	// Dashboard login (public)
	mux.HandleFunc("POST /auth/login", h.Login)

	// Dashboard routes (require a session token)
	sessionMw := mw.SessionAuth(authSvc)
	mux.Handle("POST /auth/logout", sessionMw(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /auth/me", sessionMw(http.HandlerFunc(h.GetCurrentUser)))

	// API key management
	mux.Handle("GET /auth/api/keys", sessionMw(http.HandlerFunc(h.ListKeys)))
	mux.Handle("POST /auth/api/keys", sessionMw(http.HandlerFunc(h.CreateKey)))
	mux.Handle("DELETE /auth/api/keys/{id}", sessionMw(http.HandlerFunc(h.RevokeKey)))

	// Sender credential settings
	mux.Handle("GET /auth/api/settings/smtp", sessionMw(http.HandlerFunc(h.GetSMTPSettings)))
	mux.Handle("PUT /auth/api/settings/smtp", sessionMw(http.HandlerFunc(h.UpdateSMTPSettings)))

	// Apply middleware stack
	var root http.Handler = mux

	// CORS for the dashboard frontend
	root = mw.CORS([]string{"http://localhost:3000", "http://localhost:5173"})(root)

	// Security headers
	root = mw.SecurityHeaders(root)

	// Request logging
	root = mw.Logger(root)

	// Timing
	root = mw.Timing(root)

	// Request ID
	root = mw.RequestID(root)

	// Panic recovery (outermost)
	root = mw.Recover(root)

	return root
}
