package potatomail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmail_Success(t *testing.T) {
	var gotKey string
	var gotBody SendEmailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/send_email", r.URL.Path)
		gotKey = r.Header.Get("X-API-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Email sent successfully"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	err := client.SendEmail(context.Background(), SendEmailRequest{
		ReceiverEmail: "rcpt@example.com",
		Message:       "hi",
		Subject:       "hello",
		EmailType:     "markdown",
	})

	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "rcpt@example.com", gotBody.ReceiverEmail)
	assert.Equal(t, "markdown", gotBody.EmailType)
}

func TestSendEmail_NoAPIKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:2000"})
	err := client.SendEmail(context.Background(), SendEmailRequest{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestSendEmail_InvalidAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid API key"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "revoked"})
	err := client.SendEmail(context.Background(), SendEmailRequest{ReceiverEmail: "rcpt@example.com"})
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestSendEmail_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"receiver_email is required"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	err := client.SendEmail(context.Background(), SendEmailRequest{})

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "receiver_email is required", apiErr.Message)
}
