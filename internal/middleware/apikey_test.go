package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potatomail/potatomail/internal/config"
	"github.com/potatomail/potatomail/internal/logger"
	"github.com/potatomail/potatomail/internal/model"
	"github.com/potatomail/potatomail/internal/repository"
	"github.com/potatomail/potatomail/internal/service"
)

type stubKeyRegistry struct {
	key *model.APIKey
}

func (s *stubKeyRegistry) Create(ctx context.Context, key *model.APIKey) error { return nil }

func (s *stubKeyRegistry) GetByKey(ctx context.Context, keyValue string) (*model.APIKey, error) {
	if s.key == nil || s.key.Key != keyValue {
		return nil, repository.ErrNotFound
	}
	return s.key, nil
}

func (s *stubKeyRegistry) GetByID(ctx context.Context, id string) (*model.APIKey, error) {
	return nil, repository.ErrNotFound
}

func (s *stubKeyRegistry) ListByUser(ctx context.Context, userID string) ([]*model.APIKey, error) {
	return nil, nil
}

func (s *stubKeyRegistry) Revoke(ctx context.Context, id string) error { return nil }

func (s *stubKeyRegistry) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	return nil
}

func newAPIKeyFixture(t *testing.T, key *model.APIKey) (http.Handler, *bool) {
	t.Helper()
	log := logger.New("disabled", "json")
	mw := New(log, &config.Config{})
	keySvc := service.NewKeyService(&stubKeyRegistry{key: key}, log)

	reached := false
	var gotUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(gotUserID))
	})

	return mw.APIKeyAuth(keySvc)(inner), &reached
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	h, reached := newAPIKeyFixture(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/send_email", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "API key required", errorBody(t, rec))
	assert.False(t, *reached)
}

func TestAPIKeyAuth_UnknownKey(t *testing.T) {
	h, reached := newAPIKeyFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/send_email", nil)
	req.Header.Set("X-API-Key", "nope")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid API key", errorBody(t, rec))
	assert.False(t, *reached)
}

func TestAPIKeyAuth_RevokedKey(t *testing.T) {
	h, reached := newAPIKeyFixture(t, &model.APIKey{
		ID: "id-1", UserID: "user-1", Key: "secret", Status: model.KeyStatusRevoked,
	})

	req := httptest.NewRequest(http.MethodPost, "/send_email", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestAPIKeyAuth_ValidHeaderKey(t *testing.T) {
	h, reached := newAPIKeyFixture(t, &model.APIKey{
		ID: "id-1", UserID: "user-1", Key: "secret", Status: model.KeyStatusActive,
	})

	req := httptest.NewRequest(http.MethodPost, "/send_email", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestAPIKeyAuth_QueryParamFallback(t *testing.T) {
	h, reached := newAPIKeyFixture(t, &model.APIKey{
		ID: "id-1", UserID: "user-1", Key: "secret", Status: model.KeyStatusActive,
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/send_email?api_key=secret", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}
