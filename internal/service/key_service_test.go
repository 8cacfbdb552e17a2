package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potatomail/potatomail/internal/logger"
	"github.com/potatomail/potatomail/internal/model"
	"github.com/potatomail/potatomail/internal/repository"
)

type fakeKeyRegistry struct {
	byKey      map[string]*model.APIKey
	byID       map[string]*model.APIKey
	created    []*model.APIKey
	createErr  error
	touchErr   error
	touched    []string
	revoked    []string
	revokeErr  error
	listResult []*model.APIKey
}

func newFakeKeyRegistry() *fakeKeyRegistry {
	return &fakeKeyRegistry{
		byKey: make(map[string]*model.APIKey),
		byID:  make(map[string]*model.APIKey),
	}
}

func (f *fakeKeyRegistry) add(key *model.APIKey) {
	f.byKey[key.Key] = key
	f.byID[key.ID] = key
}

func (f *fakeKeyRegistry) Create(ctx context.Context, key *model.APIKey) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, key)
	f.add(key)
	return nil
}

func (f *fakeKeyRegistry) GetByKey(ctx context.Context, keyValue string) (*model.APIKey, error) {
	key, ok := f.byKey[keyValue]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return key, nil
}

func (f *fakeKeyRegistry) GetByID(ctx context.Context, id string) (*model.APIKey, error) {
	key, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return key, nil
}

func (f *fakeKeyRegistry) ListByUser(ctx context.Context, userID string) ([]*model.APIKey, error) {
	return f.listResult, nil
}

func (f *fakeKeyRegistry) Revoke(ctx context.Context, id string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revoked = append(f.revoked, id)
	return nil
}

func (f *fakeKeyRegistry) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	f.touched = append(f.touched, id)
	return f.touchErr
}

func newKeyFixture(t *testing.T) (*KeyService, *fakeKeyRegistry) {
	t.Helper()
	reg := newFakeKeyRegistry()
	return NewKeyService(reg, logger.New("disabled", "json")), reg
}

func TestKeyService_Validate(t *testing.T) {
	t.Run("active key resolves and stamps last_used", func(t *testing.T) {
		svc, reg := newKeyFixture(t)
		reg.add(&model.APIKey{ID: "id-1", UserID: "user-1", Key: "secret", Status: model.KeyStatusActive})

		key, err := svc.Validate(context.Background(), "secret")
		require.NoError(t, err)
		assert.Equal(t, "user-1", key.UserID)
		assert.Equal(t, []string{"id-1"}, reg.touched)
	})

	t.Run("unknown key", func(t *testing.T) {
		svc, reg := newKeyFixture(t)

		_, err := svc.Validate(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
		assert.Empty(t, reg.touched)
	})

	t.Run("revoked key", func(t *testing.T) {
		svc, reg := newKeyFixture(t)
		reg.add(&model.APIKey{ID: "id-1", Key: "secret", Status: model.KeyStatusRevoked})

		_, err := svc.Validate(context.Background(), "secret")
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
		assert.Empty(t, reg.touched)
	})

	t.Run("empty status fails closed", func(t *testing.T) {
		svc, reg := newKeyFixture(t)
		reg.add(&model.APIKey{ID: "id-1", Key: "secret", Status: ""})

		_, err := svc.Validate(context.Background(), "secret")
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("last_used stamp failure does not fail validation", func(t *testing.T) {
		svc, reg := newKeyFixture(t)
		reg.add(&model.APIKey{ID: "id-1", Key: "secret", Status: model.KeyStatusActive})
		reg.touchErr = errors.New("write timeout")

		_, err := svc.Validate(context.Background(), "secret")
		assert.NoError(t, err)
	})
}

func TestKeyService_Issue(t *testing.T) {
	t.Run("writes explicit active status", func(t *testing.T) {
		svc, reg := newKeyFixture(t)

		key, err := svc.Issue(context.Background(), "user-1", "CI key")
		require.NoError(t, err)

		require.Len(t, reg.created, 1)
		assert.Equal(t, model.KeyStatusActive, key.Status)
		assert.Equal(t, "user-1", key.UserID)
		assert.Equal(t, "CI key", key.Name)
		assert.Len(t, key.Key, 32)
		assert.NotContains(t, key.Key, "-")
	})

	t.Run("blank name gets a default", func(t *testing.T) {
		svc, _ := newKeyFixture(t)

		key, err := svc.Issue(context.Background(), "user-1", "   ")
		require.NoError(t, err)
		assert.Equal(t, "API Key", key.Name)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		svc, reg := newKeyFixture(t)
		reg.createErr = errors.New("insert failed")

		_, err := svc.Issue(context.Background(), "user-1", "CI key")
		assert.Error(t, err)
	})
}

func TestKeyService_Revoke(t *testing.T) {
	t.Run("owner revokes", func(t *testing.T) {
		svc, reg := newKeyFixture(t)
		reg.add(&model.APIKey{ID: "id-1", UserID: "user-1", Key: "secret", Status: model.KeyStatusActive})

		err := svc.Revoke(context.Background(), "user-1", "id-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"id-1"}, reg.revoked)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc, reg := newKeyFixture(t)
		reg.add(&model.APIKey{ID: "id-1", UserID: "user-1", Key: "secret", Status: model.KeyStatusActive})

		err := svc.Revoke(context.Background(), "user-2", "id-1")
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Empty(t, reg.revoked)
	})

	t.Run("unknown key", func(t *testing.T) {
		svc, _ := newKeyFixture(t)

		err := svc.Revoke(context.Background(), "user-1", "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
