package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/potatomail/potatomail/internal/logger"
	"github.com/potatomail/potatomail/internal/model"
	"github.com/potatomail/potatomail/internal/repository"
)

// KeyRegistry is the API key store consumed by the key service.
// Implemented by repository.APIKeyRepository.
type KeyRegistry interface {
	Create(ctx context.Context, key *model.APIKey) error
	GetByKey(ctx context.Context, keyValue string) (*model.APIKey, error)
	GetByID(ctx context.Context, id string) (*model.APIKey, error)
	ListByUser(ctx context.Context, userID string) ([]*model.APIKey, error)
	Revoke(ctx context.Context, id string) error
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}

// KeyService owns the API key lifecycle: issuance, listing, revocation,
// and the validation the dispatch path authenticates with.
type KeyService struct {
	keys KeyRegistry
	log  *logger.Logger
}

// NewKeyService creates a new KeyService
func NewKeyService(keys KeyRegistry, log *logger.Logger) *KeyService {
	return &KeyService{
		keys: keys,
		log:  log.WithComponent("apikey"),
	}
}

// Validate resolves a presented key value to its owning account.
// Unknown keys and keys whose status is anything but active (including
// an absent status) fail with ErrInvalidAPIKey. On success the key's
// last_used timestamp is stamped best effort.
func (s *KeyService) Validate(ctx context.Context, keyValue string) (*model.APIKey, error) {
	key, err := s.keys.GetByKey(ctx, keyValue)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	if !key.IsUsable() {
		return nil, ErrInvalidAPIKey
	}

	if err := s.keys.TouchLastUsed(ctx, key.ID, time.Now()); err != nil {
		s.log.Warn().Err(err).Str("key_id", key.ID).Msg("failed to stamp last_used")
	}

	return key, nil
}

// Issue creates a new active key for the account and returns it with
// the plaintext value. The value is shown to the caller once and listed
// masked afterwards.
func (s *KeyService) Issue(ctx context.Context, userID, name string) (*model.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "API Key"
	}

	key := &model.APIKey{
		ID:     uuid.New().String(),
		UserID: userID,
		Key:    strings.ReplaceAll(uuid.New().String(), "-", ""),
		Name:   name,
		// Status is always written explicitly at issuance so a key can
		// never exist in the ambiguous status-less state.
		Status:    model.KeyStatusActive,
		CreatedAt: time.Now(),
	}

	if err := s.keys.Create(ctx, key); err != nil {
		return nil, err
	}

	s.log.Info().Str("key_id", key.ID).Str("user_id", userID).Msg("api key issued")
	return key, nil
}

// List returns the account's keys, newest first
func (s *KeyService) List(ctx context.Context, userID string) ([]*model.APIKey, error) {
	return s.keys.ListByUser(ctx, userID)
}

// Revoke marks a key revoked after verifying ownership. Revocation is
// permanent; there is no way back to active.
func (s *KeyService) Revoke(ctx context.Context, userID, keyID string) error {
	key, err := s.keys.GetByID(ctx, keyID)
	if err != nil {
		return err
	}
	if key.UserID != userID {
		return ErrForbidden
	}

	if err := s.keys.Revoke(ctx, keyID); err != nil {
		return err
	}

	s.log.Info().Str("key_id", keyID).Str("user_id", userID).Msg("api key revoked")
	return nil
}
