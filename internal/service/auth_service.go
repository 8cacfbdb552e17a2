package service

import (
	"context"
	"errors"
	"time"

	"github.com/potatomail/potatomail/internal/auth"
	"github.com/potatomail/potatomail/internal/database"
	"github.com/potatomail/potatomail/internal/logger"
	"github.com/potatomail/potatomail/internal/model"
	"github.com/potatomail/potatomail/internal/repository"
)

const denylistPrefix = "token_denylist:"

// UserStore is the account store consumed by the auth service.
// Implemented by repository.UserRepository.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// LoginResult is the outcome of a successful dashboard login
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        *model.User `json:"user"`
}

// AuthService handles dashboard login, logout, and token validation.
// Logged-out tokens are denylisted in Redis until their natural expiry.
type AuthService struct {
	users    UserStore
	tokenSvc *auth.TokenService
	rdb      *database.Redis
	log      *logger.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokenSvc *auth.TokenService, rdb *database.Redis, log *logger.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokenSvc: tokenSvc,
		rdb:      rdb,
		log:      log.WithComponent("auth"),
	}
}

// Login verifies the email/password pair and issues an access token.
// Both unknown accounts and wrong passwords map to the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	token, _, expiresAt, err := s.tokenSvc.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Logout denylists the token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.SetWithTTL(ctx, denylistPrefix+claims.ID, "1", ttl); err != nil {
		return err
	}
	s.log.Info().Str("user_id", claims.Subject).Msg("user logged out")
	return nil
}

// ValidateToken verifies a token's signature and checks the denylist
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	claims, err := s.tokenSvc.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.rdb.Exists(ctx, denylistPrefix+claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked > 0 {
		return nil, auth.ErrInvalidToken
	}

	return claims, nil
}

// GetUser loads the account behind validated claims
func (s *AuthService) GetUser(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	return s.users.GetByID(ctx, claims.Subject)
}
