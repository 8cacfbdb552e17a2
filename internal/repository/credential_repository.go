package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/potatomail/potatomail/internal/database"
	"github.com/potatomail/potatomail/internal/model"
)

// CredentialRepository handles SMTP credential persistence
type CredentialRepository struct {
	db *database.Postgres
}

// NewCredentialRepository creates a new CredentialRepository
func NewCredentialRepository(db *database.Postgres) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// GetByUserID retrieves the SMTP credential for an account
func (r *CredentialRepository) GetByUserID(ctx context.Context, userID string) (*model.SMTPCredential, error) {
	query := `
		SELECT user_id, sender_email, password, updated_at
		FROM smtp_credentials
		WHERE user_id = $1
	`
	var cred model.SMTPCredential
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cred.UserID,
		&cred.SenderEmail,
		&cred.Password,
		&cred.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get smtp credential: %w", err)
	}
	return &cred, nil
}

// Upsert creates or replaces the account's SMTP credential. The user_id
// primary key enforces at most one credential per account.
func (r *CredentialRepository) Upsert(ctx context.Context, cred *model.SMTPCredential) error {
	query := `
		INSERT INTO smtp_credentials (user_id, sender_email, password, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET sender_email = EXCLUDED.sender_email,
		    password = EXCLUDED.password,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		cred.UserID,
		cred.SenderEmail,
		cred.Password,
		cred.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert smtp credential: %w", err)
	}
	return nil
}
