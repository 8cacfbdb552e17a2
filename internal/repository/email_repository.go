package repository

import (
	"context"
	"fmt"

	"github.com/potatomail/potatomail/internal/database"
	"github.com/potatomail/potatomail/internal/model"
)

// EmailRepository handles the append-only send audit log
type EmailRepository struct {
	db *database.Postgres
}

// NewEmailRepository creates a new EmailRepository
func NewEmailRepository(db *database.Postgres) *EmailRepository {
	return &EmailRepository{db: db}
}

// Create appends an audit record of a sent email. Records are never
// updated or deleted.
func (r *EmailRepository) Create(ctx context.Context, rec *model.EmailRecord) error {
	query := `
		INSERT INTO emails (id, subject, body, receiver_email, html_body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Subject,
		rec.Body,
		rec.ReceiverEmail,
		rec.HTMLBody,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create email record: %w", err)
	}
	return nil
}
