package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/potatomail/potatomail/internal/database"
	"github.com/potatomail/potatomail/internal/model"
)

// APIKeyRepository handles API key persistence
type APIKeyRepository struct {
	db *database.Postgres
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *database.Postgres) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create inserts a new API key. The status column is NOT NULL without a
// default, so issuance always writes an explicit status.
func (r *APIKeyRepository) Create(ctx context.Context, key *model.APIKey) error {
	query := `
		INSERT INTO api_keys (id, user_id, key, name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		key.ID,
		key.UserID,
		key.Key,
		key.Name,
		key.Status,
		key.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// GetByKey retrieves an API key by its secret value. The status filter is
// deliberately absent here: the service layer decides usability so that a
// revoked or status-less key is distinguishable from an unknown one.
func (r *APIKeyRepository) GetByKey(ctx context.Context, keyValue string) (*model.APIKey, error) {
	query := `
		SELECT id, user_id, key, name, status, created_at, last_used
		FROM api_keys
		WHERE key = $1
	`
	return r.scanKey(r.db.QueryRowContext(ctx, query, keyValue))
}

// GetByID retrieves an API key by ID
func (r *APIKeyRepository) GetByID(ctx context.Context, id string) (*model.APIKey, error) {
	query := `
		SELECT id, user_id, key, name, status, created_at, last_used
		FROM api_keys
		WHERE id = $1
	`
	return r.scanKey(r.db.QueryRowContext(ctx, query, id))
}

// ListByUser retrieves all keys owned by a user, newest first
func (r *APIKeyRepository) ListByUser(ctx context.Context, userID string) ([]*model.APIKey, error) {
	query := `
		SELECT id, user_id, key, name, status, created_at, last_used
		FROM api_keys
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*model.APIKey
	for rows.Next() {
		key, err := r.scanKeyRow(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate api keys: %w", err)
	}
	return keys, nil
}

// Revoke sets the key status to revoked. The transition is one-way.
func (r *APIKeyRepository) Revoke(ctx context.Context, id string) error {
	query := `UPDATE api_keys SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, model.KeyStatusRevoked, id)
	if err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastUsed stamps the key's last_used timestamp
func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE api_keys SET last_used = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("failed to update last_used: %w", err)
	}
	return nil
}

func (r *APIKeyRepository) scanKey(row *sql.Row) (*model.APIKey, error) {
	var key model.APIKey
	var status sql.NullString
	var lastUsed sql.NullTime

	err := row.Scan(
		&key.ID,
		&key.UserID,
		&key.Key,
		&key.Name,
		&status,
		&key.CreatedAt,
		&lastUsed,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan api key: %w", err)
	}

	// A NULL status from an older row maps to the zero value, which the
	// model treats as unusable.
	if status.Valid {
		key.Status = model.KeyStatus(status.String)
	}
	if lastUsed.Valid {
		key.LastUsed = &lastUsed.Time
	}
	return &key, nil
}

func (r *APIKeyRepository) scanKeyRow(rows *sql.Rows) (*model.APIKey, error) {
	var key model.APIKey
	var status sql.NullString
	var lastUsed sql.NullTime

	err := rows.Scan(
		&key.ID,
		&key.UserID,
		&key.Key,
		&key.Name,
		&status,
		&key.CreatedAt,
		&lastUsed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan api key: %w", err)
	}

	if status.Valid {
		key.Status = model.KeyStatus(status.String)
	}
	if lastUsed.Valid {
		key.LastUsed = &lastUsed.Time
	}
	return &key, nil
}
