package model

import "time"

// KeyStatus represents the status of an API key
type KeyStatus string

const (
	KeyStatusActive  KeyStatus = "active"
	KeyStatusRevoked KeyStatus = "revoked"
)

// APIKey represents an API key issued to an account for programmatic sends
type APIKey struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Key       string     `json:"-"` // never expose the full key value
	Name      string     `json:"name"`
	Status    KeyStatus  `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
}

// IsUsable reports whether the key authorizes requests. Only the literal
// "active" status counts; an empty or unknown status fails closed.
func (k *APIKey) IsUsable() bool {
	return k.Status == KeyStatusActive
}

// MaskedKey returns the key value safe for listing: the first eight
// characters followed by an ellipsis.
func (k *APIKey) MaskedKey() string {
	if len(k.Key) > 8 {
		return k.Key[:8] + "..."
	}
	return "***"
}

// APIKeyResponse represents an API key in list responses (masked value)
type APIKeyResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Key       string     `json:"key"`
	Status    KeyStatus  `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
}

// ToResponse converts an APIKey to its masked response form
func (k *APIKey) ToResponse() APIKeyResponse {
	return APIKeyResponse{
		ID:        k.ID,
		Name:      k.Name,
		Key:       k.MaskedKey(),
		Status:    k.Status,
		CreatedAt: k.CreatedAt,
		LastUsed:  k.LastUsed,
	}
}
