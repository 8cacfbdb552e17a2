package model

import (
	"strings"
	"time"
)

// SMTPCredential is the outbound sender identity an account configures
// once. At most one exists per account; the dispatch path only reads it.
type SMTPCredential struct {
	UserID      string    `json:"user_id"`
	SenderEmail string    `json:"sender_email"`
	Password    string    `json:"-"` // sender secret, never serialized
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsConfigured reports whether the credential can actually be used for a
// send: both fields present and non-blank.
func (c *SMTPCredential) IsConfigured() bool {
	return strings.TrimSpace(c.SenderEmail) != "" && strings.TrimSpace(c.Password) != ""
}
