package model

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidEmailType is returned when a requested content kind does not
// match any recognized EmailType.
var ErrInvalidEmailType = errors.New("invalid email type")

// EmailType is the requested content kind of an email body. It controls
// how the message builder types the alternative part.
type EmailType string

const (
	EmailTypeText EmailType = "text"
	EmailTypeHTML EmailType = "html"
	// EmailTypeEnriched is deprecated: use EmailTypeMarkdown instead.
	// It remains accepted and behaves exactly like an HTML body.
	EmailTypeEnriched EmailType = "enriched"
	EmailTypeMarkdown EmailType = "markdown"
	EmailTypeXML      EmailType = "xml"
)

// ParseEmailType resolves a caller-supplied kind string, case-insensitively.
func ParseEmailType(s string) (EmailType, error) {
	switch EmailType(strings.ToLower(s)) {
	case EmailTypeText:
		return EmailTypeText, nil
	case EmailTypeHTML:
		return EmailTypeHTML, nil
	case EmailTypeEnriched:
		return EmailTypeEnriched, nil
	case EmailTypeMarkdown:
		return EmailTypeMarkdown, nil
	case EmailTypeXML:
		return EmailTypeXML, nil
	}
	return "", ErrInvalidEmailType
}

// IsHTML reports whether the body should be handled as HTML.
// Both enriched (deprecated) and markdown map to the HTML branch.
func (t EmailType) IsHTML() bool {
	return t == EmailTypeHTML || t == EmailTypeEnriched || t == EmailTypeMarkdown
}

// Subtype returns the MIME subtype used for the alternative part,
// preserving the kind the caller requested.
func (t EmailType) Subtype() string {
	return string(t)
}

// EmailRecord is the append-only audit record of a send attempt whose
// transport step succeeded. It is never updated or deleted.
type EmailRecord struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	ReceiverEmail string    `json:"receiver_email"`
	HTMLBody      *string   `json:"html_body,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
