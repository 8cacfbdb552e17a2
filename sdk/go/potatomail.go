// Package potatomail provides a small client for the PotatoMail
// transactional email API.
package potatomail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds the configuration for the PotatoMail client.
type Config struct {
	// BaseURL is the root URL of the PotatoMail server.
	// Example: "https://mail.example.com"
	BaseURL string

	// APIKey authenticates requests to the send endpoint.
	APIKey string

	// HTTPClient is an optional custom HTTP client.
	// If nil, a default client with 30s timeout is used.
	HTTPClient *http.Client
}

func (c *Config) defaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// Client is the PotatoMail SDK client.
type Client struct {
	cfg Config
}

// NewClient creates a new PotatoMail client with the given configuration.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{cfg: cfg}
}

// SendEmailRequest describes an email to dispatch.
type SendEmailRequest struct {
	// ReceiverEmail is the destination address. Required.
	ReceiverEmail string `json:"receiver_email"`

	// Message is the email body. Required.
	Message string `json:"message"`

	// Subject is the email subject line. Required.
	Subject string `json:"subject"`

	// EmailType selects the body content type: "text", "html",
	// "markdown", "xml" or the deprecated "enriched". Defaults to "text".
	EmailType string `json:"email_type,omitempty"`

	// HTMLBody is an optional HTML alternative rendering of the body.
	HTMLBody string `json:"html_body,omitempty"`
}

// SendEmail dispatches an email through the PotatoMail server.
func (c *Client) SendEmail(ctx context.Context, req SendEmailRequest) error {
	if c.cfg.APIKey == "" {
		return ErrNoAPIKey
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("potatomail: failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/send_email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("potatomail: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-API-Key", c.cfg.APIKey)

	resp, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("potatomail: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("potatomail: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidAPIKey
	default:
		return parseAPIError(resp.StatusCode, body)
	}
}
