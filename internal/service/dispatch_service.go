package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/potatomail/potatomail/internal/logger"
	mailpkg "github.com/potatomail/potatomail/internal/mail"
	"github.com/potatomail/potatomail/internal/model"
	"github.com/potatomail/potatomail/internal/repository"
)

// CredentialDirectory resolves an account's outbound sender identity.
// Implemented by repository.CredentialRepository.
type CredentialDirectory interface {
	GetByUserID(ctx context.Context, userID string) (*model.SMTPCredential, error)
}

// DeliveryRecorder appends audit records of sent emails.
// Implemented by repository.EmailRepository.
type DeliveryRecorder interface {
	Create(ctx context.Context, rec *model.EmailRecord) error
}

// SendRequest is the parsed body of a dispatch request
type SendRequest struct {
	ReceiverEmail string `json:"receiver_email"`
	Message       string `json:"message"`
	Subject       string `json:"subject"`
	EmailType     string `json:"email_type"`
	HTMLBody      string `json:"html_body,omitempty"`
}

// DispatchService coordinates one authenticated send: resolve the
// caller's sender credentials, build the message, transmit it, and
// best-effort record the outcome. It holds no cross-request state; the
// directory is consulted fresh on every call.
type DispatchService struct {
	directory CredentialDirectory
	sender    mailpkg.Sender
	recorder  DeliveryRecorder
	log       *logger.Logger
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(directory CredentialDirectory, sender mailpkg.Sender, recorder DeliveryRecorder, log *logger.Logger) *DispatchService {
	return &DispatchService{
		directory: directory,
		sender:    sender,
		recorder:  recorder,
		log:       log.WithComponent("dispatch"),
	}
}

// Send validates the request, resolves credentials for the
// authenticated account, and transmits the email. Validation failures
// short-circuit in order; the first failure wins. Once the transport
// step has succeeded the request is committed: the audit append may
// fail without affecting the outcome.
func (s *DispatchService) Send(ctx context.Context, userID string, req SendRequest) error {
	if strings.TrimSpace(req.ReceiverEmail) == "" {
		return validationErrorf("receiver_email is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return validationErrorf("message is required")
	}
	if strings.TrimSpace(req.Subject) == "" {
		return validationErrorf("subject is required")
	}
	if strings.ContainsAny(req.Subject, "\r\n") {
		return validationErrorf("subject must not contain line breaks")
	}

	if err := validateAddress(req.ReceiverEmail); err != nil {
		return validationErrorf("receiver_email is not a valid email address")
	}

	typeStr := req.EmailType
	if typeStr == "" {
		typeStr = string(model.EmailTypeText)
	}
	emailType, err := model.ParseEmailType(typeStr)
	if err != nil {
		return validationErrorf("invalid email type")
	}

	cred, err := s.directory.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSenderNotConfigured
		}
		return err
	}
	if !cred.IsConfigured() {
		return ErrSenderNotConfigured
	}

	msg := mailpkg.Build(cred.SenderEmail, req.ReceiverEmail, req.Subject, req.Message, req.HTMLBody, emailType)

	if err := s.sender.Send(ctx, cred.SenderEmail, cred.Password, msg); err != nil {
		s.log.Dispatch(userID, req.ReceiverEmail, string(emailType), false)
		return &TransportError{Err: err}
	}

	// The email is out; the record append is best effort and must not
	// change the response the caller receives.
	rec := &model.EmailRecord{
		ID:            uuid.New().String(),
		Subject:       req.Subject,
		Body:          req.Message,
		ReceiverEmail: req.ReceiverEmail,
		CreatedAt:     time.Now(),
	}
	if req.HTMLBody != "" {
		htmlBody := req.HTMLBody
		rec.HTMLBody = &htmlBody
	}
	if err := s.recorder.Create(ctx, rec); err != nil {
		s.log.Error().Err(err).
			Str("receiver", req.ReceiverEmail).
			Str("subject", req.Subject).
			Msg("failed to record sent email")
	}

	s.log.Dispatch(userID, req.ReceiverEmail, string(emailType), true)
	return nil
}

// validateAddress accepts only a bare, syntactically valid address
func validateAddress(addr string) error {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return err
	}
	if parsed.Address != addr {
		return errors.New("address must not carry a display name")
	}
	return nil
}
