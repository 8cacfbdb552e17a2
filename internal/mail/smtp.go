package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"

	"github.com/potatomail/potatomail/internal/config"
	"github.com/potatomail/potatomail/internal/logger"
)

// SMTPSender sends messages through the configured outbound relay using
// one STARTTLS submission session per send.
type SMTPSender struct {
	host string
	addr string
	log  *logger.Logger
}

// NewSMTPSender creates an SMTPSender for the configured relay.
func NewSMTPSender(cfg config.SMTPConfig, log *logger.Logger) *SMTPSender {
	return &SMTPSender{
		host: cfg.RelayHost,
		addr: cfg.Addr(),
		log:  log.WithComponent("smtp"),
	}
}

// Send opens a session to the relay, negotiates TLS, authenticates as
// the sender, and transmits the message. The session is closed before
// returning; a send already in flight is never cancelled mid-protocol.
func (s *SMTPSender) Send(ctx context.Context, senderEmail, senderPassword string, msg *Message) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("smtp: failed to connect to %s: %w", s.addr, err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp: failed to open session: %w", err)
	}
	defer client.Quit()

	if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
		return fmt.Errorf("smtp: STARTTLS failed: %w", err)
	}

	auth := smtp.PlainAuth("", senderEmail, senderPassword, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp: authentication failed: %w", err)
	}

	if err := client.Mail(senderEmail); err != nil {
		return fmt.Errorf("smtp: MAIL FROM rejected: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp: RCPT TO rejected: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: DATA rejected: %w", err)
	}
	if _, err := w.Write(msg.Render()); err != nil {
		return fmt.Errorf("smtp: failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: relay rejected message: %w", err)
	}

	s.log.Debug().Str("to", msg.To).Str("from", senderEmail).Msg("message transmitted")
	return nil
}
