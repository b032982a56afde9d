package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/nextalk/room-service/internal/config"
)

// Mailer sends outbound mail. Failures are reported to the caller, which
// treats them as non-fatal: invitation rows are durable before any send.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer implements Mailer over plain SMTP with optional AUTH.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
	log  *zap.Logger
}

// NewFromConfig builds an SMTPMailer, or returns nil when email is disabled.
func NewFromConfig(cfg *config.Config, log *zap.Logger) *SMTPMailer {
	if !cfg.EnableEmail {
		return nil
	}
	var auth smtp.Auth
	if cfg.SMTP.User != "" {
		auth = smtp.PlainAuth("", cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.Host)
	}
	return &SMTPMailer{
		addr: cfg.SMTP.Host + ":" + cfg.SMTP.Port,
		auth: auth,
		from: cfg.SMTP.From,
		log:  log,
	}
}

// Send sends one message. The ctx is honored only up front; net/smtp does not
// support mid-send cancellation.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	m.log.Debug("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
