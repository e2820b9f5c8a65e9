package mailer

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/Skotchmaster/shopit/internal/config"
)

var ErrNotConfigured = errors.New("smtp is not configured")

// Sender delivers one plain text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	from     string
	fromName string
	dialer   dialer
}

func New(cfg config.SMTPConfig) (*Mailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, ErrNotConfigured
	}
	return &Mailer{
		from:     cfg.From,
		fromName: cfg.FromName,
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("no recipient specified")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	if m.fromName != "" {
		msg.SetAddressHeader("From", m.from, m.fromName)
	} else {
		msg.SetHeader("From", m.from)
	}
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// Disabled rejects every message. It stands in when SMTP is not configured so
// the forgot-password flow fails loudly instead of silently dropping links.
type Disabled struct{}

func (Disabled) Send(context.Context, string, string, string) error { return ErrNotConfigured }
