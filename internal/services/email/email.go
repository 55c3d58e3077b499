// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email delivers the transactional mails of the credential lifecycle.
package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"notemark/internal/config"
	"notemark/internal/i18n"
)

// Notifier sends the two one-time-code notices. The account service only
// depends on this interface; tests substitute a recording fake.
type Notifier interface {
	SendRegistrationCode(ctx context.Context, to, code string) error
	SendPasswordResetCode(ctx context.Context, to, code string) error
}

// Service sends transactional email via SMTP.
type Service struct {
	cfg *config.SMTPConfig
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{cfg: cfg}, nil
}

// SendRegistrationCode mails the registration code to a freshly registered user.
func (s *Service) SendRegistrationCode(ctx context.Context, to, code string) error {
	subject := i18n.T(ctx, "email_registration_subject")
	body := i18n.TData(ctx, "email_registration_body", map[string]any{"Code": code})

	return s.Send(ctx, to, subject, body+"\n\n"+i18n.T(ctx, "email_footer"))
}

// SendPasswordResetCode mails a password-reset code.
func (s *Service) SendPasswordResetCode(ctx context.Context, to, code string) error {
	subject := i18n.T(ctx, "email_reset_subject")
	body := i18n.TData(ctx, "email_reset_body", map[string]any{"Code": code})

	return s.Send(ctx, to, subject, body+"\n\n"+i18n.T(ctx, "email_footer"))
}

// Send delivers a plain-text email via SMTP using go-mail.
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Implicit TLS (SSL) for port 465, STARTTLS for others.
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
