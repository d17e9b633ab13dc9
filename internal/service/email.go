package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/qconnect/clinic-api/config"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/pkg/circuit"
	"github.com/qconnect/clinic-api/pkg/logger"
)

// emailTemplates are the notification bodies the clinic sends. Bodies use
// sprig helpers (title, upper, date formatting) on top of text/template.
var emailTemplates = map[string]string{
	"appointment_confirmation": `Hello {{ .Name | title }},

Your appointment is confirmed.

  Token number: {{ .TokenNo }}
  Queue:        #{{ .QueueID }}

Please arrive 10 minutes before your token is called.

QConnect Clinic`,
	"generic": `Hello{{ if .Name }} {{ .Name | title }}{{ end }},

{{ .Body }}

QConnect Clinic`,
}

type smtpSender func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService renders notification templates and delivers them over SMTP.
// Delivery runs behind a circuit breaker: when the SMTP relay is down,
// sends fail fast instead of tying up workers in connect timeouts.
type EmailService struct {
	cfg       config.EmailConfig
	breaker   *circuit.Breaker
	templates *template.Template
	send      smtpSender
}

func NewEmailService(cfg config.EmailConfig, breaker *circuit.Breaker) (*EmailService, error) {
	root := template.New("email").Funcs(sprig.FuncMap())
	for name, body := range emailTemplates {
		if _, err := root.New(name).Parse(body); err != nil {
			return nil, fmt.Errorf("failed to parse email template %q: %w", name, err)
		}
	}

	return &EmailService{
		cfg:       cfg,
		breaker:   breaker,
		templates: root,
		send:      smtp.SendMail,
	}, nil
}

// SendTemplate renders the named template with data and sends it. A tripped
// breaker surfaces as ErrServiceUnavailable.
func (s *EmailService) SendTemplate(ctx context.Context, to, subject, templateName string, data map[string]any) error {
	if !s.cfg.Enabled {
		logger.InfoWithContext(ctx, "email delivery disabled, skipping").
			String("template", templateName).
			Log()
		return nil
	}

	tmpl := s.templates.Lookup(templateName)
	if tmpl == nil {
		return apperrors.WrapError(apperrors.ErrInvalidInput, fmt.Errorf("unknown email template %q", templateName))
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	msg := s.buildMessage(to, subject, body.Bytes())
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	err := s.breaker.Execute(func() error {
		return s.send(addr, auth, s.cfg.From, []string{to}, msg)
	})
	if err != nil {
		if errors.Is(err, circuit.ErrCircuitOpen) || errors.Is(err, circuit.ErrTooManyRequests) {
			return apperrors.ErrServiceUnavailable
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "email sent").
		String("template", templateName).
		Log()
	return nil
}

func (s *EmailService) buildMessage(to, subject string, body []byte) []byte {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.Write(body)
	return msg.Bytes()
}
