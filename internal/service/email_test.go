package service

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/qconnect/clinic-api/config"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/pkg/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  []byte
}

func newTestEmailService(t *testing.T, sendErr error) (*EmailService, *capturedMail) {
	t.Helper()

	svc, err := NewEmailService(config.EmailConfig{
		Enabled: true,
		Host:    "smtp.test",
		Port:    587,
		From:    "noreply@qconnect.local",
	}, circuit.NewBreaker("smtp-test", circuit.DefaultConfig(), nil))
	require.NoError(t, err)

	captured := &capturedMail{}
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		captured.addr = addr
		captured.from = from
		captured.to = to
		captured.msg = msg
		return sendErr
	}
	return svc, captured
}

func TestEmailService_SendTemplate(t *testing.T) {
	svc, captured := newTestEmailService(t, nil)

	err := svc.SendTemplate(context.Background(), "alice@example.com", "Your appointment is booked", "appointment_confirmation", map[string]any{
		"Name":    "alice smith",
		"TokenNo": 4,
		"QueueID": 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.test:587", captured.addr)
	assert.Equal(t, "noreply@qconnect.local", captured.from)
	assert.Equal(t, []string{"alice@example.com"}, captured.to)

	body := string(captured.msg)
	assert.Contains(t, body, "Subject: Your appointment is booked")
	// sprig's title helper capitalizes the patient name
	assert.Contains(t, body, "Alice Smith")
	assert.Contains(t, body, "Token number: 4")
}

func TestEmailService_UnknownTemplate(t *testing.T) {
	svc, _ := newTestEmailService(t, nil)

	err := svc.SendTemplate(context.Background(), "a@b.c", "subj", "no_such_template", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestEmailService_DisabledSkipsSend(t *testing.T) {
	svc, captured := newTestEmailService(t, nil)
	svc.cfg.Enabled = false

	err := svc.SendTemplate(context.Background(), "a@b.c", "subj", "generic", map[string]any{"Body": "hi"})
	require.NoError(t, err)
	assert.Empty(t, captured.to)
}

func TestEmailService_BreakerOpens(t *testing.T) {
	svc, _ := newTestEmailService(t, errors.New("connection refused"))

	// Drive the breaker open with repeated failures.
	var lastErr error
	for i := 0; i < 10; i++ {
		lastErr = svc.SendTemplate(context.Background(), "a@b.c", "subj", "generic", map[string]any{"Body": "hi"})
	}

	require.Error(t, lastErr)
	assert.ErrorIs(t, lastErr, apperrors.ErrServiceUnavailable)
	assert.True(t, svc.breaker.IsOpen())
}

func TestEmailService_SendFailureWrapped(t *testing.T) {
	svc, _ := newTestEmailService(t, errors.New("550 mailbox unavailable"))

	err := svc.SendTemplate(context.Background(), "a@b.c", "subj", "generic", map[string]any{"Body": "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Contains(t, err.Error(), "550")
}
