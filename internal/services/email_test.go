package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joiny/internal/domain"
)

type recordingMailer struct {
	to, subject string
	err         error
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, html, text string) error {
	m.to, m.subject = to, subject
	return m.err
}

type stubRenderer struct {
	err error
}

func (r stubRenderer) Render(name string, data any) (string, string, string, error) {
	if r.err != nil {
		return "", "", "", r.err
	}
	return "subject:" + name, "<p>" + name + "</p>", name, nil
}

func TestEmailService_SendEventInvitation(t *testing.T) {
	ctx := context.Background()
	data := &domain.EventInvitationEmailData{Email: "bob@example.com", EventName: "Party"}

	t.Run("renders and sends", func(t *testing.T) {
		mailer := &recordingMailer{}
		svc := NewEmailService(mailer, stubRenderer{}, nil)
		require.NoError(t, svc.SendEventInvitation(ctx, data))
		assert.Equal(t, "bob@example.com", mailer.to)
		assert.Equal(t, "subject:event_invitation", mailer.subject)
	})

	t.Run("render error", func(t *testing.T) {
		svc := NewEmailService(&recordingMailer{}, stubRenderer{err: errors.New("missing template")}, nil)
		require.Error(t, svc.SendEventInvitation(ctx, data))
	})

	t.Run("mailer error", func(t *testing.T) {
		boom := errors.New("throttled")
		svc := NewEmailService(&recordingMailer{err: boom}, stubRenderer{}, nil)
		require.ErrorIs(t, svc.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{Email: "a@example.com"}), boom)
	})

	t.Run("nil data", func(t *testing.T) {
		svc := NewEmailService(&recordingMailer{}, stubRenderer{}, nil)
		require.Error(t, svc.SendEventInvitation(ctx, nil))
	})
}
