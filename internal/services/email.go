package services

import (
	"context"
	"fmt"
	"log/slog"

	"joiny/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendWelcomeMessage sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	return s.send(ctx, "welcome", data.Email, data)
}

// SendEventInvitation sends the invite link using the "event_invitation" template.
func (s *emailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("event invitation data is nil")
	}
	return s.send(ctx, "event_invitation", data.Email, data)
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template, "to", to)
	return nil
}
