package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email.
type WelcomeMessageEmailData struct {
	Email    string
	Username string
}

// EventInvitationEmailData holds data for the invite-link email.
type EventInvitationEmailData struct {
	Email     string
	HostName  string
	EventName string
	EventDate string
	InviteURL string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendEventInvitation(ctx context.Context, data *EventInvitationEmailData) error
}
