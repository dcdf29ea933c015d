package domain

import "context"

// Mailer sends an email. Implementations must not block serving on failure;
// callers treat errors as log-and-continue.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template into subject, HTML,
// and plain-text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// SubmissionNoticeData is the template data for the email sent to staff when
// a new event is submitted for review.
type SubmissionNoticeData struct {
	EventName        string
	OrganizationName string
	StartDatetime    string
	EventID          string
}

// EmailService sends catalog-related notification emails.
type EmailService interface {
	SendSubmissionNotice(ctx context.Context, data *SubmissionNoticeData) error
}
