package services

import (
	"context"
	"fmt"
	"log/slog"

	"techcalendar/internal/domain"
)

type emailService struct {
	mailer       domain.Mailer
	renderer     domain.EmailTemplateRenderer
	staffAddress string
	logger       *slog.Logger
}

// NewEmailService returns an EmailService that notifies the configured staff
// address using the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, staffAddress string, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, staffAddress: staffAddress, logger: logger}
}

// SendSubmissionNotice emails the staff address about a newly submitted event
// using the "submission_notice" template.
func (s *emailService) SendSubmissionNotice(ctx context.Context, data *domain.SubmissionNoticeData) error {
	if data == nil {
		return fmt.Errorf("submission notice data is nil")
	}
	if s.staffAddress == "" {
		return nil
	}
	subject, htmlBody, textBody, err := s.renderer.Render("submission_notice", data)
	if err != nil {
		return fmt.Errorf("failed to render submission_notice template: %w", err)
	}
	if err := s.mailer.Send(s.staffAddress, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send submission notice: %w", err)
	}
	s.logger.Info("submission notice sent", "to", s.staffAddress, "event_id", data.EventID)
	return nil
}
