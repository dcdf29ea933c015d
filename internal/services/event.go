package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"techcalendar/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService creates the catalog's EventService. emailService may be nil
// to disable submission notices.
func NewEventService(eventRepo domain.EventRepository, emailService domain.EmailService, logger *slog.Logger, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListEvents(ctx context.Context, status domain.EventStatus, filter domain.EventFilter) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx, &status)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return domain.FilterEvents(events, filter), nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) SubmitEvent(ctx context.Context, e *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEvent(e); err != nil {
		return err
	}
	e.Tags = normalizeTags(e.Tags)

	exists, err := s.eventRepo.ExistsSubmission(ctx, e.OrganizationName, e.EventName, e.StartDatetime)
	if err != nil {
		return fmt.Errorf("check duplicate submission: %w", err)
	}
	if exists {
		return domain.ErrDuplicateEvent
	}

	now := time.Now()
	e.Status = domain.StatusRequested
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, e); err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	if s.emailService != nil {
		notice := &domain.SubmissionNoticeData{
			EventName:        e.EventName,
			OrganizationName: e.OrganizationName,
			StartDatetime:    e.StartDatetime.Format(time.RFC3339),
			EventID:          e.ID,
		}
		if err := s.emailService.SendSubmissionNotice(ctx, notice); err != nil {
			s.logger.Warn("submission notice failed", "event_id", e.ID, "err", err)
		}
	}
	return nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, e *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if err := validateEvent(e); err != nil {
		return nil, err
	}
	e.ID = existing.ID
	e.Status = existing.Status
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = time.Now()
	e.Tags = normalizeTags(e.Tags)

	if err := s.eventRepo.Replace(ctx, e); err != nil {
		return nil, fmt.Errorf("replace event: %w", err)
	}
	updated, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ReviewEvent(ctx context.Context, id string, action domain.ReviewAction) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	switch action {
	case domain.ActionApproved:
		if err := s.eventRepo.UpdateStatus(ctx, event.ID, domain.StatusApproved); err != nil {
			return fmt.Errorf("approve event: %w", err)
		}
	case domain.ActionDeclined:
		// Declined events are deleted rather than retained.
		if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
			return fmt.Errorf("decline event: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown review action %q", domain.ErrInvalidInput, action)
	}
	return nil
}

func (s *eventService) Calendar(ctx context.Context) ([]domain.CalendarDay, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	status := domain.StatusApproved
	events, err := s.eventRepo.List(ctx, &status)
	if err != nil {
		return nil, fmt.Errorf("list approved events: %w", err)
	}
	return domain.AggregateCalendar(events), nil
}

func validateEvent(e *domain.Event) error {
	if strings.TrimSpace(e.OrganizationName) == "" {
		return fmt.Errorf("%w: organization_name is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(e.EventName) == "" {
		return fmt.Errorf("%w: event_name is required", domain.ErrInvalidInput)
	}
	if e.EndDatetime.Before(e.StartDatetime) {
		return fmt.Errorf("%w: end_datetime before start_datetime", domain.ErrInvalidInput)
	}
	if e.State == "" {
		// Online events live in the "OL" pseudo-state.
		if e.Online {
			e.State = "OL"
		} else {
			e.State = "SC"
		}
	}
	if !e.State.Valid() {
		return fmt.Errorf("%w: unknown state code %q", domain.ErrInvalidInput, e.State)
	}
	for lang, loc := range e.Intl {
		if loc.Currency == "" {
			loc.Currency = "BRL"
			e.Intl[lang] = loc
		}
		if !loc.Currency.Valid() {
			return fmt.Errorf("%w: unknown currency code %q", domain.ErrInvalidInput, loc.Currency)
		}
		if loc.Cost != nil && *loc.Cost < 0 {
			return fmt.Errorf("%w: cost must not be negative", domain.ErrInvalidInput)
		}
	}
	return nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
