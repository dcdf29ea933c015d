package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"techcalendar/internal/delivery/http/helpers"
	"techcalendar/internal/domain"
)

// EventRequest is the request body for POST /events/submit and PUT /events/{eventID}.
type EventRequest struct {
	OrganizationName string                         `json:"organization_name"`
	EventName        string                         `json:"event_name"`
	StartDatetime    time.Time                      `json:"start_datetime"`
	EndDatetime      time.Time                      `json:"end_datetime"`
	Address          *string                        `json:"address"`
	MapsLink         *string                        `json:"maps_link"`
	Online           bool                           `json:"online"`
	EventLink        *string                        `json:"event_link"`
	State            string                         `json:"state"`
	IsFree           bool                           `json:"is_free"`
	Tags             []string                       `json:"tags"`
	Intl             map[string]domain.Localization `json:"intl"`
}

// Validate implements Validator. Returns error messages for required fields.
// Enum codes and date ordering are validated by the service layer.
func (e EventRequest) Validate() []string {
	var errs []string
	if e.OrganizationName == "" {
		errs = append(errs, "organization_name is required")
	}
	if e.EventName == "" {
		errs = append(errs, "event_name is required")
	}
	if e.StartDatetime.IsZero() {
		errs = append(errs, "start_datetime is required")
	}
	if e.EndDatetime.IsZero() {
		errs = append(errs, "end_datetime is required")
	}
	return errs
}

// ToDomain maps the request body to a domain event. Server-managed fields
// (id, status, timestamps) are left zero.
func (e EventRequest) ToDomain() *domain.Event {
	return &domain.Event{
		OrganizationName: e.OrganizationName,
		EventName:        e.EventName,
		StartDatetime:    e.StartDatetime,
		EndDatetime:      e.EndDatetime,
		Address:          e.Address,
		MapsLink:         e.MapsLink,
		Online:           e.Online,
		EventLink:        e.EventLink,
		State:            domain.State(e.State),
		IsFree:           e.IsFree,
		Tags:             e.Tags,
		Intl:             e.Intl,
	}
}

// ReviewRequest is the request body for POST /events/submit/{eventID}.
type ReviewRequest struct {
	Action string `json:"action"`
}

// Validate implements Validator.
func (r ReviewRequest) Validate() []string {
	switch domain.ReviewAction(r.Action) {
	case domain.ActionApproved, domain.ActionDeclined:
		return nil
	}
	return []string{"action must be \"approved\" or \"declined\""}
}

// EventListSuccessResponse is the success envelope for event list endpoints (200).
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventSuccessResponse is the success envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CalendarSuccessResponse is the success envelope for GET /events/calendar (200).
type CalendarSuccessResponse struct {
	Data  []domain.CalendarDay `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// TagListSuccessResponse is the success envelope for GET /tags (200).
type TagListSuccessResponse struct {
	Data  []*domain.Tag     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Tags    domain.TagRepository
}

func NewEventController(logger *slog.Logger, svc domain.EventService, tags domain.TagRepository) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Tags:    tags,
	}
}

// writeServiceError maps domain sentinel errors to HTTP statuses. Anything
// unrecognized is logged and reported as a 500.
func (c *EventController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrDuplicateEvent):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// ListEvents godoc
// @Summary List approved events
// @Description Returns approved events filtered by the query parameters. Unknown state or currency codes yield 400; malformed values for the remaining filter parameters are ignored.
// @Tags events
// @Produce json
// @Param tags query string false "Comma-separated tag names, any match"
// @Param name query string false "Case-insensitive substring of event_name"
// @Param org query string false "Case-insensitive substring of organization_name"
// @Param address query string false "Case-insensitive substring of address"
// @Param online query bool false "Online events only (or in-person only when false)"
// @Param is_free query bool false "Free events only (or paid only when false)"
// @Param state query string false "State code (e.g. SP, RJ, OL)"
// @Param currency query string false "Currency code (BRL, USD, EUR, AUD, CAD)"
// @Param price_min query number false "Minimum localized cost"
// @Param price_max query number false "Maximum localized cost"
// @Param date_from query string false "Events starting on or after this date (YYYY-MM-DD)"
// @Param date_start_range query string false "Range lower bound (YYYY-MM-DD, requires date_end_range)"
// @Param date_end_range query string false "Range upper bound (YYYY-MM-DD, requires date_start_range)"
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the matching events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	c.listByStatus(w, r, domain.StatusApproved)
}

// ListReviewQueue godoc
// @Summary List events pending review
// @Description Returns submitted events awaiting a review decision, filtered by the same query parameters as GET /events.
// @Tags review
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the pending events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/submit/review [get]
func (c *EventController) ListReviewQueue(w http.ResponseWriter, r *http.Request) {
	c.listByStatus(w, r, domain.StatusRequested)
}

func (c *EventController) listByStatus(w http.ResponseWriter, r *http.Request, status domain.EventStatus) {
	filter, err := helpers.ParseEventFilter(r.URL.Query())
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	events, err := c.Service.ListEvents(r.Context(), status, filter)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Calendar godoc
// @Summary Calendar view of approved events
// @Description Groups approved events by the UTC calendar date they start on, sorted by date ascending.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.CalendarSuccessResponse "data contains one entry per date with event IDs"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/calendar [get]
func (c *EventController) Calendar(w http.ResponseWriter, r *http.Request) {
	days, err := c.Service.Calendar(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	if days == nil {
		days = []domain.CalendarDay{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, days)
}

// SubmitEvent godoc
// @Summary Submit an event for review
// @Description Creates the event with status "requested". A submission matching an existing event on organization, name, and start time is rejected with 409 and nothing is written.
// @Tags events
// @Accept json
// @Produce json
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/submit [post]
func (c *EventController) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.ToDomain()
	if err := c.Service.SubmitEvent(r.Context(), event); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ReviewEvent godoc
// @Summary Decide on a submitted event
// @Description Approving flips the event to "approved". Declining deletes the event.
// @Tags review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param decision body ReviewRequest true "Review decision"
// @Success 200 {object} helpers.APIResponse "data contains the applied action"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/submit/{eventID} [post]
func (c *EventController) ReviewEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req ReviewRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	action := domain.ReviewAction(req.Action)
	if err := c.Service.ReviewEvent(r.Context(), eventID, action); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"action": req.Action})
}

// UpdateEvent godoc
// @Summary Replace an event
// @Description Fully replaces the event's mutable fields, including its tags and localizations. Review status and timestamps of record creation are preserved.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body EventRequest true "Replacement event data"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	updated, err := c.Service.UpdateEvent(r.Context(), eventID, req.ToDomain())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "no content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEventTags godoc
// @Summary List the tags of one event
// @Tags tags
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.TagListSuccessResponse "data contains the event's tags"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/tags [get]
func (c *EventController) ListEventTags(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if _, err := c.Service.GetEvent(r.Context(), eventID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	tags, err := c.Tags.ListTagsByEventID(r.Context(), eventID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	if tags == nil {
		tags = []*domain.Tag{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tags)
}

// ListTags godoc
// @Summary List all tags
// @Description Returns every known tag ordered by name.
// @Tags tags
// @Produce json
// @Success 200 {object} controllers.TagListSuccessResponse "data contains the tags"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags [get]
func (c *EventController) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := c.Tags.ListTags(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	if tags == nil {
		tags = []*domain.Tag{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tags)
}
