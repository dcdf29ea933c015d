package domain

import (
	"context"
	"time"
)

// EventStatus is the review status of an event.
type EventStatus string

const (
	StatusRequested EventStatus = "requested"
	StatusApproved  EventStatus = "approved"
	StatusDeclined  EventStatus = "declined"
)

// State is a Brazilian state code, plus the "OL" pseudo-state used for
// online-only events.
type State string

var validStates = map[State]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {},
	"ES": {}, "GO": {}, "MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {},
	"PB": {}, "PR": {}, "PE": {}, "PI": {}, "RJ": {}, "RN": {}, "RS": {},
	"RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {}, "OL": {},
}

// Valid reports whether s is a known state code.
func (s State) Valid() bool {
	_, ok := validStates[s]
	return ok
}

// Currency is an ISO 4217 currency code from the supported set.
type Currency string

const (
	CurrencyBRL Currency = "BRL"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyAUD Currency = "AUD"
	CurrencyCAD Currency = "CAD"
)

var validCurrencies = map[Currency]struct{}{
	CurrencyBRL: {}, CurrencyUSD: {}, CurrencyEUR: {}, CurrencyAUD: {}, CurrencyCAD: {},
}

// Valid reports whether c is a supported currency code.
func (c Currency) Valid() bool {
	_, ok := validCurrencies[c]
	return ok
}

// Localization holds language-specific event content, keyed by language code
// (e.g. "pt-br", "en-us") on the parent event.
// swagger:model Localization
type Localization struct {
	EventEdition     string   `json:"event_edition"`
	Cost             *float64 `json:"cost"`
	Currency         Currency `json:"currency"`
	BannerLink       string   `json:"banner_link"`
	ShortDescription string   `json:"short_description"`
}

// Event is a single schedulable activity: organizer, timing, location or
// online flag, tags, and localized descriptive content.
// swagger:model Event
type Event struct {
	ID               string                  `json:"id"`
	OrganizationName string                  `json:"organization_name"`
	EventName        string                  `json:"event_name"`
	StartDatetime    time.Time               `json:"start_datetime"`
	EndDatetime      time.Time               `json:"end_datetime"`
	Address          *string                 `json:"address"`
	MapsLink         *string                 `json:"maps_link"`
	Online           bool                    `json:"online"`
	EventLink        *string                 `json:"event_link"`
	State            State                   `json:"state"`
	IsFree           bool                    `json:"is_free"`
	Status           EventStatus             `json:"status"`
	Tags             []string                `json:"tags"`
	Intl             map[string]Localization `json:"intl"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// ReviewAction is the decision taken on a submitted event.
type ReviewAction string

const (
	ActionApproved ReviewAction = "approved"
	ActionDeclined ReviewAction = "declined"
)

// EventRepository defines storage for events, including their tag links and
// localizations. Create and Replace persist the whole aggregate in one
// transaction.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// List returns events in primary-key order. A nil status returns all events.
	List(ctx context.Context, status *EventStatus) ([]*Event, error)
	// Replace overwrites every mutable field of the event, replacing all tags
	// and localizations.
	Replace(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status EventStatus) error
	// ExistsSubmission reports whether an event with the same organization,
	// name, and start time already exists.
	ExistsSubmission(ctx context.Context, org, name string, start time.Time) (bool, error)
}

// EventService is the application-facing API over the event catalog.
type EventService interface {
	ListEvents(ctx context.Context, status EventStatus, filter EventFilter) ([]*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	SubmitEvent(ctx context.Context, e *Event) error
	UpdateEvent(ctx context.Context, id string, e *Event) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ReviewEvent(ctx context.Context, id string, action ReviewAction) error
	Calendar(ctx context.Context) ([]CalendarDay, error)
}
