package domain

import "errors"

// ErrNotFound is returned when a record does not exist. It is distinct from
// an empty list result.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEvent is returned when a submission matches an existing event
// on (organization_name, event_name, start_datetime).
var ErrDuplicateEvent = errors.New("event already exists with the same name, organization, and start date")

// ErrInvalidInput is returned for values that fail validation, such as an
// unknown state or currency code.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidCredentials is returned when a login attempt does not match the
// configured staff credentials.
var ErrInvalidCredentials = errors.New("invalid credentials")
