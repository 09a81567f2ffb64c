package domain

import "errors"

// Error taxonomy surfaced by the core services. Callers branch with
// errors.Is; everything else is an internal failure.
var (
	// ErrInvalidInput: the request itself is malformed (bad id, bad
	// date, out-of-range count). Non-retryable without changes.
	ErrInvalidInput = errors.New("invalid request input")

	// ErrNotFound: an entity id did not resolve. Non-retryable.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized: the acting user does not own the resource.
	ErrUnauthorized = errors.New("resource does not belong to this user")

	// ErrInvalidState: the operation is not legal from the booking's
	// current lifecycle state.
	ErrInvalidState = errors.New("operation not allowed in current booking state")

	// ErrExpired: the 10-minute hold window has passed; the caller
	// must restart the booking flow.
	ErrExpired = errors.New("booking has expired")

	// ErrUnavailable: inventory is insufficient for the requested
	// range, or a concurrent hold won the race. Retrying the same
	// request will not help; different dates or rooms might.
	ErrUnavailable = errors.New("room is not available for the requested dates")

	// ErrGateway: the external payment provider failed. Fatal to the
	// enclosing operation.
	ErrGateway = errors.New("payment gateway failure")
)
