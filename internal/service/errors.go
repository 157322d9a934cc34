package service

import "errors"

// Failure taxonomy shared by the service layer. Handlers translate these
// into transport status codes; services never see transport concerns.
var (
	// ErrNotFound signals that a referenced item or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput signals malformed or out-of-range caller input,
	// distinct from a well-formed reference to a missing record.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable signals that the upstream catalog failed or
	// timed out. Safe to retry from the caller's side.
	ErrUpstreamUnavailable = errors.New("upstream catalog unavailable")
)
