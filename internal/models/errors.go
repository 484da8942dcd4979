package models

import "errors"

// Error taxonomy shared across services. Handlers map these to HTTP statuses
// with errors.Is, so services should wrap them rather than return them bare.
var (
	// ErrNotFound means a referenced tour, event type or order does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the request was well-formed but semantically invalid
	// (empty cart at checkout, unresolved customer, bad quantity).
	ErrValidation = errors.New("validation failed")

	// ErrUpstreamUnavailable means the catalog, scheduling service or payment
	// provider could not be reached or answered with a non-success status.
	// Callers may retry.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrPaymentNotCompleted means the payment provider did not report the
	// capture as COMPLETED. No local state was changed.
	ErrPaymentNotCompleted = errors.New("payment not completed")

	// ErrBadRequest means a tour or scheduling mapping went missing between
	// order creation and reconciliation.
	ErrBadRequest = errors.New("bad request")
)
