package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrStaleState is the expected outcome of losing a conditional status
	// transition to a concurrent writer. It is absorbed inside the
	// reconciliation engine and never surfaces to callers as a failure.
	ErrStaleState = errors.New("stale state")

	// ErrUnavailable marks transient store failures; the caller may safely
	// retry the whole operation because submission is idempotent.
	ErrUnavailable = errors.New("store unavailable")
)
