package db

import "errors"

// Domain-level database error sentinels.
var (
	// ErrLinkNotFound is returned when no row matches the given url or title.
	ErrLinkNotFound = errors.New("link not found")

	// ErrNotInStatus is returned by guarded transitions when the row exists
	// but has already left the expected status. Callers treat this as an
	// idempotent no-op, not a failure.
	ErrNotInStatus = errors.New("link is not in the expected status")

	// ErrNotApproved is returned when finalizing a download for a row that
	// was concurrently moved out of approved.
	ErrNotApproved = errors.New("link is no longer approved")

	// ErrDuplicateTitle is returned when a download title collides with an
	// existing asset's title.
	ErrDuplicateTitle = errors.New("title already exists")
)
